package cli

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"signadmin/internal/icalx"
)

func newExportCommand(ctx context.Context, loadApp func() (*app, error)) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the sign's events as an iCalendar feed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			events, err := a.session.LoadEvents(ctx)
			if err != nil {
				return err
			}
			recurring, err := a.session.LoadRecurring(ctx)
			if err != nil {
				return err
			}

			feed := icalx.ExportCalendar(events, recurring, time.Now().In(a.loc))

			if outPath == "" {
				cmd.Print(feed)
				return nil
			}
			if err := os.WriteFile(outPath, []byte(feed), 0o644); err != nil {
				return err
			}
			cmd.Printf("wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the feed to this path instead of stdout")

	return cmd
}

package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"signadmin/internal/tui"
)

func newWatchCommand(ctx context.Context, loadApp func() (*app, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the sign live in the terminal and step through event frames.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			m := tui.NewModel(ctx, a.session, a.renderer, a.loc)
			if _, err := tea.NewProgram(m).Run(); err != nil {
				return fmt.Errorf("run TUI: %w", err)
			}
			return nil
		},
	}
}

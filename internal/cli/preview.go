package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"signadmin/internal/canvas"
	"signadmin/internal/scene"
)

func newPreviewCommand(ctx context.Context, loadApp func() (*app, error)) *cobra.Command {
	var (
		eventIndex     int
		recurringIndex int
		itemName       string
		outPath        string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render one matrix frame to the terminal or to a PNG file.",
		Long: "Renders the frame the sign would display right now, or a chosen\n" +
			"event, recurring event, or schedule item. Without --out the frame is\n" +
			"drawn in the terminal with half-block glyphs.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			frame := canvas.NewMatrixFrame()
			if err := renderSelected(ctx, a, frame, eventIndex, recurringIndex, itemName); err != nil {
				return err
			}

			if outPath == "" {
				sink := &canvas.TermSink{W: cmd.OutOrStdout()}
				return frame.Flush(sink)
			}

			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			defer f.Close()
			sink := &canvas.PNGSink{W: f, Scale: a.cfg.PreviewScale}
			if err := frame.Flush(sink); err != nil {
				return err
			}
			cmd.Printf("wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().IntVar(&eventIndex, "event", -1, "Render dated event by index")
	cmd.Flags().IntVar(&recurringIndex, "recurring", -1, "Render recurring event by index")
	cmd.Flags().StringVar(&itemName, "item", "", "Render schedule item by name")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write a PNG to this path instead of the terminal")

	return cmd
}

// renderSelected draws the requested frame, defaulting to the live frame
// when no selector flag is given.
func renderSelected(ctx context.Context, a *app, frame *canvas.Frame, eventIndex, recurringIndex int, itemName string) error {
	now := time.Now().In(a.loc)

	switch {
	case eventIndex >= 0:
		events, err := a.session.LoadEvents(ctx)
		if err != nil {
			return err
		}
		if eventIndex >= len(events) {
			return fmt.Errorf("event index %d out of range (%d events)", eventIndex, len(events))
		}
		a.renderer.RenderEventFrame(ctx, frame, scene.ViewOfEvent(events[eventIndex]))

	case recurringIndex >= 0:
		recurring, err := a.session.LoadRecurring(ctx)
		if err != nil {
			return err
		}
		if recurringIndex >= len(recurring) {
			return fmt.Errorf("recurring index %d out of range (%d events)", recurringIndex, len(recurring))
		}
		a.renderer.RenderEventFrame(ctx, frame, scene.ViewOfRecurring(recurring[recurringIndex]))

	case itemName != "":
		sched, err := a.session.LoadScheduleFor(ctx, now)
		if err != nil {
			return err
		}
		minute := now.Hour()*60 + now.Minute()
		for _, it := range sched.Items {
			if it.Name == itemName {
				a.renderer.RenderScheduleFrame(ctx, frame, it, minute)
				return nil
			}
		}
		return fmt.Errorf("no schedule item named %q", itemName)

	default:
		events, err := a.session.LoadEvents(ctx)
		if err != nil {
			return err
		}
		recurring, err := a.session.LoadRecurring(ctx)
		if err != nil {
			return err
		}
		sched, err := a.session.LoadScheduleFor(ctx, now)
		if err != nil {
			return err
		}
		a.renderer.RenderCurrent(ctx, frame, events, recurring, sched.Items, now)
	}

	return nil
}

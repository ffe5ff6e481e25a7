package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"signadmin/internal/dates"
	"signadmin/internal/timeline"
)

var (
	gapStyle     = lipgloss.NewStyle().Faint(true)
	overlapStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	itemStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func newTimelineCommand(ctx context.Context, loadApp func() (*app, error)) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Print the schedule timeline for a day: items, overlaps, and free gaps.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			day := time.Now().In(a.loc)
			if dateFlag != "" {
				day, err = dates.ParseISODate(dateFlag)
				if err != nil {
					return fmt.Errorf("bad --date: %w", err)
				}
			}

			sched, err := a.session.LoadScheduleFor(ctx, day)
			if err != nil {
				return err
			}

			cmd.Printf("%s (%s)\n", dates.FormatISODate(day), day.Weekday())
			for _, e := range timeline.BuildDay(sched.Items, dates.WeekdayIndex(day)) {
				window := fmt.Sprintf("%s - %s", clock(e.StartMinute), clock(e.EndMinute))
				switch {
				case e.Kind == timeline.EntryGap:
					cmd.Printf("  %s  %s\n", window, gapStyle.Render("(free)"))
				case e.Overlapping:
					cmd.Printf("  %s  %s\n", window, overlapStyle.Render(e.Item.Name+" (overlap)"))
				default:
					cmd.Printf("  %s  %s\n", window, itemStyle.Render(e.Item.Name))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Target date in YYYY-MM-DD (default: today)")

	return cmd
}

func clock(minuteOfDay int) string {
	return fmt.Sprintf("%02d:%02d", minuteOfDay/60, minuteOfDay%60)
}

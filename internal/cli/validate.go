package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"signadmin/internal/validate"
)

var (
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	infoStyle = lipgloss.NewStyle().Faint(true)
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func newValidateCommand(ctx context.Context, loadApp func() (*app, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the sign data files and report problems.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}

			report, err := a.session.Validate(ctx, time.Now().In(a.loc))
			if err != nil {
				return err
			}

			printIssues(cmd, errStyle.Render("error"), report.Errors)
			printIssues(cmd, warnStyle.Render("warning"), report.Warnings)
			printIssues(cmd, infoStyle.Render("info"), report.Infos)

			if report.Clean() {
				cmd.Println(okStyle.Render("all checks passed"))
				return nil
			}
			if len(report.Errors) > 0 {
				return fmt.Errorf("%d error(s) found", len(report.Errors))
			}
			return nil
		},
	}
}

func printIssues(cmd *cobra.Command, label string, issues []validate.Issue) {
	for _, issue := range issues {
		cmd.Printf("%s  %s: %s\n", label, issue.Subject, issue.Message)
	}
}

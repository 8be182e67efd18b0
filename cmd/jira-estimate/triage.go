package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ylchen07/jira-estimate/internal/jql"
	"github.com/ylchen07/jira-estimate/internal/state"
	"github.com/ylchen07/jira-estimate/internal/triage"
)

func newTriageCmd(a *app) *cobra.Command {
	var (
		filter     jql.Filter
		accessible bool
	)

	cmd := &cobra.Command{
		Use:   "triage",
		Short: "Interactively size and prioritize unestimated issues",
		Long: "Walks the unestimated issues one by one. Choosing clear skips an issue, " +
			"cancel (or ctrl+c) stops the session. --timeout does not apply while prompting.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(); err != nil {
				return err
			}

			runner := triage.NewRunner(a.client, triage.FormAsker{Accessible: accessible}, state.NewSession(), a.logger)
			summary, err := runner.Run(cmd.Context(), filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, mutedStyle.Render(summary.JQL))
			fmt.Fprintf(out, "%d issues: %d updated, %d skipped, %d failed\n",
				summary.Total, summary.Updated, summary.Skipped, summary.Failed)
			if summary.Canceled {
				fmt.Fprintln(out, mutedStyle.Render("canceled before the last issue"))
			}
			for _, o := range runner.Session().Outcomes() {
				if o.Outcome == state.OutcomeFailed {
					fmt.Fprintf(out, "failed: %s\n", a.client.IssueURL(o.Issue))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&filter.Component, "component", "", "Only issues in this component")
	cmd.Flags().StringVar(&filter.Assignee, "assignee", "", "Only issues assigned to this user")
	cmd.Flags().StringVar(&filter.Developer, "developer", "", "Only issues with this developer")
	cmd.Flags().BoolVar(&accessible, "accessible", false, "Use plain line prompts")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ylchen07/jira-estimate/internal/estimate"
	"github.com/ylchen07/jira-estimate/internal/jql"
	"github.com/ylchen07/jira-estimate/internal/schema"
)

type searchOutput struct {
	JQL    string         `json:"jql"`
	Issues []estimate.Row `json:"issues"`
}

func (a *app) printResult(cmd *cobra.Command, res estimate.Result, asJSON bool) error {
	rows := make([]estimate.Row, 0, len(res.Issues))
	for _, issue := range res.Issues {
		rows = append(rows, a.client.Summarize(issue))
	}

	if asJSON {
		return printJSON(cmd.OutOrStdout(), searchOutput{JQL: res.JQL, Issues: rows})
	}
	fmt.Fprintln(cmd.ErrOrStderr(), mutedStyle.Render(res.JQL))
	printRows(cmd.OutOrStdout(), rows)
	return nil
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client and tracker versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			ctx, cancel := a.deadline(cmd.Context())
			defer cancel()

			server, err := a.client.ServiceVersion(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "jira-estimate %s\ntracker %s\n", version, server)
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var (
		filter jql.Filter
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List open issues missing story points or priority",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			ctx, cancel := a.deadline(cmd.Context())
			defer cancel()

			res, err := a.client.SearchByFilter(ctx, filter)
			if err != nil {
				return err
			}
			return a.printResult(cmd, res, asJSON)
		},
	}

	cmd.Flags().StringVar(&filter.Component, "component", "", "Only issues in this component")
	cmd.Flags().StringVar(&filter.Assignee, "assignee", "", "Only issues assigned to this user")
	cmd.Flags().StringVar(&filter.Developer, "developer", "", "Only issues with this developer")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show ISSUE...",
		Short: "Show the listed issues",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			ctx, cancel := a.deadline(cmd.Context())
			defer cancel()

			res, err := a.client.SearchByIDs(ctx, args)
			if err != nil {
				return err
			}
			return a.printResult(cmd, res, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func newTransitionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "transitions ISSUE",
		Short: "Show the translation table of an issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := schema.ParseIssueID(args[0])
			if err != nil {
				return err
			}
			if err := a.setup(); err != nil {
				return err
			}
			ctx, cancel := a.deadline(cmd.Context())
			defer cancel()

			table, err := a.client.Translations(ctx, id.String())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, keyStyle.Render("Status"))
			for _, s := range table.Status {
				fmt.Fprintf(out, "  %-6d %s\n", s.ID, s.Label())
			}
			fmt.Fprintln(out, keyStyle.Render("Priority"))
			for _, p := range table.Priority {
				fmt.Fprintf(out, "  %-6d %s\n", p.ID, p.Label())
			}
			fmt.Fprintln(out, keyStyle.Render("Type"))
			for _, t := range table.Type {
				fmt.Fprintf(out, "  %-6d %s %s\n", t.ID, t.Symbol(), t.Name)
			}
			return nil
		},
	}
}

func newFieldsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fields ISSUE",
		Short: "Show the edit metadata of the estimate fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := schema.ParseIssueID(args[0])
			if err != nil {
				return err
			}
			if err := a.setup(); err != nil {
				return err
			}
			ctx, cancel := a.deadline(cmd.Context())
			defer cancel()

			custom, err := a.client.CustomFields(ctx, id.String())
			if err != nil {
				return err
			}

			keys := a.client.Fields()
			out := cmd.OutOrStdout()
			for _, f := range []struct {
				key string
				raw string
				ok  bool
			}{
				{key: keys.StoryPoints, raw: custom.StoryPoints.Raw, ok: custom.StoryPoints.Exists()},
				{key: keys.Priority, raw: custom.Priority.Raw, ok: custom.Priority.Exists()},
			} {
				if !f.ok {
					fmt.Fprintf(out, "%s %s\n", keyStyle.Render(f.key), mutedStyle.Render("not editable"))
					continue
				}
				fmt.Fprintf(out, "%s %s\n", keyStyle.Render(f.key), f.raw)
			}
			return nil
		},
	}
}

func newSetCmd(a *app) *cobra.Command {
	var sizeArg, priorityArg string

	cmd := &cobra.Command{
		Use:   "set ISSUE --size N --priority NAME",
		Short: "Write story points and priority to an issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := schema.ParseIssueID(args[0])
			if err != nil {
				return err
			}
			size, err := schema.ParseSize(sizeArg)
			if err != nil {
				return err
			}
			priority, err := schema.ParsePriority(priorityArg)
			if err != nil {
				return err
			}
			if err := a.setup(); err != nil {
				return err
			}
			ctx, cancel := a.deadline(cmd.Context())
			defer cancel()

			if err := a.client.UpdateEstimate(ctx, id.String(), priority, size); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s size %s priority %s\n%s\n",
				id, size.Label(), priority.Label(), a.client.IssueURL(id.String()))
			return nil
		},
	}

	cmd.Flags().StringVar(&sizeArg, "size", "", "Story points (1, 2, 3, 5, 8 or 13)")
	cmd.Flags().StringVar(&priorityArg, "priority", "", "Priority name or id (e.g. Major or 3)")
	_ = cmd.MarkFlagRequired("size")
	_ = cmd.MarkFlagRequired("priority")
	return cmd
}

func newURLCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "url ISSUE",
		Short: "Print the browse link of an issue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := schema.ParseIssueID(args[0])
			if err != nil {
				return err
			}
			if err := a.setup(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.client.IssueURL(id.String()))
			return nil
		},
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ylchen07/jira-estimate/internal/config"
	"github.com/ylchen07/jira-estimate/internal/estimate"
	"github.com/ylchen07/jira-estimate/internal/jira"
	"github.com/ylchen07/jira-estimate/internal/translate"
	"github.com/ylchen07/jira-estimate/pkg/logging"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	out       io.Writer
	errOut    io.Writer
	cfgPath   string
	logLevel  string
	logFormat string
	timeout   time.Duration

	cfg    *config.Config
	logger *slog.Logger
	client *estimate.Client

	// newTracker is replaced in tests.
	newTracker func(cfg config.JiraConfig, logger *slog.Logger) (estimate.Tracker, error)
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	return newApp(out, errOut).rootCmd()
}

func newApp(out, errOut io.Writer) *app {
	return &app{
		out:    out,
		errOut: errOut,
		newTracker: func(cfg config.JiraConfig, logger *slog.Logger) (estimate.Tracker, error) {
			return jira.NewTracker(cfg, logger)
		},
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "jira-estimate",
		Short:         "Find unestimated Jira issues and set their story points and priority",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgPath, "config", "", "Path to configuration directory or file")
	flags.StringVar(&a.logLevel, "log-level", "", "Override server.log_level (debug, info, warn, error)")
	flags.StringVar(&a.logFormat, "log-format", logging.FormatJSON, "Log output format (json, text)")
	flags.DurationVar(&a.timeout, "timeout", 30*time.Second, "Deadline for each tracker call sequence")

	root.AddCommand(
		newVersionCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newTransitionsCmd(a),
		newFieldsCmd(a),
		newSetCmd(a),
		newURLCmd(a),
		newTriageCmd(a),
		newServeCmd(a),
		newLoginCmd(a),
	)

	return root
}

// setup loads configuration and builds the estimate client once.
func (a *app) setup() error {
	if a.client != nil {
		return nil
	}

	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	level := cfg.Server.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	logger := logging.NewWithWriter(a.errOut, level, a.logFormat)

	cfg.Jira.Site = ensureHTTPS(cfg.Jira.Site)
	tracker, err := a.newTracker(cfg.Jira, logger)
	if err != nil {
		return fmt.Errorf("initialize jira tracker: %w", err)
	}

	client, err := estimate.New(tracker, estimate.Options{
		Site: cfg.Jira.Site,
		Fields: translate.Fields{
			StoryPoints: cfg.Jira.Fields.StoryPoints,
			Priority:    cfg.Jira.Fields.Priority,
		},
		Project:          cfg.Jira.Project,
		StoryPointsLabel: cfg.Jira.Fields.StoryPointsLabel,
		Logger:           logger,
	})
	if err != nil {
		return err
	}

	a.cfg, a.logger, a.client = cfg, logger, client
	return nil
}

// deadline returns a context bounded by --timeout. A zero timeout means no deadline.
func (a *app) deadline(parent context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, a.timeout)
}

func ensureHTTPS(site string) string {
	trimmed := strings.TrimSpace(site)
	if trimmed == "" {
		return ""
	}

	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return strings.TrimRight(trimmed, "/")
	}

	return "https://" + strings.TrimRight(trimmed, "/")
}

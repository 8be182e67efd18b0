// Package integration holds read-only tests against a live tracker. They run
// with -tags integration and ESTIMATE_INTEGRATION set, using the same
// JIRA_ESTIMATE_* configuration as the CLI.
package integration

import (
	"os"
	"strings"
	"testing"

	"github.com/ylchen07/jira-estimate/internal/config"
	"github.com/ylchen07/jira-estimate/internal/estimate"
	"github.com/ylchen07/jira-estimate/internal/jira"
	"github.com/ylchen07/jira-estimate/internal/translate"
)

// requireIntegration skips the test if ESTIMATE_INTEGRATION is not set.
func requireIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("ESTIMATE_INTEGRATION") == "" {
		t.Skip("ESTIMATE_INTEGRATION not set; skipping integration tests")
	}
}

// loadConfig resolves configuration from ESTIMATE_CONFIG (file or directory)
// and the environment. The test is skipped when nothing usable is configured.
func loadConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg, err := config.Load(strings.TrimSpace(os.Getenv("ESTIMATE_CONFIG")))
	if err != nil {
		t.Skipf("tracker configuration unavailable: %v", err)
	}
	if !strings.HasPrefix(cfg.Jira.Site, "http://") && !strings.HasPrefix(cfg.Jira.Site, "https://") {
		cfg.Jira.Site = "https://" + cfg.Jira.Site
	}
	cfg.Jira.Site = strings.TrimRight(cfg.Jira.Site, "/")
	return cfg
}

// setupClient builds an estimate client on the named backend.
func setupClient(t *testing.T, backend string) *estimate.Client {
	t.Helper()

	cfg := loadConfig(t)
	cfg.Jira.Backend = backend

	tracker, err := jira.NewTracker(cfg.Jira, nil)
	if err != nil {
		t.Fatalf("NewTracker(%s): %v", backend, err)
	}

	client, err := estimate.New(tracker, estimate.Options{
		Site:             cfg.Jira.Site,
		Fields:           translate.Fields{StoryPoints: cfg.Jira.Fields.StoryPoints, Priority: cfg.Jira.Fields.Priority},
		Project:          cfg.Jira.Project,
		StoryPointsLabel: cfg.Jira.Fields.StoryPointsLabel,
	})
	if err != nil {
		t.Fatalf("estimate.New: %v", err)
	}
	return client
}

// backends lists the tracker implementations every test runs against.
var backends = []string{config.BackendSDK, config.BackendREST}

// skipIfEmpty skips the test if the provided slice is empty with a helpful message.
func skipIfEmpty[T any](t *testing.T, items []T, itemType string) {
	t.Helper()
	if len(items) == 0 {
		t.Skipf("no %s found; cannot proceed with test", itemType)
	}
}

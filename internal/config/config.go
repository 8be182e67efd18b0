// Package config loads jira-estimate settings from a YAML file, the
// environment, ~/.netrc and the OS keyring.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/ylchen07/jira-estimate/internal/credential"
)

// Backend names accepted by jira.backend.
const (
	BackendSDK  = "sdk"
	BackendREST = "rest"
)

// Config represents the full application configuration loaded from file/env.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Jira   JiraConfig   `mapstructure:"jira"`
}

// ServerConfig holds process-wide options.
type ServerConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// JiraConfig describes the tracker site, credentials and field keys.
type JiraConfig struct {
	Site               string `mapstructure:"site"`
	Backend            string `mapstructure:"backend"`
	Project            string `mapstructure:"project"`
	ServiceCredentials `mapstructure:",squash"`
	Fields             FieldsConfig `mapstructure:"fields"`
}

// FieldsConfig names the server-specific keys for estimate fields.
type FieldsConfig struct {
	StoryPoints      string `mapstructure:"story_points"`
	StoryPointsLabel string `mapstructure:"story_points_label"`
	Priority         string `mapstructure:"priority"`
}

// ServiceCredentials describes authentication for the tracker.
type ServiceCredentials struct {
	Email      string `mapstructure:"email"`
	APIToken   string `mapstructure:"api_token"`
	OAuthToken string `mapstructure:"oauth_token"`
}

var defaults = map[string]any{
	"server.log_level":               "info",
	"jira.site":                      "",
	"jira.backend":                   BackendSDK,
	"jira.project":                   "RHEL",
	"jira.email":                     "",
	"jira.api_token":                 "",
	"jira.oauth_token":               "",
	"jira.fields.story_points":       "customfield_12310243",
	"jira.fields.story_points_label": "Story Points",
	"jira.fields.priority":           "priority",
}

// keyringLookup is replaced in tests.
var keyringLookup = credential.Get

// Load reads configuration from the provided directory or file and environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if path != "" {
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			v.AddConfigPath(path)
		} else {
			v.SetConfigFile(path)
		}
	} else {
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("jira_estimate")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about.
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.applyNetrcDefaults(); err != nil {
		return nil, err
	}
	cfg.applyKeyringDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyKeyringDefaults uses a stored personal access token when nothing else is configured.
func (c *Config) applyKeyringDefaults() {
	if c.Jira.hasCredentials() {
		return
	}
	token, err := keyringLookup(credential.TokenKey)
	if err != nil || token == "" {
		return
	}
	c.Jira.OAuthToken = token
}

func (c *Config) validate() error {
	if c.Jira.Site == "" {
		return fmt.Errorf("config: jira.site is required")
	}

	switch c.Jira.Backend {
	case BackendSDK, BackendREST:
	case "":
		c.Jira.Backend = BackendSDK
	default:
		return fmt.Errorf("config: jira.backend must be %q or %q, got %q", BackendSDK, BackendREST, c.Jira.Backend)
	}

	if err := c.Jira.ServiceCredentials.validate("jira"); err != nil {
		return err
	}

	if c.Jira.Fields.StoryPoints == "" || c.Jira.Fields.Priority == "" {
		return fmt.Errorf("config: jira.fields.story_points and jira.fields.priority must not be empty")
	}

	if c.Server.LogLevel == "" {
		c.Server.LogLevel = "info"
	}

	return nil
}

func (s ServiceCredentials) hasCredentials() bool {
	return s.OAuthToken != "" || (s.Email != "" && s.APIToken != "")
}

func (s ServiceCredentials) validate(name string) error {
	if !s.hasCredentials() {
		return fmt.Errorf("config: %s requires either oauth_token or email/api_token", name)
	}
	return nil
}

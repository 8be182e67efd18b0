package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// netrcEntry holds the credentials of one machine block.
type netrcEntry struct {
	Login    string
	Password string
}

const netrcDefault = "default"

// parseNetrc reads a .netrc file into a machine -> entry map.
// A missing file yields no entries and no error.
func parseNetrc(path string) (map[string]netrcEntry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("netrc: read: %w", err)
	}

	return parseNetrcTokens(netrcTokens(string(data))), nil
}

// netrcTokens splits the file into whitespace separated tokens, dropping comment lines.
func netrcTokens(content string) []string {
	var tokens []string
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		tokens = append(tokens, strings.Fields(line)...)
	}
	return tokens
}

func parseNetrcTokens(tokens []string) map[string]netrcEntry {
	entries := make(map[string]netrcEntry)
	machine := ""
	var current netrcEntry

	flush := func() {
		if machine != "" {
			entries[machine] = current
		}
	}

	for i := 0; i < len(tokens); i++ {
		next := ""
		if i+1 < len(tokens) {
			next = tokens[i+1]
		}

		switch tokens[i] {
		case "machine":
			flush()
			machine, current = next, netrcEntry{}
			i++
		case netrcDefault:
			flush()
			machine, current = netrcDefault, netrcEntry{}
		case "login":
			current.Login = next
			i++
		case "password":
			current.Password = next
			i++
		case "account":
			i++
		}
	}
	flush()

	return entries
}

// findNetrcPath checks the NETRC environment variable first, then ~/.netrc.
func findNetrcPath() string {
	if path := os.Getenv("NETRC"); path != "" {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".netrc")
}

// loadNetrcCredentials looks up the site host, then the host without port,
// then the default entry.
func loadNetrcCredentials(site string) (login, password string, err error) {
	path := findNetrcPath()
	if path == "" {
		return "", "", nil
	}

	entries, err := parseNetrc(path)
	if err != nil || len(entries) == 0 {
		return "", "", err
	}

	host := site
	if parsed, perr := url.Parse(site); perr == nil && parsed.Host != "" {
		host = parsed.Host
	}

	candidates := []string{host}
	if bare, _, found := strings.Cut(host, ":"); found {
		candidates = append(candidates, bare)
	}
	candidates = append(candidates, netrcDefault)

	for _, name := range candidates {
		if entry, ok := entries[name]; ok {
			return entry.Login, entry.Password, nil
		}
	}
	return "", "", nil
}

// applyNetrcDefaults fills in missing email/api_token from .netrc if available.
func (c *Config) applyNetrcDefaults() error {
	if c.Jira.Site == "" || c.Jira.Email != "" || c.Jira.APIToken != "" || c.Jira.OAuthToken != "" {
		return nil
	}

	login, password, err := loadNetrcCredentials(c.Jira.Site)
	if err != nil {
		return fmt.Errorf("config: load jira netrc: %w", err)
	}
	if login != "" && password != "" {
		c.Jira.Email = login
		c.Jira.APIToken = password
	}
	return nil
}

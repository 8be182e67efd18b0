package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/ylchen07/jira-estimate/internal/credential"
)

// keyringStore and keyringDelete are replaced in tests.
var (
	keyringStore  = credential.Set
	keyringDelete = credential.Delete
)

func newLoginCmd(_ *app) *cobra.Command {
	var fromStdin bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a personal access token in the OS keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var token string
			if fromStdin {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read token: %w", err)
				}
				token = line
			} else {
				input := huh.NewInput().
					Title("Jira personal access token").
					EchoMode(huh.EchoModePassword).
					Value(&token)
				if err := huh.NewForm(huh.NewGroup(input)).RunWithContext(cmd.Context()); err != nil {
					if errors.Is(err, huh.ErrUserAborted) {
						return nil
					}
					return err
				}
			}

			token = strings.TrimSpace(token)
			if token == "" {
				return errors.New("empty token")
			}
			if err := keyringStore(credential.TokenKey, token); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "token stored")
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromStdin, "stdin", false, "Read the token from standard input")
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := keyringDelete(credential.TokenKey); err != nil && !errors.Is(err, credential.ErrNotFound) {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "token removed")
			return nil
		},
	})
	return cmd
}

// Package credential reads and stores the Jira access token in the operating
// system keyring.
package credential

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const serviceName = "jira-estimate"

// TokenKey is the keyring item holding the personal access token.
const TokenKey = "jira_token"

// ErrNotFound is returned when the keyring holds no item for the key.
var ErrNotFound = errors.New("credential: not found")

// openRing is replaced in tests.
var openRing = openKeyring

func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.KWalletBackend,
		},
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("credential: open keyring: %w", err)
	}
	return ring, nil
}

// Get retrieves a credential value by key.
func Get(key string) (string, error) {
	ring, err := openRing()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("credential: get %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Set stores a credential value by key.
func Set(key, value string) error {
	ring, err := openRing()
	if err != nil {
		return err
	}

	if err := ring.Set(keyring.Item{Key: key, Data: []byte(value), Label: serviceName}); err != nil {
		return fmt.Errorf("credential: set %q: %w", key, err)
	}
	return nil
}

// Delete removes a credential by key.
func Delete(key string) error {
	ring, err := openRing()
	if err != nil {
		return err
	}

	if err := ring.Remove(key); err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("credential: delete %q: %w", key, err)
	}
	return nil
}

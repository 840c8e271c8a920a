package config

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

const (
	keyringService   = "workday"
	keyringTokenItem = "github-token"
)

// SaveGitHubToken stores the token in the OS keychain.
func SaveGitHubToken(token string) error {
	if token == "" {
		return fmt.Errorf("github token cannot be empty")
	}
	if err := keyring.Set(keyringService, keyringTokenItem, token); err != nil {
		return fmt.Errorf("failed to save to OS keychain: %w", err)
	}
	return nil
}

// GitHubTokenFromKeyring returns the stored token, or "" when none is set.
func GitHubTokenFromKeyring() (string, error) {
	token, err := keyring.Get(keyringService, keyringTokenItem)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read from OS keychain: %w", err)
	}
	return token, nil
}

func DeleteGitHubToken() error {
	err := keyring.Delete(keyringService, keyringTokenItem)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("failed to delete from OS keychain: %w", err)
	}
	return nil
}

// applyKeyring fills the token from the keychain when the environment did
// not provide one. A missing or locked keychain is not an error: unauthenticated
// requests still work for public repositories.
func (c *Config) applyKeyring() {
	if c.GitHubToken != "" {
		return
	}
	if token, err := GitHubTokenFromKeyring(); err == nil {
		c.GitHubToken = token
	}
}

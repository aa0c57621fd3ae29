package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"github.com/austinorth/secret-santa/internal/artifact"
	"github.com/austinorth/secret-santa/internal/keyring"
	"github.com/austinorth/secret-santa/internal/vault"
)

// GetPassword retrieves the vault password: environment first, then the OS
// keyring, then an interactive prompt. The caller is responsible for calling
// crypto.ClearBytes on the returned password.
func GetPassword(v *vault.Vault, prompt string) ([]byte, error) {
	if password := passwordFromEnv(); password != nil {
		return password, nil
	}

	if vaultID, err := v.VaultID(); err == nil && vaultID != "" {
		if stored, err := keyring.GetPassword(vaultID); err == nil {
			return []byte(stored), nil
		}
	}

	password, err := ReadPassword(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

// GetPasswordForInit retrieves the password for a brand new vault.
// Checks the environment first, then prompts with confirmation.
func GetPasswordForInit() ([]byte, error) {
	if password := passwordFromEnv(); password != nil {
		return password, nil
	}
	return ReadPasswordConfirm()
}

// startSpinner shows progress during key derivation, which is deliberately
// slow. The returned cleanup stops it.
func startSpinner(message string) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	// Ignore color errors - continue without a colored spinner if it fails.
	_ = s.Color("cyan")
	s.Start()

	return s, func() { s.Stop() }
}

// HandleError handles common errors consistently
func HandleError(err error) {
	switch {
	case errors.Is(err, vault.ErrNotInitialized):
		fmt.Fprintf(os.Stderr, "Error: vault not initialized\n")
		fmt.Fprintf(os.Stderr, "Run 'santa build' first; it creates the vault\n")
	case errors.Is(err, vault.ErrAlreadyExists):
		fmt.Fprintf(os.Stderr, "Error: vault already exists\n")
	case errors.Is(err, vault.ErrWrongPassword):
		fmt.Fprintf(os.Stderr, "Error: wrong password\n")
	case errors.Is(err, vault.ErrNoRun):
		fmt.Fprintf(os.Stderr, "Error: no build stored in vault\n")
		fmt.Fprintf(os.Stderr, "Run 'santa build' to create one\n")
	case errors.Is(err, artifact.ErrNoAssignment):
		fmt.Fprintf(os.Stderr, "Error: no assignment found for that secret\n")
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}

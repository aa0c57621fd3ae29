package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/austinorth/secret-santa/internal/crypto"
	"github.com/austinorth/secret-santa/internal/vault"
)

// Secrets prints the organizer's name to secret report from the vault.
// With a name, only that participant's secret is printed, handy when
// someone loses theirs.
func Secrets(ctx context.Context, vaultPath, name string) {
	if err := ctx.Err(); err != nil {
		HandleError(err)
	}

	v, err := vault.Open(vaultPath)
	if err != nil {
		HandleError(err)
	}
	defer v.Close()

	password, err := GetPassword(v, "Enter vault password: ")
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	secrets, err := v.Secrets(password)
	if err != nil {
		HandleError(err)
	}

	if name != "" {
		for stored, secret := range secrets {
			if strings.EqualFold(stored, name) {
				fmt.Printf("%s  %s\n", stored, color.YellowString(secret))
				return
			}
		}
		fmt.Fprintf(os.Stderr, "Error: no participant named %q in the stored build\n", name)
		os.Exit(1)
	}

	printSecrets(secrets)
}

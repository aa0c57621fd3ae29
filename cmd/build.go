package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/austinorth/secret-santa/internal/artifact"
	"github.com/austinorth/secret-santa/internal/crypto"
	"github.com/austinorth/secret-santa/internal/roster"
	"github.com/austinorth/secret-santa/internal/vault"
	"github.com/austinorth/secret-santa/internal/wordbank"
)

// Build runs a full exchange: parse the roster, pair everyone, seal the
// artifact to outPath and store the organizer report in the vault. With
// useVault false the report is printed and nothing is persisted beyond the
// artifact. With show true the plaintext pairings are printed for
// verification, which spoils the surprise for the organizer.
func Build(ctx context.Context, rosterPath, wordsPath, outPath, vaultPath string, useVault, show bool) {
	if err := ctx.Err(); err != nil {
		HandleError(err)
	}

	participants, rosterRaw, err := roster.ParseFile(rosterPath)
	if err != nil {
		HandleError(err)
	}

	vocab, err := wordbank.LoadFile(wordsPath)
	if err != nil {
		HandleError(err)
	}

	_, stop := startSpinner(fmt.Sprintf("Encrypting assignments for %d participants...", len(participants)))
	art, secrets, err := artifact.Build(participants, vocab)
	stop()
	if err != nil {
		HandleError(err)
	}

	data, err := art.Encode()
	if err != nil {
		HandleError(err)
	}
	// The artifact is public by construction; ordinary permissions are fine.
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		HandleError(fmt.Errorf("failed to write artifact: %w", err))
	}
	fmt.Printf("%s Artifact written to %s (%d records)\n",
		color.GreenString("✓"), outPath, art.Len())

	if useVault {
		if err := ctx.Err(); err != nil {
			HandleError(err)
		}
		storeRun(outPath, vaultPath, secrets, rosterRaw)
	}

	fmt.Println()
	fmt.Println("Secrets to hand out, one per participant:")
	printSecrets(secrets)
	fmt.Printf("\n%s Each secret reveals only that person's assignment.\n", color.CyanString("→"))

	if show {
		fmt.Println()
		fmt.Println("Assignments (for verification only):")
		for _, name := range secrets.Names() {
			assignment, err := art.Recover(secrets[name])
			if err != nil {
				HandleError(err)
			}
			fmt.Printf("  %s %s %s\n", assignment.Giver, color.CyanString("→"), assignment.Recipient)
		}
	}
}

// storeRun persists the organizer report, creating the vault on first use.
func storeRun(artifactPath, vaultPath string, secrets artifact.Secrets, rosterRaw []byte) {
	var v *vault.Vault
	var password []byte

	if _, err := os.Stat(vaultPath); os.IsNotExist(err) {
		password, err = GetPasswordForInit()
		if err != nil {
			HandleError(err)
		}
		v, err = vault.Create(vaultPath, password)
		if err != nil {
			crypto.ClearBytes(password)
			HandleError(err)
		}
		fmt.Printf("%s Vault created at %s\n", color.GreenString("✓"), vaultPath)
	} else {
		var err error
		v, err = vault.Open(vaultPath)
		if err != nil {
			HandleError(err)
		}
		password, err = GetPassword(v, "Enter vault password: ")
		if err != nil {
			v.Close()
			HandleError(err)
		}
	}
	defer v.Close()
	defer crypto.ClearBytes(password)

	err := v.StoreRun(password, &vault.Run{
		ArtifactPath: artifactPath,
		BuiltAt:      time.Now(),
		Secrets:      secrets,
		RosterCSV:    rosterRaw,
	})
	if err != nil {
		HandleError(err)
	}
	fmt.Printf("%s Organizer report stored in %s\n", color.GreenString("✓"), vaultPath)
}

func printSecrets(secrets artifact.Secrets) {
	width := 0
	for _, name := range secrets.Names() {
		if len(name) > width {
			width = len(name)
		}
	}
	for _, name := range secrets.Names() {
		fmt.Printf("  %-*s  %s\n", width, name, color.YellowString(secrets[name]))
	}
}

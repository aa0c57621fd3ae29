package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/austinorth/secret-santa/internal/artifact"
	"github.com/austinorth/secret-santa/internal/exchange"
)

// Reveal decrypts one assignment from a published artifact. The secret is
// taken from the flag when given, otherwise prompted without echo so nobody
// reading over a shoulder learns it. Legacy artifacts need a name to pick
// from the shared list.
func Reveal(ctx context.Context, artifactPath, secret, name string) {
	if err := ctx.Err(); err != nil {
		HandleError(err)
	}

	art, err := artifact.ParseFile(artifactPath)
	if err != nil {
		HandleError(err)
	}

	if secret == "" {
		raw, err := ReadPassword("Enter your secret: ")
		if err != nil {
			HandleError(err)
		}
		secret = strings.TrimSpace(string(raw))
	}

	var assignment *exchange.Assignment
	switch art.Version {
	case artifact.VersionLegacy:
		if name == "" {
			fmt.Fprintf(os.Stderr, "Error: this artifact predates per-person secrets; use --name to pick your assignment\n")
			os.Exit(1)
		}
		_, stop := startSpinner("Decrypting assignments...")
		assignments, err := art.RecoverAll(secret)
		stop()
		if err != nil {
			revealFailed()
		}
		for i := range assignments {
			if strings.EqualFold(assignments[i].Giver, name) {
				assignment = &assignments[i]
				break
			}
		}
		if assignment == nil {
			revealFailed()
		}
	default:
		_, stop := startSpinner("Decrypting your assignment...")
		assignment, err = art.Recover(secret)
		stop()
		if err != nil {
			revealFailed()
		}
	}

	fmt.Printf("%s You are the Secret Santa for: %s\n",
		color.GreenString("✓"), color.YellowString(assignment.Recipient))
	if assignment.RecipientBio != "" {
		fmt.Printf("%s Gift ideas: %s\n", color.CyanString("→"), assignment.RecipientBio)
	}
}

// revealFailed prints the one generic failure message. Wrong secret, typo,
// tampered artifact: the answer is identical on purpose.
func revealFailed() {
	fmt.Fprintf(os.Stderr, "%s No assignment found for that secret\n", color.RedString("✗"))
	fmt.Fprintf(os.Stderr, "Check for typos and try again\n")
	os.Exit(1)
}

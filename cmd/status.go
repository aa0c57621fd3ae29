package cmd

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/austinorth/secret-santa/internal/artifact"
	"github.com/austinorth/secret-santa/internal/git"
	"github.com/austinorth/secret-santa/internal/vault"
)

// Status prints vault and artifact metadata. No password needed: everything
// shown here is deliberately kept outside the encrypted buckets. With a
// roster path it also flags drift between the local file and the snapshot
// hash stored at the last build.
func Status(ctx context.Context, vaultPath, rosterPath string) {
	if err := ctx.Err(); err != nil {
		HandleError(err)
	}

	v, err := vault.Open(vaultPath)
	if err != nil {
		HandleError(err)
	}
	defer v.Close()

	status, err := v.Status()
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("Vault: %s\n", vaultPath)
	fmt.Printf("  Created:  %s\n", status.Created.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Modified: %s\n", status.Modified.Format("2006-01-02 15:04:05"))
	fmt.Printf("  KDF:      PBKDF2-SHA256, %d iterations\n", status.KDFIterations)

	if !status.HasRun {
		fmt.Printf("\n%s No build stored yet. Run 'santa build' to create one.\n", color.CyanString("→"))
		printGitHygiene(vaultPath, "")
		return
	}

	fmt.Println()
	fmt.Printf("Last build: %s\n", status.BuiltAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Participants: %d\n", status.ParticipantCount)
	fmt.Printf("  Artifact:     %s\n", status.ArtifactPath)

	if art, err := artifact.ParseFile(status.ArtifactPath); err != nil {
		fmt.Printf("  %s artifact missing or unreadable: %v\n", color.RedString("✗"), err)
	} else {
		fmt.Printf("  Version:      %s (%d records, built %s)\n",
			art.Version, art.Len(), art.Timestamp.Format("2006-01-02 15:04:05"))
	}

	if rosterPath != "" {
		data, err := os.ReadFile(rosterPath)
		if err != nil {
			HandleError(fmt.Errorf("failed to read roster: %w", err))
		}
		hash := sha256.Sum256(data)
		if hex.EncodeToString(hash[:]) == status.RosterHash {
			fmt.Printf("\n%s Roster unchanged since last build\n", color.GreenString("✓"))
		} else {
			fmt.Printf("\n%s Roster has changed since last build\n", color.YellowString("!"))
			fmt.Printf("%s Run 'santa diff %s' to see what moved, or rebuild\n", color.CyanString("→"), rosterPath)
		}
	}

	printGitHygiene(vaultPath, status.ArtifactPath)
}

// printGitHygiene warns when the vault is exposed to version control.
// The vault holds the plaintext secret report; the artifact does not.
func printGitHygiene(vaultPath, artifactPath string) {
	h := git.CheckHygiene(".", vaultPath, artifactPath)
	if !h.IsRepo {
		return
	}

	fmt.Println()
	if h.VaultTracked {
		fmt.Printf("%s Vault is tracked by git. It holds the secret report; run 'git rm --cached %s'\n",
			color.RedString("✗"), vaultPath)
	} else if !h.VaultIgnored {
		fmt.Printf("%s Vault is not in .gitignore. Add '%s' so it never gets committed\n",
			color.YellowString("!"), vaultPath)
	} else {
		fmt.Printf("%s Vault is ignored by git\n", color.GreenString("✓"))
	}
	if h.ArtifactTracked {
		fmt.Printf("%s Artifact is committed. That is fine: it only holds encrypted records\n",
			color.GreenString("✓"))
	}
}

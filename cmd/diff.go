package cmd

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/austinorth/secret-santa/internal/crypto"
	"github.com/austinorth/secret-santa/internal/vault"
)

// Diff compares the local roster file against the snapshot stored at the
// last build, as a unified diff. Useful before a rebuild to see exactly who
// joined, left or changed their bio.
func Diff(ctx context.Context, vaultPath, rosterPath string) {
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

	snapshot, err := v.Roster(password)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(snapshot)

	local, err := os.ReadFile(rosterPath)
	if err != nil {
		HandleError(fmt.Errorf("failed to read roster: %w", err))
	}

	diff := generateUnifiedDiff(rosterPath, snapshot, local)
	if diff == "" {
		fmt.Println("No changes detected")
		return
	}
	fmt.Print(diff)
}

// generateUnifiedDiff renders a line-mode diff between the stored snapshot
// and the local file, with conventional ---/+++ headers.
func generateUnifiedDiff(path string, snapshot, local []byte) string {
	oldHash := sha256.Sum256(snapshot)
	newHash := sha256.Sum256(local)
	if bytes.Equal(oldHash[:], newHash[:]) {
		return ""
	}

	dmp := diffmatchpatch.New()

	oldStr, newStr := string(snapshot), string(local)
	a, b, lineArray := dmp.DiffLinesToChars(oldStr, newStr)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	patches := dmp.PatchMake(oldStr, diffs)
	if len(patches) == 0 {
		return ""
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("--- a/%s (vault snapshot)\n", path))
	result.WriteString(fmt.Sprintf("+++ b/%s\n", path))
	result.WriteString(dmp.PatchToText(patches))

	return result.String()
}

package git

import (
	"os/exec"
	"strings"
)

// Hygiene reports how the vault and artifact relate to a surrounding
// git repository.
type Hygiene struct {
	IsRepo          bool
	VaultTracked    bool // vault committed to git (bad)
	VaultIgnored    bool // vault covered by .gitignore (good)
	ArtifactTracked bool // artifact committed to git (fine)
}

// IsRepo checks if the working directory is inside a git repository
func IsRepo(workDir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = workDir
	err := cmd.Run()
	return err == nil
}

// IsTracked checks if a file is tracked by git
func IsTracked(workDir, path string) bool {
	cmd := exec.Command("git", "ls-files", "--", path)
	cmd.Dir = workDir
	output, err := cmd.Output()

	if err != nil {
		return false
	}

	return len(strings.TrimSpace(string(output))) > 0
}

// IsIgnored checks if a file is ignored by git (handles all .gitignore files)
func IsIgnored(workDir, path string) bool {
	cmd := exec.Command("git", "check-ignore", "-q", "--", path)
	cmd.Dir = workDir
	err := cmd.Run()

	// git check-ignore returns exit code 0 if file is ignored
	return err == nil
}

// CheckHygiene inspects the vault and artifact paths relative to workDir.
// When workDir is not inside a git repository, IsRepo is false and the
// remaining fields carry no meaning. An empty artifactPath skips the
// artifact check.
func CheckHygiene(workDir, vaultPath, artifactPath string) *Hygiene {
	h := &Hygiene{}

	if !IsRepo(workDir) {
		return h
	}
	h.IsRepo = true

	h.VaultTracked = IsTracked(workDir, vaultPath)
	h.VaultIgnored = IsIgnored(workDir, vaultPath)
	if artifactPath != "" {
		h.ArtifactTracked = IsTracked(workDir, artifactPath)
	}

	return h
}

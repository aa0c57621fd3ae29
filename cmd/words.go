package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/austinorth/secret-santa/internal/wordbank"
)

// Words lints a word list before it is used for a build: how many distinct
// usable words it holds, whether that clears the minimum, and roughly how
// many secrets the resulting space allows.
func Words(ctx context.Context, path string) {
	if err := ctx.Err(); err != nil {
		HandleError(err)
	}

	vocab, err := wordbank.LoadFile(path)
	if err != nil {
		HandleError(err)
	}

	candidates, err := countCandidateLines(path)
	if err != nil {
		HandleError(err)
	}

	n := vocab.Len()
	if n >= wordbank.MinWords {
		fmt.Printf("%s %d distinct usable words (need at least %d)\n",
			color.GreenString("✓"), n, wordbank.MinWords)
	} else {
		fmt.Printf("%s %d distinct usable words, need at least %d\n",
			color.RedString("✗"), n, wordbank.MinWords)
	}

	if dropped := candidates - n; dropped > 0 {
		fmt.Printf("%s %d duplicate entries ignored\n", color.CyanString("→"), dropped)
	}

	suffixes := float64(wordbank.SuffixMax - wordbank.SuffixMin + 1)
	space := float64(n) * float64(n) * float64(n) * suffixes
	fmt.Printf("%s Secret space: roughly %.2g distinct secrets\n", color.CyanString("→"), space)

	if n < wordbank.MinWords {
		fmt.Printf("%s Add more words before building\n", color.CyanString("→"))
		os.Exit(1)
	}
}

// countCandidateLines counts lines that survive blank and comment filtering,
// before deduplication.
func countCandidateLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open word list: %w", err)
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("failed to read word list: %w", err)
	}
	return count, nil
}

// Package wordbank loads a word list and draws the human-readable secrets
// handed to participants. Secrets are capability tokens, so every draw goes
// through crypto/rand rather than a seeded PRNG.
package wordbank

import (
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"
)

const (
	// MinWords is the smallest vocabulary accepted for secret generation.
	MinWords = 24

	// SecretWords is the number of words drawn per secret. Draws are
	// independent, so a word may repeat within one secret.
	SecretWords = 3

	// SuffixMin and SuffixMax bound the numeric suffix, inclusive.
	SuffixMin = 1000
	SuffixMax = 9999

	// Separator joins the words and the suffix.
	Separator = "-"

	maxAttempts = 1000
)

var (
	ErrVocabularyTooSmall = errors.New("vocabulary too small")
	ErrSpaceExhausted     = errors.New("secret space exhausted")
)

// Vocabulary is a normalized word list: lowercased, deduplicated, with blank
// lines and # comments dropped. The zero value is unusable; construct one
// with New, Load or LoadFile.
type Vocabulary struct {
	words []string
}

// New builds a Vocabulary from raw words, normalizing as it goes. It does not
// enforce MinWords; Secrets checks that precondition when secrets are drawn.
func New(words []string) *Vocabulary {
	return &Vocabulary{words: normalize(words)}
}

// Load reads a newline-delimited word list.
func Load(r io.Reader) (*Vocabulary, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	return New(words), nil
}

// LoadFile reads a newline-delimited word list from disk.
func LoadFile(path string) (*Vocabulary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Len reports the number of distinct usable words.
func (v *Vocabulary) Len() int {
	return len(v.words)
}

// Words returns a copy of the normalized word list.
func (v *Vocabulary) Words() []string {
	out := make([]string, len(v.words))
	copy(out, v.words)
	return out
}

// Generate draws one secret: SecretWords words plus a numeric suffix in
// [SuffixMin, SuffixMax], hyphen-joined. It does not check uniqueness against
// earlier draws; Secrets handles that.
func (v *Vocabulary) Generate() (string, error) {
	if len(v.words) == 0 {
		return "", ErrVocabularyTooSmall
	}

	parts := make([]string, 0, SecretWords+1)
	for i := 0; i < SecretWords; i++ {
		word, err := randomWord(v.words)
		if err != nil {
			return "", fmt.Errorf("failed to draw word: %w", err)
		}
		parts = append(parts, word)
	}

	n, err := rand.Int(rand.Reader, big.NewInt(SuffixMax-SuffixMin+1))
	if err != nil {
		return "", fmt.Errorf("failed to draw suffix: %w", err)
	}
	parts = append(parts, strconv.FormatInt(n.Int64()+SuffixMin, 10))

	return strings.Join(parts, Separator), nil
}

// Secrets draws one distinct secret per name and returns the name to secret
// mapping. It requires at least MinWords distinct words and gives up on a
// single secret after 1000 colliding attempts, which only happens when the
// vocabulary is far too small for the participant count.
func (v *Vocabulary) Secrets(names []string) (map[string]string, error) {
	if v.Len() < MinWords {
		return nil, fmt.Errorf("%w: have %d distinct words, need at least %d", ErrVocabularyTooSmall, v.Len(), MinWords)
	}

	secrets := make(map[string]string, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		secret, err := v.uniqueSecret(seen)
		if err != nil {
			return nil, err
		}
		seen[secret] = struct{}{}
		secrets[name] = secret
	}
	return secrets, nil
}

func (v *Vocabulary) uniqueSecret(seen map[string]struct{}) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		secret, err := v.Generate()
		if err != nil {
			return "", err
		}
		if _, dup := seen[secret]; !dup {
			return secret, nil
		}
	}
	return "", fmt.Errorf("%w after %d attempts", ErrSpaceExhausted, maxAttempts)
}

func randomWord(words []string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(words))))
	if err != nil {
		return "", err
	}
	return words[n.Int64()], nil
}

func normalize(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

package exchange

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTooFewParticipants = errors.New("not enough participants")
	ErrEmptyName          = errors.New("participant name is empty")
	ErrDuplicateName      = errors.New("duplicate participant name")
	ErrUnknownExclusion   = errors.New("exclusion does not match any participant")
)

// Participant is one person in the exchange. Exclusion optionally names
// another participant this person must not be paired with, in either
// direction. Matching on names is case-insensitive throughout.
type Participant struct {
	Name      string
	Bio       string
	Exclusion string
}

// Validate checks the roster before any pairing or cryptography happens:
// at least two participants, no empty or duplicate names, and every
// exclusion naming a real participant.
func Validate(participants []Participant) error {
	if len(participants) < 2 {
		return fmt.Errorf("%w: have %d, need at least 2", ErrTooFewParticipants, len(participants))
	}

	seen := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		name := normalizeName(p.Name)
		if name == "" {
			return ErrEmptyName
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateName, p.Name)
		}
		seen[name] = struct{}{}
	}

	for _, p := range participants {
		if p.Exclusion == "" {
			continue
		}
		if _, ok := seen[normalizeName(p.Exclusion)]; !ok {
			return fmt.Errorf("%w: %s excludes %q", ErrUnknownExclusion, p.Name, p.Exclusion)
		}
	}
	return nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

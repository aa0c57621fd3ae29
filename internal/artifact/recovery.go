package artifact

import (
	"encoding/json"
	"fmt"

	"github.com/austinorth/secret-santa/internal/crypto"
	"github.com/austinorth/secret-santa/internal/exchange"
)

// Recover finds and decrypts the one assignment sealed under the given
// secret. A secret with no record and a record that will not decrypt are
// the same answer: ErrNoAssignment. Recovery is read-only and retryable.
func (a *Artifact) Recover(secret string) (*exchange.Assignment, error) {
	if a.Version != Version {
		return nil, fmt.Errorf("%w: %s", ErrWrongVersion, a.Version)
	}

	blob, ok := a.records[crypto.LookupKey(secret)]
	if !ok {
		return nil, ErrNoAssignment
	}
	payload, err := crypto.Open(secret, blob)
	if err != nil {
		return nil, ErrNoAssignment
	}

	var assignment exchange.Assignment
	if err := json.Unmarshal(payload, &assignment); err != nil {
		return nil, ErrNoAssignment
	}
	return &assignment, nil
}

// RecoverAll decrypts a legacy artifact's single blob into the full
// assignment list. Callers pick out the giver they care about; legacy
// artifacts cannot do better, everyone shared one secret.
func (a *Artifact) RecoverAll(secret string) ([]exchange.Assignment, error) {
	if a.Version != VersionLegacy {
		return nil, fmt.Errorf("%w: %s", ErrWrongVersion, a.Version)
	}

	payload, err := crypto.Open(secret, a.legacy)
	if err != nil {
		return nil, ErrNoAssignment
	}

	var assignments []exchange.Assignment
	if err := json.Unmarshal(payload, &assignments); err != nil {
		return nil, ErrNoAssignment
	}
	return assignments, nil
}

package exchange

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// MaxPairingAttempts bounds the shuffle-and-check loop. Hitting it means the
// exclusions make a valid assignment impossible or nearly so.
const MaxPairingAttempts = 1000

var ErrInfeasible = errors.New("no valid assignment found")

// Assignment pairs one giver with their recipient. The JSON field names are
// part of the artifact payload format and must not change.
type Assignment struct {
	Giver        string `json:"giver"`
	Recipient    string `json:"recipient"`
	RecipientBio string `json:"recipientBio"`
}

// Pair validates the roster and draws a full assignment: recipients are
// shuffled uniformly, zipped against givers in input order, and the whole
// attempt is retried if any pair is invalid. The shuffle is for fairness,
// not secrecy; secrecy comes from encrypting the result.
func Pair(participants []Participant) ([]Assignment, error) {
	if err := Validate(participants); err != nil {
		return nil, err
	}

	exclusions := exclusionMap(participants)
	recipients := make([]Participant, len(participants))
	copy(recipients, participants)

	for attempt := 0; attempt < MaxPairingAttempts; attempt++ {
		rand.Shuffle(len(recipients), func(i, j int) {
			recipients[i], recipients[j] = recipients[j], recipients[i]
		})
		if assignments, ok := zip(participants, recipients, exclusions); ok {
			return assignments, nil
		}
	}
	return nil, fmt.Errorf("%w after %d attempts", ErrInfeasible, MaxPairingAttempts)
}

func zip(givers, recipients []Participant, exclusions map[string]string) ([]Assignment, bool) {
	assignments := make([]Assignment, len(givers))
	for i, giver := range givers {
		recipient := recipients[i]
		if !validPair(giver.Name, recipient.Name, exclusions) {
			return nil, false
		}
		assignments[i] = Assignment{
			Giver:        giver.Name,
			Recipient:    recipient.Name,
			RecipientBio: recipient.Bio,
		}
	}
	return assignments, true
}

// validPair rejects self-assignment and any pair linked by an exclusion.
// The exclusion map is consulted in both directions, so one side declaring
// the other is enough to block both assignments.
func validPair(giver, recipient string, exclusions map[string]string) bool {
	g := normalizeName(giver)
	r := normalizeName(recipient)
	if g == r {
		return false
	}
	if exclusions[g] == r || exclusions[r] == g {
		return false
	}
	return true
}

func exclusionMap(participants []Participant) map[string]string {
	m := make(map[string]string, len(participants))
	for _, p := range participants {
		if p.Exclusion != "" {
			m[normalizeName(p.Name)] = normalizeName(p.Exclusion)
		}
	}
	return m
}

package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/austinorth/secret-santa/internal/crypto"
	"github.com/austinorth/secret-santa/internal/exchange"
	"github.com/austinorth/secret-santa/internal/wordbank"
)

const (
	// VersionLegacy marks artifacts holding one shared-secret blob.
	VersionLegacy = "1.0"

	// Version is written to every new artifact: one record per giver,
	// keyed by the SHA-256 digest of their secret.
	Version = "2.0"
)

var (
	ErrLookupCollision = errors.New("lookup key collision")
	ErrUnknownVersion  = errors.New("unknown artifact version")
	ErrWrongVersion    = errors.New("wrong artifact version for this operation")

	// ErrNoAssignment covers every recovery failure: unknown secret,
	// tampered record, wrong version of the truth. Deliberately a single
	// error so the artifact cannot be probed.
	ErrNoAssignment = errors.New("no assignment found for that secret")
)

// Secrets maps participant names to the secrets issued to them. It exists
// only in memory and in the organizer vault, never in the artifact.
type Secrets map[string]string

// Names returns the participant names in stable sorted order.
func (s Secrets) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Artifact is the decoded assignment file. Timestamp and Version are plain
// metadata; everything sensitive sits encrypted in the records.
type Artifact struct {
	Version   string
	Timestamp time.Time

	records map[string]string // v2: hex lookup key -> blob
	legacy  string            // v1: the one shared blob
}

type wireV2 struct {
	Assignments map[string]string `json:"assignments"`
	Timestamp   int64             `json:"timestamp"`
	Version     string            `json:"version"`
}

type wireV1 struct {
	Data      string `json:"data"`
	Timestamp int64  `json:"timestamp"`
	Version   string `json:"version"`
}

// Build runs the whole pipeline: validate and pair the roster, issue one
// secret per participant, then seal each giver's assignment under their own
// secret. The returned Secrets are for the organizer to distribute; the
// Artifact is safe to publish.
func Build(participants []exchange.Participant, vocab *wordbank.Vocabulary) (*Artifact, Secrets, error) {
	assignments, err := exchange.Pair(participants)
	if err != nil {
		return nil, nil, err
	}

	names := make([]string, len(assignments))
	for i, a := range assignments {
		names[i] = a.Giver
	}
	secrets, err := vocab.Secrets(names)
	if err != nil {
		return nil, nil, err
	}

	records := make(map[string]string, len(assignments))
	for _, a := range assignments {
		payload, err := json.Marshal(a)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encode assignment for %s: %w", a.Giver, err)
		}
		secret := secrets[a.Giver]
		blob, err := crypto.Seal(secret, payload)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to encrypt assignment for %s: %w", a.Giver, err)
		}

		key := crypto.LookupKey(secret)
		if _, dup := records[key]; dup {
			return nil, nil, fmt.Errorf("%w: two secrets share digest %s", ErrLookupCollision, key)
		}
		records[key] = blob
	}

	return &Artifact{
		Version:   Version,
		Timestamp: time.Now(),
		records:   records,
	}, secrets, nil
}

// Len reports the number of lookup records. Legacy artifacts have none;
// their contents are opaque until decrypted.
func (a *Artifact) Len() int {
	return len(a.records)
}

// Encode renders the artifact in its wire format. Only current-version
// artifacts are written; legacy ones are read-only.
func (a *Artifact) Encode() ([]byte, error) {
	if a.Version != Version {
		return nil, fmt.Errorf("%w: refusing to write version %s", ErrWrongVersion, a.Version)
	}
	return json.MarshalIndent(wireV2{
		Assignments: a.records,
		Timestamp:   a.Timestamp.UnixMilli(),
		Version:     a.Version,
	}, "", "  ")
}

// Parse decodes an artifact, accepting both the current and the legacy
// format. The version field decides the layout once, up front.
func Parse(data []byte) (*Artifact, error) {
	var probe struct {
		Version string `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse artifact: %w", err)
	}

	switch probe.Version {
	case Version:
		var wire wireV2
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, fmt.Errorf("failed to parse artifact: %w", err)
		}
		if wire.Assignments == nil {
			wire.Assignments = map[string]string{}
		}
		return &Artifact{
			Version:   wire.Version,
			Timestamp: time.UnixMilli(wire.Timestamp),
			records:   wire.Assignments,
		}, nil
	case VersionLegacy:
		var wire wireV1
		if err := json.Unmarshal(data, &wire); err != nil {
			return nil, fmt.Errorf("failed to parse artifact: %w", err)
		}
		return &Artifact{
			Version:   wire.Version,
			Timestamp: time.UnixMilli(wire.Timestamp),
			legacy:    wire.Data,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVersion, probe.Version)
	}
}

// ParseFile reads and decodes an artifact from disk.
func ParseFile(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}
	return Parse(data)
}

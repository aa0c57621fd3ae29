package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/austinorth/secret-santa/internal/crypto"
	"github.com/austinorth/secret-santa/internal/exchange"
	"github.com/austinorth/secret-santa/internal/wordbank"
)

func testVocabulary(t *testing.T) *wordbank.Vocabulary {
	t.Helper()
	words := make([]string, wordbank.MinWords)
	for i := range words {
		words[i] = fmt.Sprintf("word%03d", i)
	}
	return wordbank.New(words)
}

func testParticipants() []exchange.Participant {
	return []exchange.Participant{
		{Name: "Zephyrine", Bio: "Collects antique astrolabes.", Exclusion: "Quorvald"},
		{Name: "Quorvald", Bio: "Brews experimental kombucha."},
		{Name: "Brynnhilda", Bio: "Restores player pianos."},
		{Name: "Octaviano", Bio: "Breeds carnivorous plants."},
		{Name: "Melisandre", Bio: "Maps abandoned subway tunnels."},
	}
}

func TestBuildAndRecover(t *testing.T) {
	participants := testParticipants()

	art, secrets, err := Build(participants, testVocabulary(t))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if art.Version != Version {
		t.Errorf("version = %s, want %s", art.Version, Version)
	}
	if art.Len() != len(participants) {
		t.Errorf("record count = %d, want %d", art.Len(), len(participants))
	}
	if len(secrets) != len(participants) {
		t.Fatalf("secret count = %d, want %d", len(secrets), len(participants))
	}

	recipients := make(map[string]bool, len(participants))
	for _, p := range participants {
		secret, ok := secrets[p.Name]
		if !ok {
			t.Fatalf("no secret issued for %s", p.Name)
		}

		assignment, err := art.Recover(secret)
		if err != nil {
			t.Fatalf("Recover for %s failed: %v", p.Name, err)
		}
		if assignment.Giver != p.Name {
			t.Errorf("secret for %s recovered %s's assignment", p.Name, assignment.Giver)
		}
		if assignment.Recipient == p.Name {
			t.Errorf("%s was assigned to themselves", p.Name)
		}
		if recipients[assignment.Recipient] {
			t.Errorf("%s receives twice", assignment.Recipient)
		}
		recipients[assignment.Recipient] = true
	}
}

func TestRecoverUnknownSecret(t *testing.T) {
	art, _, err := Build(testParticipants(), testVocabulary(t))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	for _, secret := range []string{
		"word001-word002-word003-1234", // plausible shape, never issued
		"not even close",
		"",
	} {
		if _, err := art.Recover(secret); !errors.Is(err, ErrNoAssignment) {
			t.Errorf("secret %q: expected ErrNoAssignment, got %v", secret, err)
		}
	}
}

// A tampered record and an unknown secret must be indistinguishable to the
// caller.
func TestRecoverTamperedRecord(t *testing.T) {
	art, secrets, err := Build(testParticipants(), testVocabulary(t))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	secret := secrets["Zephyrine"]
	key := crypto.LookupKey(secret)
	art.records[key] = art.records[key][:len(art.records[key])-8] + "AAAAAAAA"

	if _, err := art.Recover(secret); !errors.Is(err, ErrNoAssignment) {
		t.Errorf("expected ErrNoAssignment for tampered record, got %v", err)
	}
}

// The published file must never leak a name, bio, secret or vocabulary word
// outside ciphertext.
func TestArtifactLeaksNothing(t *testing.T) {
	participants := testParticipants()

	art, secrets, err := Build(participants, testVocabulary(t))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	data, err := art.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	text := string(data)
	for _, p := range participants {
		if strings.Contains(text, p.Name) {
			t.Errorf("artifact contains participant name %q", p.Name)
		}
		if p.Bio != "" && strings.Contains(text, p.Bio) {
			t.Errorf("artifact contains bio %q", p.Bio)
		}
	}
	for name, secret := range secrets {
		if strings.Contains(text, secret) {
			t.Errorf("artifact contains %s's secret", name)
		}
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	art, secrets, err := Build(testParticipants(), testVocabulary(t))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	data, err := art.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var wire map[string]json.RawMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("artifact is not valid JSON: %v", err)
	}
	for _, field := range []string{"assignments", "timestamp", "version"} {
		if _, ok := wire[field]; !ok {
			t.Errorf("wire format missing %q field", field)
		}
	}

	parsed, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed.Version != art.Version {
		t.Errorf("version = %s, want %s", parsed.Version, art.Version)
	}
	if parsed.Timestamp.UnixMilli() != art.Timestamp.UnixMilli() {
		t.Errorf("timestamp = %d, want %d", parsed.Timestamp.UnixMilli(), art.Timestamp.UnixMilli())
	}
	if parsed.Len() != art.Len() {
		t.Errorf("record count = %d, want %d", parsed.Len(), art.Len())
	}

	assignment, err := parsed.Recover(secrets["Brynnhilda"])
	if err != nil {
		t.Fatalf("Recover after round trip failed: %v", err)
	}
	if assignment.Giver != "Brynnhilda" {
		t.Errorf("recovered giver = %s, want Brynnhilda", assignment.Giver)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	if _, err := Parse([]byte("not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if _, err := Parse([]byte(`{"version":"3.0"}`)); !errors.Is(err, ErrUnknownVersion) {
		t.Error("expected ErrUnknownVersion for version 3.0")
	}
	if _, err := Parse([]byte(`{"assignments":{}}`)); !errors.Is(err, ErrUnknownVersion) {
		t.Error("expected ErrUnknownVersion when version is absent")
	}
}

func legacyArtifact(t *testing.T, secret string, assignments []exchange.Assignment) []byte {
	t.Helper()
	payload, err := json.Marshal(assignments)
	if err != nil {
		t.Fatalf("failed to marshal assignments: %v", err)
	}
	blob, err := crypto.Seal(secret, payload)
	if err != nil {
		t.Fatalf("failed to seal legacy blob: %v", err)
	}
	data, err := json.Marshal(wireV1{
		Data:      blob,
		Timestamp: time.Now().UnixMilli(),
		Version:   VersionLegacy,
	})
	if err != nil {
		t.Fatalf("failed to marshal legacy artifact: %v", err)
	}
	return data
}

func TestLegacyRecoverAll(t *testing.T) {
	assignments := []exchange.Assignment{
		{Giver: "Zephyrine", Recipient: "Brynnhilda", RecipientBio: "Restores player pianos."},
		{Giver: "Brynnhilda", Recipient: "Zephyrine", RecipientBio: "Collects antique astrolabes."},
	}
	shared := "winter-cabin-cocoa-107"

	art, err := Parse(legacyArtifact(t, shared, assignments))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if art.Version != VersionLegacy {
		t.Fatalf("version = %s, want %s", art.Version, VersionLegacy)
	}
	if art.Len() != 0 {
		t.Errorf("legacy artifact reported %d lookup records", art.Len())
	}

	recovered, err := art.RecoverAll(shared)
	if err != nil {
		t.Fatalf("RecoverAll failed: %v", err)
	}
	if len(recovered) != len(assignments) {
		t.Fatalf("recovered %d assignments, want %d", len(recovered), len(assignments))
	}
	if recovered[0] != assignments[0] || recovered[1] != assignments[1] {
		t.Errorf("recovered assignments differ: %+v", recovered)
	}

	if _, err := art.RecoverAll("wrong-shared-secret"); !errors.Is(err, ErrNoAssignment) {
		t.Errorf("expected ErrNoAssignment for wrong shared secret, got %v", err)
	}
}

func TestVersionArityGuards(t *testing.T) {
	legacy, err := Parse(legacyArtifact(t, "shared-secret-000", nil))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, err := legacy.Recover("anything"); !errors.Is(err, ErrWrongVersion) {
		t.Errorf("Recover on legacy artifact: expected ErrWrongVersion, got %v", err)
	}
	if _, err := legacy.Encode(); !errors.Is(err, ErrWrongVersion) {
		t.Errorf("Encode on legacy artifact: expected ErrWrongVersion, got %v", err)
	}

	modern, _, err := Build(testParticipants(), testVocabulary(t))
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, err := modern.RecoverAll("anything"); !errors.Is(err, ErrWrongVersion) {
		t.Errorf("RecoverAll on current artifact: expected ErrWrongVersion, got %v", err)
	}
}

func TestSecretsNames(t *testing.T) {
	s := Secrets{"Carol": "c", "Alice": "a", "Bob": "b"}
	names := s.Names()
	want := []string{"Alice", "Bob", "Carol"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}

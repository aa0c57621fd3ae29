package vault

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func testVault(t *testing.T, password []byte) *Vault {
	t.Helper()
	v, err := Create(filepath.Join(t.TempDir(), DefaultFile), password)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	t.Cleanup(func() { v.Close() })
	return v
}

func testRun() *Run {
	return &Run{
		ArtifactPath: "assignments.json",
		BuiltAt:      time.Now(),
		Secrets: map[string]string{
			"Alice": "tinsel-sleigh-holly-4821",
			"Bob":   "garland-wreath-star-1309",
		},
		RosterCSV: []byte("NAME,BIO,SO\nAlice,Tea,Bob\nBob,Coffee,\n"),
	}
}

func TestCreateAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	password := []byte("organizer-password")

	v, err := Create(path, password)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := v.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	v, err = Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer v.Close()

	status, err := v.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.HasRun {
		t.Error("fresh vault reports a stored run")
	}
	if status.Created.IsZero() {
		t.Error("created timestamp not set")
	}
	if status.KDFIterations == 0 {
		t.Error("KDF iterations not recorded")
	}
}

func TestCreateRefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)

	v, err := Create(path, []byte("pw"))
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	v.Close()

	if _, err := Create(path, []byte("pw")); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestOpenMissing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), DefaultFile)); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestVerifyPassword(t *testing.T) {
	v := testVault(t, []byte("right"))

	if err := v.VerifyPassword([]byte("right")); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := v.VerifyPassword([]byte("wrong")); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}
}

func TestStoreRunAndReadBack(t *testing.T) {
	password := []byte("organizer-password")
	v := testVault(t, password)
	run := testRun()

	if err := v.StoreRun(password, run); err != nil {
		t.Fatalf("StoreRun failed: %v", err)
	}

	secrets, err := v.Secrets(password)
	if err != nil {
		t.Fatalf("Secrets failed: %v", err)
	}
	if len(secrets) != 2 || secrets["Alice"] != run.Secrets["Alice"] {
		t.Errorf("secrets do not round trip: %v", secrets)
	}

	roster, err := v.Roster(password)
	if err != nil {
		t.Fatalf("Roster failed: %v", err)
	}
	if string(roster) != string(run.RosterCSV) {
		t.Errorf("roster snapshot does not round trip")
	}

	status, err := v.Status()
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !status.HasRun {
		t.Error("status does not report the stored run")
	}
	if status.ArtifactPath != run.ArtifactPath {
		t.Errorf("artifact path = %q, want %q", status.ArtifactPath, run.ArtifactPath)
	}
	if status.ParticipantCount != 2 {
		t.Errorf("participant count = %d, want 2", status.ParticipantCount)
	}
	hash := sha256.Sum256(run.RosterCSV)
	if status.RosterHash != hex.EncodeToString(hash[:]) {
		t.Errorf("roster hash mismatch")
	}
}

func TestReportRequiresPassword(t *testing.T) {
	password := []byte("organizer-password")
	v := testVault(t, password)

	if err := v.StoreRun(password, testRun()); err != nil {
		t.Fatalf("StoreRun failed: %v", err)
	}

	if _, err := v.Secrets([]byte("wrong")); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("Secrets with wrong password: expected ErrWrongPassword, got %v", err)
	}
	if _, err := v.Roster([]byte("wrong")); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("Roster with wrong password: expected ErrWrongPassword, got %v", err)
	}
	if err := v.StoreRun([]byte("wrong"), testRun()); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("StoreRun with wrong password: expected ErrWrongPassword, got %v", err)
	}
}

func TestReportBeforeAnyRun(t *testing.T) {
	password := []byte("pw")
	v := testVault(t, password)

	if _, err := v.Secrets(password); !errors.Is(err, ErrNoRun) {
		t.Errorf("expected ErrNoRun, got %v", err)
	}
	if _, err := v.Roster(password); !errors.Is(err, ErrNoRun) {
		t.Errorf("expected ErrNoRun, got %v", err)
	}
}

func TestStoreRunReplacesPrevious(t *testing.T) {
	password := []byte("pw")
	v := testVault(t, password)

	if err := v.StoreRun(password, testRun()); err != nil {
		t.Fatalf("first StoreRun failed: %v", err)
	}

	second := &Run{
		ArtifactPath: "next.json",
		BuiltAt:      time.Now(),
		Secrets:      map[string]string{"Carol": "pine-spruce-angel-7777"},
		RosterCSV:    []byte("NAME,BIO,SO\nCarol,Runs,\n"),
	}
	if err := v.StoreRun(password, second); err != nil {
		t.Fatalf("second StoreRun failed: %v", err)
	}

	secrets, err := v.Secrets(password)
	if err != nil {
		t.Fatalf("Secrets failed: %v", err)
	}
	if len(secrets) != 1 || secrets["Carol"] == "" {
		t.Errorf("old run not replaced: %v", secrets)
	}

	status, _ := v.Status()
	if status.ArtifactPath != "next.json" || status.ParticipantCount != 1 {
		t.Errorf("status still describes old run: %+v", status)
	}
}

func TestVaultIDStable(t *testing.T) {
	v := testVault(t, []byte("pw"))

	if id, err := v.VaultID(); err != nil || id != "" {
		t.Errorf("fresh vault ID = %q (err %v), want empty", id, err)
	}

	first, err := v.GetOrCreateVaultID()
	if err != nil {
		t.Fatalf("GetOrCreateVaultID failed: %v", err)
	}
	if len(first) != 32 {
		t.Errorf("vault ID length = %d, want 32 hex chars", len(first))
	}

	second, err := v.GetOrCreateVaultID()
	if err != nil {
		t.Fatalf("GetOrCreateVaultID failed: %v", err)
	}
	if first != second {
		t.Errorf("vault ID changed between calls: %s then %s", first, second)
	}

	if stored, err := v.VaultID(); err != nil || stored != first {
		t.Errorf("VaultID() = %q (err %v), want %q", stored, err, first)
	}
}

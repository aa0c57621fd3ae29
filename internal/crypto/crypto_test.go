package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"testing"

	"golang.org/x/crypto/pbkdf2"
)

func TestSealOpenRoundTrip(t *testing.T) {
	payload := []byte(`{"giver":"Alice","recipient":"Bob","recipientBio":"Likes tea."}`)
	secret := "tinsel-sleigh-holly-4821"

	blob, err := Seal(secret, payload)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	plaintext, err := Open(secret, blob)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if !bytes.Equal(plaintext, payload) {
		t.Errorf("round trip mismatch: got %q, want %q", plaintext, payload)
	}
}

func TestOpenWrongSecret(t *testing.T) {
	blob, err := Seal("correct-secret-1234", []byte("payload"))
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	if _, err := Open("wrong-secret-9999", blob); !errors.Is(err, ErrDecryptFailed) {
		t.Errorf("expected ErrDecryptFailed for wrong secret, got %v", err)
	}
}

// Wrong secret, corrupted blob, truncation and bad encoding must all be the
// same failure. Anything more specific would let a caller probe which part
// of a guess was wrong.
func TestOpenFailuresIndistinguishable(t *testing.T) {
	blob, err := Seal("correct-secret-1234", []byte("payload"))
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		t.Fatalf("blob is not valid base64: %v", err)
	}

	// Flip one ciphertext bit
	tampered := append([]byte(nil), raw...)
	tampered[SaltSize+NonceSize] ^= 0x01

	cases := []struct {
		name   string
		secret string
		blob   string
	}{
		{"wrong secret", "another-secret-0000", blob},
		{"tampered ciphertext", "correct-secret-1234", base64.StdEncoding.EncodeToString(tampered)},
		{"truncated blob", "correct-secret-1234", base64.StdEncoding.EncodeToString(raw[:SaltSize+NonceSize+TagSize-1])},
		{"not base64", "correct-secret-1234", "%%% definitely not base64 %%%"},
		{"empty blob", "correct-secret-1234", ""},
	}

	for _, tc := range cases {
		if _, err := Open(tc.secret, tc.blob); !errors.Is(err, ErrDecryptFailed) {
			t.Errorf("%s: expected ErrDecryptFailed, got %v", tc.name, err)
		}
	}
}

// The blob layout is an interop contract: salt(16) || nonce(12) || ct || tag(16),
// standard base64. Verify by opening the blob with the primitives directly
// instead of going back through Open.
func TestSealBlobLayout(t *testing.T) {
	payload := []byte("interop payload")
	secret := "garland-wreath-star-1000"

	encoded, err := Seal(secret, payload)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("blob is not standard base64: %v", err)
	}

	wantLen := SaltSize + NonceSize + len(payload) + TagSize
	if len(raw) != wantLen {
		t.Fatalf("blob length = %d, want %d", len(raw), wantLen)
	}

	salt := raw[:SaltSize]
	nonce := raw[SaltSize : SaltSize+NonceSize]
	sealed := raw[SaltSize+NonceSize:]

	key := pbkdf2.Key([]byte(secret), salt, Iterations, KeySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		t.Fatalf("NewCipher failed: %v", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		t.Fatalf("NewGCM failed: %v", err)
	}

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		t.Fatalf("direct GCM open failed: %v", err)
	}
	if !bytes.Equal(plaintext, payload) {
		t.Errorf("direct open mismatch: got %q, want %q", plaintext, payload)
	}
}

// Salt and nonce are drawn per call, so two seals of the same payload with
// the same secret must differ.
func TestSealFreshRandomness(t *testing.T) {
	payload := []byte("same payload")
	secret := "same-secret-5555"

	first, err := Seal(secret, payload)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	second, err := Seal(secret, payload)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if first == second {
		t.Error("two Seal calls produced identical blobs; salt or nonce is being reused")
	}

	a, _ := base64.StdEncoding.DecodeString(first)
	b, _ := base64.StdEncoding.DecodeString(second)
	if bytes.Equal(a[:SaltSize], b[:SaltSize]) {
		t.Error("salt reused across Seal calls")
	}
	if bytes.Equal(a[SaltSize:SaltSize+NonceSize], b[SaltSize:SaltSize+NonceSize]) {
		t.Error("nonce reused across Seal calls")
	}
}

func TestEncryptorRoundTrip(t *testing.T) {
	key, err := GenerateRandom(KeySize)
	if err != nil {
		t.Fatalf("GenerateRandom failed: %v", err)
	}

	enc := NewEncryptor(key)
	ciphertext, err := enc.Encrypt([]byte("vault value"))
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	plaintext, err := enc.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}
	if string(plaintext) != "vault value" {
		t.Errorf("round trip mismatch: got %q", plaintext)
	}

	// Too-short input is a decrypt failure, not a panic.
	if _, err := enc.Decrypt(ciphertext[:NonceSize+TagSize-1]); !errors.Is(err, ErrDecryptFailed) {
		t.Errorf("expected ErrDecryptFailed for short ciphertext, got %v", err)
	}
}

func TestKDFDeterministic(t *testing.T) {
	kdf, err := NewKDF()
	if err != nil {
		t.Fatalf("NewKDF failed: %v", err)
	}
	if len(kdf.Salt) != SaltSize {
		t.Fatalf("salt length = %d, want %d", len(kdf.Salt), SaltSize)
	}
	if kdf.Iterations != Iterations {
		t.Fatalf("iterations = %d, want %d", kdf.Iterations, Iterations)
	}

	first := kdf.DeriveKey([]byte("secret"))
	second := kdf.DeriveKey([]byte("secret"))
	if !bytes.Equal(first, second) {
		t.Error("same secret and salt derived different keys")
	}
	if len(first) != KeySize {
		t.Errorf("key length = %d, want %d", len(first), KeySize)
	}

	other := kdf.DeriveKey([]byte("other"))
	if bytes.Equal(first, other) {
		t.Error("different secrets derived the same key")
	}
}

func TestLookupKey(t *testing.T) {
	key := LookupKey("pine-spruce-angel-2024")

	if len(key) != 64 {
		t.Fatalf("lookup key length = %d, want 64 hex chars", len(key))
	}
	if key != LookupKey("pine-spruce-angel-2024") {
		t.Error("lookup key is not deterministic")
	}
	if key == LookupKey("pine-spruce-angel-2025") {
		t.Error("different secrets produced the same lookup key")
	}

	// Must match a plain SHA-256 of the UTF-8 secret: consumers in other
	// languages compute it independently.
	sum := sha256.Sum256([]byte("pine-spruce-angel-2024"))
	if want := hex.EncodeToString(sum[:]); key != want {
		t.Errorf("lookup key = %s, want %s", key, want)
	}
}

func TestClearBytes(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	ClearBytes(b)
	for i, v := range b {
		if v != 0 {
			t.Errorf("byte %d not cleared: %d", i, v)
		}
	}
}

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize   = 16     // Salt size in bytes
	KeySize    = 32     // AES-256 key size
	NonceSize  = 12     // GCM nonce size
	TagSize    = 16     // GCM authentication tag size
	Iterations = 100000 // PBKDF2 iterations, fixed by the artifact wire contract
)

// ErrDecryptFailed is the only failure Open reports. Wrong secret, truncated
// blob, bad encoding and tag mismatch are deliberately indistinguishable.
var ErrDecryptFailed = errors.New("decryption failed")

// KDF handles key derivation from secrets
type KDF struct {
	Salt       []byte
	Iterations int
}

// NewKDF creates a new KDF with a random salt
func NewKDF() (*KDF, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	return &KDF{
		Salt:       salt,
		Iterations: Iterations,
	}, nil
}

// DeriveKey derives an encryption key from a secret
func (k *KDF) DeriveKey(secret []byte) []byte {
	key := pbkdf2.Key(secret, k.Salt, k.Iterations, KeySize, sha256.New)
	return key
}

// Encryptor provides authenticated encryption
type Encryptor struct {
	key []byte
}

// NewEncryptor creates a new encryptor with the given key
func NewEncryptor(key []byte) *Encryptor {
	return &Encryptor{
		key: key,
	}
}

// Encrypt encrypts plaintext using AES-256-GCM.
// The returned slice is nonce || ciphertext || tag.
func (e *Encryptor) Encrypt(plaintext []byte) ([]byte, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	// Generate random nonce
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Encrypt and authenticate
	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	// Prepend nonce to ciphertext
	result := make([]byte, NonceSize+len(ciphertext))
	copy(result, nonce)
	copy(result[NonceSize:], ciphertext)

	return result, nil
}

// Decrypt decrypts nonce || ciphertext || tag using AES-256-GCM
func (e *Encryptor) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < NonceSize+TagSize {
		return nil, ErrDecryptFailed
	}

	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	// Extract nonce
	nonce := ciphertext[:NonceSize]
	ciphertext = ciphertext[NonceSize:]

	// Decrypt and verify
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}

	return plaintext, nil
}

// Destroy clears the encryptor's key from memory
func (e *Encryptor) Destroy() {
	ClearBytes(e.key)
}

// Seal derives a fresh key from secret and encrypts plaintext into the
// transport form used by artifact records:
//
//	base64( salt || nonce || ciphertext || tag )
//
// Salt and nonce are newly drawn on every call, so sealing the same payload
// twice never yields the same blob.
func Seal(secret string, plaintext []byte) (string, error) {
	kdf, err := NewKDF()
	if err != nil {
		return "", err
	}

	key := kdf.DeriveKey([]byte(secret))
	defer ClearBytes(key)

	sealed, err := NewEncryptor(key).Encrypt(plaintext)
	if err != nil {
		return "", err
	}

	blob := make([]byte, 0, SaltSize+len(sealed))
	blob = append(blob, kdf.Salt...)
	blob = append(blob, sealed...)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Open reverses Seal: it decodes the blob, re-derives the key with the
// embedded salt and the fixed iteration count, and decrypts. Any failure is
// reported as ErrDecryptFailed.
func Open(secret, encoded string) ([]byte, error) {
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	if len(blob) < SaltSize+NonceSize+TagSize {
		return nil, ErrDecryptFailed
	}

	kdf := &KDF{Salt: blob[:SaltSize], Iterations: Iterations}
	key := kdf.DeriveKey([]byte(secret))
	defer ClearBytes(key)

	plaintext, err := NewEncryptor(key).Decrypt(blob[SaltSize:])
	if err != nil {
		return nil, ErrDecryptFailed
	}

	return plaintext, nil
}

// LookupKey returns the hex-encoded SHA-256 digest of a secret. It indexes
// artifact records, so a holder of one secret can find their own record and
// nothing else. This is a fast digest with a different job than the slow KDF
// above; the two must never be conflated.
func LookupKey(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// GenerateRandom generates n random bytes
func GenerateRandom(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}

// Package crypto provides the per-record encryption for assignment blobs.
//
// Encryption uses AES-256-GCM with:
//   - 32-byte key derived from a participant secret via PBKDF2
//   - 16-byte random salt and 12-byte random nonce, fresh for every call
//   - blob layout salt || nonce || ciphertext || tag, base64 (standard) encoded
//
// Key derivation uses PBKDF2-HMAC-SHA256 with 100,000 iterations. Sizes and
// iteration count are an interop contract shared with the browser-side Web
// Crypto reveal page and the legacy Python generator; changing any of them
// breaks round-trip compatibility with artifacts built elsewhere.
//
// Every decryption failure (wrong secret, truncated blob, bad encoding, tag
// mismatch) is reported as the single ErrDecryptFailed so callers cannot be
// used as an oracle that distinguishes wrong secrets from corrupted data.
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
//   - Call Encryptor.Destroy() when done with a derived key
package crypto

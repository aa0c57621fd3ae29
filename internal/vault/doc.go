// Package vault stores the organizer's side of an exchange: the name to
// secret report and the roster snapshot of the most recent build, encrypted
// under an organizer password in a single bbolt file.
//
// Core operations include:
//   - Create: Initialize a vault with a password-derived encryption key
//   - StoreRun: Replace the stored report after a successful build
//   - Secrets/Roster: Decrypt the stored report
//   - Status: Read build metadata without a password
//
// The participant artifact never depends on the vault; losing the vault
// loses only the organizer's ability to re-issue secrets.
//
// Bucket layout:
//   - config: KDF salt and iterations, timestamps, vault ID (unencrypted)
//   - status: artifact path, participant count, roster hash (unencrypted)
//   - report: secrets and roster snapshot (encrypted)
//   - private: password verification checksum (encrypted)
package vault

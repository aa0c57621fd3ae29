// Package git provides repository hygiene checks for santa files.
//
// Checks performed:
//   - Whether the vault is tracked by git (should not be)
//   - Whether the vault is covered by .gitignore (should be)
//   - Whether the artifact is tracked by git (fine, it is encrypted)
//
// The artifact only holds encrypted records and is safe to commit. The
// vault holds the organizer's secret report behind a password and should
// stay local. These checks power the warnings shown by the status command.
package git

// Package artifact builds and reads the published assignment file.
//
// Core operations include:
//   - Build: Pair a roster, issue secrets and seal one record per giver
//   - Parse/ParseFile: Decode an artifact, dispatching on its version
//   - Recover: Look up and decrypt one assignment from a participant secret
//   - RecoverAll: Decrypt a legacy shared-secret artifact in full
//
// A version 2.0 artifact maps hex lookup keys to independently encrypted
// blobs, so each participant can recover exactly their own assignment and
// nothing else. Version 1.0 artifacts, produced by the earlier tooling,
// hold the whole assignment list under one shared secret and are supported
// read-only.
//
// The artifact is safe to publish: names, bios and secrets appear in it
// only inside ciphertext.
package artifact

// Package exchange validates a participant roster and draws the gift
// assignments for one exchange.
//
// Core operations include:
//   - Validate: Check size, name uniqueness and exclusion references
//   - Pair: Draw a full giver-to-recipient assignment by shuffle and check
//
// Pairing never assigns anyone to themselves and never pairs two
// participants linked by an exclusion, regardless of which of the two
// declared it. Assignments exist only in memory; persisting them is the
// caller's concern.
package exchange

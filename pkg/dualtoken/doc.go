// Package dualtoken issues and verifies the two-part links used for account
// activation and password reset.
//
// Every issuance produces a Pair:
//
//	token_A = Encode(Sign(Encode(Sign([user id][nonce][hash]))))
//	token_B = Encode(Sign([user id][hash][fingerprint]))
//
// where hash is a statehash value bound to the user's id, activation state
// and the current day, nonce is 256 random bits and fingerprint is derived
// from the nonce. Both halves carry their own signing time and expire
// independently after MaxAge. A link is accepted only when both halves
// verify, name the same user, carry the same fingerprint and their hashes
// still match the user's current state.
//
// The Manager ties issuance and verification to a ledger.Store so that each
// pair is persisted before it is handed out and can be consumed once.
package dualtoken

// Package ledger records every issued activation or password-reset token
// pair and enforces that each issuance is consumed at most once.
//
// Entries are append-only. The only mutation is flipping Used from false to
// true, which happens either through Consume (the user redeemed the link) or
// through InvalidatePrior (a newer pair replaced every outstanding one).
// Consume is a compare-and-set in every backend: when two requests race for
// the same entry exactly one of them succeeds and the other gets
// ErrAlreadyUsed.
//
// Backends:
//   - MemoryStore for tests and single-process development.
//   - PostgresStore over database/sql (pgx stdlib driver in production).
//   - MongoStore over the official v2 driver.
package ledger

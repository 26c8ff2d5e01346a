// Package statehash produces keyed hashes that bind a user's identity and
// activation state to a calendar day.
//
// A hash has the form "<days>-<digest>" where days is the number of whole
// UTC days since 2001-01-01 written in base36 and digest is a truncated hex
// HMAC-SHA256 over the user id, that day count and the active flag. Any
// change to the active flag makes every earlier hash fail verification, and
// hashes older than the configured number of days are rejected.
//
//	gen, err := statehash.New(ring, statehash.WithMaxAgeDays(3))
//	if err != nil {
//	    return err
//	}
//	h := gen.MakeToken(statehash.Subject{ID: user.ID, Active: user.IsActive})
//	ok := gen.CheckToken(statehash.Subject{ID: user.ID, Active: user.IsActive}, h)
package statehash

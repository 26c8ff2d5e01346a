// Package token provides timestamped, HMAC-signed byte envelopes and the
// text encoding used to carry them in URLs.
//
// Envelope layout: payload || uint64 signing time (unix seconds, big endian)
// || HMAC-SHA256 tag truncated to 16 bytes. The tag covers payload and
// timestamp. A Signer holds an ordered key ring: the first key signs, every
// key is tried on verification so secrets can be rotated without breaking
// envelopes already in flight.
//
// # Usage
//
//	signer, err := token.NewSigner(ring)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	env := signer.Sign([]byte("payload"))
//	text := token.Encode(env)
//
//	raw, err := token.Decode(text)
//	if err != nil {
//	    return err
//	}
//	payload, err := signer.Unsign(raw, 24*time.Hour)
//
// Unsign returns ErrInvalidToken for truncated input, ErrSignatureInvalid
// when no key produces the tag and ErrExpired when the signature is valid
// but older than maxAge.
//
// Encode produces unpadded base32 (A-Z, 2-7), so encoded envelopes only ever
// contain ASCII letters and digits. Decode accepts only the canonical
// encoding of a byte string.
package token

package dualtoken

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
)

const (
	// NonceSize is the number of random bytes in token_A.
	NonceSize = 32
	// FingerprintSize is the number of nonce-derived bytes shared by both halves.
	FingerprintSize = 16

	idSize = 16
)

// payloadA layout: [16 user id][32 nonce][1 hash length][hash].
type payloadA struct {
	userID uuid.UUID
	nonce  []byte
	hash   string
}

func (p payloadA) marshal() []byte {
	b := make([]byte, 0, idSize+NonceSize+1+len(p.hash))
	b = append(b, p.userID[:]...)
	b = append(b, p.nonce...)
	b = append(b, byte(len(p.hash)))
	return append(b, p.hash...)
}

func parsePayloadA(b []byte) (payloadA, bool) {
	const head = idSize + NonceSize + 1
	if len(b) < head+1 {
		return payloadA{}, false
	}
	n := int(b[head-1])
	if n == 0 || len(b) != head+n {
		return payloadA{}, false
	}

	var p payloadA
	copy(p.userID[:], b[:idSize])
	p.nonce = append([]byte(nil), b[idSize:idSize+NonceSize]...)
	p.hash = string(b[head:])
	return p, true
}

// payloadB layout: [16 user id][1 hash length][hash][16 fingerprint].
type payloadB struct {
	userID      uuid.UUID
	hash        string
	fingerprint []byte
}

func (p payloadB) marshal() []byte {
	b := make([]byte, 0, idSize+1+len(p.hash)+FingerprintSize)
	b = append(b, p.userID[:]...)
	b = append(b, byte(len(p.hash)))
	b = append(b, p.hash...)
	return append(b, p.fingerprint...)
}

func parsePayloadB(b []byte) (payloadB, bool) {
	if len(b) < idSize+1+1+FingerprintSize {
		return payloadB{}, false
	}
	n := int(b[idSize])
	if n == 0 || len(b) != idSize+1+n+FingerprintSize {
		return payloadB{}, false
	}

	var p payloadB
	copy(p.userID[:], b[:idSize])
	p.hash = string(b[idSize+1 : idSize+1+n])
	p.fingerprint = append([]byte(nil), b[idSize+1+n:]...)
	return p, true
}

func fingerprint(nonce []byte) []byte {
	sum := sha256.Sum256(nonce)
	return sum[:FingerprintSize]
}

func fingerprintString(fp []byte) string {
	return hex.EncodeToString(fp)
}

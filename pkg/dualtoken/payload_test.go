package dualtoken

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadA(t *testing.T) {
	t.Parallel()

	p := payloadA{userID: uuid.New(), nonce: bytes.Repeat([]byte{7}, NonceSize), hash: "abc-0123"}
	raw := p.marshal()

	got, ok := parsePayloadA(raw)
	require.True(t, ok)
	assert.Equal(t, p, got)

	_, ok = parsePayloadA(raw[:len(raw)-1])
	assert.False(t, ok, "short hash")
	_, ok = parsePayloadA(append(raw, 'x'))
	assert.False(t, ok, "trailing bytes")
	_, ok = parsePayloadA(raw[:idSize+NonceSize])
	assert.False(t, ok, "missing length")

	empty := payloadA{userID: p.userID, nonce: p.nonce}.marshal()
	_, ok = parsePayloadA(empty)
	assert.False(t, ok, "empty hash")
}

func TestPayloadB(t *testing.T) {
	t.Parallel()

	p := payloadB{userID: uuid.New(), hash: "abc-0123", fingerprint: bytes.Repeat([]byte{9}, FingerprintSize)}
	raw := p.marshal()

	got, ok := parsePayloadB(raw)
	require.True(t, ok)
	assert.Equal(t, p, got)

	_, ok = parsePayloadB(raw[:len(raw)-1])
	assert.False(t, ok)
	_, ok = parsePayloadB(append(raw, 0))
	assert.False(t, ok)
	_, ok = parsePayloadB(nil)
	assert.False(t, ok)
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a := fingerprint(bytes.Repeat([]byte{1}, NonceSize))
	b := fingerprint(bytes.Repeat([]byte{2}, NonceSize))
	assert.Len(t, a, FingerprintSize)
	assert.NotEqual(t, a, b)
	assert.Len(t, fingerprintString(a), FingerprintSize*2)
}

func TestWellFormed(t *testing.T) {
	t.Parallel()

	assert.True(t, wellFormed("ABCxyz019", 10))
	assert.False(t, wellFormed("", 10))
	assert.False(t, wellFormed("ABCDEFGHIJK", 10))
	assert.False(t, wellFormed("AB_C", 10))
	assert.False(t, wellFormed("AB=C", 10))
}

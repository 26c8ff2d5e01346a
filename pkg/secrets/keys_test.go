package secrets_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/accountkit/pkg/secrets"
)

func TestDeriveKey(t *testing.T) {
	t.Parallel()

	t.Run("deterministic", func(t *testing.T) {
		t.Parallel()
		k1, err := secrets.DeriveKey([]byte("secret"), []byte("salt"), secrets.PurposeEnvelope)
		require.NoError(t, err)
		k2, err := secrets.DeriveKey([]byte("secret"), []byte("salt"), secrets.PurposeEnvelope)
		require.NoError(t, err)
		assert.Len(t, k1, secrets.KeySize)
		assert.Equal(t, k1, k2)
	})

	t.Run("purpose separates keys", func(t *testing.T) {
		t.Parallel()
		k1, err := secrets.DeriveKey([]byte("secret"), []byte("salt"), secrets.PurposeEnvelope)
		require.NoError(t, err)
		k2, err := secrets.DeriveKey([]byte("secret"), []byte("salt"), secrets.PurposeStateHash)
		require.NoError(t, err)
		assert.NotEqual(t, k1, k2)
	})

	t.Run("salt separates keys", func(t *testing.T) {
		t.Parallel()
		k1, err := secrets.DeriveKey([]byte("secret"), []byte("a"), secrets.PurposeEnvelope)
		require.NoError(t, err)
		k2, err := secrets.DeriveKey([]byte("secret"), []byte("b"), secrets.PurposeEnvelope)
		require.NoError(t, err)
		assert.NotEqual(t, k1, k2)
	})

	t.Run("empty secret", func(t *testing.T) {
		t.Parallel()
		_, err := secrets.DeriveKey(nil, []byte("salt"), secrets.PurposeEnvelope)
		assert.ErrorIs(t, err, secrets.ErrEmptySecret)
	})
}

func TestDeriveRing(t *testing.T) {
	t.Parallel()

	ring, err := secrets.DeriveRing([]string{"new", "old"}, "salt", secrets.PurposeEnvelope)
	require.NoError(t, err)
	require.Len(t, ring, 2)
	assert.NotEqual(t, ring[0], ring[1])

	first, err := secrets.DeriveKey([]byte("new"), []byte("salt"), secrets.PurposeEnvelope)
	require.NoError(t, err)
	assert.Equal(t, first, ring[0])

	_, err = secrets.DeriveRing(nil, "salt", secrets.PurposeEnvelope)
	assert.ErrorIs(t, err, secrets.ErrNoSecrets)

	_, err = secrets.DeriveRing([]string{"ok", ""}, "salt", secrets.PurposeEnvelope)
	assert.ErrorIs(t, err, secrets.ErrEmptySecret)
}

func TestClearRing(t *testing.T) {
	t.Parallel()

	ring := [][]byte{{1, 2, 3}, {4, 5}}
	secrets.ClearRing(ring)
	assert.Equal(t, []byte{0, 0, 0}, ring[0])
	assert.Equal(t, []byte{0, 0}, ring[1])
}

func TestGenerateSecret(t *testing.T) {
	t.Parallel()

	s1, err := secrets.GenerateSecret()
	require.NoError(t, err)
	s2, err := secrets.GenerateSecret()
	require.NoError(t, err)
	assert.Len(t, s1, secrets.KeySize*2)
	assert.NotEqual(t, s1, s2)
}

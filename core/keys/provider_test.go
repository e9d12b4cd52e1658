package keys_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certflow/certflow/core/keys"
)

func TestAlgorithmValid(t *testing.T) {
	t.Parallel()

	assert.True(t, keys.EC.Valid())
	assert.True(t, keys.RSA.Valid())
	assert.True(t, keys.RSA4096.Valid())
	assert.False(t, keys.Algorithm("ed25519").Valid())
	assert.False(t, keys.Algorithm("").Valid())
}

func TestGenerateSignVerify(t *testing.T) {
	t.Parallel()

	for _, alg := range []keys.Algorithm{keys.EC, keys.RSA, keys.RSA4096} {
		alg := alg
		t.Run(string(alg), func(t *testing.T) {
			t.Parallel()

			kp, err := keys.Generate(alg)
			require.NoError(t, err)
			require.Equal(t, alg, kp.Algorithm)
			require.NotNil(t, kp.PrivateKey)
			require.NotNil(t, kp.PublicKey)

			payload := []byte("arbitrary payload bytes")
			sig, err := kp.Sign(payload)
			require.NoError(t, err)
			require.NotEmpty(t, sig)

			ok, err := kp.Verify(payload, sig)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = kp.Verify([]byte("tampered payload bytes"), sig)
			require.NoError(t, err)
			assert.False(t, ok, "modified payload must not verify")

			other, err := keys.Generate(alg)
			require.NoError(t, err)
			ok, err = other.Verify(payload, sig)
			require.NoError(t, err)
			assert.False(t, ok, "foreign public key must not verify")
		})
	}
}

func TestGenerateDefaultsToEC(t *testing.T) {
	t.Parallel()

	kp, err := keys.Generate("")
	require.NoError(t, err)
	assert.Equal(t, keys.EC, kp.Algorithm)
}

func TestGenerateUnsupportedAlgorithm(t *testing.T) {
	t.Parallel()

	kp, err := keys.Generate("dsa")
	assert.Nil(t, kp)
	assert.ErrorIs(t, err, keys.ErrUnsupportedAlgorithm)
}

func TestImportHMACKey(t *testing.T) {
	t.Parallel()

	// 32 bytes of secret, base64url without padding.
	const secret = "AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8"

	key, err := keys.ImportHMACKey(secret)
	require.NoError(t, err)

	data := []byte("authenticate me")
	tag := key.Sign(data)
	require.NotEmpty(t, tag)

	// Deterministic for identical key and data.
	assert.Equal(t, tag, key.Sign(data))
	assert.True(t, key.Verify(data, tag))
	assert.False(t, key.Verify([]byte("different data"), tag))

	again, err := keys.ImportHMACKey(secret)
	require.NoError(t, err)
	assert.Equal(t, tag, again.Sign(data))
}

func TestImportHMACKeyRejectsInvalidSecret(t *testing.T) {
	t.Parallel()

	key, err := keys.ImportHMACKey("not!base64url*at&all")
	assert.Nil(t, key)
	assert.ErrorIs(t, err, keys.ErrInvalidSecret)
}

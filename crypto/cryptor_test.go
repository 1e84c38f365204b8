package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var key, _ = base64.StdEncoding.DecodeString("f1gKitOJ3Embg8zM6DejnEafFI7gsIFeXwFlSHZCuf0=")

func TestCryptor_RoundTrip(t *testing.T) {
	cryptor := New(key)
	plaintext := []byte("cached payload")

	ciphertext, err := cryptor.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, string(plaintext), ciphertext)

	decrypted, err := cryptor.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestCryptor_UniqueNonce(t *testing.T) {
	cryptor := New(key)
	c1, err := cryptor.Encrypt([]byte("x"))
	require.NoError(t, err)
	c2, err := cryptor.Encrypt([]byte("x"))
	require.NoError(t, err)
	assert.NotEqual(t, c1, c2)
}

func TestCryptor_DecryptErrors(t *testing.T) {
	cryptor := New(key)

	_, err := cryptor.Decrypt("not base64!!")
	assert.Error(t, err)

	_, err = cryptor.Decrypt(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)

	// Tampered ciphertext fails authentication.
	ciphertext, err := cryptor.Encrypt([]byte("payload"))
	require.NoError(t, err)
	raw, _ := base64.StdEncoding.DecodeString(ciphertext)
	raw[len(raw)-1] ^= 0xff
	_, err = cryptor.Decrypt(base64.StdEncoding.EncodeToString(raw))
	assert.Error(t, err)
}

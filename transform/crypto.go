package transform

import (
	"github.com/saltfishpr/asynccache/crypto"
	"github.com/saltfishpr/asynccache/future"
)

// NewEncryptor returns a TwoWay that encrypts plaintext into an AES-GCM
// ciphertext string and decrypts it back. Wrapped around a persistent level
// via cache.TransformValues it yields at-rest encryption of cached values:
// Set encrypts on the way down, Get decrypts on the way up.
//
// key must be a valid AES key (16, 24 or 32 bytes); an invalid key surfaces
// as a failure on first use.
func NewEncryptor(key []byte) TwoWay[string, []byte] {
	c := crypto.New(key)
	return NewTwoWay(
		func(ciphertext string) *future.Future[[]byte] {
			return future.Async(func() ([]byte, error) {
				return c.Decrypt(ciphertext)
			})
		},
		func(plaintext []byte) *future.Future[string] {
			return future.Async(func() (string, error) {
				return c.Encrypt(plaintext)
			})
		},
	)
}

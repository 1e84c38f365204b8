// Package crypto 提供 AES-GCM 对称加解密，供 transform.NewEncryptor
// 对缓存值做落盘加密。
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"io"

	"github.com/pkg/errors"
)

const nonceSize = 12 // GCM 推荐的 nonce 长度为 12 字节

// Cryptor 加密解密器。key 必须是 16、24 或 32 字节的 AES 密钥。
type Cryptor struct {
	key []byte
}

// New 创建一个新的加密解密器
func New(key []byte) *Cryptor {
	return &Cryptor{key: key}
}

// Encrypt 使用 AES-GCM 加密，返回 base64 编码的 nonce+密文。
func (c *Cryptor) Encrypt(plaintext []byte) (string, error) {
	aesGCM, err := c.gcm()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.WithStack(err)
	}

	// 拼接 nonce 和密文
	sealed := aesGCM.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt 解密 Encrypt 的输出。
func (c *Cryptor) Decrypt(encoded string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(data) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}

	aesGCM, err := c.gcm()
	if err != nil {
		return nil, err
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return plaintext, nil
}

func (c *Cryptor) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return aesGCM, nil
}

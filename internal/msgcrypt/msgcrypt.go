// Package msgcrypt implements the content-at-rest transform for message
// bodies: AES-256-CBC with PKCS#7 padding, serialized as ivHex:cipherHex.
// This is transport-at-rest obfuscation keyed by a process-wide secret, not
// a security boundary.
package msgcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const keySize = 32

var (
	ErrMalformed  = errors.New("malformed encoded value")
	ErrBadPadding = errors.New("invalid padding")
)

// Codec encodes and decodes message content with a fixed key derived from
// the configured secret.
type Codec struct {
	key []byte
}

// New derives the 32-byte key from secret: longer secrets are truncated,
// shorter ones zero-padded.
func New(secret string) *Codec {
	key := make([]byte, keySize)
	copy(key, secret)
	return &Codec{key: key}
}

// Encode encrypts plain and returns ivHex:cipherHex. A fresh random IV is
// drawn per call, so two encodings of the same content differ.
func (c *Codec) Encode(plain string) (string, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("generating iv: %w", err)
	}

	padded := pad([]byte(plain), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(out), nil
}

// Decode reverses Encode. Callers must treat any error as a signal to fall
// back to the stored raw value; a failed decode never aborts a read path.
func (c *Codec) Decode(encoded string) (string, error) {
	ivHex, cipherHex, ok := strings.Cut(encoded, ":")
	if !ok {
		return "", ErrMalformed
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != aes.BlockSize {
		return "", ErrMalformed
	}

	data, err := hex.DecodeString(cipherHex)
	if err != nil || len(data) == 0 || len(data)%aes.BlockSize != 0 {
		return "", ErrMalformed
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}

	plain := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, data)

	unpadded, err := unpad(plain, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padding := make([]byte, n)
	for i := range padding {
		padding[i] = byte(n)
	}
	return append(data, padding...)
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrBadPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, ErrBadPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrBadPadding
		}
	}
	return data[:len(data)-n], nil
}

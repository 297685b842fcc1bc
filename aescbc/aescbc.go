/*
Copyright 2024, Cossack Labs Limited

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package aescbc wraps AES in CBC mode with PKCS#7 padding. Every encryption
// draws a fresh 16-byte IV from the cipher's random source, an IV is never
// reused across messages under the same key.
package aescbc

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"io"
)

// BlockSize AES block size in bytes, also the IV size
const BlockSize = aes.BlockSize

// Set of errors returned by encryption/decryption
var (
	ErrInvalidKeyLength        = errors.New("invalid key length, acceptable lengths are 16, 24 or 32 bytes")
	ErrInvalidCiphertextLength = errors.New("ciphertext length is not a multiple of the block size")
	ErrInvalidIVLength         = errors.New("IV length is not one block")
	// ErrInvalidPadding signals wrong key, wrong IV or corrupted ciphertext,
	// these causes are not distinguished
	ErrInvalidPadding = errors.New("invalid PKCS#7 padding")
)

// Cipher performs AES-CBC encryption with an injected random source for IV
// generation. The zero source means crypto/rand
type Cipher struct {
	rand io.Reader
}

// NewCipher returns Cipher backed by the process-wide secure random source
func NewCipher() *Cipher {
	return &Cipher{rand: rand.Reader}
}

// NewCipherWithRand returns Cipher that draws IVs from r
func NewCipherWithRand(r io.Reader) *Cipher {
	return &Cipher{rand: r}
}

// ValidKeyLength reports whether length selects AES-128/192/256
func ValidKeyLength(length int) bool {
	return length == 16 || length == 24 || length == 32
}

// Encrypt generates a fresh random IV, pads plaintext with PKCS#7 and
// encrypts it with AES-CBC. Returns ciphertext and the IV used
func (c *Cipher) Encrypt(plaintext, key []byte) ([]byte, []byte, error) {
	if !ValidKeyLength(len(key)) {
		return nil, nil, ErrInvalidKeyLength
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, err
	}
	iv := make([]byte, BlockSize)
	if _, err := io.ReadFull(c.rand, iv); err != nil {
		return nil, nil, err
	}
	padded := pad(plaintext)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)
	return ciphertext, iv, nil
}

// Decrypt reverses Encrypt with the caller-supplied IV and validates padding
// after decryption
func (c *Cipher) Decrypt(ciphertext, key, iv []byte) ([]byte, error) {
	if !ValidKeyLength(len(key)) {
		return nil, ErrInvalidKeyLength
	}
	if len(iv) != BlockSize {
		return nil, ErrInvalidIVLength
	}
	if len(ciphertext) == 0 || len(ciphertext)%BlockSize != 0 {
		return nil, ErrInvalidCiphertextLength
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)
	return unpad(plaintext)
}

var defaultCipher = NewCipher()

// Encrypt encrypts plaintext with the default Cipher
func Encrypt(plaintext, key []byte) ([]byte, []byte, error) {
	return defaultCipher.Encrypt(plaintext, key)
}

// Decrypt decrypts ciphertext with the default Cipher
func Decrypt(ciphertext, key, iv []byte) ([]byte, error) {
	return defaultCipher.Decrypt(ciphertext, key, iv)
}

// pad appends PKCS#7 padding, always at least one byte so block-aligned
// input grows by a full block
func pad(data []byte) []byte {
	padLength := BlockSize - len(data)%BlockSize
	padded := make([]byte, len(data)+padLength)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLength)
	}
	return padded
}

// unpad validates and strips PKCS#7 padding without leaking which byte
// failed validation
func unpad(data []byte) ([]byte, error) {
	padLength := int(data[len(data)-1])
	if padLength == 0 || padLength > BlockSize || padLength > len(data) {
		return nil, ErrInvalidPadding
	}
	valid := 1
	for _, b := range data[len(data)-padLength:] {
		valid &= subtle.ConstantTimeByteEq(b, byte(padLength))
	}
	if valid != 1 {
		return nil, ErrInvalidPadding
	}
	return data[:len(data)-padLength], nil
}

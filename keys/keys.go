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

// Package keys generates and validates symmetric encryption keys. Keys are
// 16, 24 or 32 bytes long, selecting AES-128/192/256, and travel as
// lowercase hex strings of twice that length.
package keys

import (
	"crypto/rand"
	"errors"

	"golang.org/x/crypto/argon2"

	"github.com/cossacklabs/ripe/hexutils"
)

// Set of errors returned on invalid key material
var (
	ErrInvalidKeyLength = errors.New("invalid key length, acceptable lengths are 16, 24 or 32")
	ErrInvalidKeyHex    = errors.New("key is not a valid hex string")
)

// Argon2id parameters for passphrase-based key derivation
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
)

// ValidKeyLength reports whether length in bytes is acceptable key material
func ValidKeyLength(length int) bool {
	return length == 16 || length == 24 || length == 32
}

// GenerateSymmetricKey returns a new random key of length bytes as a hex
// string of 2*length characters
func GenerateSymmetricKey(length int) (string, error) {
	if !ValidKeyLength(length) {
		return "", ErrInvalidKeyLength
	}
	key := make([]byte, length)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return string(hexutils.Encode(key)), nil
}

// ValidateKeyHex decodes a hex-encoded key and checks that the raw length
// selects a supported cipher strength
func ValidateKeyHex(hexKey string) ([]byte, error) {
	key, err := hexutils.Decode([]byte(hexKey))
	if err != nil {
		return nil, ErrInvalidKeyHex
	}
	if !ValidKeyLength(len(key)) {
		return nil, ErrInvalidKeyLength
	}
	return key, nil
}

// DeriveKey derives key material of length bytes from a passphrase and salt
// using Argon2id
func DeriveKey(passphrase, salt []byte, length int) ([]byte, error) {
	if !ValidKeyLength(length) {
		return nil, ErrInvalidKeyLength
	}
	return argon2.IDKey(passphrase, salt, argon2Time, argon2Memory, argon2Threads, uint32(length)), nil
}

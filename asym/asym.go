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

// Package asym provides the RSA collaborator consumed by packet framing:
// PKCS#1 v1.5 encryption, signing, key pair generation and PEM persistence.
package asym

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"os"

	"github.com/cossacklabs/ripe/hexutils"
)

// DefaultKeyLength RSA modulus size used when the caller does not choose one
const DefaultKeyLength = 2048

// Set of errors returned on invalid key material
var (
	ErrInvalidPublicKey  = errors.New("can't load public key")
	ErrInvalidPrivateKey = errors.New("can't load private key")
)

const (
	pemTypePrivate = "RSA PRIVATE KEY"
	pemTypePublic  = "PUBLIC KEY"
)

// KeyPair holds PEM-encoded RSA private and public keys
type KeyPair struct {
	Private []byte
	Public  []byte
}

// GenerateKeyPair generates a new RSA key pair of bits modulus length and
// returns both halves as PEM blobs
func GenerateKeyPair(bits int) (*KeyPair, error) {
	key, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, err
	}
	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, err
	}
	return &KeyPair{
		Private: pem.EncodeToMemory(&pem.Block{Type: pemTypePrivate, Bytes: x509.MarshalPKCS1PrivateKey(key)}),
		Public:  pem.EncodeToMemory(&pem.Block{Type: pemTypePublic, Bytes: publicDER}),
	}, nil
}

// WriteKeyPair persists a key pair to files, the private key readable by
// owner only
func WriteKeyPair(pair *KeyPair, privateFile, publicFile string) error {
	if err := os.WriteFile(privateFile, pair.Private, 0600); err != nil {
		return err
	}
	return os.WriteFile(publicFile, pair.Public, 0644)
}

// MaxBlockSize returns the largest plaintext in bytes that one PKCS#1 v1.5
// encryption under a bits-long key can carry
func MaxBlockSize(bits int) int {
	return bits/8 - 11
}

// Encrypt encrypts data with PKCS#1 v1.5 under the PEM-encoded public key
func Encrypt(data []byte, publicPEM []byte) ([]byte, error) {
	publicKey, err := parsePublicKey(publicPEM)
	if err != nil {
		return nil, err
	}
	return rsa.EncryptPKCS1v15(rand.Reader, publicKey, data)
}

// EncryptEncoded encrypts data and Base64-encodes the result unless raw is
// set
func EncryptEncoded(data []byte, publicPEM []byte, raw bool) ([]byte, error) {
	encrypted, err := Encrypt(data, publicPEM)
	if err != nil {
		return nil, err
	}
	if raw {
		return encrypted, nil
	}
	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(encrypted)))
	base64.StdEncoding.Encode(encoded, encrypted)
	return encoded, nil
}

// EncryptToFile encrypts data and writes it to path instead of returning it,
// Base64-encoded unless raw is set
func EncryptToFile(data []byte, publicPEM []byte, raw bool, path string) error {
	encrypted, err := EncryptEncoded(data, publicPEM, raw)
	if err != nil {
		return err
	}
	return os.WriteFile(path, encrypted, 0600)
}

// Decrypt decrypts PKCS#1 v1.5 ciphertext with the PEM-encoded private key.
// passphrase unlocks an encrypted PEM block and may be nil for plaintext
// keys
func Decrypt(data []byte, privatePEM []byte, passphrase []byte) ([]byte, error) {
	privateKey, err := parsePrivateKey(privatePEM, passphrase)
	if err != nil {
		return nil, err
	}
	return rsa.DecryptPKCS1v15(rand.Reader, privateKey, data)
}

// DecryptEncoded Base64-decodes and/or hex-decodes data before decrypting,
// both may apply in sequence
func DecryptEncoded(data []byte, privatePEM []byte, passphrase []byte, isBase64, isHex bool) ([]byte, error) {
	if isBase64 {
		decoded := make([]byte, base64.StdEncoding.DecodedLen(len(data)))
		n, err := base64.StdEncoding.Decode(decoded, data)
		if err != nil {
			return nil, err
		}
		data = decoded[:n]
	}
	if isHex {
		decoded, err := hexutils.Decode(data)
		if err != nil {
			return nil, err
		}
		data = decoded
	}
	return Decrypt(data, privatePEM, passphrase)
}

// Sign signs data with PKCS#1 v1.5 over SHA-1 and returns the signature as
// a hex string. SHA-1 keeps compatibility with legacy Ripe signatures
func Sign(data []byte, privatePEM []byte, passphrase []byte) (string, error) {
	privateKey, err := parsePrivateKey(privatePEM, passphrase)
	if err != nil {
		return "", err
	}
	digest := sha1.Sum(data)
	signature, err := rsa.SignPKCS1v15(rand.Reader, privateKey, crypto.SHA1, digest[:])
	if err != nil {
		return "", err
	}
	return string(hexutils.Encode(signature)), nil
}

// Verify checks a hex-encoded PKCS#1 v1.5 SHA-1 signature of data. It
// returns false without error on signature mismatch, errors are reserved
// for malformed keys and signatures
func Verify(data []byte, hexSignature string, publicPEM []byte) (bool, error) {
	publicKey, err := parsePublicKey(publicPEM)
	if err != nil {
		return false, err
	}
	signature, err := hexutils.Decode([]byte(hexSignature))
	if err != nil {
		return false, err
	}
	digest := sha1.Sum(data)
	if err := rsa.VerifyPKCS1v15(publicKey, crypto.SHA1, digest[:], signature); err != nil {
		return false, nil
	}
	return true, nil
}

func parsePublicKey(publicPEM []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(publicPEM)
	if block == nil {
		return nil, ErrInvalidPublicKey
	}
	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		// legacy PKCS#1 public keys
		if key, pkcs1Err := x509.ParsePKCS1PublicKey(block.Bytes); pkcs1Err == nil {
			return key, nil
		}
		return nil, ErrInvalidPublicKey
	}
	publicKey, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, ErrInvalidPublicKey
	}
	return publicKey, nil
}

func parsePrivateKey(privatePEM []byte, passphrase []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(privatePEM)
	if block == nil {
		return nil, ErrInvalidPrivateKey
	}
	der := block.Bytes
	if x509.IsEncryptedPEMBlock(block) {
		if len(passphrase) == 0 {
			return nil, ErrInvalidPrivateKey
		}
		decrypted, err := x509.DecryptPEMBlock(block, passphrase)
		if err != nil {
			return nil, ErrInvalidPrivateKey
		}
		der = decrypted
	}
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, ErrInvalidPrivateKey
	}
	privateKey, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrInvalidPrivateKey
	}
	return privateKey, nil
}

// EncryptPrivatePEM wraps a plaintext private PEM into a passphrase
// encrypted one (legacy OpenSSL PEM encryption, AES-256-CBC)
func EncryptPrivatePEM(privatePEM []byte, passphrase []byte) ([]byte, error) {
	block, _ := pem.Decode(privatePEM)
	if block == nil {
		return nil, ErrInvalidPrivateKey
	}
	encrypted, err := x509.EncryptPEMBlock(rand.Reader, block.Type, block.Bytes, passphrase, x509.PEMCipherAES256)
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(encrypted), nil
}

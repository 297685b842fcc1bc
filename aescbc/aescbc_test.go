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

package aescbc

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

func testRoundTrip(keyLength int) error {
	key := make([]byte, keyLength)
	if _, err := rand.Read(key); err != nil {
		return err
	}
	testData := [][]byte{
		{},
		[]byte(`a`),
		[]byte(`some data`),
		bytes.Repeat([]byte{0xab}, BlockSize),
		bytes.Repeat([]byte{0xcd}, BlockSize*4+3),
	}
	for _, data := range testData {
		ciphertext, iv, err := Encrypt(data, key)
		if err != nil {
			return err
		}
		decrypted, err := Decrypt(ciphertext, key, iv)
		if err != nil {
			return err
		}
		if !bytes.Equal(decrypted, data) {
			return errors.New("decrypted data not equal with source data")
		}
	}
	return nil
}

func TestRoundTripAllKeyLengths(t *testing.T) {
	for _, keyLength := range []int{16, 24, 32} {
		if err := testRoundTrip(keyLength); err != nil {
			t.Fatal(err)
		}
	}
}

func TestInvalidKeyLength(t *testing.T) {
	for _, keyLength := range []int{0, 1, 15, 17, 33, 64} {
		key := make([]byte, keyLength)
		if _, _, err := Encrypt([]byte(`data`), key); err != ErrInvalidKeyLength {
			t.Fatalf("Expect ErrInvalidKeyLength on %d-byte key", keyLength)
		}
		if _, err := Decrypt(make([]byte, BlockSize), key, make([]byte, BlockSize)); err != ErrInvalidKeyLength {
			t.Fatalf("Expect ErrInvalidKeyLength on %d-byte key", keyLength)
		}
	}
}

func TestPaddingAlwaysAddsFullBlockOnAlignedInput(t *testing.T) {
	key := make([]byte, 16)
	for _, plainSize := range []int{0, BlockSize, BlockSize * 2} {
		ciphertext, _, err := Encrypt(make([]byte, plainSize), key)
		if err != nil {
			t.Fatal(err)
		}
		if len(ciphertext) != plainSize+BlockSize {
			t.Fatalf("Expect %d-byte ciphertext for %d-byte aligned plaintext, took %d",
				plainSize+BlockSize, plainSize, len(ciphertext))
		}
	}
}

func TestDeterministicIVWithInjectedRand(t *testing.T) {
	fixedIV := bytes.Repeat([]byte{0x42}, BlockSize)
	c := NewCipherWithRand(bytes.NewReader(fixedIV))
	key := make([]byte, 16)
	_, iv, err := c.Encrypt([]byte(`data`), key)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(iv, fixedIV) {
		t.Fatal("Expect IV drawn from injected random source")
	}
}

func TestIVUniqueness(t *testing.T) {
	key := make([]byte, 16)
	_, iv1, err := Encrypt([]byte(`data`), key)
	if err != nil {
		t.Fatal(err)
	}
	_, iv2, err := Encrypt([]byte(`data`), key)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(iv1, iv2) {
		t.Fatal("Expect fresh IV for every encryption")
	}
}

func TestDecryptFailures(t *testing.T) {
	key := make([]byte, 16)
	ciphertext, iv, err := Encrypt([]byte(`some data`), key)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Decrypt(ciphertext[:len(ciphertext)-1], key, iv); err != ErrInvalidCiphertextLength {
		t.Fatal("Expect ErrInvalidCiphertextLength on truncated ciphertext")
	}
	if _, err := Decrypt(nil, key, iv); err != ErrInvalidCiphertextLength {
		t.Fatal("Expect ErrInvalidCiphertextLength on empty ciphertext")
	}
	if _, err := Decrypt(ciphertext, key, iv[:8]); err != ErrInvalidIVLength {
		t.Fatal("Expect ErrInvalidIVLength on short IV")
	}

	wrongKey := bytes.Repeat([]byte{1}, 16)
	if _, err := Decrypt(ciphertext, wrongKey, iv); err != ErrInvalidPadding {
		t.Fatal("Expect ErrInvalidPadding on wrong key")
	}

	// corrupt last ciphertext block, padding validation must catch it
	corrupted := make([]byte, len(ciphertext))
	copy(corrupted, ciphertext)
	corrupted[len(corrupted)-1]++
	if _, err := Decrypt(corrupted, key, iv); err != ErrInvalidPadding {
		t.Fatal("Expect ErrInvalidPadding on corrupted ciphertext")
	}
}

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

package packet

import (
	"fmt"
	"os"

	"github.com/cossacklabs/ripe/hexutils"
	"github.com/cossacklabs/ripe/keys"
)

// FrameToFile assembles a packet and writes it to path instead of returning
// it. The file is opened, written, flushed and closed on every exit path
func (f *Framer) FrameToFile(plaintext []byte, hexKey string, clientID string, path string) error {
	data, err := f.Frame(plaintext, hexKey, clientID)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// EncryptToFile encrypts plaintext and writes a human-readable
// "IV: <32 hex chars>" line followed by the raw ciphertext bytes to path.
// Returns the dense IV hex for the caller
func (f *Framer) EncryptToFile(plaintext []byte, hexKey string, path string) (string, error) {
	key, err := keys.ValidateKeyHex(hexKey)
	if err != nil {
		return "", err
	}
	ciphertext, iv, err := f.cipher.Encrypt(plaintext, key)
	if err != nil {
		return "", err
	}
	ivHex := string(hexutils.Encode(iv))
	data := append([]byte(fmt.Sprintf("IV: %s\n", ivHex)), ciphertext...)
	if err := writeFile(path, data); err != nil {
		return "", err
	}
	return ivHex, nil
}

// FrameToFile assembles a packet with the default Framer and writes it to
// path
func FrameToFile(plaintext []byte, hexKey string, clientID string, path string) error {
	return defaultFramer.FrameToFile(plaintext, hexKey, clientID, path)
}

// EncryptToFile encrypts with the default Framer and writes the IV line and
// raw ciphertext to path
func EncryptToFile(plaintext []byte, hexKey string, path string) (string, error) {
	return defaultFramer.EncryptToFile(plaintext, hexKey, path)
}

func writeFile(path string, data []byte) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer file.Close()
	if _, err := file.Write(data); err != nil {
		return err
	}
	return file.Sync()
}

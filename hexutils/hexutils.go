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

// Package hexutils converts between raw byte sequences and their textual
// hexadecimal representation, including the spaced-hex IV form used by
// packet parsing.
package hexutils

import (
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
)

// NormalizedIVHexSize length of a 16-byte IV rendered as hex pairs separated
// by single spaces: 16 pairs and 15 separators
const NormalizedIVHexSize = 47

// DenseIVHexSize length of a 16-byte IV rendered as dense lowercase hex
const DenseIVHexSize = 32

// ErrInvalidHex returned on odd-length or non-hexadecimal input
var ErrInvalidHex = errors.New("invalid hex data")

// Encode returns dense lowercase hex representation of raw
func Encode(raw []byte) []byte {
	out := make([]byte, hex.EncodedLen(len(raw)))
	hex.Encode(out, raw)
	return out
}

// Decode parses dense hex data into raw bytes. It is strict: odd length or
// any non-hex byte returns ErrInvalidHex
func Decode(hexData []byte) ([]byte, error) {
	out := make([]byte, hex.DecodedLen(len(hexData)))
	n, err := hex.Decode(out, hexData)
	if err != nil {
		return nil, ErrInvalidHex
	}
	return out[:n], nil
}

// NormalizeHex reformats a dense 32-character IV hex digest into the spaced
// token form, one space after every hex pair. Inputs of any other length are
// returned unchanged with false, callers must check the flag before relying
// on the result
func NormalizeHex(ivHex string) (string, bool) {
	if len(ivHex) != DenseIVHexSize {
		return ivHex, false
	}
	var out strings.Builder
	out.Grow(NormalizedIVHexSize)
	for i := 0; i < DenseIVHexSize; i += 2 {
		if i > 0 {
			out.WriteByte(' ')
		}
		out.WriteString(ivHex[i : i+2])
	}
	return out.String(), true
}

// ParseHexTokens parses a whitespace-separated stream of hex byte tokens in
// order and stops silently at the first token that is not a valid unsigned
// hex byte. Malformed input yields whatever bytes were parsed before the
// failure, callers validate the returned length themselves
func ParseHexTokens(spacedHex string) []byte {
	tokens := strings.Fields(spacedHex)
	out := make([]byte, 0, len(tokens))
	for _, token := range tokens {
		value, err := strconv.ParseUint(token, 16, 8)
		if err != nil {
			break
		}
		out = append(out, byte(value))
	}
	return out
}

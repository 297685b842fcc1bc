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

// Package packet frames AES-CBC encrypted messages into self-describing
// delimited packets and parses them back.
//
// Wire layout of one packet in its transport-encoded form:
//
//	<32-hex-char IV> ":" [<clientID> ":"] <Base64 ciphertext> "\r\n\r\n"
//
// The client id field is optional and is not separately flagged, its
// presence is recovered positionally during parsing.
package packet

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"strings"

	"github.com/cossacklabs/ripe/aescbc"
	"github.com/cossacklabs/ripe/hexutils"
	"github.com/cossacklabs/ripe/keys"
)

// Set of errors returned by framing and parsing
var (
	ErrMalformedPacket   = errors.New("malformed packet, no IV segment before the first data delimiter")
	ErrInvalidIV         = errors.New("recovered IV is not exactly one cipher block")
	ErrClientIDDelimiter = errors.New("client id must not contain the data delimiter")
)

// Layout describes which fields a packet carries before the ciphertext
// payload
type Layout int

// Recognized packet layouts. A packet is malformed when the first data
// delimiter is not preceded by exactly one dense-hex IV
const (
	LayoutMalformed Layout = iota
	LayoutIVOnly
	LayoutIVAndClient
)

// Framer drives the cipher adapter and assembles framed packets. The zero
// value is not usable, construct it with NewFramer or NewFramerWithRand
type Framer struct {
	cipher *aescbc.Cipher
}

// NewFramer returns Framer drawing IVs from the process-wide secure random
// source
func NewFramer() *Framer {
	return &Framer{cipher: aescbc.NewCipher()}
}

// NewFramerWithRand returns Framer drawing IVs from r
func NewFramerWithRand(r io.Reader) *Framer {
	return &Framer{cipher: aescbc.NewCipherWithRand(r)}
}

// Frame encrypts plaintext under the hex-encoded key and assembles the final
// delimited packet. clientID may be empty and must not contain the data
// delimiter. Output length always equals EstimateSize of the input sizes
func (f *Framer) Frame(plaintext []byte, hexKey string, clientID string) ([]byte, error) {
	key, err := keys.ValidateKeyHex(hexKey)
	if err != nil {
		return nil, err
	}
	if strings.ContainsRune(clientID, DataDelimiter) {
		return nil, ErrClientIDDelimiter
	}
	ciphertext, iv, err := f.cipher.Encrypt(plaintext, key)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	out.Grow(EstimateSize(len(plaintext), len(clientID)))
	out.Write(hexutils.Encode(iv))
	out.WriteByte(DataDelimiter)
	if len(clientID) > 0 {
		out.WriteString(clientID)
		out.WriteByte(DataDelimiter)
	}
	out.WriteString(base64.StdEncoding.EncodeToString(ciphertext))
	out.WriteString(PacketDelimiter)
	return out.Bytes(), nil
}

// Split recovers the IV hex segment, the optional client id and the
// ciphertext payload of one raw packet. A trailing packet delimiter is
// accepted and stripped. The IV segment is recognized only when the first
// data delimiter occurs at exactly offset IVHexSize, any other position
// yields LayoutMalformed
func Split(raw []byte) (Layout, string, string, []byte) {
	data := bytes.TrimSuffix(raw, []byte(PacketDelimiter))
	first := bytes.IndexByte(data, DataDelimiter)
	if first != IVHexSize {
		return LayoutMalformed, "", "", nil
	}
	ivHex := string(data[:first])
	rest := data[first+1:]
	if second := bytes.IndexByte(rest, DataDelimiter); second != -1 {
		return LayoutIVAndClient, ivHex, string(rest[:second]), rest[second+1:]
	}
	return LayoutIVOnly, ivHex, "", rest
}

// Parse recovers plaintext from a transport-encoded packet produced by
// Frame. The client id field, when present, is ignored
func Parse(raw []byte, hexKey string) ([]byte, error) {
	return Decrypt(raw, hexKey, "", true, false)
}

// Decrypt is the full inverse of framing. When ivHex is empty and the input
// is Base64 transport-encoded, the IV is recovered from the packet itself,
// otherwise ivHex supplies it in either dense (32 chars) or space-separated
// token form. The payload is Base64-decoded when isBase64 is set and
// hex-decoded after that when isHex is set, both may apply in sequence
func Decrypt(raw []byte, hexKey string, ivHex string, isBase64, isHex bool) ([]byte, error) {
	payload := raw
	var iv []byte
	if ivHex == "" && isBase64 {
		layout, packetIVHex, _, packetPayload := Split(raw)
		if layout == LayoutMalformed {
			return nil, ErrMalformedPacket
		}
		decoded, err := hexutils.Decode([]byte(packetIVHex))
		if err != nil {
			return nil, ErrInvalidIV
		}
		iv = decoded
		payload = packetPayload
	} else {
		iv = decodeIVOverride(ivHex)
		if isBase64 {
			// binary ciphertext may legitimately end with these bytes, only
			// text-encoded payloads carry a trailing packet delimiter
			payload = bytes.TrimSuffix(raw, []byte(PacketDelimiter))
		}
	}
	if len(iv) != aescbc.BlockSize {
		return nil, ErrInvalidIV
	}
	if isBase64 {
		decoded := make([]byte, base64.StdEncoding.DecodedLen(len(payload)))
		n, err := base64.StdEncoding.Decode(decoded, payload)
		if err != nil {
			return nil, err
		}
		payload = decoded[:n]
	}
	if isHex {
		decoded, err := hexutils.Decode(payload)
		if err != nil {
			return nil, err
		}
		payload = decoded
	}
	key, err := keys.ValidateKeyHex(hexKey)
	if err != nil {
		return nil, err
	}
	return aescbc.Decrypt(payload, key, iv)
}

// decodeIVOverride accepts the dense 32-character form directly and falls
// back to best-effort spaced-token parsing for anything else. Length
// validation is left to the caller
func decodeIVOverride(ivHex string) []byte {
	if len(ivHex) == IVHexSize {
		if iv, err := hexutils.Decode([]byte(ivHex)); err == nil {
			return iv
		}
	}
	return hexutils.ParseHexTokens(ivHex)
}

// CipherLength returns the AES-CBC ciphertext length for plainSize bytes of
// input. PKCS#7 always pads, aligned input grows by a full block
func CipherLength(plainSize int) int {
	return ((plainSize / aescbc.BlockSize) + 1) * aescbc.BlockSize
}

// EstimateSize computes the exact byte length a framed packet will occupy
// for the given plaintext and client id sizes, without encrypting. It
// matches the length of Frame output for every input
func EstimateSize(plainSize, clientIDSize int) int {
	size := IVHexSize + 1
	if clientIDSize > 0 {
		size += clientIDSize + 1
	}
	return size + base64.StdEncoding.EncodedLen(CipherLength(plainSize)) + PacketDelimiterSize
}

var defaultFramer = NewFramer()

// Frame assembles a packet with the default Framer
func Frame(plaintext []byte, hexKey string, clientID string) ([]byte, error) {
	return defaultFramer.Frame(plaintext, hexKey, clientID)
}

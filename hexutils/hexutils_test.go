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

package hexutils

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	testData := [][]byte{
		nil,
		{0},
		{0xff},
		[]byte(`some data`),
		{0x00, 0x01, 0x7f, 0x80, 0xfe, 0xff},
	}
	for _, data := range testData {
		encoded := Encode(data)
		if strings.ToLower(string(encoded)) != string(encoded) {
			t.Fatalf("Expect lowercase hex, took %s", encoded)
		}
		decoded, err := Decode(encoded)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(decoded, data) {
			t.Fatalf("Decoded data not equal with source data: %v != %v", decoded, data)
		}
	}
}

func TestDecodeStrictness(t *testing.T) {
	invalid := []string{"a", "abc", "zz", "0g", "a b"}
	for _, input := range invalid {
		if _, err := Decode([]byte(input)); err != ErrInvalidHex {
			t.Fatalf("Expect ErrInvalidHex on %q", input)
		}
	}
}

func TestNormalizeHex(t *testing.T) {
	ivHex := "000102030405060708090a0b0c0d0e0f"
	normalized, ok := NormalizeHex(ivHex)
	if !ok {
		t.Fatal("Expect successful normalization of 32-char IV hex")
	}
	if len(normalized) != NormalizedIVHexSize {
		t.Fatalf("Expect %d chars, took %d", NormalizedIVHexSize, len(normalized))
	}
	if strings.Count(normalized, " ") != 15 {
		t.Fatalf("Expect 15 inserted spaces, took %d", strings.Count(normalized, " "))
	}
	if normalized != "00 01 02 03 04 05 06 07 08 09 0a 0b 0c 0d 0e 0f" {
		t.Fatalf("Unexpected normalized form: %q", normalized)
	}
}

func TestNormalizeHexRejectsOtherLengths(t *testing.T) {
	for _, input := range []string{"", "00", strings.Repeat("0", 31), strings.Repeat("0", 33), strings.Repeat("0", 47)} {
		out, ok := NormalizeHex(input)
		if ok {
			t.Fatalf("Expect normalization failure on %d-char input", len(input))
		}
		if out != input {
			t.Fatal("Expect input returned unchanged on normalization failure")
		}
	}
}

func TestParseHexTokens(t *testing.T) {
	type testcase struct {
		Input    string
		Expected []byte
	}
	testCases := []testcase{
		{"00 01 0a ff", []byte{0, 1, 10, 255}},
		{"de ad be ef", []byte{0xde, 0xad, 0xbe, 0xef}},
		{"", []byte{}},
		// best-effort mode: stops at first non-numeric token, no error
		{"00 01 xx 02", []byte{0, 1}},
		{"zz 00", []byte{}},
		// ParseUint rejects values above one byte
		{"0a 1ff 0b", []byte{10}},
	}
	for _, tcase := range testCases {
		out := ParseHexTokens(tcase.Input)
		if !bytes.Equal(out, tcase.Expected) {
			t.Fatalf("ParseHexTokens(%q) = %v, expect %v", tcase.Input, out, tcase.Expected)
		}
	}
}

func TestNormalizeThenParseRoundTrip(t *testing.T) {
	iv := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	normalized, ok := NormalizeHex(string(Encode(iv)))
	if !ok {
		t.Fatal("Expect successful normalization")
	}
	parsed := ParseHexTokens(normalized)
	if !bytes.Equal(parsed, iv) {
		t.Fatal("Parsed IV not equal with source IV")
	}
}

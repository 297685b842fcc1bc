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

package compression

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	large := make([]byte, 1000000)
	random.Read(large)
	testData := [][]byte{
		{},
		{1},
		[]byte(`some data`),
		bytes.Repeat([]byte(`compressible `), 1000),
		large,
	}
	for _, data := range testData {
		compressed, err := Compress(data)
		if err != nil {
			t.Fatal(err)
		}
		decompressed, err := Decompress(compressed)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(decompressed, data) {
			t.Fatalf("Decompressed data not equal with source data for %d-byte input", len(data))
		}
	}
}

func TestDecompressRejectsGarbage(t *testing.T) {
	if _, err := Decompress([]byte(`not zlib data`)); err == nil {
		t.Fatal("Expect error on non-zlib input")
	}
}

func TestCompressDecompressFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "input.txt")
	gz := filepath.Join(dir, "input.txt.gz")
	restored := filepath.Join(dir, "restored.txt")

	data := bytes.Repeat([]byte(`file payload `), 10000)
	if err := os.WriteFile(src, data, 0644); err != nil {
		t.Fatal(err)
	}
	if err := CompressFile(gz, src); err != nil {
		t.Fatal(err)
	}
	compressed, err := os.ReadFile(gz)
	if err != nil {
		t.Fatal(err)
	}
	if len(compressed) >= len(data) {
		t.Fatal("Expect compressed file smaller than repetitive input")
	}
	if err := DecompressFile(restored, gz); err != nil {
		t.Fatal(err)
	}
	restoredData, err := os.ReadFile(restored)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(restoredData, data) {
		t.Fatal("Restored file not equal with source file")
	}
}

func TestCompressFileMissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := CompressFile(filepath.Join(dir, "out.gz"), filepath.Join(dir, "missing.txt")); err == nil {
		t.Fatal("Expect error on missing source file")
	}
}

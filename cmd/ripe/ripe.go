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

// Package main is the entry point for the ripe utility. It frames and
// parses encrypted packets, generates AES keys and RSA key pairs, signs and
// verifies data and compresses files.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/cossacklabs/ripe/asym"
	"github.com/cossacklabs/ripe/cmd"
	"github.com/cossacklabs/ripe/compression"
	"github.com/cossacklabs/ripe/keys"
	"github.com/cossacklabs/ripe/logging"
	"github.com/cossacklabs/ripe/packet"
	"github.com/cossacklabs/ripe/utils"
)

var (
	// defaultConfigPath relative path to config which will be parsed as default
	defaultConfigPath = utils.GetConfigPathByName("ripe")
	serviceName       = "ripe"
)

func main() {
	encrypt := flag.Bool("encrypt", false, "Encrypt input into a framed packet (RSA with --public_key)")
	decrypt := flag.Bool("decrypt", false, "Decrypt a framed packet (RSA with --private_key)")
	sign := flag.Bool("sign", false, "Sign input with --private_key")
	verify := flag.Bool("verify", false, "Verify --signature of input with --public_key")
	generateKey := flag.Bool("generate_key", false, "Generate new random AES key as hex")
	keyLength := flag.Int("key_length", 32, "AES key length in bytes: 16, 24 or 32")
	generateKeypair := flag.Bool("generate_keypair", false, "Generate new RSA key pair")
	keypairLength := flag.Int("keypair_length", asym.DefaultKeyLength, "RSA key length in bits")
	compressInput := flag.Bool("compress", false, "Compress --in file into --out gzip file")
	decompressInput := flag.Bool("decompress", false, "Decompress --in gzip file into --out file")

	hexKey := flag.String("key", "", "Hex-encoded AES key")
	clientID := flag.String("client_id", "", "Client id embedded into the framed packet")
	ivOverride := flag.String("iv", "", "IV hex override for decryption")
	isBase64 := flag.Bool("base64", true, "Ciphertext payload is Base64 transport-encoded")
	isHex := flag.Bool("hex", false, "Ciphertext payload is additionally hex-encoded")

	privateKeyFile := flag.String("private_key", "", "Path to RSA private key PEM")
	publicKeyFile := flag.String("public_key", "", "Path to RSA public key PEM")
	outPrivate := flag.String("out_private", "private.pem", "Output file for generated private key")
	outPublic := flag.String("out_public", "public.pem", "Output file for generated public key")
	signatureHex := flag.String("signature", "", "Hex-encoded signature for --verify")
	secret := flag.String("secret", "", "Passphrase of an encrypted private key PEM")

	inFile := flag.String("in", "", "Input file, stdin when empty")
	outFile := flag.String("out", "", "Output file, stdout when empty")
	loggingFormat := flag.String("logging_format", logging.PlaintextFormatString, "Log format: plaintext or json")
	verbose := flag.Bool("v", false, "Log to stderr verbose debug information")

	logging.SetLogLevel(logging.LogVerbose)

	if err := cmd.Parse(defaultConfigPath); err != nil {
		log.WithError(err).Errorln("Can't parse args")
		os.Exit(1)
	}
	logging.CreateFormatter(*loggingFormat, serviceName)
	if *verbose {
		logging.SetLogLevel(logging.LogDebug)
	}

	switch {
	case *generateKey:
		newKey, err := keys.GenerateSymmetricKey(*keyLength)
		if err != nil {
			log.WithError(err).Errorln("Can't generate key")
			os.Exit(1)
		}
		writeOutput(*outFile, []byte(newKey+"\n"))

	case *generateKeypair:
		pair, err := asym.GenerateKeyPair(*keypairLength)
		if err != nil {
			log.WithError(err).Errorln("Can't generate key pair")
			os.Exit(1)
		}
		if *secret != "" {
			pair.Private, err = asym.EncryptPrivatePEM(pair.Private, []byte(*secret))
			if err != nil {
				log.WithError(err).Errorln("Can't encrypt private key")
				os.Exit(1)
			}
		}
		if err := asym.WriteKeyPair(pair, *outPrivate, *outPublic); err != nil {
			log.WithError(err).Errorln("Can't save key pair")
			os.Exit(1)
		}
		log.Infof("Key pair can encrypt up to %d bytes per message", asym.MaxBlockSize(*keypairLength))
		log.Infof("Saved %s and %s", *outPrivate, *outPublic)

	case *compressInput:
		if *inFile == "" || *outFile == "" {
			log.Errorln("--compress requires --in and --out files")
			os.Exit(1)
		}
		if err := compression.CompressFile(*outFile, *inFile); err != nil {
			log.WithError(err).Errorln("Can't compress file")
			os.Exit(1)
		}

	case *decompressInput:
		if *inFile == "" || *outFile == "" {
			log.Errorln("--decompress requires --in and --out files")
			os.Exit(1)
		}
		if err := compression.DecompressFile(*outFile, *inFile); err != nil {
			log.WithError(err).Errorln("Can't decompress file")
			os.Exit(1)
		}

	case *encrypt:
		data := readInput(*inFile)
		if *publicKeyFile != "" {
			publicPEM := readKeyFile(*publicKeyFile)
			encrypted, err := asym.EncryptEncoded(data, publicPEM, !*isBase64)
			if err != nil {
				log.WithError(err).Errorln("Can't encrypt with RSA")
				os.Exit(1)
			}
			writeOutput(*outFile, encrypted)
			return
		}
		framed, err := packet.Frame(data, *hexKey, *clientID)
		if err != nil {
			log.WithError(err).Errorln("Can't frame packet")
			os.Exit(1)
		}
		writeOutput(*outFile, framed)

	case *decrypt:
		data := readInput(*inFile)
		if *privateKeyFile != "" {
			privatePEM := readKeyFile(*privateKeyFile)
			decrypted, err := asym.DecryptEncoded(data, privatePEM, []byte(*secret), *isBase64, *isHex)
			if err != nil {
				log.WithError(err).Errorln("Can't decrypt with RSA")
				os.Exit(1)
			}
			writeOutput(*outFile, decrypted)
			return
		}
		decrypted, err := packet.Decrypt(data, *hexKey, *ivOverride, *isBase64, *isHex)
		if err != nil {
			log.WithError(err).Errorln("Can't parse packet")
			os.Exit(1)
		}
		writeOutput(*outFile, decrypted)

	case *sign:
		privatePEM := readKeyFile(*privateKeyFile)
		signature, err := asym.Sign(readInput(*inFile), privatePEM, []byte(*secret))
		if err != nil {
			log.WithError(err).Errorln("Can't sign data")
			os.Exit(1)
		}
		writeOutput(*outFile, []byte(signature+"\n"))

	case *verify:
		publicPEM := readKeyFile(*publicKeyFile)
		ok, err := asym.Verify(readInput(*inFile), *signatureHex, publicPEM)
		if err != nil {
			log.WithError(err).Errorln("Can't verify signature")
			os.Exit(1)
		}
		if !ok {
			log.Errorln("Signature does not match")
			os.Exit(1)
		}
		log.Infoln("Signature OK")

	default:
		flag.Usage()
		os.Exit(1)
	}
}

func readInput(inFile string) []byte {
	if inFile == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.WithError(err).Errorln("Can't read stdin")
			os.Exit(1)
		}
		return data
	}
	data, err := utils.ReadFile(inFile)
	if err != nil {
		log.WithError(err).Errorf("Can't read input file %s", inFile)
		os.Exit(1)
	}
	return data
}

func readKeyFile(path string) []byte {
	if path == "" {
		log.Errorln("Key file path is required for this operation")
		os.Exit(1)
	}
	data, err := utils.ReadFile(path)
	if err != nil {
		log.WithError(err).Errorf("Can't read key file %s", path)
		os.Exit(1)
	}
	return data
}

func writeOutput(outFile string, data []byte) {
	if outFile == "" {
		if _, err := utils.WriteFull(data, os.Stdout); err != nil {
			log.WithError(err).Errorln("Can't write to stdout")
			os.Exit(1)
		}
		return
	}
	if err := os.WriteFile(outFile, data, 0600); err != nil {
		log.WithError(err).Errorf("Can't write output file %s", outFile)
		os.Exit(1)
	}
	fmt.Fprintln(os.Stderr, "Written to", outFile)
}

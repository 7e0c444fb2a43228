// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

package main

import (
	"crypto/ed25519"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	_log "log"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	envelopecore "github.com/maikers-protocol/envelope-core"
	"github.com/maikers-protocol/envelope-core/internal/memlock"
)

type multiFlag []string

func (f *multiFlag) String() string { return fmt.Sprint(*f) }

func (f *multiFlag) Set(value string) error {
	*f = append(*f, value)
	return nil
}

const usage = `Usage:
    envelope seal   -r RECIPIENT... -asset ASSET_ID [-o OUTPUT] [INPUT]
    envelope open   -secret SECRET_HEX -pub PUB_HEX [-asset ASSET_ID] [-o OUTPUT] [INPUT]
    envelope rotate -secret SECRET_HEX -pub PUB_HEX -r RECIPIENT... [-o OUTPUT] [INPUT]
    envelope inspect [INPUT]

Options:
    -r RECIPIENT       Base58-encoded Ed25519 recipient public key. Repeatable.
    -asset ASSET_ID    Base58-encoded 32-byte asset id bound as associated data.
    -secret SECRET_HEX Hex-encoded Ed25519 secret key (32-byte seed or 64-byte expanded form).
    -pub PUB_HEX       Hex-encoded Ed25519 public key.
    -o OUTPUT          Write the result to the file at path OUTPUT.
    -lock-memory       Attempt to mlock the process's pages before running.

INPUT defaults to standard input, OUTPUT defaults to standard output.

This is a demonstration driver for the envelope-core library, not a
general-purpose encryption tool: it has no identity-file format and no
passphrase mode, since the envelope subsystem only ever addresses
recipients by their on-chain Ed25519 identity.`

var log *zap.Logger

func main() {
	_log.SetFlags(0)

	var (
		recipients multiFlag
		assetID    string
		secretHex  string
		pubHex     string
		output     string
		lockMemory bool
	)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage, "\n")
		os.Exit(1)
	}
	cmd := os.Args[1]

	fs := flag.NewFlagSet("envelope "+cmd, flag.ExitOnError)
	fs.Var(&recipients, "r", "recipient (repeatable)")
	fs.StringVar(&assetID, "asset", "", "base58 asset id")
	fs.StringVar(&secretHex, "secret", "", "hex ed25519 secret key")
	fs.StringVar(&pubHex, "pub", "", "hex ed25519 public key")
	fs.StringVar(&output, "o", "", "output path")
	fs.BoolVar(&lockMemory, "lock-memory", false, "mlock process pages")
	fs.Usage = func() { fmt.Fprint(os.Stderr, usage, "\n") }
	if err := fs.Parse(os.Args[2:]); err != nil {
		os.Exit(1)
	}

	var err error
	log, err = zap.NewProduction()
	if err != nil {
		log = zap.NewNop()
	}
	defer log.Sync()

	runID := uuid.New()
	log = log.With(zap.String("run_id", runID.String()), zap.String("cmd", cmd))

	if lockMemory {
		if err := memlock.Lock(); err != nil {
			log.Warn("memlock failed, continuing without it", zap.Error(err))
		}
	}

	in, err := openInput(fs.Args())
	if err != nil {
		fatal(err)
	}
	defer in.Close()
	out, err := openOutput(output)
	if err != nil {
		fatal(err)
	}
	defer out.Close()

	switch cmd {
	case "seal":
		runSeal(in, out, recipients, assetID)
	case "open":
		runOpen(in, out, secretHex, pubHex, assetID)
	case "rotate":
		runRotate(in, out, secretHex, pubHex, recipients)
	case "inspect":
		runInspect(in, out)
	default:
		fmt.Fprint(os.Stderr, usage, "\n")
		os.Exit(1)
	}
}

func runSeal(in io.Reader, out io.Writer, recipients []string, assetID string) {
	if len(recipients) == 0 || assetID == "" {
		fatal(fmt.Errorf("seal requires at least one -r and an -asset"))
	}
	plaintext, err := io.ReadAll(in)
	if err != nil {
		fatal(err)
	}

	eng := envelopecore.NewEngine(0)
	env, err := eng.Seal(envelopecore.Config(plaintext), recipients, assetID)
	if err != nil {
		log.Error("seal failed", zap.Error(err))
		os.Exit(1)
	}
	data, err := envelopecore.Serialize(env)
	if err != nil {
		fatal(err)
	}
	if _, err := out.Write(data); err != nil {
		fatal(err)
	}
	log.Info("sealed envelope", zap.Int("recipients", len(recipients)))
}

func runOpen(in io.Reader, out io.Writer, secretHex, pubHex, assetID string) {
	secret, pub := mustKeypair(secretHex, pubHex)
	data, err := io.ReadAll(in)
	if err != nil {
		fatal(err)
	}
	env, err := envelopecore.Parse(data)
	if err != nil {
		fatal(err)
	}

	eng := envelopecore.NewEngine(0)
	config, err := eng.Open(env, secret, pub, assetID)
	if err != nil {
		log.Error("open failed", zap.Error(err))
		os.Exit(1)
	}
	if _, err := out.Write(config); err != nil {
		fatal(err)
	}
	log.Info("opened envelope")
}

func runRotate(in io.Reader, out io.Writer, secretHex, pubHex string, newRecipients []string) {
	if len(newRecipients) == 0 {
		fatal(fmt.Errorf("rotate requires at least one -r"))
	}
	secret, pub := mustKeypair(secretHex, pubHex)
	data, err := io.ReadAll(in)
	if err != nil {
		fatal(err)
	}
	env, err := envelopecore.Parse(data)
	if err != nil {
		fatal(err)
	}

	eng := envelopecore.NewEngine(0)
	rotated, err := eng.Rotate(env, secret, pub, newRecipients)
	if err != nil {
		log.Error("rotate failed", zap.Error(err))
		os.Exit(1)
	}
	out2, err := envelopecore.Serialize(rotated)
	if err != nil {
		fatal(err)
	}
	if _, err := out.Write(out2); err != nil {
		fatal(err)
	}
	log.Info("rotated envelope", zap.Int("new_recipients", len(newRecipients)))
}

func runInspect(in io.Reader, out io.Writer) {
	data, err := io.ReadAll(in)
	if err != nil {
		fatal(err)
	}
	env, err := envelopecore.Parse(data)
	if err != nil {
		fatal(err)
	}
	meta, err := envelopecore.Inspect(env)
	if err != nil {
		fatal(err)
	}
	fmt.Fprintf(out, "version: %d\naead: %s\nasset: %s\nrecipients: %d\n",
		meta.Version, meta.AEAD, meta.AssociatedData, len(meta.RecipientIDs))
}

func mustKeypair(secretHex, pubHex string) (ed25519.PrivateKey, ed25519.PublicKey) {
	if secretHex == "" || pubHex == "" {
		fatal(fmt.Errorf("both -secret and -pub are required"))
	}
	secret, err := hex.DecodeString(secretHex)
	if err != nil {
		fatal(fmt.Errorf("invalid -secret: %w", err))
	}
	pub, err := hex.DecodeString(pubHex)
	if err != nil {
		fatal(fmt.Errorf("invalid -pub: %w", err))
	}
	return secret, pub
}

func openInput(args []string) (io.ReadCloser, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(args[0])
}

func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "envelope: %v\n", err)
	os.Exit(1)
}

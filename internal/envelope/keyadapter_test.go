// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

package envelope

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"testing"

	"golang.org/x/crypto/curve25519"
)

func TestEd25519PubToX25519RejectsBadSize(t *testing.T) {
	_, err := ed25519PubToX25519([]byte("too short"))
	var envErr *Error
	if !errors.As(err, &envErr) || envErr.Kind != KindKeyDerivationFailure {
		t.Fatalf("got %v, want KindKeyDerivationFailure", err)
	}
}

func TestEd25519SecToX25519AcceptsSeedAndExpandedForm(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatal(err)
	}
	seed := priv.Seed()

	fromSeed, err := ed25519SecToX25519(seed)
	if err != nil {
		t.Fatal(err)
	}
	fromExpanded, err := ed25519SecToX25519(priv)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(fromSeed, fromExpanded) {
		t.Fatal("seed and expanded-secret forms produced different X25519 scalars")
	}

	_, err = ed25519SecToX25519([]byte("wrong size"))
	var envErr *Error
	if !errors.As(err, &envErr) || envErr.Kind != KindKeyDerivationFailure {
		t.Fatalf("got %v, want KindKeyDerivationFailure", err)
	}

	// Sanity: the derived scalar must actually agree with the converted
	// public key under the standard X25519 basepoint multiplication.
	xPub, err := ed25519PubToX25519(pub)
	if err != nil {
		t.Fatal(err)
	}
	derivedPub, err := curve25519.X25519(fromSeed, curve25519.Basepoint)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(xPub, derivedPub) {
		t.Fatal("converted public key does not match basepoint multiplication of converted secret")
	}
}

// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

package envelope

import (
	"bytes"
	"errors"
	"testing"
)

func TestEncodeDecodeConfigRoundTrip(t *testing.T) {
	cfg := Config(`{"b": 2, "a": 1, "nested": {"z": true, "y": [1,2,3]}}`)
	plaintext, err := encodeConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	got, err := decodeConfig(plaintext)
	if err != nil {
		t.Fatal(err)
	}

	// Canonicalization may reorder keys, so compare via a second pass rather
	// than raw bytes: re-encoding the recovered config must be stable.
	again, err := encodeConfig(got)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(plaintext, again) {
		t.Fatalf("canonical form is not stable: %s vs %s", plaintext, again)
	}
}

func TestEncodeConfigRejectsInvalidJSON(t *testing.T) {
	_, err := encodeConfig(Config(`not json`))
	var envErr *Error
	if !errors.As(err, &envErr) || envErr.Kind != KindInvalidParameter {
		t.Fatalf("got %v, want KindInvalidParameter", err)
	}
}

func TestDecodeConfigRejectsInvalidJSON(t *testing.T) {
	_, err := decodeConfig([]byte(`{not json`))
	var envErr *Error
	if !errors.As(err, &envErr) || envErr.Kind != KindInvalidParameter {
		t.Fatalf("got %v, want KindInvalidParameter", err)
	}
}

// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

package envelope

import (
	"crypto/sha512"

	"filippo.io/edwards25519"
)

// Key Adapter: converts asset-holder Ed25519 signing keys into X25519
// key-agreement keys for the sealed-box primitive. Wallets hold Ed25519
// signing keys; sealed-box encryption needs X25519 agreement keys. This is
// the standard, unambiguous birational Edwards->Montgomery map between the
// two curves, as used for SSH ed25519 keys.

// ed25519PubToX25519 converts a 32-byte Ed25519 public key to its X25519
// Montgomery-form public key.
func ed25519PubToX25519(pub []byte) ([]byte, error) {
	if len(pub) != 32 {
		return nil, newError("ed25519_pub_to_x25519", KindKeyDerivationFailure, errBadKeySize)
	}
	p, err := new(edwards25519.Point).SetBytes(pub)
	if err != nil {
		return nil, newError("ed25519_pub_to_x25519", KindKeyDerivationFailure, err)
	}
	return p.BytesMontgomery(), nil
}

// ed25519SecToX25519 converts an Ed25519 secret key to its X25519 secret
// scalar. It accepts either a 32-byte seed or a 64-byte expanded secret key
// (seed || public key, as produced by crypto/ed25519.GenerateKey); both
// forms carry the same seed in their first 32 bytes, so both collapse to
// the same X25519 scalar.
func ed25519SecToX25519(sec []byte) ([]byte, error) {
	var seed []byte
	switch len(sec) {
	case 32:
		seed = sec
	case 64:
		seed = sec[:32]
	default:
		return nil, newError("ed25519_sec_to_x25519", KindKeyDerivationFailure, errBadKeySize)
	}

	h := sha512.Sum512(seed)
	scalar := make([]byte, 32)
	copy(scalar, h[:32])
	return scalar, nil
}

// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

package envelope

import (
	"crypto/rand"
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"
)

// Primitive Layer: thin, typed wrappers over the AEAD cipher, the X25519
// sealed-box construction, and the CSPRNG. This file exposes exactly the
// five operations the rest of the package needs and nothing else.

const (
	// aeadKeySize is the XChaCha20-Poly1305 key size.
	aeadKeySize = chacha20poly1305.KeySize
	// aeadNonceSize is the XChaCha20-Poly1305 IETF (24-byte) nonce size.
	aeadNonceSize = chacha20poly1305.NonceSizeX
	// x25519KeySize is the size of an X25519 public or secret scalar.
	x25519KeySize = 32

	sealedBoxLabel = "maikers-envelope.v1/x25519-sealed-box"
)

// randomBytes returns n fresh bytes from the process CSPRNG.
func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, newError("random_bytes", KindInternalError, err)
	}
	return b, nil
}

// aeadSeal encrypts plaintext under key and nonce, authenticating ad.
func aeadSeal(plaintext, key, nonce, ad []byte) ([]byte, error) {
	if len(key) != aeadKeySize {
		return nil, newError("aead_seal", KindInvalidParameter, errBadKeySize)
	}
	if len(nonce) != aeadNonceSize {
		return nil, newError("aead_seal", KindInvalidParameter, errBadNonceSize)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, newError("aead_seal", KindEncryptionFailure, err)
	}
	return aead.Seal(nil, nonce, plaintext, ad), nil
}

// aeadOpen authenticates and decrypts ciphertext. It never returns a
// partial plaintext on authentication failure.
func aeadOpen(ciphertext, key, nonce, ad []byte) ([]byte, error) {
	if len(key) != aeadKeySize {
		return nil, newError("aead_open", KindInvalidParameter, errBadKeySize)
	}
	if len(nonce) != aeadNonceSize {
		return nil, newError("aead_open", KindInvalidParameter, errBadNonceSize)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, newError("aead_open", KindEncryptionFailure, err)
	}
	plaintext, err := aead.Open(nil, nonce, ciphertext, ad)
	if err != nil {
		return nil, newError("aead_open", KindAuthenticationFailure, nil)
	}
	return plaintext, nil
}

// sealForX25519 is a sealed-box primitive: it encrypts plaintext (in this
// package, always a 32-byte content key) to recipientPub so that only the
// holder of the matching X25519 secret can recover it, without the sender
// needing a stable identity of their own. It uses an ephemeral-key + HKDF +
// AEAD construction: the output carries the ephemeral public key so
// open_sealed_x25519 can redo the ECDH.
func sealForX25519(plaintext, recipientPub []byte) ([]byte, error) {
	if len(recipientPub) != x25519KeySize {
		return nil, newError("seal_for_x25519", KindInvalidParameter, errBadKeySize)
	}

	ephemeralSecret, err := randomBytes(x25519KeySize)
	if err != nil {
		return nil, err
	}
	ephemeralPub, err := curve25519.X25519(ephemeralSecret, curve25519.Basepoint)
	if err != nil {
		return nil, newError("seal_for_x25519", KindEncryptionFailure, err)
	}
	sharedSecret, err := curve25519.X25519(ephemeralSecret, recipientPub)
	if err != nil {
		return nil, newError("seal_for_x25519", KindInvalidParameter, err)
	}

	wrappingKey, err := deriveWrappingKey(sharedSecret, ephemeralPub, recipientPub)
	if err != nil {
		return nil, err
	}

	// The wrapping key is single-use (fresh ephemeral secret every call),
	// so a fixed all-zero nonce does not violate nonce-uniqueness-per-key.
	zeroNonce := make([]byte, aeadNonceSize)
	body, err := aeadSeal(plaintext, wrappingKey, zeroNonce, nil)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, x25519KeySize+len(body))
	sealed = append(sealed, ephemeralPub...)
	sealed = append(sealed, body...)
	return sealed, nil
}

// openSealedX25519 reverses sealForX25519 given the recipient's own X25519
// keypair.
func openSealedX25519(sealed, recipientSecret, recipientPub []byte) ([]byte, error) {
	if len(recipientSecret) != x25519KeySize || len(recipientPub) != x25519KeySize {
		return nil, newError("open_sealed_x25519", KindInvalidParameter, errBadKeySize)
	}
	if len(sealed) < x25519KeySize {
		return nil, newError("open_sealed_x25519", KindAuthenticationFailure, nil)
	}

	ephemeralPub := sealed[:x25519KeySize]
	body := sealed[x25519KeySize:]

	sharedSecret, err := curve25519.X25519(recipientSecret, ephemeralPub)
	if err != nil {
		return nil, newError("open_sealed_x25519", KindAuthenticationFailure, nil)
	}

	wrappingKey, err := deriveWrappingKey(sharedSecret, ephemeralPub, recipientPub)
	if err != nil {
		return nil, err
	}

	zeroNonce := make([]byte, aeadNonceSize)
	return aeadOpen(body, wrappingKey, zeroNonce, nil)
}

func deriveWrappingKey(sharedSecret, ephemeralPub, recipientPub []byte) ([]byte, error) {
	salt := make([]byte, 0, x25519KeySize*2)
	salt = append(salt, ephemeralPub...)
	salt = append(salt, recipientPub...)
	h := hkdf.New(sha256.New, sharedSecret, salt, []byte(sealedBoxLabel))
	wrappingKey := make([]byte, aeadKeySize)
	if _, err := io.ReadFull(h, wrappingKey); err != nil {
		return nil, newError("seal_for_x25519", KindInternalError, err)
	}
	return wrappingKey, nil
}

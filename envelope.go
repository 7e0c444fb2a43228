// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

// Package envelopecore implements the secure envelope subsystem for
// agent configurations bound to on-chain non-fungible assets: authenticated
// encryption of a structured configuration document behind a multi-recipient
// sealed keyring, with the target asset cryptographically bound in through
// associated data.
//
// The package performs no I/O and manages no on-chain state; it is a thin,
// typed facade over internal/envelope, the way filippo.io/age is a facade
// over its own internal/age package.
package envelopecore

import (
	"github.com/maikers-protocol/envelope-core/internal/envelope"
)

// Config is an opaque, finite, serializable structured document. The
// package treats it only as bytes obtained by canonical serialization; no
// field semantics are interpreted.
type Config = envelope.Config

// Envelope is the persisted ciphertext artifact: version, algorithm tag,
// associated data, nonce, ciphertext, and keyring. See Serialize/Parse for
// the bit-exact wire form.
type Envelope = envelope.Envelope

// Kind is the stable error taxonomy from §7 of the specification.
type Kind = envelope.Kind

const (
	KindInvalidParameter       = envelope.KindInvalidParameter
	KindKeyDerivationFailure   = envelope.KindKeyDerivationFailure
	KindEncryptionFailure      = envelope.KindEncryptionFailure
	KindAuthenticationFailure  = envelope.KindAuthenticationFailure
	KindNotAuthorized          = envelope.KindNotAuthorized
	KindAssociatedDataMismatch = envelope.KindAssociatedDataMismatch
	KindUnsupportedEnvelope    = envelope.KindUnsupportedEnvelope
	KindInternalError          = envelope.KindInternalError
)

// Sentinel errors for errors.Is comparisons.
var (
	ErrInvalidParameter       = envelope.ErrInvalidParameter
	ErrKeyDerivationFailure   = envelope.ErrKeyDerivationFailure
	ErrEncryptionFailure      = envelope.ErrEncryptionFailure
	ErrAuthenticationFailure  = envelope.ErrAuthenticationFailure
	ErrNotAuthorized          = envelope.ErrNotAuthorized
	ErrAssociatedDataMismatch = envelope.ErrAssociatedDataMismatch
	ErrUnsupportedEnvelope    = envelope.ErrUnsupportedEnvelope
	ErrInternalError          = envelope.ErrInternalError
)

// Engine seals, opens, and rotates envelopes. It holds only a Validator
// reference and no per-call state, so a single Engine may be shared and
// used concurrently across goroutines: each Seal/Open/Rotate call owns its
// own inputs end to end.
type Engine struct {
	eng *envelope.Engine
}

// NewEngine returns an Engine enforcing the given payload-size bound (in
// bytes). A maxPayloadSize of 0 uses the suggested 10 MiB default from §4.5.
func NewEngine(maxPayloadSize int) *Engine {
	v := envelope.NewValidator(nil)
	if maxPayloadSize > 0 {
		v.MaxPayloadSize = maxPayloadSize
	}
	return &Engine{eng: envelope.NewEngine(v)}
}

// Seal encrypts config for every recipient in recipients (base58-encoded
// Ed25519 public keys, non-empty, no duplicates), binding the result to
// assetID (a base58-encoded 32-byte value) through associated data.
func (e *Engine) Seal(config Config, recipients []string, assetID string) (*Envelope, error) {
	return e.eng.Seal(config, recipients, assetID)
}

// Open recovers the configuration document sealed in env, using the
// recipient's Ed25519 secret and public key. recipientSecret may be a
// 32-byte seed or a 64-byte expanded secret key. If expectedAssetID is
// non-empty, the envelope's associated data must match it exactly or Open
// fails with KindAssociatedDataMismatch.
func (e *Engine) Open(env *Envelope, recipientSecret, recipientPublic []byte, expectedAssetID string) (Config, error) {
	return e.eng.Open(env, recipientSecret, recipientPublic, expectedAssetID)
}

// Rotate decrypts env with the old recipient's keypair and reseals the
// recovered configuration for newRecipients, reusing the old envelope's
// asset id verbatim. A fresh content key and nonce are always produced. The
// old envelope is never modified, and old recipients not present in
// newRecipients have no entry in the result.
func (e *Engine) Rotate(env *Envelope, oldRecipientSecret, oldRecipientPublic []byte, newRecipients []string) (*Envelope, error) {
	return e.eng.Rotate(env, oldRecipientSecret, oldRecipientPublic, newRecipients)
}

// Serialize emits the canonical JSON wire form of env: an object with
// fields ver, aead, ad, nonce, ciphertext, keyring, where nonce, ciphertext,
// and every keyring value carry the literal "base64:" prefix.
func Serialize(env *Envelope) ([]byte, error) {
	return envelope.Serialize(env)
}

// Parse decodes the canonical JSON wire form, rejecting any envelope whose
// ver or aead falls outside the accepted set before any cryptographic
// operation runs.
func Parse(data []byte) (*Envelope, error) {
	return envelope.Parse(data)
}

// Metadata is the structural summary Inspect reports: version, algorithm
// tag, bound asset id, recipient ids, and opaque field sizes. It never
// exposes plaintext or a sealed content key.
type Metadata = envelope.Metadata

// Inspect reports structural metadata about env without decrypting it.
func Inspect(env *Envelope) (*Metadata, error) {
	return envelope.Inspect(env)
}

// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

package envelope

// Envelope Engine: seal, open, rotate. Owns nonce generation,
// associated-data construction, keyring construction and lookup, and
// tamper-detection policy. The engine itself holds no state between calls;
// everything it needs travels in its arguments, per §4.4.4.

const (
	contentKeySize = 32
	adPrefix       = "mint:"
)

// Engine wires a Validator into the three contract operations. A zero-value
// Engine is not usable; construct one with NewEngine.
type Engine struct {
	validator *Validator
}

// NewEngine returns an Engine backed by the given Validator. Passing nil
// uses a Validator with default bounds and a no-op logger.
func NewEngine(v *Validator) *Engine {
	if v == nil {
		v = NewValidator(nil)
	}
	return &Engine{validator: v}
}

// wipe overwrites a key buffer in place. Go's garbage collector may retain
// other copies made by value, but every buffer this package allocates for a
// content key is wiped on every exit path, including error paths, per the
// ownership rule in §3.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func buildAD(assetID string) string {
	return adPrefix + assetID
}

// parseAD extracts the asset id from an "mint:<base58>" associated-data
// string. It does not validate the base58 payload; callers that need that
// guarantee call the Validator separately.
func parseAD(ad string) (assetID string, ok bool) {
	if len(ad) <= len(adPrefix) || ad[:len(adPrefix)] != adPrefix {
		return "", false
	}
	return ad[len(adPrefix):], true
}

// Seal implements §4.4.1: serialize config, generate a fresh content key
// and nonce, AEAD-seal the plaintext, then seal the content key to every
// recipient in turn. Any failure aborts the whole operation; no partial
// envelope is ever returned.
func (e *Engine) Seal(config Config, recipients []string, assetID string) (*Envelope, error) {
	if err := e.validator.ValidateRecipientSet(recipients); err != nil {
		return nil, err
	}
	if err := e.validator.ValidateAssetID(assetID); err != nil {
		return nil, err
	}

	plaintext, err := encodeConfig(config)
	if err != nil {
		return nil, err
	}
	if err := e.validator.ValidatePayloadSize(plaintext); err != nil {
		return nil, err
	}

	contentKey, err := randomBytes(contentKeySize)
	if err != nil {
		return nil, err
	}
	defer wipe(contentKey)

	nonce, err := randomBytes(aeadNonceSize)
	if err != nil {
		return nil, err
	}

	ad := buildAD(assetID)
	ciphertext, err := aeadSeal(plaintext, contentKey, nonce, []byte(ad))
	if err != nil {
		return nil, err
	}
	if err := e.validator.ValidatePayloadSize(ciphertext); err != nil {
		return nil, err
	}

	keyring := make(map[string][]byte, len(recipients))
	for _, recipientID := range recipients {
		recipientEdPub, err := decodeID(recipientID)
		if err != nil {
			return nil, err
		}
		recipientX25519Pub, err := ed25519PubToX25519(recipientEdPub)
		if err != nil {
			return nil, err
		}
		sealed, err := sealForX25519(contentKey, recipientX25519Pub)
		if err != nil {
			return nil, err
		}
		keyring[recipientID] = sealed
	}

	env := newEnvelope(ad, nonce, ciphertext, keyring)
	e.validator.ScanMetadataHeuristic(env)
	return env, nil
}

// Open implements §4.4.2: validate structure, optionally check the
// associated data against an expected asset id, look up the caller's
// recipient entry, open the sealed content key, then AEAD-open the
// ciphertext. Structural checks precede cryptographic checks; cryptographic
// checks precede any plaintext interpretation.
func (e *Engine) Open(env *Envelope, recipientEdSecret, recipientEdPub []byte, expectedAssetID string) (Config, error) {
	if err := e.validator.ValidateVersion(env.Ver); err != nil {
		return nil, err
	}
	if env.AEAD != aeadIETFX {
		return nil, newError("open", KindUnsupportedEnvelope, nil)
	}

	if expectedAssetID != "" {
		expectedAD := buildAD(expectedAssetID)
		if env.AD != expectedAD {
			return nil, newError("open", KindAssociatedDataMismatch, nil)
		}
	}

	recipientID := encodeID(recipientEdPub)
	sealedEntry, ok := env.Keyring[recipientID]
	if !ok {
		return nil, newError("open", KindNotAuthorized, nil)
	}
	sealed, err := b64decode(sealedEntry)
	if err != nil {
		return nil, newError("open", KindInvalidParameter, err)
	}

	recipientX25519Pub, err := ed25519PubToX25519(recipientEdPub)
	if err != nil {
		return nil, err
	}
	recipientX25519Sec, err := ed25519SecToX25519(recipientEdSecret)
	if err != nil {
		return nil, err
	}

	contentKey, err := openSealedX25519(sealed, recipientX25519Sec, recipientX25519Pub)
	if err != nil {
		return nil, newError("open", KindAuthenticationFailure, nil)
	}
	defer wipe(contentKey)

	nonce, ciphertext, err := decodedFields(env)
	if err != nil {
		return nil, err
	}

	plaintext, err := aeadOpen(ciphertext, contentKey, nonce, []byte(env.AD))
	if err != nil {
		return nil, newError("open", KindAuthenticationFailure, nil)
	}

	return decodeConfig(plaintext)
}

// Rotate implements §4.4.3: decrypt with the old recipient's keypair, then
// seal a fresh envelope for new_recipients. The asset id is parsed from the
// old envelope's associated data and reused verbatim; a fresh content key
// and nonce are produced regardless of any overlap between the old and new
// recipient sets. The old envelope is never modified.
func (e *Engine) Rotate(env *Envelope, oldEdSecret, oldEdPub []byte, newRecipients []string) (*Envelope, error) {
	assetID, ok := parseAD(env.AD)
	if !ok {
		return nil, newError("rotate", KindInvalidParameter, errMissingField)
	}

	config, err := e.Open(env, oldEdSecret, oldEdPub, assetID)
	if err != nil {
		return nil, err
	}

	return e.Seal(config, newRecipients, assetID)
}

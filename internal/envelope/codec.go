// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

package envelope

import (
	"encoding/base64"
	"encoding/json"
	"strings"
)

// Envelope Codec: canonical serialization and parsing of the sealed
// envelope. Pure and side-effect-free: a standalone component the engine
// calls into, never the other way around.

const (
	version1  = 1
	aeadIETFX = "xchacha20poly1305-ietf"

	base64Prefix = "base64:"
)

// Envelope is the bit-exact wire shape from §6: field names ver, aead, ad,
// nonce, ciphertext, keyring. nonce, ciphertext, and every keyring value
// carry the literal "base64:" prefix; keyring keys (recipient ids) do not.
type Envelope struct {
	Ver        int               `json:"ver"`
	AEAD       string            `json:"aead"`
	AD         string            `json:"ad"`
	Nonce      string            `json:"nonce"`
	Ciphertext string            `json:"ciphertext"`
	Keyring    map[string]string `json:"keyring"`
}

func b64encode(b []byte) string {
	return base64Prefix + base64.StdEncoding.EncodeToString(b)
}

func b64decode(s string) ([]byte, error) {
	if !strings.HasPrefix(s, base64Prefix) {
		return nil, newError("parse", KindInvalidParameter, errMissingBase64Prefix)
	}
	return base64.StdEncoding.DecodeString(strings.TrimPrefix(s, base64Prefix))
}

// newEnvelope assembles the wire struct from already-encrypted fields; it
// performs no cryptographic work of its own.
func newEnvelope(ad string, nonce, ciphertext []byte, keyring map[string][]byte) *Envelope {
	kr := make(map[string]string, len(keyring))
	for id, sealed := range keyring {
		kr[id] = b64encode(sealed)
	}
	return &Envelope{
		Ver:        version1,
		AEAD:       aeadIETFX,
		AD:         ad,
		Nonce:      b64encode(nonce),
		Ciphertext: b64encode(ciphertext),
		Keyring:    kr,
	}
}

// Serialize emits the canonical JSON wire form.
func Serialize(e *Envelope) ([]byte, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return nil, newError("serialize", KindInternalError, err)
	}
	return b, nil
}

// Parse decodes the canonical JSON wire form and validates its structural
// invariants (mandatory fields present; ver and aead within the accepted
// set). It does not perform any cryptographic operation.
func Parse(data []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, newError("parse", KindInvalidParameter, err)
	}
	if err := validateStructure(&e); err != nil {
		return nil, err
	}
	return &e, nil
}

func validateStructure(e *Envelope) error {
	if e.AD == "" || e.Nonce == "" || e.Ciphertext == "" || len(e.Keyring) == 0 {
		return newError("parse", KindInvalidParameter, errMissingField)
	}
	if e.Ver != version1 {
		return newError("parse", KindUnsupportedEnvelope, nil)
	}
	if e.AEAD != aeadIETFX {
		return newError("parse", KindUnsupportedEnvelope, nil)
	}
	return nil
}

// decodedFields pulls the binary nonce and ciphertext out of an already
// structurally validated Envelope.
func decodedFields(e *Envelope) (nonce, ciphertext []byte, err error) {
	nonce, err = b64decode(e.Nonce)
	if err != nil {
		return nil, nil, newError("parse", KindInvalidParameter, err)
	}
	ciphertext, err = b64decode(e.Ciphertext)
	if err != nil {
		return nil, nil, newError("parse", KindInvalidParameter, err)
	}
	return nonce, ciphertext, nil
}

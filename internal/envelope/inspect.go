// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

package envelope

// Metadata summarizes an envelope's structure without opening it: version,
// algorithm tag, the bound asset id, the set of recipient ids holding a
// keyring entry, and the decoded byte length of the nonce, the ciphertext
// and the largest keyring entry. It never touches plaintext or a sealed
// content key.
type Metadata struct {
	Version          int      `json:"version"`
	AEAD             string   `json:"aead"`
	AssociatedData   string   `json:"associated_data"`
	RecipientIDs     []string `json:"recipient_ids"`
	NonceSize        int      `json:"nonce_size"`
	CiphertextSize   int      `json:"ciphertext_size"`
	KeyringEntrySize int      `json:"keyring_entry_size"`
}

// Inspect reports structural metadata about env. It performs the same
// structural validation Parse does, so a malformed or unsupported envelope
// is rejected before any field is reported.
func Inspect(env *Envelope) (*Metadata, error) {
	if err := validateStructure(env); err != nil {
		return nil, err
	}

	nonce, ciphertext, err := decodedFields(env)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(env.Keyring))
	entrySize := 0
	for id, sealed := range env.Keyring {
		ids = append(ids, id)
		if decoded, err := b64decode(sealed); err == nil && len(decoded) > entrySize {
			entrySize = len(decoded)
		}
	}

	return &Metadata{
		Version:          env.Ver,
		AEAD:             env.AEAD,
		AssociatedData:   env.AD,
		RecipientIDs:     ids,
		NonceSize:        len(nonce),
		CiphertextSize:   len(ciphertext),
		KeyringEntrySize: entrySize,
	}, nil
}

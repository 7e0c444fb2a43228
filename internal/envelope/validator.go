// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

package envelope

import (
	"regexp"

	"go.uber.org/zap"
)

// Validator enforces the input constraints from §4.5: recipient/asset id
// format, maximum payload size, version acceptance, duplicate recipients,
// and a defense-in-depth heuristic over envelope metadata.
type Validator struct {
	// MaxPayloadSize bounds both the plaintext configuration and the
	// ciphertext, defaulting to 10 MiB per §4.5's suggestion.
	MaxPayloadSize int
	logger         *zap.Logger
}

const defaultMaxPayloadSize = 10 << 20 // 10 MiB

// NewValidator returns a Validator with the suggested 10 MiB payload bound.
// Passing a nil logger is valid; a no-op logger is used instead.
func NewValidator(logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{MaxPayloadSize: defaultMaxPayloadSize, logger: logger}
}

func (v *Validator) maxPayloadSize() int {
	if v == nil || v.MaxPayloadSize <= 0 {
		return defaultMaxPayloadSize
	}
	return v.MaxPayloadSize
}

// ValidateRecipientID checks that id base58-decodes to exactly 32 bytes.
func (v *Validator) ValidateRecipientID(id string) error {
	_, err := decodeID(id)
	return err
}

// ValidateAssetID checks that id base58-decodes to exactly 32 bytes.
func (v *Validator) ValidateAssetID(id string) error {
	_, err := decodeID(id)
	return err
}

// ValidateRecipientSet rejects an empty set and any duplicate recipient id.
func (v *Validator) ValidateRecipientSet(ids []string) error {
	if len(ids) == 0 {
		return newError("validate_recipients", KindInvalidParameter, errEmptyRecipients)
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if err := v.ValidateRecipientID(id); err != nil {
			return err
		}
		if _, ok := seen[id]; ok {
			return newError("validate_recipients", KindInvalidParameter, errDuplicateRecipient)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// ValidatePayloadSize bounds a plaintext configuration or a ciphertext by
// the same limit, guarding against resource exhaustion.
func (v *Validator) ValidatePayloadSize(payload []byte) error {
	if len(payload) > v.maxPayloadSize() {
		return newError("validate_payload", KindInvalidParameter, errPayloadTooLarge)
	}
	return nil
}

// ValidateVersion accepts only ver == 1.
func (v *Validator) ValidateVersion(ver int) error {
	if ver != version1 {
		return newError("validate_version", KindUnsupportedEnvelope, nil)
	}
	return nil
}

// sensitivePattern is a coarse defense-in-depth heuristic: it flags strings
// in envelope metadata that look like API keys, passwords, or private key
// material. It is never applied to plaintext and it is not a security
// boundary (a hit means an upstream bug leaked secret-shaped data into the
// part of the envelope that is supposed to carry only public metadata).
var sensitivePattern = regexp.MustCompile(
	`(?i)(api[_-]?key|secret|password|passwd|private[_-]?key|bearer\s+[a-z0-9._-]{16,})`,
)

// ScanMetadataHeuristic inspects the envelope's associated-data string,
// the one free-form metadata field. The version, algorithm tag, nonce,
// keyring and ciphertext are not scanned. It never inspects plaintext. A
// match logs a warning; it never fails the operation.
func (v *Validator) ScanMetadataHeuristic(e *Envelope) {
	if e == nil {
		return
	}
	fields := []string{e.AD}
	for _, f := range fields {
		if sensitivePattern.MatchString(f) {
			v.logger.Warn("envelope metadata matched sensitive-data heuristic",
				zap.String("field", "ad"),
				zap.Int("length", len(f)),
			)
			return
		}
	}
}

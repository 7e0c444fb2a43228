// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

package envelope

import "encoding/json"

// Config is the opaque, finite structured document the engine seals and
// opens. The package does not interpret any field semantics; it only
// requires deterministic canonical serialization with round-trip equality,
// per §3 and §6's "Configuration serializer" contract. encoding/json's
// deterministic map-key ordering already gives us that property, so no
// third-party canonicalizer is needed here (see DESIGN.md).
type Config = json.RawMessage

// encodeConfig canonicalizes an arbitrary Go value into the bytes that get
// sealed. Passing a Config (json.RawMessage) re-serializes it through
// json.Marshal/Unmarshal so that key ordering is always canonical, even if
// the caller built the RawMessage by hand.
func encodeConfig(c Config) ([]byte, error) {
	var v any
	if err := json.Unmarshal(c, &v); err != nil {
		return nil, newError("seal", KindInvalidParameter, err)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, newError("seal", KindInternalError, err)
	}
	return b, nil
}

// decodeConfig wraps recovered plaintext back into a Config.
func decodeConfig(plaintext []byte) (Config, error) {
	var v any
	if err := json.Unmarshal(plaintext, &v); err != nil {
		return nil, newError("open", KindInvalidParameter, err)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, newError("open", KindInternalError, err)
	}
	return Config(b), nil
}

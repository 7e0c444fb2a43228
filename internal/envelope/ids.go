// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

package envelope

import "github.com/mr-tron/base58"

const idSize = 32

// decodeID base58-decodes s and requires it to be exactly idSize bytes,
// matching the RecipientId/AssetId invariant from the data model: a
// base58-encoded 32-byte value.
func decodeID(s string) ([]byte, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, newError("decode_id", KindInvalidParameter, err)
	}
	if len(b) != idSize {
		return nil, newError("decode_id", KindInvalidParameter, errBadKeySize)
	}
	return b, nil
}

func encodeID(b []byte) string {
	return base58.Encode(b)
}

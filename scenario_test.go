// Copyright 2019 Google LLC
//
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file or at
// https://developers.google.com/open-source/licenses/bsd

package envelopecore_test

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"

	envelopecore "github.com/maikers-protocol/envelope-core"
)

type scenarioRecipient struct {
	id     string
	pub    ed25519.PublicKey
	secret ed25519.PrivateKey
}

func newScenarioRecipient(t *testing.T, seedByte byte) scenarioRecipient {
	t.Helper()
	seed := make([]byte, ed25519.SeedSize)
	seed[0] = seedByte
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return scenarioRecipient{id: base58.Encode(pub), pub: pub, secret: priv}
}

func scenarioAssetID(b byte) string {
	return base58.Encode(bytes.Repeat([]byte{b}, 32))
}

// TestScenarioS1AuthorizedOpenTwoRecipients is S1: both recipients recover
// the exact same document sealed for the pair.
func TestScenarioS1AuthorizedOpenTwoRecipients(t *testing.T) {
	eng := envelopecore.NewEngine(0)
	user := newScenarioRecipient(t, 1)
	protocol := newScenarioRecipient(t, 2)
	assetID := scenarioAssetID(0x11)
	config := envelopecore.Config(`{"name":"x","value":42}`)

	env, err := eng.Seal(config, []string{user.id, protocol.id}, assetID)
	require.NoError(t, err)

	for _, r := range []scenarioRecipient{user, protocol} {
		got, err := eng.Open(env, r.secret, r.pub, assetID)
		require.NoError(t, err)
		require.JSONEq(t, string(config), string(got))
	}
}

// TestScenarioS2UnauthorizedRejection is S2: a third party absent from the
// keyring is refused before any sealed-box work runs.
func TestScenarioS2UnauthorizedRejection(t *testing.T) {
	eng := envelopecore.NewEngine(0)
	user := newScenarioRecipient(t, 1)
	protocol := newScenarioRecipient(t, 2)
	outsider := newScenarioRecipient(t, 3)
	assetID := scenarioAssetID(0x11)
	config := envelopecore.Config(`{"name":"x","value":42}`)

	env, err := eng.Seal(config, []string{user.id, protocol.id}, assetID)
	require.NoError(t, err)

	_, err = eng.Open(env, outsider.secret, outsider.pub, assetID)
	require.ErrorIs(t, err, envelopecore.ErrNotAuthorized)
}

// TestScenarioS3AssociatedDataTamper is S3: replacing the asset binding
// must surface as a mismatch or an authentication failure, never a silent
// decrypt against the wrong asset.
func TestScenarioS3AssociatedDataTamper(t *testing.T) {
	eng := envelopecore.NewEngine(0)
	user := newScenarioRecipient(t, 1)
	protocol := newScenarioRecipient(t, 2)
	originalAssetID := scenarioAssetID(0x11)
	config := envelopecore.Config(`{"name":"x","value":42}`)

	env, err := eng.Seal(config, []string{user.id, protocol.id}, originalAssetID)
	require.NoError(t, err)

	env.AD = "mint:" + scenarioAssetID(0x22)

	_, err = eng.Open(env, user.secret, user.pub, originalAssetID)
	require.Error(t, err)
	require.True(t,
		errors.Is(err, envelopecore.ErrAssociatedDataMismatch) || errors.Is(err, envelopecore.ErrAuthenticationFailure),
		"got %v, want AssociatedDataMismatch or AuthenticationFailure", err,
	)
}

// TestScenarioS4CiphertextBitFlip is S4: a single flipped ciphertext bit
// must fail authentication, never produce corrupted plaintext.
func TestScenarioS4CiphertextBitFlip(t *testing.T) {
	eng := envelopecore.NewEngine(0)
	user := newScenarioRecipient(t, 1)
	protocol := newScenarioRecipient(t, 2)
	assetID := scenarioAssetID(0x11)
	config := envelopecore.Config(`{"name":"x","value":42}`)

	env, err := eng.Seal(config, []string{user.id, protocol.id}, assetID)
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(env.Ciphertext[len("base64:"):])
	require.NoError(t, err)
	raw[0] ^= 0x01
	env.Ciphertext = "base64:" + base64.StdEncoding.EncodeToString(raw)

	_, err = eng.Open(env, user.secret, user.pub, assetID)
	require.ErrorIs(t, err, envelopecore.ErrAuthenticationFailure)
}

// TestScenarioS5RotationStripsRecipient is S5: rotating to a new recipient
// set revokes every recipient absent from the new set, and the old
// envelope, which Rotate does not modify, keeps working for the old set.
func TestScenarioS5RotationStripsRecipient(t *testing.T) {
	eng := envelopecore.NewEngine(0)
	user := newScenarioRecipient(t, 1)
	protocol := newScenarioRecipient(t, 2)
	successor := newScenarioRecipient(t, 3)
	assetID := scenarioAssetID(0x11)
	config := envelopecore.Config(`{"name":"x","value":42}`)

	env, err := eng.Seal(config, []string{user.id, protocol.id}, assetID)
	require.NoError(t, err)

	rotated, err := eng.Rotate(env, user.secret, user.pub, []string{successor.id})
	require.NoError(t, err)

	for _, r := range []scenarioRecipient{user, protocol} {
		_, err := eng.Open(rotated, r.secret, r.pub, assetID)
		require.ErrorIs(t, err, envelopecore.ErrNotAuthorized)
	}

	got, err := eng.Open(rotated, successor.secret, successor.pub, assetID)
	require.NoError(t, err)
	require.JSONEq(t, string(config), string(got))

	// The original envelope must be untouched: user and protocol can still
	// open it.
	for _, r := range []scenarioRecipient{user, protocol} {
		got, err := eng.Open(env, r.secret, r.pub, assetID)
		require.NoError(t, err)
		require.JSONEq(t, string(config), string(got))
	}
}

// TestScenarioS6VersionRefusal is S6: an unsupported version is refused at
// the structural check, before any cryptographic work executes.
func TestScenarioS6VersionRefusal(t *testing.T) {
	eng := envelopecore.NewEngine(0)
	user := newScenarioRecipient(t, 1)
	assetID := scenarioAssetID(0x11)
	config := envelopecore.Config(`{"name":"x"}`)

	env, err := eng.Seal(config, []string{user.id}, assetID)
	require.NoError(t, err)

	data, err := envelopecore.Serialize(env)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	raw["ver"] = json.RawMessage(`99`)
	tampered, err := json.Marshal(raw)
	require.NoError(t, err)

	_, err = envelopecore.Parse(tampered)
	require.ErrorIs(t, err, envelopecore.ErrUnsupportedEnvelope)
}

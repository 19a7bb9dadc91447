package interactions_test

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"testing"

	"github.com/relaydesk/discord-relay/internal/interactions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signedTuple produces a valid (body, sig, ts, key) tuple for tests.
func signedTuple(t *testing.T, body, timestamp string) (sig, key string) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signature := ed25519.Sign(priv, []byte(timestamp+body))
	return hex.EncodeToString(signature), hex.EncodeToString(pub)
}

func TestVerify_ValidSignature(t *testing.T) {
	body := `{"type":1}`
	ts := "1700000000"
	sig, key := signedTuple(t, body, ts)

	assert.True(t, interactions.Verify([]byte(body), sig, ts, key))
}

func TestVerify_TamperedBody(t *testing.T) {
	body := `{"type":1}`
	ts := "1700000000"
	sig, key := signedTuple(t, body, ts)

	tampered := []byte(`{"type":2}`)
	assert.False(t, interactions.Verify(tampered, sig, ts, key))
}

func TestVerify_TamperedTimestamp(t *testing.T) {
	body := `{"type":1}`
	ts := "1700000000"
	sig, key := signedTuple(t, body, ts)

	assert.False(t, interactions.Verify([]byte(body), sig, "1700000001", key))
}

func TestVerify_TamperedSignature(t *testing.T) {
	body := `{"type":1}`
	ts := "1700000000"
	sig, key := signedTuple(t, body, ts)

	// Flip one hex character
	mutated := []byte(sig)
	if mutated[0] == 'a' {
		mutated[0] = 'b'
	} else {
		mutated[0] = 'a'
	}
	assert.False(t, interactions.Verify([]byte(body), string(mutated), ts, key))
}

func TestVerify_MissingInputs(t *testing.T) {
	body := `{"type":1}`
	ts := "1700000000"
	sig, key := signedTuple(t, body, ts)

	assert.False(t, interactions.Verify([]byte(body), "", ts, key))
	assert.False(t, interactions.Verify([]byte(body), sig, "", key))
	assert.False(t, interactions.Verify([]byte(body), sig, ts, ""))
}

func TestVerify_MalformedInputs(t *testing.T) {
	body := `{"type":1}`
	ts := "1700000000"
	sig, key := signedTuple(t, body, ts)

	assert.False(t, interactions.Verify([]byte(body), "not-hex", ts, key))
	assert.False(t, interactions.Verify([]byte(body), sig, ts, "not-hex"))
	// Valid hex, wrong length
	assert.False(t, interactions.Verify([]byte(body), "deadbeef", ts, key))
	assert.False(t, interactions.Verify([]byte(body), sig, ts, "deadbeef"))
}

package interactions

import (
	"crypto/ed25519"
	"encoding/hex"
)

// Verify authenticates a webhook delivery. The platform signs the
// concatenation of the timestamp header and the raw request body with the
// application's ed25519 key; signature and key arrive hex-encoded.
//
// Any absent or malformed input fails verification before the cryptographic
// check runs. Callers get a bare bool so nothing about which input was wrong
// can leak to the requester.
func Verify(rawBody []byte, signature, timestamp, publicKey string) bool {
	if signature == "" || timestamp == "" || publicKey == "" {
		return false
	}
	keyBytes, err := hex.DecodeString(publicKey)
	if err != nil || len(keyBytes) != ed25519.PublicKeySize {
		return false
	}
	sigBytes, err := hex.DecodeString(signature)
	if err != nil || len(sigBytes) != ed25519.SignatureSize {
		return false
	}
	msg := make([]byte, 0, len(timestamp)+len(rawBody))
	msg = append(msg, timestamp...)
	msg = append(msg, rawBody...)
	return ed25519.Verify(ed25519.PublicKey(keyBytes), msg, sigBytes)
}

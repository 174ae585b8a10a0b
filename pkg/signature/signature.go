// Package signature computes and checks the HMAC-SHA256 message
// authentication codes payment gateways attach to their callbacks.
//
// MACs are lowercase hex, the representation ZaloPay uses for the "mac"
// field of a callback body.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sign returns hex(HMAC-SHA256(secret, data)).
func Sign(data string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether presented is the MAC of data under secret.
// The comparison runs in constant time. An empty secret or MAC never verifies.
func Verify(data, presented string, secret []byte) bool {
	if len(secret) == 0 || presented == "" {
		return false
	}
	expected := Sign(data, secret)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(presented)))
}

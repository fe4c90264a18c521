package user

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

var nowFunc = time.Now // mockable

// makeToken generates a random opaque token. Tokens are stored on the user
// row with an expiry and cleared on consumption (single-use).
func makeToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(err) // crypto/rand failure is not recoverable
	}
	return hex.EncodeToString(b)
}

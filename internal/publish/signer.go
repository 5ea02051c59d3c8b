package publish

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign returns the hex HMAC-SHA256 of timestamp, key and body under secret.
func Sign(secret, ts, apiKey string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts + apiKey))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

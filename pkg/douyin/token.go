package douyin

import (
	"crypto/rand"
	"encoding/base64"
)

// Upstream endpoints reject cookie-less requests, but accept freshly minted
// session-like tokens of the right shape. Lengths match what the web client
// produces.
const (
	msTokenLength  = 107
	ttwidByteCount = 24
)

const alnum = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// randomToken returns a random alphanumeric string of n characters.
func randomToken(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = alnum[int(b)%len(alnum)]
	}

	return string(buf)
}

// sessionCookie builds the cookie header value attached to metadata requests:
// a fresh msToken plus a base64url ttwid.
func sessionCookie() string {
	ttwid := make([]byte, ttwidByteCount)
	_, _ = rand.Read(ttwid)

	return "msToken=" + randomToken(msTokenLength) +
		"; ttwid=" + base64.RawURLEncoding.EncodeToString(ttwid)
}

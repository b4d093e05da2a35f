package http

import (
	"crypto/sha256"

	"github.com/gin-contrib/sessions/cookie"
)

// NewSessionStore returns a cookie store that signs with secret and encrypts
// with AES-256. The session carries the last ingest url, stream key included,
// so its content must not be readable by the client. The encryption key is
// derived from encryptionKey, or from secret when that is empty.
func NewSessionStore(secret, encryptionKey string) cookie.Store {
	material := encryptionKey
	if material == "" {
		material = secret
	}
	enc := sha256.Sum256([]byte("livecast session encryption:" + material))
	return cookie.NewStore([]byte(secret), enc[:])
}

package docspace

import (
	"crypto/sha512"
	"encoding/hex"

	"golang.org/x/crypto/pbkdf2"
)

// HashPassword derives the workspace login hash from a plain password using
// the workspace's own hashing parameters. The plain password is never sent
// anywhere; only this hash crosses the frame boundary and is persisted in
// the embedded-account link.
func HashPassword(password string, settings HashSettings) string {
	size := settings.Size
	if size <= 0 {
		size = 256
	}
	iterations := settings.Iterations
	if iterations <= 0 {
		iterations = 100000
	}

	key := pbkdf2.Key([]byte(password), []byte(settings.Salt), iterations, size/8, sha512.New)
	return hex.EncodeToString(key)
}

package testutil

import (
	"crypto/rand"
	"encoding/base32"
)

// RFC 4226 / RFC 6238 SHA1 test key "12345678901234567890" in base32.
const RFCSecretSHA1 = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"

// RandomSecret returns n random bytes encoded as unpadded base32.
func RandomSecret(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}

	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(b), nil
}

package otp

import (
	"encoding/base32"
	"fmt"
	"strings"
)

var b32 = base32.StdEncoding.WithPadding(base32.NoPadding)

// DecodeSecret decodes an RFC 4648 base32 secret. ASCII whitespace is
// stripped, letters are matched case-insensitively and trailing '='
// padding is optional.
func DecodeSecret(s string) ([]byte, error) {
	norm := strings.TrimRight(normalizeSecret(s), "=")

	// 1, 3 or 6 trailing symbols cannot hold a whole byte
	switch len(norm) % 8 {
	case 1, 3, 6:
		return nil, fmt.Errorf("%w: %d symbols is not a valid base32 length", ErrInvalidEncoding, len(norm))
	}

	out, err := b32.DecodeString(norm)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}

	return out, nil
}

// EncodeSecret is the inverse of DecodeSecret: uppercase, unpadded base32.
func EncodeSecret(b []byte) string {
	return b32.EncodeToString(b)
}

func normalizeSecret(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ', c == '\t', c == '\n', c == '\r', c == '\v', c == '\f':
			continue
		case c >= 'a' && c <= 'z':
			c -= 'a' - 'A'
		}
		sb.WriteByte(c)
	}

	return sb.String()
}

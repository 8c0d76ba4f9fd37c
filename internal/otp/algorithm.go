package otp

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
)

// Algorithm selects the HMAC hash function. The zero value is SHA1, the
// RFC 6238 default.
type Algorithm int

const (
	AlgorithmSHA1 Algorithm = iota
	AlgorithmSHA256
	AlgorithmSHA512
)

// ParseAlgorithm maps the lowercase URI token (sha1, sha256, sha512) to an
// Algorithm. Matching is case-sensitive.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch s {
	case "sha1":
		return AlgorithmSHA1, nil
	case "sha256":
		return AlgorithmSHA256, nil
	case "sha512":
		return AlgorithmSHA512, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, s)
	}
}

// Valid reports whether a is one of the supported algorithms.
func (a Algorithm) Valid() bool {
	return a >= AlgorithmSHA1 && a <= AlgorithmSHA512
}

// Token returns the lowercase form used in provisioning URIs.
func (a Algorithm) Token() string {
	switch a {
	case AlgorithmSHA1:
		return "sha1"
	case AlgorithmSHA256:
		return "sha256"
	case AlgorithmSHA512:
		return "sha512"
	default:
		return ""
	}
}

func (a Algorithm) String() string {
	switch a {
	case AlgorithmSHA1:
		return "SHA1"
	case AlgorithmSHA256:
		return "SHA256"
	case AlgorithmSHA512:
		return "SHA512"
	default:
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
}

func (a Algorithm) hash() func() hash.Hash {
	switch a {
	case AlgorithmSHA256:
		return sha256.New
	case AlgorithmSHA512:
		return sha512.New
	default:
		return sha1.New
	}
}

// Package keygen creates new TOTP enrollment keys and their provisioning URIs.
package keygen

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"net/url"

	potp "github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/bashhack/otpcode/internal/otp"
)

// DefaultSecretSize is the RFC 4226 recommended key length in bytes.
const DefaultSecretSize = 20

// Options describes the key to create. Zero values take the otp defaults.
type Options struct {
	Issuer      string
	AccountName string
	Digits      int
	Period      uint64
	Algorithm   otp.Algorithm
	SecretSize  uint

	// Rand overrides the entropy source; nil means crypto/rand.
	Rand io.Reader
}

// Key is a freshly generated enrollment key.
type Key struct {
	// URI is the otpauth://totp provisioning URI, with the algorithm written
	// in the lowercase form otp.Parse accepts.
	URI string
	// Secret is the base32 encoded key.
	Secret string

	key *potp.Key
}

// New generates a random key and its provisioning URI.
func New(opts Options) (*Key, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("issuer is required")
	}
	if opts.AccountName == "" {
		return nil, fmt.Errorf("account name is required")
	}
	if opts.Digits == 0 {
		opts.Digits = otp.DefaultDigits
	}
	if opts.Period == 0 {
		opts.Period = otp.DefaultPeriod
	}
	if opts.SecretSize == 0 {
		opts.SecretSize = DefaultSecretSize
	}

	// validate against the same rules generation uses, with a placeholder key
	check := otp.Parameters{Secret: []byte{0}, Digits: opts.Digits, Period: opts.Period, Algorithm: opts.Algorithm}
	if err := check.Validate(); err != nil {
		return nil, err
	}

	palg, err := pquernaAlgorithm(opts.Algorithm)
	if err != nil {
		return nil, err
	}

	gen, err := totp.Generate(totp.GenerateOpts{
		Issuer:      opts.Issuer,
		AccountName: opts.AccountName,
		Period:      uint(opts.Period),
		SecretSize:  opts.SecretSize,
		Digits:      potp.Digits(opts.Digits),
		Algorithm:   palg,
		Rand:        opts.Rand,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	uri, err := lowercaseAlgorithm(gen.URL(), opts.Algorithm)
	if err != nil {
		return nil, err
	}

	k, err := potp.NewKeyFromURL(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild key: %w", err)
	}

	return &Key{URI: uri, Secret: gen.Secret(), key: k}, nil
}

// Image renders the provisioning URI as a QR code.
func (k *Key) Image(width, height int) (image.Image, error) {
	img, err := k.key.Image(width, height)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	return img, nil
}

// WritePNG renders the QR code as PNG to w.
func (k *Key) WritePNG(w io.Writer, size int) error {
	img, err := k.Image(size, size)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

func pquernaAlgorithm(a otp.Algorithm) (potp.Algorithm, error) {
	switch a {
	case otp.AlgorithmSHA1:
		return potp.AlgorithmSHA1, nil
	case otp.AlgorithmSHA256:
		return potp.AlgorithmSHA256, nil
	case otp.AlgorithmSHA512:
		return potp.AlgorithmSHA512, nil
	default:
		return 0, fmt.Errorf("%w: %s", otp.ErrUnsupportedAlgorithm, a)
	}
}

// pquerna writes algorithm=SHA1; otp.Parse only accepts the lowercase token.
func lowercaseAlgorithm(raw string, a otp.Algorithm) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse generated URI: %w", err)
	}

	q := u.Query()
	q.Set("algorithm", a.Token())
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// Package otp generates HOTP (RFC 4226) and TOTP (RFC 6238) codes from a
// base32 secret or an otpauth:// provisioning URI.
package otp

import (
	"fmt"
	"time"

	"github.com/bashhack/otpcode/internal/secure"
)

// Provider defines the interface for OTP operations
type Provider interface {
	// Parse resolves a secret string into Parameters
	Parse(secret string) (Parameters, error)

	// GenerateForTime generates the code valid at t
	GenerateForTime(secret string, t time.Time) (string, error)

	// Generate produces the codes for already parsed parameters, so callers
	// that need the parameters decode the secret only once
	Generate(params Parameters, t time.Time) (Codes, error)
}

// Codes is the result of Generate.
type Codes struct {
	// Current is valid for the window containing t, Next for the one after.
	Current string
	Next    string
	// Remaining is the time left in the current window.
	Remaining time.Duration
}

// DefaultProvider parses with Parse and generates with GenerateTOTP. Key
// bytes it decodes itself are zeroed once a code has been produced.
type DefaultProvider struct{}

// Ensure DefaultProvider implements Provider interface
var _ Provider = (*DefaultProvider)(nil)

// NewDefaultProvider creates a new DefaultProvider
func NewDefaultProvider() Provider {
	return &DefaultProvider{}
}

// Parse implements the Provider interface
func (p *DefaultProvider) Parse(secret string) (Parameters, error) {
	return Parse(secret)
}

// GenerateForTime implements the Provider interface
func (p *DefaultProvider) GenerateForTime(secret string, t time.Time) (string, error) {
	params, err := Parse(secret)
	if err != nil {
		return "", err
	}
	defer secure.SecureZeroBytes(params.Secret)

	code, err := GenerateTOTP(params, t)
	if err != nil {
		return "", fmt.Errorf("failed to generate TOTP: %w", err)
	}

	return code, nil
}

// Generate implements the Provider interface. It does not zero
// params.Secret; the caller owns it.
func (p *DefaultProvider) Generate(params Parameters, t time.Time) (Codes, error) {
	current, next, err := GenerateConsecutive(params, t)
	if err != nil {
		return Codes{}, fmt.Errorf("failed to generate TOTP: %w", err)
	}

	return Codes{Current: current, Next: next, Remaining: Remaining(t, params.Period)}, nil
}

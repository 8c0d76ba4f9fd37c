package otp

import (
	"errors"
	"fmt"
)

// Error kinds returned by this package. Callers match them with errors.Is;
// the wrapping error carries the detail.
var (
	// ErrInvalidEncoding indicates the secret is not valid base32.
	ErrInvalidEncoding = errors.New("otp: invalid base32 encoding")
	// ErrMalformedURI indicates an otpauth URI with a missing or unparsable field.
	ErrMalformedURI = errors.New("otp: malformed provisioning URI")
	// ErrUnsupportedAlgorithm indicates a hash algorithm other than SHA1, SHA256 or SHA512.
	ErrUnsupportedAlgorithm = errors.New("otp: unsupported algorithm")
	// ErrInvalidParameter indicates digits, period or secret outside the accepted range.
	ErrInvalidParameter = errors.New("otp: invalid parameter")
)

// ParameterError reports which field of Parameters failed validation.
type ParameterError struct {
	Field string
	Value any
	Rule  string
}

func (e *ParameterError) Error() string {
	if e.Field == "Secret" {
		// never echo secret material
		return fmt.Sprintf("%v: %s failed %q", ErrInvalidParameter, e.Field, e.Rule)
	}
	return fmt.Sprintf("%v: %s=%v failed %q", ErrInvalidParameter, e.Field, e.Value, e.Rule)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

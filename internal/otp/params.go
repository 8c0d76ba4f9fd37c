package otp

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Defaults applied when a provisioning URI omits a field, and for bare secrets.
const (
	DefaultDigits    = 6
	DefaultPeriod    = 30
	DefaultAlgorithm = AlgorithmSHA1

	MinDigits = 1
	MaxDigits = 10
)

// Parameters is everything needed to produce a code. Values are built once
// by Parse (or by hand) and never mutated afterwards.
type Parameters struct {
	Secret    []byte `validate:"min=1"`
	Digits    int    `validate:"min=1,max=10"`
	Period    uint64 `validate:"gt=0"`
	Algorithm Algorithm

	// Issuer and AccountName come from the URI label and issuer parameter.
	// Generation ignores them.
	Issuer      string
	AccountName string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks digits, period, algorithm and secret. It runs before any
// HMAC is computed.
func (p Parameters) Validate() error {
	if !p.Algorithm.Valid() {
		return fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, p.Algorithm)
	}

	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &ParameterError{Field: fe.Field(), Value: fe.Value(), Rule: fe.Tag() + paramSuffix(fe.Param())}
		}
		return fmt.Errorf("%w: %v", ErrInvalidParameter, err)
	}

	return nil
}

func paramSuffix(param string) string {
	if param == "" {
		return ""
	}
	return "=" + param
}

package otp

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	uriScheme = "otpauth"
	uriType   = "totp"
)

// uriFields holds the optional values read from a provisioning URI before
// defaults are applied.
type uriFields struct {
	secret    string
	digits    *int
	period    *uint64
	algorithm *Algorithm
	issuer    string
	account   string
}

// Parse turns a caller-supplied secret into Parameters. Input that is not an
// otpauth://totp URI is treated as a bare base32 secret with default
// parameters. Fields present in a URI but invalid are errors, never
// replaced by defaults.
func Parse(input string) (Parameters, error) {
	u, ok := provisioningURI(input)
	if !ok {
		return parseRaw(input)
	}

	f, err := readURI(u)
	if err != nil {
		return Parameters{}, err
	}

	secret, err := DecodeSecret(f.secret)
	if err != nil {
		return Parameters{}, err
	}

	p := Parameters{
		Secret:      secret,
		Digits:      DefaultDigits,
		Period:      DefaultPeriod,
		Algorithm:   DefaultAlgorithm,
		Issuer:      f.issuer,
		AccountName: f.account,
	}
	if f.digits != nil {
		p.Digits = *f.digits
	}
	if f.period != nil {
		p.Period = *f.period
	}
	if f.algorithm != nil {
		p.Algorithm = *f.algorithm
	}

	if err := p.Validate(); err != nil {
		return Parameters{}, err
	}

	return p, nil
}

func parseRaw(input string) (Parameters, error) {
	secret, err := DecodeSecret(input)
	if err != nil {
		return Parameters{}, err
	}

	p := Parameters{
		Secret:    secret,
		Digits:    DefaultDigits,
		Period:    DefaultPeriod,
		Algorithm: DefaultAlgorithm,
	}
	if err := p.Validate(); err != nil {
		return Parameters{}, err
	}

	return p, nil
}

// provisioningURI reports whether input is an otpauth://totp URI. Anything
// else, including hotp URIs and unparsable strings, degrades to a raw secret.
func provisioningURI(input string) (*url.URL, bool) {
	u, err := url.Parse(strings.TrimSpace(input))
	if err != nil {
		return nil, false
	}
	// url.Parse lowercases the scheme; the host is matched exactly
	if u.Scheme != uriScheme || u.Host != uriType {
		return nil, false
	}
	return u, true
}

func readURI(u *url.URL) (uriFields, error) {
	q, err := queryValues(u.RawQuery)
	if err != nil {
		return uriFields{}, fmt.Errorf("%w: query: %v", ErrMalformedURI, err)
	}

	var f uriFields

	if !q.Has("secret") || strings.TrimSpace(q.Get("secret")) == "" {
		return uriFields{}, fmt.Errorf("%w: missing secret", ErrMalformedURI)
	}
	f.secret = q.Get("secret")

	if q.Has("digits") {
		v, err := strconv.ParseUint(q.Get("digits"), 10, 32)
		if err != nil {
			return uriFields{}, fmt.Errorf("%w: digits %q is not an unsigned integer", ErrMalformedURI, q.Get("digits"))
		}
		d := int(v)
		f.digits = &d
	}

	if q.Has("period") {
		v, err := strconv.ParseUint(q.Get("period"), 10, 64)
		if err != nil {
			return uriFields{}, fmt.Errorf("%w: period %q is not an unsigned integer", ErrMalformedURI, q.Get("period"))
		}
		f.period = &v
	}

	if q.Has("algorithm") {
		a, err := ParseAlgorithm(q.Get("algorithm"))
		if err != nil {
			return uriFields{}, fmt.Errorf("%w: %w", ErrMalformedURI, err)
		}
		f.algorithm = &a
	}

	f.issuer, f.account = splitLabel(strings.TrimPrefix(u.Path, "/"))
	if issuer := q.Get("issuer"); issuer != "" {
		f.issuer = issuer
	}

	return f, nil
}

// queryValues decodes a form-encoded query split on '&' only. Unlike
// url.ParseQuery it keeps ';' as part of a value.
func queryValues(raw string) (url.Values, error) {
	q := url.Values{}
	for raw != "" {
		var pair string
		pair, raw, _ = strings.Cut(raw, "&")
		if pair == "" {
			continue
		}

		k, v, _ := strings.Cut(pair, "=")
		key, err := url.QueryUnescape(k)
		if err != nil {
			return nil, err
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			return nil, err
		}
		q.Add(key, value)
	}
	return q, nil
}

// splitLabel splits "issuer:account" on the last colon.
func splitLabel(label string) (issuer, account string) {
	if i := strings.LastIndex(label, ":"); i >= 0 {
		return strings.TrimSpace(label[:i]), strings.TrimSpace(label[i+1:])
	}
	return "", label
}

package otp

import (
	"time"
)

// Counter returns floor(unix(t) / period). Instants before the epoch map to
// counter 0. period must be non-zero.
func Counter(t time.Time, period uint64) uint64 {
	u := t.Unix()
	if u < 0 {
		return 0
	}
	return uint64(u) / period
}

// Remaining is the time left in the window containing t.
func Remaining(t time.Time, period uint64) time.Duration {
	u := t.Unix()
	if u < 0 || period == 0 {
		return 0
	}
	return time.Duration(period-uint64(u)%period) * time.Second
}

// GenerateTOTP returns the RFC 6238 code for p at now.
func GenerateTOTP(p Parameters, now time.Time) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	return hotp(p.Secret, Counter(now, p.Period), p.Digits, p.Algorithm), nil
}

// GenerateConsecutive returns the code for the window containing now and the
// one after it.
func GenerateConsecutive(p Parameters, now time.Time) (current, next string, err error) {
	if err := p.Validate(); err != nil {
		return "", "", err
	}

	c := Counter(now, p.Period)
	return hotp(p.Secret, c, p.Digits, p.Algorithm), hotp(p.Secret, c+1, p.Digits, p.Algorithm), nil
}

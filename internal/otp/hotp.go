package otp

import (
	"crypto/hmac"
	"encoding/binary"
	"fmt"
)

var powers = [MaxDigits + 1]uint64{
	1, 10, 100, 1000, 10000, 100000, 1000000, 10000000, 100000000, 1000000000, 10000000000,
}

// GenerateHOTP computes the RFC 4226 code for counter. The secret is the raw
// key, not its base32 form.
func GenerateHOTP(secret []byte, counter uint64, digits int, alg Algorithm) (string, error) {
	p := Parameters{Secret: secret, Digits: digits, Period: DefaultPeriod, Algorithm: alg}
	if err := p.Validate(); err != nil {
		return "", err
	}

	return hotp(secret, counter, digits, alg), nil
}

// hotp expects validated input.
func hotp(secret []byte, counter uint64, digits int, alg Algorithm) string {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(alg.hash(), secret)
	mac.Write(msg[:])
	sum := mac.Sum(nil)

	// dynamic truncation
	offset := sum[len(sum)-1] & 0x0f
	bin := binary.BigEndian.Uint32(sum[offset:offset+4]) & 0x7fffffff

	return fmt.Sprintf("%0*d", digits, uint64(bin)%powers[digits])
}

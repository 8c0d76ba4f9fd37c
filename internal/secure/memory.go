// Package secure clears secret material that otpcode holds in memory.
//
// Go gives no hard guarantee here: the garbage collector may have copied a
// slice before it is zeroed, and strings cannot be cleared at all. Decoded
// keys are therefore kept as []byte and zeroed as soon as a code exists.
package secure

import "runtime"

// SecureZeroBytes overwrites data with zeros. runtime.KeepAlive stops the
// compiler from treating the writes as dead stores.
func SecureZeroBytes(data []byte) {
	if len(data) == 0 {
		return
	}

	for i := range data {
		data[i] = 0
	}

	runtime.KeepAlive(data)
}

// TrimCopy returns a copy of b without leading or trailing ASCII whitespace
// and zeroes b.
func TrimCopy(b []byte) []byte {
	start, end := 0, len(b)
	for start < end && isSpace(b[start]) {
		start++
	}
	for end > start && isSpace(b[end-1]) {
		end--
	}

	out := make([]byte, end-start)
	copy(out, b[start:end])
	SecureZeroBytes(b)

	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\v' || c == '\f'
}

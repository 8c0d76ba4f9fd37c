package secure

import (
	"bytes"
	"testing"
)

func TestSecureZeroBytes(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{"nil slice", nil},
		{"empty slice", []byte{}},
		{"sample data", []byte("JBSWY3DPEHPK3PXP")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			SecureZeroBytes(tc.data)

			for i, b := range tc.data {
				if b != 0 {
					t.Errorf("Byte at index %d was not zeroed, expected 0, got %d", i, b)
				}
			}
		})
	}
}

func TestTrimCopy(t *testing.T) {
	tests := map[string]struct {
		in   string
		want string
	}{
		"no whitespace":    {in: "JBSWY3DP", want: "JBSWY3DP"},
		"trailing newline": {in: "JBSWY3DP\n", want: "JBSWY3DP"},
		"crlf and spaces":  {in: "  JBSW Y3DP \r\n", want: "JBSW Y3DP"},
		"only whitespace":  {in: " \t\n", want: ""},
		"empty":            {in: "", want: ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			src := []byte(tt.in)
			got := TrimCopy(src)

			if !bytes.Equal(got, []byte(tt.want)) {
				t.Errorf("TrimCopy() = %q, want %q", got, tt.want)
			}
			for i, b := range src {
				if b != 0 {
					t.Errorf("source byte %d was not zeroed", i)
				}
			}
		})
	}
}

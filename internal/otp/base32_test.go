package otp

import (
	"bytes"
	"crypto/sha512"
	"errors"
	"testing"
)

func TestDecodeSecret(t *testing.T) {
	tests := map[string]struct {
		in      string
		want    []byte
		wantErr bool
	}{
		"uppercase":             {in: "JBSWY3DP", want: []byte("Hello")},
		"lowercase":             {in: "jbswy3dp", want: []byte("Hello")},
		"mixed case":            {in: "JbSwY3dP", want: []byte("Hello")},
		"embedded spaces":       {in: "JBSW Y3DP", want: []byte("Hello")},
		"tabs and newlines":     {in: "\tJBSW\nY3DP\r\n", want: []byte("Hello")},
		"padded":                {in: "JBSWY3DPEE======", want: []byte("Hello!")},
		"unpadded partial":      {in: "JBSWY3DPEE", want: []byte("Hello!")},
		"rfc key":               {in: "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ", want: []byte("12345678901234567890")},
		"empty":                 {in: "", want: []byte{}},
		"illegal digit":         {in: "JBSWY3D1", wantErr: true},
		"illegal symbol":        {in: "NOT-VALID-BASE32!@#", wantErr: true},
		"padding in the middle": {in: "JB=SWY3DP", wantErr: true},
		"impossible length 1":   {in: "JBSWY3DPE", wantErr: true},
		"impossible length 3":   {in: "JBS", wantErr: true},
		"impossible length 6":   {in: "JBSWY3", wantErr: true},
		"non-ascii":             {in: "JBSWY3DÉ", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := DecodeSecret(tt.in)

			if tt.wantErr {
				if !errors.Is(err, ErrInvalidEncoding) {
					t.Errorf("DecodeSecret(%q) error = %v, want ErrInvalidEncoding", tt.in, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("DecodeSecret(%q) unexpected error = %v", tt.in, err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("DecodeSecret(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDecodeSecret_SpacesAndCaseAreIrrelevant(t *testing.T) {
	a, err := DecodeSecret("JBSWY3DPEHPK3PXP")
	if err != nil {
		t.Fatalf("DecodeSecret() unexpected error = %v", err)
	}
	b, err := DecodeSecret("jbsw y3dp ehpk 3pxp")
	if err != nil {
		t.Fatalf("DecodeSecret() unexpected error = %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("DecodeSecret() = %x and %x, want identical", a, b)
	}
}

func TestEncodeSecret_RoundTrip(t *testing.T) {
	sum := sha512.Sum512([]byte("round trip"))

	for n := 0; n <= len(sum); n++ {
		key := sum[:n]

		decoded, err := DecodeSecret(EncodeSecret(key))
		if err != nil {
			t.Fatalf("DecodeSecret(EncodeSecret(%d bytes)) unexpected error = %v", n, err)
		}
		if !bytes.Equal(decoded, key) {
			t.Errorf("round trip of %d bytes = %x, want %x", n, decoded, key)
		}
	}
}

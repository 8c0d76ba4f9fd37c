// Package source resolves the secret string handed to the OTP generator.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/bashhack/otpcode/internal/qrcode"
	"github.com/bashhack/otpcode/internal/secure"
)

// Kind names where a secret came from. It is safe to log.
type Kind string

const (
	KindArgument Kind = "argument"
	KindQRFile   Kind = "qr-file"
	KindScreen   Kind = "screen"
	KindEnv      Kind = "env"
	KindPrompt   Kind = "prompt"
	KindStdin    Kind = "stdin"
)

// maxStdinSecret bounds how much piped input is read for a single secret.
const maxStdinSecret = 64 << 10

var (
	// ErrNoSecret is returned when no source yields a non-empty secret.
	ErrNoSecret = errors.New("no secret provided")
	// ErrConflictingSources is returned when more than one explicit source is set.
	ErrConflictingSources = errors.New("use only one of a secret argument, --qr or --scan")
)

// Request lists the explicit sources the user asked for.
type Request struct {
	Arg     string
	QRFile  string
	Scan    bool
	EnvName string
}

// Resolver reads secrets. Its function fields default to the real
// implementations and are replaced in tests.
type Resolver struct {
	Stdin  io.Reader
	Stderr io.Writer

	Getenv       func(string) string
	IsTerminal   func(fd int) bool
	ReadPassword func(fd int) ([]byte, error)
	ReadQRFile   func(path string) (string, error)
	ScanScreen   func() (string, error)
}

// NewResolver creates a Resolver bound to the process stdin and stderr.
func NewResolver(stdin io.Reader, stderr io.Writer) *Resolver {
	return &Resolver{
		Stdin:        stdin,
		Stderr:       stderr,
		Getenv:       os.Getenv,
		IsTerminal:   term.IsTerminal,
		ReadPassword: term.ReadPassword,
		ReadQRFile:   qrcode.ReadFile,
		ScanScreen:   qrcode.ScanScreen,
	}
}

// Resolve returns the secret for req. Explicit sources win; then the
// environment variable; then stdin, prompting without echo on a terminal.
func (r *Resolver) Resolve(req Request) (string, Kind, error) {
	explicit := 0
	for _, set := range []bool{req.Arg != "", req.QRFile != "", req.Scan} {
		if set {
			explicit++
		}
	}
	if explicit > 1 {
		return "", "", ErrConflictingSources
	}

	switch {
	case req.Arg != "":
		return req.Arg, KindArgument, nil
	case req.QRFile != "":
		uri, err := r.ReadQRFile(req.QRFile)
		if err != nil {
			return "", "", fmt.Errorf("failed to read QR code: %w", err)
		}
		return uri, KindQRFile, nil
	case req.Scan:
		uri, err := r.ScanScreen()
		if err != nil {
			return "", "", fmt.Errorf("failed to scan QR code: %w", err)
		}
		return uri, KindScreen, nil
	}

	if req.EnvName != "" {
		if v := strings.TrimSpace(r.Getenv(req.EnvName)); v != "" {
			return v, KindEnv, nil
		}
	}

	return r.fromStdin()
}

type fder interface {
	Fd() uintptr
}

func (r *Resolver) fromStdin() (string, Kind, error) {
	if r.Stdin == nil {
		return "", "", ErrNoSecret
	}

	if f, ok := r.Stdin.(fder); ok && r.IsTerminal(int(f.Fd())) {
		fmt.Fprint(r.Stderr, "🔑 Enter secret or otpauth:// URI: ")
		b, err := r.ReadPassword(int(f.Fd()))
		fmt.Fprintln(r.Stderr)
		if err != nil {
			return "", "", fmt.Errorf("failed to read secret: %w", err)
		}
		return finish(b, KindPrompt)
	}

	line, err := bufio.NewReader(io.LimitReader(r.Stdin, maxStdinSecret)).ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", "", fmt.Errorf("failed to read secret from stdin: %w", err)
	}
	return finish(line, KindStdin)
}

func finish(b []byte, kind Kind) (string, Kind, error) {
	trimmed := secure.TrimCopy(b)
	defer secure.SecureZeroBytes(trimmed)

	if len(trimmed) == 0 {
		return "", "", ErrNoSecret
	}
	return string(trimmed), kind, nil
}

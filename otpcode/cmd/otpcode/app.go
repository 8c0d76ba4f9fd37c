package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/bashhack/otpcode/internal/batch"
	"github.com/bashhack/otpcode/internal/config"
	"github.com/bashhack/otpcode/internal/constants"
	"github.com/bashhack/otpcode/internal/keygen"
	"github.com/bashhack/otpcode/internal/otp"
	"github.com/bashhack/otpcode/internal/secure"
	"github.com/bashhack/otpcode/internal/source"
)

// ExitFunc is a function type for exiting the program
type ExitFunc func(code int)

// App represents the main application
type App struct {
	OTP         otp.Provider
	Resolver    *source.Resolver
	Config      *config.Config
	Logger      *slog.Logger
	Now         func() time.Time
	Exit        ExitFunc
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
	VersionInfo VersionInfo
}

// VersionInfo contains version information
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewDefaultApp creates a new App with default dependencies
func NewDefaultApp() *App {
	return &App{
		OTP:      otp.NewDefaultProvider(),
		Resolver: source.NewResolver(os.Stdin, os.Stderr),
		Logger:   slog.New(slog.DiscardHandler),
		Now:      time.Now,
		Exit:     os.Exit,
		Stdin:    os.Stdin,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		VersionInfo: VersionInfo{
			Version: version,
			Commit:  commit,
			Date:    date,
		},
	}
}

// configure installs the loaded config and the logger it selects.
func (a *App) configure(cfg *config.Config) {
	a.Config = cfg

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	a.Logger = slog.New(slog.NewTextHandler(a.Stderr, &slog.HandlerOptions{Level: level}))

	if cfg.File != "" {
		a.Logger.Debug("loaded config", "file", cfg.File)
	}
}

// ShowVersion displays version information
func (a *App) ShowVersion() {
	fmt.Fprintf(a.Stdout, "%s version %s (%s) built on %s\n",
		constants.AppName, a.VersionInfo.Version, a.VersionInfo.Commit, a.VersionInfo.Date)
}

// CodeOptions selects the secret and time for GenerateCode.
type CodeOptions struct {
	Source   source.Request
	At       time.Time
	ShowNext bool
}

// GenerateCode prints the code for the resolved secret. Status goes to
// stderr so stdout carries only codes.
func (a *App) GenerateCode(opts CodeOptions) error {
	secret, kind, err := a.Resolver.Resolve(opts.Source)
	if err != nil {
		return err
	}
	a.Logger.Debug("resolved secret", "source", kind, "length", len(secret))

	params, err := a.OTP.Parse(secret)
	if err != nil {
		return err
	}
	defer secure.SecureZeroBytes(params.Secret)

	now := opts.At
	if now.IsZero() {
		now = a.Now()
	}
	a.Logger.Debug("generating code",
		"algorithm", params.Algorithm, "digits", params.Digits, "period", params.Period)

	codes, err := a.OTP.Generate(params, now)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.Stdout, codes.Current)
	if opts.ShowNext {
		fmt.Fprintln(a.Stdout, codes.Next)
	}

	fmt.Fprintf(a.Stderr, "⏳ Valid for %ds\n", int(codes.Remaining.Seconds()))

	return nil
}

// Inspect prints the parameters of the resolved secret, never the key.
func (a *App) Inspect(req source.Request) error {
	secret, kind, err := a.Resolver.Resolve(req)
	if err != nil {
		return err
	}
	a.Logger.Debug("resolved secret", "source", kind, "length", len(secret))

	params, err := a.OTP.Parse(secret)
	if err != nil {
		return err
	}
	keyLen := len(params.Secret)
	secure.SecureZeroBytes(params.Secret)

	fmt.Fprintf(a.Stdout, "Issuer:     %s\n", orDash(params.Issuer))
	fmt.Fprintf(a.Stdout, "Account:    %s\n", orDash(params.AccountName))
	fmt.Fprintf(a.Stdout, "Algorithm:  %s\n", params.Algorithm)
	fmt.Fprintf(a.Stdout, "Digits:     %d\n", params.Digits)
	fmt.Fprintf(a.Stdout, "Period:     %ds\n", params.Period)
	fmt.Fprintf(a.Stdout, "Key length: %d bytes\n", keyLen)

	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// NewKeyOptions describes the key created by NewKey.
type NewKeyOptions struct {
	Key   keygen.Options
	QROut string
}

// NewKey creates an enrollment key, prints its URI and optionally writes
// the QR code as a PNG.
func (a *App) NewKey(opts NewKeyOptions) error {
	key, err := keygen.New(opts.Key)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.Stdout, key.URI)
	fmt.Fprintf(a.Stderr, "🔑 Secret: %s\n", key.Secret)

	if opts.QROut == "" {
		return nil
	}

	f, err := os.OpenFile(opts.QROut, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create QR file: %w", err)
	}
	if err := key.WritePNG(f, constants.DefaultQRSize); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write QR file: %w", err)
	}

	fmt.Fprintf(a.Stderr, "✅ QR code written to %s\n", opts.QROut)
	return nil
}

// RunBatch generates one code per entry read from in.
func (a *App) RunBatch(ctx context.Context, in io.Reader) error {
	entries, err := batch.Read(in)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return errors.New("no entries in batch input")
	}

	concurrency := constants.DefaultBatchConcurrency
	if a.Config != nil {
		concurrency = a.Config.Batch.Concurrency
	}

	gen := &batch.Generator{OTP: a.OTP, Concurrency: concurrency, Logger: a.Logger}
	start := time.Now()

	results, err := gen.Run(ctx, entries, a.Now())
	if err != nil {
		return fmt.Errorf("batch cancelled: %w", err)
	}

	failed, err := batch.Write(a.Stdout, results)
	if err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	a.Logger.Debug("batch finished", "entries", len(entries), "failed", failed, "elapsed", time.Since(start))

	if failed > 0 {
		return fmt.Errorf("%d of %d entries failed", failed, len(results))
	}
	return nil
}

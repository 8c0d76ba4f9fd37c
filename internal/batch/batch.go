// Package batch generates codes for many secrets at once.
//
// Input is one entry per line, either "name<TAB>secret" or a bare secret
// (named after its line number). Blank lines and lines starting with '#'
// are skipped. Input compressed with zstd is detected by its magic number
// and decompressed transparently.
package batch

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/errgroup"

	"github.com/bashhack/otpcode/internal/constants"
	"github.com/bashhack/otpcode/internal/otp"
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// maxLine bounds a single input line; provisioning URIs are far shorter.
const maxLine = 64 << 10

// Entry is one secret to generate a code for.
type Entry struct {
	Line   int
	Name   string
	Secret string
}

// Result is the outcome for one Entry. Err is set instead of Code when
// generation failed; other entries are unaffected.
type Result struct {
	Line int
	Name string
	Code string
	Err  error
}

// Read parses entries from r, decompressing zstd input.
func Read(r io.Reader) ([]Entry, error) {
	br := bufio.NewReader(r)

	magic, err := br.Peek(len(zstdMagic))
	if err == nil && bytes.Equal(magic, zstdMagic) {
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		defer dec.Close()
		return readEntries(dec)
	}

	return readEntries(br)
}

func readEntries(r io.Reader) ([]Entry, error) {
	var entries []Entry

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLine)

	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		e := Entry{Line: line, Name: "#" + strconv.Itoa(line), Secret: text}
		if name, secret, ok := strings.Cut(text, "\t"); ok {
			e.Name = strings.TrimSpace(name)
			e.Secret = strings.TrimSpace(secret)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read batch input: %w", err)
	}

	return entries, nil
}

// Generator produces codes for entries concurrently.
type Generator struct {
	OTP         otp.Provider
	Concurrency int
	Logger      *slog.Logger
}

// Run generates a code for every entry at now. Results are in input order.
// Per-entry failures land in Result.Err; Run itself only fails when ctx is
// cancelled.
func (g *Generator) Run(ctx context.Context, entries []Entry, now time.Time) ([]Result, error) {
	limit := g.Concurrency
	if limit <= 0 {
		limit = constants.DefaultBatchConcurrency
	}
	logger := g.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	results := make([]Result, len(entries))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(limit)

	for i, e := range entries {
		if gctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			code, err := g.OTP.GenerateForTime(e.Secret, now)
			if err != nil {
				logger.DebugContext(gctx, "batch entry failed", "line", e.Line, "name", e.Name, "error", err)
			}
			results[i] = Result{Line: e.Line, Name: e.Name, Code: code, Err: err}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// Write prints one "name<TAB>code" line per result, or the error in place
// of the code. It returns the number of failed entries.
func Write(w io.Writer, results []Result) (int, error) {
	failed := 0
	for _, r := range results {
		var err error
		if r.Err != nil {
			failed++
			_, err = fmt.Fprintf(w, "%s\terror: %v\n", r.Name, r.Err)
		} else {
			_, err = fmt.Fprintf(w, "%s\t%s\n", r.Name, r.Code)
		}
		if err != nil {
			return failed, err
		}
	}
	return failed, nil
}

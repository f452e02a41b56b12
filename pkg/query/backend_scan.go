package query

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/klauspost/compress/gzip"
)

const maxLineSize = 1024 * 1024

var gzipMagic = []byte{0x1f, 0x8b}

// ScanBackend matches lines in-process. Sources are files on disk, gzip
// compressed or not, or in-memory texts registered with WithText.
type ScanBackend struct {
	texts map[string]string
}

// NewScanBackend creates an in-process backend
func NewScanBackend() *ScanBackend {
	return &ScanBackend{texts: make(map[string]string)}
}

// WithText registers text as the contents of source
func (b *ScanBackend) WithText(source, text string) *ScanBackend {
	b.texts[source] = text
	return b
}

func (b *ScanBackend) Name() string { return ModeScan }

func (b *ScanBackend) Exists(path string) bool {
	if _, ok := b.texts[path]; ok {
		return true
	}
	return isRegularFile(path)
}

func (b *ScanBackend) Search(ctx context.Context, source string, patterns []string) ([]string, error) {
	if text, ok := b.texts[source]; ok {
		return b.SearchReader(ctx, strings.NewReader(text), patterns)
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer f.Close()

	r, err := maybeGunzip(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, source, err)
	}
	return b.SearchReader(ctx, r, patterns)
}

// SearchReader scans an open stream
func (b *ScanBackend) SearchReader(ctx context.Context, r io.Reader, patterns []string) ([]string, error) {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", p, err)
		}
		res = append(res, re)
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var lines []string
	n := 0
	for scanner.Scan() {
		n++
		if n%4096 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		line := strings.TrimRight(scanner.Text(), "\r")
		if matchAll(res, line) {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return lines, ctx.Err()
}

func matchAll(res []*regexp.Regexp, line string) bool {
	for _, re := range res {
		if !re.MatchString(line) {
			return false
		}
	}
	return true
}

// maybeGunzip wraps r in a gzip reader when the stream starts with the gzip magic
func maybeGunzip(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(gzipMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	if !bytes.Equal(head, gzipMagic) {
		return br, nil
	}
	return gzip.NewReader(br)
}

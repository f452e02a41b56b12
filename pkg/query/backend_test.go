package query

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/gzip"
)

func writeGzip(t *testing.T, path, text string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte(text)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestScanBackendConjunctive(t *testing.T) {
	backend := NewScanBackend().WithText("mem", "a b c\na c\nb c\r\nc a b\n")

	lines, err := backend.Search(context.Background(), "mem", []string{"a", "b"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if diff := cmp.Diff([]string{"a b c", "c a b"}, lines); diff != "" {
		t.Errorf("lines mismatch (-want +got):\n%s", diff)
	}

	lines, err = backend.Search(context.Background(), "mem", []string{"b"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if diff := cmp.Diff([]string{"a b c", "b c", "c a b"}, lines); diff != "" {
		t.Errorf("carriage returns should be stripped (-want +got):\n%s", diff)
	}
}

func TestScanBackendBadPattern(t *testing.T) {
	backend := NewScanBackend().WithText("mem", "x")
	if _, err := backend.Search(context.Background(), "mem", []string{"("}); err == nil {
		t.Error("Expected error for invalid pattern")
	}
}

func TestScanBackendGzipFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "maillog.1.gz")
	writeGzip(t, path, sampleLog)

	backend := NewScanBackend()
	if !backend.Exists(path) {
		t.Fatal("Expected gzip file to exist")
	}

	lines, err := backend.Search(context.Background(), path, []string{"msgid=ID3"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(lines) != 1 || !strings.Contains(lines[0], "c@d.com") {
		t.Errorf("Expected the ID3 line, got %v", lines)
	}
}

func TestScanBackendMissingFile(t *testing.T) {
	backend := NewScanBackend()
	missing := filepath.Join(t.TempDir(), "nope.log")

	if backend.Exists(missing) {
		t.Error("Missing file should not exist")
	}
	if backend.Exists(t.TempDir()) {
		t.Error("Directory should not count as a log file")
	}
	if _, err := backend.Search(context.Background(), missing, nil); !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("Expected ErrSourceUnavailable, got %v", err)
	}
}

func TestScanBackendCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	backend := NewScanBackend().WithText("mem", "a\nb\n")
	if _, err := backend.Search(ctx, "mem", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestBuildArgs(t *testing.T) {
	args := buildArgs("/var/log/maillog", []string{`a@b\.com`, "msgid="})
	want := []string{"-s", "-P", `(?=.*a@b\.com)(?=.*msgid=)`, "--", "/var/log/maillog"}
	if diff := cmp.Diff(want, args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		output string
		want   []string
	}{
		{"", nil},
		{"\n", nil},
		{"one\n", []string{"one"}},
		{"one\r\ntwo\r\n", []string{"one", "two"}},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, splitLines(tt.output)); diff != "" {
			t.Errorf("splitLines(%q) mismatch (-want +got):\n%s", tt.output, diff)
		}
	}
}

func TestSelectBackend(t *testing.T) {
	orig := lookPath
	defer func() { lookPath = orig }()

	tests := []struct {
		name    string
		mode    string
		found   bool
		want    string
		wantErr bool
	}{
		{"auto with zgrep", ModeAuto, true, ModeZgrep, false},
		{"auto without zgrep", ModeAuto, false, ModeScan, false},
		{"forced scan", ModeScan, true, ModeScan, false},
		{"forced zgrep", ModeZgrep, true, ModeZgrep, false},
		{"forced zgrep missing", ModeZgrep, false, "", true},
		{"unknown", "ripgrep", true, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookPath = func(file string) (string, error) {
				if tt.found {
					return "/usr/bin/" + file, nil
				}
				return "", exec.ErrNotFound
			}

			backend, err := SelectBackend(tt.mode, "zgrep", nil)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("SelectBackend failed: %v", err)
			}
			if backend.Name() != tt.want {
				t.Errorf("Expected %s backend, got %s", tt.want, backend.Name())
			}
		})
	}
}

func TestZgrepBackendMatchesScan(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("zgrep -P is only expected on linux")
	}
	path, err := exec.LookPath("zgrep")
	if err != nil {
		t.Skip("zgrep not installed")
	}

	dir := t.TempDir()
	plain := filepath.Join(dir, "maillog")
	if err := os.WriteFile(plain, []byte(sampleLog), 0600); err != nil {
		t.Fatal(err)
	}
	compressed := filepath.Join(dir, "maillog.1.gz")
	writeGzip(t, compressed, sampleLog)

	patterns := NewBuilder("msgid=").AddEmail("a@b.com").Build()
	want, err := NewScanBackend().Search(context.Background(), plain, patterns)
	if err != nil {
		t.Fatal(err)
	}

	zgrep := NewZgrepBackend(path, nil)
	if _, err := zgrep.Search(context.Background(), plain, []string{"msgid="}); err != nil {
		t.Skipf("zgrep without PCRE support: %v", err)
	}
	for _, source := range []string{plain, compressed} {
		got, err := zgrep.Search(context.Background(), source, patterns)
		if err != nil {
			t.Fatalf("zgrep %s: %v", source, err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("zgrep %s mismatch (-scan +zgrep):\n%s", source, diff)
		}
	}

	got, err := zgrep.Search(context.Background(), plain, []string{"no-such-text"})
	if err != nil || len(got) != 0 {
		t.Errorf("Expected no lines and no error, got %v, %v", got, err)
	}
}

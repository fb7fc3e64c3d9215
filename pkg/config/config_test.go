package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	fberrors "github.com/matzehuels/fbnet/pkg/errors"
	"github.com/matzehuels/fbnet/pkg/render/network/layout"
)

func TestParse(t *testing.T) {
	data := `
[block_size]
max_type_label_size = 8
max_pin_label_size = 0

[block_margins]
left_right = 4
top_bottom = 2.5
`
	cfg, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	want := layout.DefaultSettings()
	want.MaxTypeLabel = 8
	want.MaxPinLabel = 0
	want.MarginLeftRight = 4
	want.MarginTopBottom = 2.5
	if diff := cmp.Diff(want, cfg.Settings); diff != "" {
		t.Errorf("settings mismatch (-want +got):\n%s", diff)
	}
	if len(cfg.Unknown) != 0 {
		t.Errorf("Unknown = %v", cfg.Unknown)
	}
}

func TestParseUnknownKeys(t *testing.T) {
	cfg, err := Parse([]byte("[block_size]\nmax_label = 3\nmax_pin_label_size = 12\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if diff := cmp.Diff([]string{"block_size.max_label"}, cfg.Unknown); diff != "" {
		t.Errorf("Unknown mismatch (-want +got):\n%s", diff)
	}
	if cfg.Settings != layout.DefaultSettings() {
		t.Error("unknown keys should leave defaults untouched")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[block_size\n"},
		{"wrong type", "[block_size]\nmax_type_label_size = \"ten\"\n"},
		{"negative margin", "[block_margins]\nleft_right = -1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !fberrors.Is(err, fberrors.ErrCodeInvalidConfig) {
				t.Errorf("error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("Load(missing) error: %v", err)
	}
	if cfg.Path != "" || cfg.Settings != layout.DefaultSettings() {
		t.Errorf("missing file should give defaults, got %+v", cfg)
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte("[block_size]\nmax_value_label_size = 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Path != path || cfg.Settings.MaxValueLabel != 5 {
		t.Errorf("cfg = %+v", cfg)
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("=\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); !fberrors.Is(err, fberrors.ErrCodeInvalidConfig) {
		t.Errorf("Load(bad) error = %v, want INVALID_CONFIG", err)
	}
}

func TestResolve(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())

	cfg, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if cfg.Path != "" {
		t.Errorf("no file anywhere, got path %q", cfg.Path)
	}

	path := filepath.Join(xdg, AppDir, FileName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[block_size]\nmax_pin_label_size = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Resolve("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != path || cfg.Settings.MaxPinLabel != 3 {
		t.Errorf("cfg = %+v", cfg)
	}

	if _, err := Resolve(filepath.Join(xdg, "nope.toml")); !fberrors.Is(err, fberrors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing file error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	s := layout.DefaultSettings()
	s.MaxTypeLabel = 20
	s.MarginLeftRight = 3

	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	cfg, err := Parse(buf.Bytes())
	if err != nil {
		t.Fatalf("Parse(encoded) error: %v", err)
	}
	if diff := cmp.Diff(s, cfg.Settings); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

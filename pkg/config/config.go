// Package config loads block size settings from a TOML file.
//
// The file has two optional tables; absent keys keep their defaults:
//
//	[block_size]
//	max_value_label_size = 25
//	max_type_label_size = 15
//	min_pin_label_size = 0
//	max_pin_label_size = 12
//	min_interface_bar_size = 0
//	max_interface_bar_size = 40
//	max_hidden_connection_label_size = 15
//
//	[block_margins]
//	top_bottom = 0
//	left_right = 0
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	fberrors "github.com/matzehuels/fbnet/pkg/errors"
	"github.com/matzehuels/fbnet/pkg/render/network/layout"
)

// FileName is the settings file looked up in the user config directory.
const FileName = "settings.toml"

// AppDir is the per-application config subdirectory.
const AppDir = "fbnet"

// Config is a loaded settings file.
type Config struct {
	Settings layout.Settings
	Path     string   // empty when defaults were used
	Unknown  []string // keys present in the file but not recognised
}

type fileFormat struct {
	BlockSize    blockSize    `toml:"block_size"`
	BlockMargins blockMargins `toml:"block_margins"`
}

type blockSize struct {
	MaxValueLabel            *int `toml:"max_value_label_size"`
	MaxTypeLabel             *int `toml:"max_type_label_size"`
	MinPinLabel              *int `toml:"min_pin_label_size"`
	MaxPinLabel              *int `toml:"max_pin_label_size"`
	MinInterfaceBar          *int `toml:"min_interface_bar_size"`
	MaxInterfaceBar          *int `toml:"max_interface_bar_size"`
	MaxHiddenConnectionLabel *int `toml:"max_hidden_connection_label_size"`
}

type blockMargins struct {
	TopBottom *float64 `toml:"top_bottom"`
	LeftRight *float64 `toml:"left_right"`
}

// Parse decodes settings from TOML data on top of the defaults.
func Parse(data []byte) (*Config, error) {
	var f fileFormat
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, fberrors.Wrap(fberrors.ErrCodeInvalidConfig, err, "decode settings")
	}

	s := layout.DefaultSettings()
	set := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	set(&s.MaxValueLabel, f.BlockSize.MaxValueLabel)
	set(&s.MaxTypeLabel, f.BlockSize.MaxTypeLabel)
	set(&s.MinPinLabel, f.BlockSize.MinPinLabel)
	set(&s.MaxPinLabel, f.BlockSize.MaxPinLabel)
	set(&s.MinInterfaceBar, f.BlockSize.MinInterfaceBar)
	set(&s.MaxInterfaceBar, f.BlockSize.MaxInterfaceBar)
	set(&s.MaxHiddenConnectionLabel, f.BlockSize.MaxHiddenConnectionLabel)
	if m := f.BlockMargins.TopBottom; m != nil {
		s.MarginTopBottom = *m
	}
	if m := f.BlockMargins.LeftRight; m != nil {
		s.MarginLeftRight = *m
	}

	if s.MarginTopBottom < 0 || s.MarginLeftRight < 0 {
		return nil, fberrors.New(fberrors.ErrCodeInvalidConfig, "block margins must not be negative")
	}

	cfg := &Config{Settings: s}
	for _, key := range md.Undecoded() {
		cfg.Unknown = append(cfg.Unknown, key.String())
	}
	return cfg, nil
}

// Load reads settings from path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Config{Settings: layout.DefaultSettings()}, nil
	}
	if err != nil {
		return nil, fberrors.Wrap(fberrors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fberrors.Wrap(fberrors.ErrCodeInvalidConfig, err, "%s", path)
	}
	cfg.Path = path
	return cfg, nil
}

// SearchPaths returns the default settings locations in priority order:
// $XDG_CONFIG_HOME/fbnet/settings.toml, then ~/.config/fbnet/settings.toml.
func SearchPaths() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, AppDir, FileName))
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".config", AppDir, FileName)
		if len(paths) == 0 || paths[0] != p {
			paths = append(paths, p)
		}
	}
	return paths
}

// Resolve loads the explicit path if given, otherwise the first existing
// file from [SearchPaths], otherwise the defaults. An explicit path that
// does not exist is an error.
func Resolve(explicit string) (*Config, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return nil, fberrors.Wrap(fberrors.ErrCodeFileNotFound, err, "settings file %s", explicit)
		}
		return Load(explicit)
	}
	for _, p := range SearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return &Config{Settings: layout.DefaultSettings()}, nil
}

// Encode writes s as a complete settings file.
func Encode(w io.Writer, s layout.Settings) error {
	ip := func(v int) *int { return &v }
	fp := func(v float64) *float64 { return &v }
	f := fileFormat{
		BlockSize: blockSize{
			MaxValueLabel:            ip(s.MaxValueLabel),
			MaxTypeLabel:             ip(s.MaxTypeLabel),
			MinPinLabel:              ip(s.MinPinLabel),
			MaxPinLabel:              ip(s.MaxPinLabel),
			MinInterfaceBar:          ip(s.MinInterfaceBar),
			MaxInterfaceBar:          ip(s.MaxInterfaceBar),
			MaxHiddenConnectionLabel: ip(s.MaxHiddenConnectionLabel),
		},
		BlockMargins: blockMargins{
			TopBottom: fp(s.MarginTopBottom),
			LeftRight: fp(s.MarginLeftRight),
		},
	}
	return toml.NewEncoder(w).Encode(f)
}

// String renders s as TOML.
func String(s layout.Settings) string {
	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		return ""
	}
	return strings.TrimSpace(buf.String())
}

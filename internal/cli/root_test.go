package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fbnet/pkg/config"
)

func TestRootCommandSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()

	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	for _, want := range []string{"render", "batch", "type", "serve", "config", "completion"} {
		found := false
		for _, name := range got {
			if name == want {
				found = true
			}
		}
		if !found {
			t.Errorf("missing subcommand %q in %v", want, got)
		}
	}
}

func TestRootCommandVersion(t *testing.T) {
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, appName+" ") {
		t.Errorf("version output = %q", out)
	}
}

func TestVerboseSetsDebugLevel(t *testing.T) {
	isolate(t)
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"config", "path", "-v"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if c.Logger.GetLevel() != log.DebugLevel {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
}

func TestConfigInitAndShow(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "fbnet", config.FileName)

	if _, err := execute(t, "config", "init", path); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := execute(t, "config", "init", path); err == nil {
		t.Error("second init without --force should fail")
	}
	if _, err := execute(t, "config", "init", path, "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}

	out, err := execute(t, "config", "show", "--settings", path)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "# "+path) {
		t.Errorf("show does not name the file:\n%s", out)
	}
	if !strings.Contains(out, "max_value_label_size = 25") {
		t.Errorf("show does not list the defaults:\n%s", out)
	}
}

func TestConfigShowReportsUnknownKeys(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "settings.toml")
	data := "[block_size]\nmax_type_label_size = 9\ncolour = 3\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "config", "show", "--settings", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "unknown key ignored: block_size.colour") {
		t.Errorf("unknown key not reported:\n%s", out)
	}
	if !strings.Contains(out, "max_type_label_size = 9") {
		t.Errorf("override not applied:\n%s", out)
	}
}

func TestConfigShowDefaults(t *testing.T) {
	isolate(t)
	out, err := execute(t, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "# defaults") {
		t.Errorf("show without a file = %q", out)
	}
}

func TestServeFlags(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	serve, _, err := root.Find([]string{"serve"})
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"addr", "cache-size", "max-body", "type-lib", "settings", "font"} {
		if serve.Flags().Lookup(name) == nil {
			t.Errorf("serve is missing --%s", name)
		}
	}
	// Drawing options come from each request's query.
	for _, name := range []string{"grid", "scale", "no-shadow"} {
		if serve.Flags().Lookup(name) != nil {
			t.Errorf("serve should not take --%s", name)
		}
	}
}

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diagramkit/diagramkit/pkg/layout"
)

func withConfigHome(t *testing.T, dir string) {
	t.Helper()
	old, had := os.LookupEnv("XDG_CONFIG_HOME")
	os.Setenv("XDG_CONFIG_HOME", dir)
	t.Cleanup(func() {
		if had {
			os.Setenv("XDG_CONFIG_HOME", old)
		} else {
			os.Unsetenv("XDG_CONFIG_HOME")
		}
	})
}

func TestLoadConfigMissingFile(t *testing.T) {
	withConfigHome(t, t.TempDir())

	cfg := LoadConfig()
	if len(cfg.Formats) != 0 {
		t.Errorf("missing config should yield zero config, got %+v", cfg)
	}
}

func TestLoadConfigReadsTOML(t *testing.T) {
	home := t.TempDir()
	withConfigHome(t, home)

	dir := filepath.Join(home, appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := `formats = ["svg", "dot"]

[layout]
gap = 3.5
halign = "left"

[serve]
addr = ":9090"
redis_addr = "localhost:6379"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := LoadConfig()
	if len(cfg.Formats) != 2 || cfg.Formats[0] != "svg" || cfg.Formats[1] != "dot" {
		t.Errorf("Formats = %v, want [svg dot]", cfg.Formats)
	}
	if cfg.Layout.Gap == nil || *cfg.Layout.Gap != 3.5 {
		t.Errorf("Layout.Gap = %v, want 3.5", cfg.Layout.Gap)
	}
	if cfg.Serve.Addr != ":9090" {
		t.Errorf("Serve.Addr = %q, want :9090", cfg.Serve.Addr)
	}
	if cfg.Serve.RedisAddr != "localhost:6379" {
		t.Errorf("Serve.RedisAddr = %q", cfg.Serve.RedisAddr)
	}

	opts := cfg.layoutOptions()
	if opts.Gap != 3.5 {
		t.Errorf("layoutOptions().Gap = %v, want 3.5", opts.Gap)
	}
	if opts.HAlign != layout.AlignLeft {
		t.Errorf("layoutOptions().HAlign = %v, want left", opts.HAlign)
	}
	// Untouched fields keep the built-in defaults.
	if opts.MinWidth != layout.DefaultOptions().MinWidth {
		t.Errorf("layoutOptions().MinWidth = %v, want default", opts.MinWidth)
	}
}

func TestConfigFormatsFallback(t *testing.T) {
	var cfg Config
	if got := cfg.formats(); got != "svg" {
		t.Errorf("formats() on zero config = %q, want svg", got)
	}
	cfg.Formats = []string{"dot", "png"}
	if got := cfg.formats(); got != "dot,png" {
		t.Errorf("formats() = %q, want dot,png", got)
	}
}

func TestConfigIgnoresUnknownHAlign(t *testing.T) {
	cfg := Config{Layout: LayoutConfig{HAlign: "diagonal"}}
	opts := cfg.layoutOptions()
	if opts.HAlign != layout.DefaultOptions().HAlign {
		t.Errorf("layoutOptions().HAlign = %v, want default", opts.HAlign)
	}
	if err := opts.Validate(); err != nil {
		t.Errorf("layoutOptions() produced invalid options: %v", err)
	}
}

func TestNewWarnsAndDropsUnknownHAlign(t *testing.T) {
	home := t.TempDir()
	withConfigHome(t, home)

	dir := filepath.Join(home, appName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "[layout]\nhalign = \"diagonal\"\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	if c.Config.Layout.HAlign != "" {
		t.Errorf("HAlign = %q, want cleared", c.Config.Layout.HAlign)
	}
	if !strings.Contains(buf.String(), "halign") {
		t.Errorf("log output %q does not mention halign", buf.String())
	}
}

func TestConfigPaddingFansOut(t *testing.T) {
	p := 12.0
	cfg := Config{Layout: LayoutConfig{Padding: &p}}
	opts := cfg.layoutOptions()
	if opts.PaddingTop != 12 || opts.PaddingBottom != 12 || opts.PaddingLeft != 12 || opts.PaddingRight != 12 {
		t.Errorf("padding should apply to all sides, got %+v", opts)
	}
}

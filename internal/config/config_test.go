package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing config file")
	}
	if cfg.Engine.FFmpeg != "ffmpeg" {
		t.Fatalf("unexpected ffmpeg default: %q", cfg.Engine.FFmpeg)
	}
	if !filepath.IsAbs(cfg.Paths.ScratchDir) {
		t.Fatalf("scratch dir not expanded: %q", cfg.Paths.ScratchDir)
	}
	if cfg.Reaper.Interval <= 0 {
		t.Fatal("reaper interval default must be positive")
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
scratch_dir = "` + filepath.Join(dir, "scratch") + `"
output_dir = "` + filepath.Join(dir, "out") + `"
api_bind = "127.0.0.1:9999"

[engine]
ffmpeg = "/opt/ffmpeg/bin/ffmpeg"

[logging]
level = "debug"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: exists=%v path=%q", exists, resolved)
	}
	if cfg.Engine.FFmpeg != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("ffmpeg override not applied: %q", cfg.Engine.FFmpeg)
	}
	if cfg.Paths.APIBind != "127.0.0.1:9999" {
		t.Fatalf("bind override not applied: %q", cfg.Paths.APIBind)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("log level override not applied: %q", cfg.Logging.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty scratch", func(c *Config) { c.Paths.ScratchDir = "" }, "scratch_dir"},
		{"same dirs", func(c *Config) { c.Paths.OutputDir = c.Paths.ScratchDir }, "must differ"},
		{"bad bind", func(c *Config) { c.Paths.APIBind = "no-port" }, "api_bind"},
		{"zero probe timeout", func(c *Config) { c.Engine.ProbeTimeout = 0 }, "probe_timeout"},
		{"negative fetch limit", func(c *Config) { c.Resolver.MaxFetchBytes = -1 }, "max_fetch_bytes"},
		{"bad format", func(c *Config) { c.Logging.Format = "yaml" }, "logging.format"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			if err := cfg.normalize(); err != nil {
				t.Fatal(err)
			}
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.Paths.ScratchDir = filepath.Join(dir, "scratch")
	cfg.Paths.OutputDir = filepath.Join(dir, "out")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, d := range []string{cfg.Paths.ScratchDir, cfg.Paths.OutputDir, cfg.Paths.LogDir} {
		info, err := os.Stat(d)
		if err != nil || !info.IsDir() {
			t.Fatalf("directory %s not created: %v", d, err)
		}
	}
}

func TestSampleConfigMentionsEverySection(t *testing.T) {
	sample := SampleConfig()
	for _, section := range []string{"[paths]", "[engine]", "[resolver]", "[hooks]", "[reaper]", "[logging]"} {
		if !strings.Contains(sample, section) {
			t.Fatalf("sample config missing section %s", section)
		}
	}
}

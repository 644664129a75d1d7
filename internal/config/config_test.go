package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ironsheep/screen-marker-mcp/internal/geometry"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func noEnv(string) (string, bool) { return "", false }

func TestDefault_Valid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Crop() != (geometry.Rect{Min: geometry.Pt(6, 6), Max: geometry.Pt(18, 18)}) {
		t.Errorf("default crop: got %s", cfg.Crop())
	}
	if cfg.Corner() != geometry.BottomLeft {
		t.Errorf("default corner: got %s", cfg.Corner())
	}
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load without a file failed: %v", err)
	}
	if cfg.Markers.Strip.X != 116 || cfg.Markers.Strip.Width != 50 {
		t.Errorf("strip: got %+v", cfg.Markers.Strip)
	}
}

func TestLoad_FileOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
window:
  pattern: "Notepad$"
markers:
  dir: /tmp/faces
  extensions: [".png", ".bmp"]
  watch_interval: 500ms
cache:
  expiry: 3s
anchor:
  template: mic.png
  corner: tr
  offset: {x: -40, y: 12}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Window.Pattern != "Notepad$" {
		t.Errorf("pattern: got %q", cfg.Window.Pattern)
	}
	if cfg.Markers.Dir != "/tmp/faces" || len(cfg.Markers.Extensions) != 2 {
		t.Errorf("markers: got %+v", cfg.Markers)
	}
	if cfg.Markers.WatchInterval != 500*time.Millisecond || cfg.Cache.Expiry != 3*time.Second {
		t.Errorf("durations: watch %v, expiry %v", cfg.Markers.WatchInterval, cfg.Cache.Expiry)
	}
	if cfg.Anchor.Offset.Point() != geometry.Pt(-40, 12) || cfg.Corner() != geometry.TopRight {
		t.Errorf("anchor: got %+v", cfg.Anchor)
	}
	// Untouched fields keep their defaults.
	if cfg.Markers.Strip.X != 116 || cfg.Anchor.Radius != 30 || cfg.OCR.Language != "eng" {
		t.Error("fields absent from the file should keep their defaults")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"unknown key", "windw:\n  pattern: x\n", "field windw not found"},
		{"bad yaml", "window: [", "failed to parse"},
		{"bad pattern", "window:\n  pattern: \"([\"\n", "window.pattern"},
		{"bad color", "annotate:\n  color: purple\n", "annotate.color"},
		{"bad corner", "anchor:\n  corner: middle\n", "anchor.corner"},
		{"negative crop", "markers:\n  crop: {x: 0, y: 0, width: -1, height: 4}\n", "markers.crop"},
		{"empty crop", "markers:\n  crop: {x: 0, y: 0, width: 0, height: 0}\n", "markers.crop"},
		{"extension without dot", "markers:\n  extensions: [png]\n", "must start with a dot"},
		{"zero watch", "markers:\n  watch_interval: 0s\n", "watch_interval"},
		{"bad level", "log_level: loud\n", "unknown log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("Load should fail")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load should fail for a missing file")
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("empty file should yield defaults: %v", err)
	}
	if cfg.Window.Pattern != Default().Window.Pattern {
		t.Errorf("pattern: got %q", cfg.Window.Pattern)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "window:\n  pattern: FromFile\n")
	t.Setenv("MARKER_MCP_WINDOW_PATTERN", "FromEnv")
	t.Setenv("MARKER_MCP_EXPIRY", "-1s")
	t.Setenv("MARKER_MCP_MARKER_EXTENSIONS", ".png, .webp,")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Window.Pattern != "FromEnv" {
		t.Errorf("pattern: got %q", cfg.Window.Pattern)
	}
	if cfg.Cache.Expiry != -time.Second {
		t.Errorf("expiry: got %v", cfg.Cache.Expiry)
	}
	if len(cfg.Markers.Extensions) != 2 || cfg.Markers.Extensions[1] != ".webp" {
		t.Errorf("extensions: got %v", cfg.Markers.Extensions)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"MARKER_MCP_MARKER_DIR":      "/srv/markers",
		"MARKER_MCP_WATCH_INTERVAL":  "250ms",
		"MARKER_MCP_WORKERS":         "3",
		"MARKER_MCP_LOG_LEVEL":       "debug",
		"MARKER_MCP_ANCHOR_TEMPLATE": "mic.png",
		"UNRELATED":                  "ignored",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if cfg.Markers.Dir != "/srv/markers" || cfg.Markers.WatchInterval != 250*time.Millisecond {
		t.Errorf("markers: got %+v", cfg.Markers)
	}
	if cfg.Markers.Workers != 3 || cfg.LogLevel != "debug" || cfg.Anchor.Template != "mic.png" {
		t.Errorf("overrides not applied: %+v", cfg)
	}

	unchanged := Default()
	if err := unchanged.ApplyEnv(noEnv); err != nil {
		t.Fatalf("ApplyEnv without variables failed: %v", err)
	}
	if unchanged.Markers.Dir != Default().Markers.Dir {
		t.Error("ApplyEnv without variables should not change anything")
	}
}

func TestApplyEnv_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"duration", "MARKER_MCP_EXPIRY", "soon"},
		{"watch", "MARKER_MCP_WATCH_INTERVAL", "10"},
		{"workers", "MARKER_MCP_WORKERS", "many"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := func(k string) (string, bool) {
				if k == tt.key {
					return tt.value, true
				}
				return "", false
			}
			if err := Default().ApplyEnv(lookup); err == nil {
				t.Errorf("%s=%q should be rejected", tt.key, tt.value)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseLevel(%q): got %v, %v", tt.in, got, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("ParseLevel should reject unknown names")
	}
}

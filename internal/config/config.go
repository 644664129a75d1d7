// Package config loads the server configuration: built-in defaults, then an
// optional YAML file, then MARKER_MCP_* environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/screen-marker-mcp/internal/geometry"
	"github.com/ironsheep/screen-marker-mcp/internal/imaging"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MARKER_MCP_"

// Config is the top-level configuration.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Markers  MarkersConfig  `yaml:"markers"`
	Cache    CacheConfig    `yaml:"cache"`
	Annotate AnnotateConfig `yaml:"annotate"`
	Anchor   AnchorConfig   `yaml:"anchor"`
	OCR      OCRConfig      `yaml:"ocr"`
	LogLevel string         `yaml:"log_level"` // debug | info | warn | error
}

// WindowConfig selects the tracked window.
type WindowConfig struct {
	// Pattern is a regular expression matched against window titles.
	Pattern string `yaml:"pattern"`
}

// MarkersConfig controls the marker registry and the match pass.
type MarkersConfig struct {
	Dir        string   `yaml:"dir"`
	Extensions []string `yaml:"extensions"`
	// Crop is the inner part of each marker image used for matching.
	Crop RectConfig `yaml:"crop"`
	// Strip is the window-relative area searched for markers. A zero height
	// means the height of the window's monitor.
	Strip         RectConfig    `yaml:"strip"`
	WatchInterval time.Duration `yaml:"watch_interval"`
	Workers       int           `yaml:"workers"`
}

// CacheConfig controls how long located markers are reused.
type CacheConfig struct {
	// Expiry is the located-marker cache lifetime. Negative disables time
	// expiry.
	Expiry time.Duration `yaml:"expiry"`
}

// AnnotateConfig controls snapshot annotation.
type AnnotateConfig struct {
	Color string `yaml:"color"`
}

// AnchorConfig locates a fixed UI control relative to a window corner. The
// anchor is disabled when Template is empty.
type AnchorConfig struct {
	Template  string        `yaml:"template"`
	Mask      string        `yaml:"mask"`
	Corner    string        `yaml:"corner"` // tl | tr | br | bl
	Offset    PointConfig   `yaml:"offset"`
	Radius    int           `yaml:"radius"`
	Threshold int           `yaml:"threshold"`
	Expiry    time.Duration `yaml:"expiry"`
}

// OCRConfig controls marker label recognition.
type OCRConfig struct {
	Language       string `yaml:"language"`
	TessdataPrefix string `yaml:"tessdata_prefix"`
	LabelGap       int    `yaml:"label_gap"`
	LabelWidth     int    `yaml:"label_width"`
}

// RectConfig is a rectangle given by its top-left corner and size.
type RectConfig struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Rect converts r, failing for negative sizes.
func (r RectConfig) Rect() (geometry.Rect, error) {
	return geometry.FromOriginSize(r.X, r.Y, r.Width, r.Height)
}

// PointConfig is a pixel offset.
type PointConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Point converts p.
func (p PointConfig) Point() geometry.Point {
	return geometry.Pt(p.X, p.Y)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Window: WindowConfig{Pattern: ".*- Discord"},
		Markers: MarkersConfig{
			Dir:           "markers",
			Extensions:    []string{".png"},
			Crop:          RectConfig{X: 6, Y: 6, Width: 12, Height: 12},
			Strip:         RectConfig{X: 116, Y: 0, Width: 50},
			WatchInterval: 2 * time.Second,
		},
		Cache:    CacheConfig{Expiry: 10 * time.Second},
		Annotate: AnnotateConfig{Color: "#FF00FF"},
		Anchor: AnchorConfig{
			Corner:    "bl",
			Offset:    PointConfig{X: 232, Y: -36},
			Radius:    30,
			Threshold: 151,
			Expiry:    10 * time.Second,
		},
		OCR: OCRConfig{
			Language:   "eng",
			LabelGap:   4,
			LabelWidth: 160,
		},
		LogLevel: "info",
	}
}

// Load returns Default overlaid with the YAML file at path (skipped when path
// is empty) and the environment, then validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// decode overlays YAML onto c. Unknown keys are rejected so typos surface.
func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv applies MARKER_MCP_* overrides read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, name, err)
		}
		*dst = d
		return nil
	}

	str("WINDOW_PATTERN", &c.Window.Pattern)
	str("MARKER_DIR", &c.Markers.Dir)
	str("ANNOTATION_COLOR", &c.Annotate.Color)
	str("ANCHOR_TEMPLATE", &c.Anchor.Template)
	str("ANCHOR_MASK", &c.Anchor.Mask)
	str("ANCHOR_CORNER", &c.Anchor.Corner)
	str("OCR_LANGUAGE", &c.OCR.Language)
	str("TESSDATA_PREFIX", &c.OCR.TessdataPrefix)
	str("LOG_LEVEL", &c.LogLevel)

	if v, ok := lookup(EnvPrefix + "MARKER_EXTENSIONS"); ok {
		c.Markers.Extensions = splitList(v)
	}
	if v, ok := lookup(EnvPrefix + "WORKERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sWORKERS: %w", EnvPrefix, err)
		}
		c.Markers.Workers = n
	}
	if err := dur("EXPIRY", &c.Cache.Expiry); err != nil {
		return err
	}
	return dur("WATCH_INTERVAL", &c.Markers.WatchInterval)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate rejects configurations the server cannot run with.
func (c *Config) Validate() error {
	if c.Window.Pattern == "" {
		return fmt.Errorf("window.pattern is required")
	}
	if _, err := regexp.Compile(c.Window.Pattern); err != nil {
		return fmt.Errorf("window.pattern: %w", err)
	}
	if c.Markers.Dir == "" {
		return fmt.Errorf("markers.dir is required")
	}
	if len(c.Markers.Extensions) == 0 {
		return fmt.Errorf("markers.extensions must not be empty")
	}
	for _, ext := range c.Markers.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("markers.extensions: %q must start with a dot", ext)
		}
	}
	crop, err := c.Markers.Crop.Rect()
	if err != nil {
		return fmt.Errorf("markers.crop: %w", err)
	}
	if crop.Empty() || crop.Min.X < 0 || crop.Min.Y < 0 {
		return fmt.Errorf("markers.crop must be a non-empty rectangle at non-negative coordinates, got %s", crop)
	}
	if _, err := c.Markers.Strip.Rect(); err != nil {
		return fmt.Errorf("markers.strip: %w", err)
	}
	if c.Markers.Strip.Width == 0 {
		return fmt.Errorf("markers.strip.width must be > 0")
	}
	if c.Markers.WatchInterval <= 0 {
		return fmt.Errorf("markers.watch_interval must be > 0")
	}
	if c.Markers.Workers < 0 {
		return fmt.Errorf("markers.workers must be >= 0")
	}
	if _, err := imaging.ParseColor(c.Annotate.Color); err != nil {
		return fmt.Errorf("annotate.color: %w", err)
	}
	if _, err := geometry.ParseCorner(c.Anchor.Corner); err != nil {
		return fmt.Errorf("anchor.corner: %w", err)
	}
	if c.Anchor.Radius <= 0 {
		return fmt.Errorf("anchor.radius must be > 0")
	}
	if c.Anchor.Threshold < 0 || c.Anchor.Threshold > 255 {
		return fmt.Errorf("anchor.threshold must be in [0,255], got %d", c.Anchor.Threshold)
	}
	if c.OCR.LabelGap < 0 || c.OCR.LabelWidth <= 0 {
		return fmt.Errorf("ocr.label_gap must be >= 0 and ocr.label_width > 0")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps a log level name to a slog.Level. The empty string is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q (use debug, info, warn or error)", s)
}

// Crop returns the validated marker crop rectangle.
func (c *Config) Crop() geometry.Rect {
	r, _ := c.Markers.Crop.Rect()
	return r
}

// Corner returns the validated anchor corner.
func (c *Config) Corner() geometry.Corner {
	corner, _ := geometry.ParseCorner(c.Anchor.Corner)
	return corner
}

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ensigniasec/reel/internal/carousel"
	"github.com/ensigniasec/reel/internal/curve"
	"github.com/ensigniasec/reel/internal/validate"
)

// ErrUnknownFormat is returned for config paths whose extension is not
// .yaml, .yml, .toml or .json.
var ErrUnknownFormat = errors.New("unknown config format")

type Config struct {
	View   ViewConfig   `yaml:"view" toml:"view" json:"view"`
	Curves CurvesConfig `yaml:"curves" toml:"curves" json:"curves"`
	UI     UIConfig     `yaml:"ui" toml:"ui" json:"ui"`
}

type ViewConfig struct {
	PoolSize int     `yaml:"pool_size" toml:"pool_size" json:"pool_size" validate:"gte=1"`
	Speed    float64 `yaml:"speed" toml:"speed" json:"speed" validate:"gt=0"`
	Duration float64 `yaml:"duration" toml:"duration" json:"duration" validate:"gt=0"`
	Align    string  `yaml:"align" toml:"align" json:"align" validate:"oneof=none center curve"`
}

type CurvesConfig struct {
	X     CurveConfig `yaml:"x" toml:"x" json:"x"`
	Y     CurveConfig `yaml:"y" toml:"y" json:"y"`
	Scale CurveConfig `yaml:"scale" toml:"scale" json:"scale"`
	Depth CurveConfig `yaml:"depth" toml:"depth" json:"depth"`
}

type CurveConfig struct {
	Pre  string      `yaml:"pre" toml:"pre" json:"pre" validate:"wrapmode"`
	Post string      `yaml:"post" toml:"post" json:"post" validate:"wrapmode"`
	Keys []KeyConfig `yaml:"keys" toml:"keys" json:"keys" validate:"min=1"`
}

type KeyConfig struct {
	T float64 `yaml:"t" toml:"t" json:"t"`
	V float64 `yaml:"v" toml:"v" json:"v"`
}

type UIConfig struct {
	FPS       int     `yaml:"fps" toml:"fps" json:"fps" validate:"gte=1,lte=240"`
	RowPixels float64 `yaml:"row_pixels" toml:"row_pixels" json:"row_pixels" validate:"gt=0"`
	Width     int     `yaml:"width" toml:"width" json:"width" validate:"gte=10"`
	// Height of the carousel area in rows; 0 follows the terminal.
	Height int `yaml:"height" toml:"height" json:"height" validate:"gte=0"`
}

func DefaultConfig() *Config {
	defaults := curve.Defaults()
	return &Config{
		View: ViewConfig{
			PoolSize: 9,
			Speed:    carousel.DefaultSpeed,
			Duration: 0.35,
			Align:    "center",
		},
		Curves: CurvesConfig{
			X:     fromCurve(defaults[carousel.CurveX]),
			Y:     fromCurve(defaults[carousel.CurveY]),
			Scale: fromCurve(defaults[carousel.CurveScale]),
			Depth: fromCurve(defaults[carousel.CurveDepth]),
		},
		UI: UIConfig{
			FPS:       60,
			RowPixels: 16,
			Width:     48,
			Height:    0,
		},
	}
}

func fromCurve(c curve.Curve) CurveConfig {
	keys := c.Keys()
	out := CurveConfig{Pre: c.Pre.String(), Post: c.Post.String(), Keys: make([]KeyConfig, len(keys))}
	for i, k := range keys {
		out.Keys[i] = KeyConfig{T: k.Time, V: k.Value}
	}
	return out
}

func (cc CurveConfig) curve() (curve.Curve, error) {
	pre, err := curve.ParseWrap(cc.Pre)
	if err != nil {
		return curve.Curve{}, err
	}
	post, err := curve.ParseWrap(cc.Post)
	if err != nil {
		return curve.Curve{}, err
	}
	keys := make([]curve.Key, len(cc.Keys))
	for i, k := range cc.Keys {
		keys[i] = curve.Key{Time: k.T, Value: k.V}
	}
	return curve.New(pre, post, keys...), nil
}

// CurveSet builds the evaluator for the configured curves.
func (c *Config) CurveSet() (curve.Set, error) {
	set := curve.Set{}
	for id, cc := range map[carousel.CurveID]CurveConfig{
		carousel.CurveX:     c.Curves.X,
		carousel.CurveY:     c.Curves.Y,
		carousel.CurveScale: c.Curves.Scale,
		carousel.CurveDepth: c.Curves.Depth,
	} {
		cv, err := cc.curve()
		if err != nil {
			return nil, fmt.Errorf("curve %s: %w", id, err)
		}
		set[id] = cv
	}
	return set, nil
}

// ViewOptions translates the view section into carousel options.
func (c *Config) ViewOptions() ([]carousel.Option, error) {
	align, err := carousel.ParseAlign(c.View.Align)
	if err != nil {
		return nil, err
	}
	return []carousel.Option{
		carousel.WithSpeed(c.View.Speed),
		carousel.WithDuration(c.View.Duration),
		carousel.WithAlign(align),
	}, nil
}

// Validate checks the config against its field constraints.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

func ConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "reel"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config at path, or the default path when path is empty.
// A missing file yields the defaults; values present in the file override
// them.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logrus.Debugf("no config at %s, using defaults", path)
			return cfg, nil
		}
		return nil, err
	}

	if err := unmarshal(path, data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to path in the format implied by its extension.
func (c *Config) Save(path string) error {
	data, err := c.Marshal(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Marshal encodes the config in the format implied by path's extension.
func (c *Config) Marshal(path string) ([]byte, error) {
	switch format(path) {
	case "yaml":
		return yaml.Marshal(c)
	case "toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case "json":
		return json.MarshalIndent(c, "", "  ")
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

func unmarshal(path string, data []byte, v any) error {
	switch format(path) {
	case "yaml":
		return yaml.Unmarshal(data, v)
	case "toml":
		return toml.Unmarshal(data, v)
	case "json":
		return json.Unmarshal(data, v)
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

func format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	case ".json":
		return "json"
	}
	return ""
}

package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/attractor/internal/colormap"
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/experiment"
	"github.com/san-kum/attractor/internal/field"
	"github.com/san-kum/attractor/internal/sweep"
)

const (
	DefaultPoints     = 5000
	DefaultIterations = 100
	DefaultBins       = 800
	DefaultExtent     = 3.0
	DefaultSeedExtent = 0.5
	DefaultAmplitude  = 0.8
	DefaultCycles     = 3.0
	DefaultDuration   = 60
	DefaultFPS        = 24
	DefaultSize       = 1200
	DefaultColormap   = "clifford"

	DefaultIkedaGrid   = 300
	DefaultIkedaExtent = 2.0
)

type Config struct {
	Kind       string        `yaml:"kind"`
	Params     ParamsConfig  `yaml:"params"`
	Points     int           `yaml:"points"`
	Iterations int           `yaml:"iterations"`
	Bins       int           `yaml:"bins"`
	Range      RangeConfig   `yaml:"range"`
	SeedRange  RangeConfig   `yaml:"seed_range"`
	Seeding    string        `yaml:"seeding,omitempty"`
	Seed       int64         `yaml:"seed,omitempty"`
	Ceiling    CeilingConfig `yaml:"ceiling"`
	FastTrig   bool          `yaml:"fast_trig,omitempty"`
	Workers    int           `yaml:"workers,omitempty"`
	Sweep      SweepConfig   `yaml:"sweep"`
	Output     OutputConfig  `yaml:"output"`
}

type ParamsConfig struct {
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
	C float64 `yaml:"c"`
	D float64 `yaml:"d"`
}

type RangeConfig struct {
	XMin float64 `yaml:"x_min"`
	XMax float64 `yaml:"x_max"`
	YMin float64 `yaml:"y_min"`
	YMax float64 `yaml:"y_max"`
}

type CeilingConfig struct {
	Mode  string  `yaml:"mode"`
	Value float64 `yaml:"value,omitempty"`
}

type SweepConfig struct {
	Param     string  `yaml:"param"`
	Amplitude float64 `yaml:"amplitude"`
	Cycles    float64 `yaml:"cycles"`
	Wave      string  `yaml:"wave"`
	Duration  int     `yaml:"duration"`
	FPS       int     `yaml:"fps"`
	// Frames overrides Duration*FPS when positive.
	Frames int `yaml:"frames,omitempty"`
}

type OutputConfig struct {
	Path     string `yaml:"path,omitempty"`
	Format   string `yaml:"format"`
	Size     int    `yaml:"size"`
	Colormap string `yaml:"colormap"`
	Overlay  bool   `yaml:"overlay"`
	Title    string `yaml:"title,omitempty"`
}

// Formats lists the output encodings.
var Formats = []string{"png", "svg", "gif", "frames", "mp4"}

func square(r float64) RangeConfig {
	return RangeConfig{XMin: -r, XMax: r, YMin: -r, YMax: r}
}

// DefaultConfig is the classic Clifford sweep.
func DefaultConfig() *Config {
	return &Config{
		Kind:       "clifford",
		Params:     ParamsConfig{A: -1.4, B: 1.6, C: 1.0, D: 0.7},
		Points:     DefaultPoints,
		Iterations: DefaultIterations,
		Bins:       DefaultBins,
		Range:      square(DefaultExtent),
		SeedRange:  square(DefaultSeedExtent),
		Ceiling:    CeilingConfig{Mode: string(field.PerFrame)},
		Sweep: SweepConfig{
			Param:     "a",
			Amplitude: DefaultAmplitude,
			Cycles:    DefaultCycles,
			Wave:      "sine",
			Duration:  DefaultDuration,
			FPS:       DefaultFPS,
		},
		Output: OutputConfig{
			Format:   "mp4",
			Size:     DefaultSize,
			Colormap: DefaultColormap,
			Overlay:  true,
			Title:    "Clifford Attractor Evolution",
		},
	}
}

// DefaultFor returns the defaults of a map family.
func DefaultFor(kind string) (*Config, error) {
	k, err := dynamo.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if k == dynamo.IkedaLike {
		cfg.Kind = "ikeda"
		cfg.Params = ParamsConfig{A: 3.4415, B: 2.7282}
		cfg.Points = DefaultIkedaGrid
		cfg.Range = square(DefaultIkedaExtent)
		cfg.SeedRange = square(DefaultIkedaExtent)
		cfg.Sweep.Amplitude = 0.3
		cfg.Sweep.Cycles = 1
		cfg.Output.Colormap = "ember"
		cfg.Output.Title = "Ikeda-like Attractor Evolution"
	}
	return cfg, nil
}

// Load reads path over the defaults of the map kind the file names.
func Load(path string) (*Config, error) {
	return LoadInto(path, nil)
}

// LoadInto reads path over base, so fields the file omits keep their
// layered values. A file naming another map kind than base is read over
// that kind's defaults instead. base is not modified.
func LoadInto(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var head struct {
		Kind string `yaml:"kind"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var cfg *Config
	switch {
	case base != nil && (head.Kind == "" || sameKind(head.Kind, base.Kind)):
		cfg = base.Clone()
	case head.Kind != "":
		if cfg, err = DefaultFor(head.Kind); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		cfg = DefaultConfig()
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func sameKind(a, b string) bool {
	ka, err := dynamo.ParseKind(a)
	if err != nil {
		return false
	}
	kb, err := dynamo.ParseKind(b)
	return err == nil && ka == kb
}

// Initial is the starting config of a map: the named preset, or the map
// defaults when preset is empty.
func Initial(kind, preset string) (*Config, error) {
	k, err := dynamo.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	if preset == "" {
		return DefaultFor(k.String())
	}
	cfg := GetPreset(k.String(), preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, ListPresets(k.String()))
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func (c *Config) MapKind() (dynamo.Kind, error) {
	return dynamo.ParseKind(c.Kind)
}

func (c *Config) MapParams() dynamo.Params {
	return dynamo.Params{A: c.Params.A, B: c.Params.B, C: c.Params.C, D: c.Params.D}
}

func (r RangeConfig) Range() dynamo.Range {
	return dynamo.Range{XMin: r.XMin, XMax: r.XMax, YMin: r.YMin, YMax: r.YMax}
}

// Frames is the sweep length.
func (c *Config) Frames() int {
	if c.Sweep.Frames > 0 {
		return c.Sweep.Frames
	}
	return sweep.FramesFor(c.Sweep.Duration, c.Sweep.FPS)
}

// Experiment converts the file representation into an engine config.
func (c *Config) Experiment() (experiment.Config, error) {
	k, err := c.MapKind()
	if err != nil {
		return experiment.Config{}, err
	}
	mode, err := field.ParseCeilingMode(c.Ceiling.Mode)
	if err != nil {
		return experiment.Config{}, err
	}
	return experiment.Config{
		Kind:       k,
		Params:     c.MapParams(),
		Points:     c.Points,
		Iterations: c.Iterations,
		Bins:       c.Bins,
		Range:      c.Range.Range(),
		SeedRange:  c.SeedRange.Range(),
		Seeding:    dynamo.Seeding(strings.ToLower(c.Seeding)),
		Ceiling:    field.Ceiling{Mode: mode, Value: c.Ceiling.Value},
		Seed:       c.Seed,
		Workers:    c.Workers,
		FastTrig:   c.FastTrig,
	}, nil
}

// Descriptor builds the sweep descriptor.
func (c *Config) Descriptor() (sweep.Descriptor, error) {
	k, err := c.MapKind()
	if err != nil {
		return sweep.Descriptor{}, err
	}
	return sweep.Descriptor{
		Kind:      k,
		Frames:    c.Frames(),
		Base:      c.MapParams(),
		Param:     strings.ToLower(c.Sweep.Param),
		Amplitude: c.Sweep.Amplitude,
		Cycles:    c.Sweep.Cycles,
		Wave:      c.Sweep.Wave,
	}, nil
}

// Validate checks the engine settings, the sweep and the output block.
func (c *Config) Validate() error {
	ec, err := c.Experiment()
	if err != nil {
		return err
	}
	if err := ec.Validate(); err != nil {
		return err
	}
	d, err := c.Descriptor()
	if err != nil {
		return err
	}
	if c.Sweep.FPS <= 0 {
		return &dynamo.ConfigError{Field: "sweep.fps", Value: c.Sweep.FPS, Reason: "must be positive"}
	}
	if c.Sweep.Frames <= 0 && c.Sweep.Duration <= 0 {
		return &dynamo.ConfigError{Field: "sweep.duration", Value: c.Sweep.Duration, Reason: "must be positive when frames is unset"}
	}
	if err := d.Validate(); err != nil {
		return err
	}
	return c.Output.Validate()
}

func (o OutputConfig) Validate() error {
	ok := false
	for _, f := range Formats {
		if o.Format == f {
			ok = true
		}
	}
	if !ok {
		return &dynamo.ConfigError{Field: "output.format", Value: o.Format, Reason: "expected one of " + strings.Join(Formats, ", ")}
	}
	if o.Size <= 0 {
		return &dynamo.ConfigError{Field: "output.size", Value: o.Size, Reason: "must be positive"}
	}
	if _, err := colormap.Get(o.Colormap); err != nil {
		return &dynamo.ConfigError{Field: "output.colormap", Value: o.Colormap, Reason: "expected one of " + strings.Join(colormap.Names(), ", ")}
	}
	return nil
}

package layers

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrUnknownVariant = errors.New("unknown variant")

type Variant string

const (
	// VariantBloom renders through the bloom chain with the camera moving on
	// its own.
	VariantBloom Variant = "bloom"
	// VariantOrbit renders directly with mouse orbit controls.
	VariantOrbit Variant = "orbit"
)

type Config struct {
	Variant       Variant       `yaml:"variant"`
	InstanceCount int           `yaml:"instance_count"`
	Debug         bool          `yaml:"debug"`
	Window        WindowConfig  `yaml:"window"`
	Background    RGB           `yaml:"background"`
	Params        ParamsConfig  `yaml:"params"`
	Bloom         BloomConfig   `yaml:"bloom"`
	Camera        CameraConfig  `yaml:"camera"`
	Mesh          MeshConfig    `yaml:"mesh"`
	Presets       PresetsConfig `yaml:"presets"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type ParamsConfig struct {
	RotationSpeed  float32 `yaml:"rotation_speed"`
	LayersDistance float32 `yaml:"layers_distance"`
	ColorsSpeed    float32 `yaml:"colors_speed"`
	Color1         RGB     `yaml:"color1"`
	Color2         RGB     `yaml:"color2"`
}

type BloomConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Strength  float32 `yaml:"strength"`
	Radius    float32 `yaml:"radius"`
	Threshold float32 `yaml:"threshold"`
	Passes    int     `yaml:"passes"`
	Exposure  float32 `yaml:"exposure"`
}

// CameraConfig describes the camera. With Auto set it follows a fixed path of
// radius AutoRadius, otherwise orbit controls start at Start.
type CameraConfig struct {
	Fov        float32    `yaml:"fov"`
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`
	Start      [3]float32 `yaml:"start"`
	Damping    float32    `yaml:"damping"`
	Auto       bool       `yaml:"auto"`
	AutoRadius float32    `yaml:"auto_radius"`
}

type MeshConfig struct {
	Path string `yaml:"path"`
}

// PresetsConfig names the per-user storage for saved parameters. An empty
// AppName disables it.
type PresetsConfig struct {
	AppName string `yaml:"app_name"`
	Slot    string `yaml:"slot"`
}

// DefaultConfig returns the preset of a variant. Unknown variants get the
// bloom preset.
func DefaultConfig(variant Variant) Config {
	cfg := Config{
		Variant:       variant,
		InstanceCount: 100,
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "layers",
		},
		Background: RGB{0x12, 0x12, 0x12},
		Params: ParamsConfig{
			RotationSpeed:  1.3,
			LayersDistance: 1.2,
			ColorsSpeed:    -1.5,
			Color1:         RGB{34, 94, 188},
			Color2:         RGB{210, 12, 189},
		},
		Bloom: BloomConfig{
			Enabled:   true,
			Strength:  0.3,
			Radius:    0.4,
			Threshold: 0.5,
			Passes:    3,
			Exposure:  1,
		},
		Camera: CameraConfig{
			Fov:        75,
			Near:       0.1,
			Far:        1000,
			Start:      [3]float32{0, 3, 120},
			Damping:    0.05,
			AutoRadius: 90,
		},
		Presets: PresetsConfig{
			AppName: "layers",
			Slot:    "default",
		},
	}

	switch variant {
	case VariantOrbit:
		cfg.Window.Title = "layers - orbit"
		cfg.Params.LayersDistance = 1
		cfg.Bloom.Enabled = false
	default:
		cfg.Variant = VariantBloom
		cfg.Window.Title = "layers - bloom"
		cfg.Camera.Auto = true
	}
	return cfg
}

// LoadConfig reads a YAML file on top of the preset of its variant, so keys
// missing from the file keep their defaults. fallback is used when the file
// does not name a variant.
func LoadConfig(path string, fallback Variant) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data, fallback)
}

func ParseConfig(data []byte, fallback Variant) (Config, error) {
	var head struct {
		Variant Variant `yaml:"variant"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	variant := head.Variant
	if variant == "" {
		variant = fallback
	}
	if err := variant.Validate(); err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig(variant)
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.Variant = variant
	return cfg, cfg.Validate()
}

func (v Variant) Validate() error {
	switch v {
	case VariantBloom, VariantOrbit:
		return nil
	}
	return fmt.Errorf("%w %q", ErrUnknownVariant, string(v))
}

// Validate rejects values no component can work with. Parameter values are
// never range checked.
func (c Config) Validate() error {
	if err := c.Variant.Validate(); err != nil {
		return err
	}
	if c.InstanceCount < 0 {
		return fmt.Errorf("instance_count must not be negative, got %d", c.InstanceCount)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Bloom.Passes < 1 {
		return fmt.Errorf("bloom.passes must be at least 1, got %d", c.Bloom.Passes)
	}
	return nil
}

// ParamValues converts the config into the parameter store's initial values.
func (c Config) ParamValues() ParamValues {
	return ParamValues{
		RotationSpeed:  c.Params.RotationSpeed,
		LayersDistance: c.Params.LayersDistance,
		ColorsSpeed:    c.Params.ColorsSpeed,
		Color1:         c.Params.Color1,
		Color2:         c.Params.Color2,
		Bloom: BloomParams{
			Strength:  c.Bloom.Strength,
			Radius:    c.Bloom.Radius,
			Threshold: c.Bloom.Threshold,
		},
	}
}

// ParseFlags builds a Config from command line arguments. -config loads a
// file; the remaining flags override it only when given.
func ParseFlags(fs *flag.FlagSet, args []string, variant Variant) (Config, error) {
	configPath := fs.String("config", "", "path to a YAML config file")
	instances := fs.Int("instances", 0, "number of planes")
	debug := fs.Bool("debug", false, "enable debug logging and the FPS overlay")
	width := fs.Int("width", 0, "window width")
	height := fs.Int("height", 0, "window height")
	mesh := fs.String("mesh", "", "glTF file replacing the plane geometry")
	noBloom := fs.Bool("no-bloom", false, "disable the bloom chain")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig(variant)
	if *configPath != "" {
		var err error
		if cfg, err = LoadConfig(*configPath, variant); err != nil {
			return Config{}, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "instances":
			cfg.InstanceCount = *instances
		case "debug":
			cfg.Debug = *debug
		case "width":
			cfg.Window.Width = *width
		case "height":
			cfg.Window.Height = *height
		case "mesh":
			cfg.Mesh.Path = *mesh
		case "no-bloom":
			cfg.Bloom.Enabled = !*noBloom
		}
	})
	return cfg, cfg.Validate()
}

package config

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"

	"github.com/df07/go-sphere-tracer/pkg/core"
	"github.com/df07/go-sphere-tracer/pkg/geometry"
	"github.com/df07/go-sphere-tracer/pkg/scene"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

// Config describes one render job
type Config struct {
	Scene    string        `yaml:"scene"`
	Seed     int64         `yaml:"seed"`
	Width    int           `yaml:"width"`
	Height   int           `yaml:"height"`
	Samples  int           `yaml:"samples"`
	MaxDepth int           `yaml:"maxDepth"`
	Workers  int           `yaml:"workers"` // 0 = CPU count
	Passes   int           `yaml:"passes"`  // 1 = single parallel pass
	Output   string        `yaml:"output"`  // Empty = timestamped file under output/
	Camera   *CameraConfig `yaml:"camera,omitempty"`
}

// CameraConfig overrides the scene's camera; unset fields keep the scene default
type CameraConfig struct {
	Eye      []float64 `yaml:"eye,flow,omitempty"`
	Target   []float64 `yaml:"target,flow,omitempty"`
	Up       []float64 `yaml:"up,flow,omitempty"`
	VFov     float64   `yaml:"vfov,omitempty"`
	Aspect   float64   `yaml:"aspect,omitempty"`
	Aperture float64   `yaml:"aperture,omitempty"`
	Focus    float64   `yaml:"focus,omitempty"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	sampling := scene.DefaultSamplingConfig()
	return Config{
		Scene:    scene.DefaultSceneName,
		Seed:     42,
		Width:    sampling.Width,
		Height:   sampling.Height,
		Samples:  sampling.SamplesPerPixel,
		MaxDepth: sampling.MaxDepth,
		Workers:  0,
		Passes:   1,
	}
}

// Load reads and validates a YAML config file
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, xerrors.Errorf("while reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, xerrors.Errorf("while loading %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML on top of Default and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, xerrors.Errorf("while parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal encodes the config as YAML
func (c Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, xerrors.Errorf("while encoding config: %w", err)
	}
	return data, nil
}

// Validate checks that the config describes a renderable job
func (c Config) Validate() error {
	if c.Scene == "" {
		return xerrors.New("scene must be set")
	}
	sampling := c.SamplingConfig()
	if err := sampling.Validate(); err != nil {
		return xerrors.Errorf("invalid config: %w", err)
	}
	if c.Workers < 0 {
		return xerrors.Errorf("workers %d must not be negative", c.Workers)
	}
	if c.Passes <= 0 {
		return xerrors.Errorf("passes %d must be positive", c.Passes)
	}
	if c.Camera != nil {
		if _, err := c.Camera.toCameraConfig(); err != nil {
			return xerrors.Errorf("invalid camera: %w", err)
		}
	}
	return nil
}

// SamplingConfig returns the scene sampling parameters described by the config
func (c Config) SamplingConfig() scene.SamplingConfig {
	return scene.SamplingConfig{
		Width:           c.Width,
		Height:          c.Height,
		SamplesPerPixel: c.Samples,
		MaxDepth:        c.MaxDepth,
	}
}

// CameraOverrides converts the camera block for scene builders.
// It returns nil when the file has no camera block.
func (c Config) CameraOverrides() ([]geometry.CameraConfig, error) {
	if c.Camera == nil {
		return nil, nil
	}
	override, err := c.Camera.toCameraConfig()
	if err != nil {
		return nil, err
	}
	return []geometry.CameraConfig{override}, nil
}

func (c CameraConfig) toCameraConfig() (geometry.CameraConfig, error) {
	var result geometry.CameraConfig
	var err error

	if result.Center, err = toVec3("eye", c.Eye); err != nil {
		return result, err
	}
	if result.LookAt, err = toVec3("target", c.Target); err != nil {
		return result, err
	}
	if result.Up, err = toVec3("up", c.Up); err != nil {
		return result, err
	}

	scalars := []struct {
		name  string
		value float64
	}{
		{"vfov", c.VFov},
		{"aspect", c.Aspect},
		{"aperture", c.Aperture},
		{"focus", c.Focus},
	}
	for _, s := range scalars {
		if math.IsNaN(s.value) || math.IsInf(s.value, 0) || s.value < 0 {
			return result, xerrors.Errorf("camera %s %f must be finite and non-negative", s.name, s.value)
		}
	}
	if c.VFov >= 180 {
		return result, xerrors.Errorf("camera vfov %f must be below 180", c.VFov)
	}

	result.VFov = c.VFov
	result.AspectRatio = c.Aspect
	result.Aperture = c.Aperture
	result.FocusDistance = c.Focus
	return result, nil
}

// toVec3 converts an optional 3-element list; an empty list is the zero vector
func toVec3(name string, values []float64) (core.Vec3, error) {
	if len(values) == 0 {
		return core.Vec3{}, nil
	}
	if len(values) != 3 {
		return core.Vec3{}, xerrors.Errorf("camera %s needs 3 components, got %d", name, len(values))
	}
	v := core.NewVec3(values[0], values[1], values[2])
	if !v.IsFinite() {
		return core.Vec3{}, xerrors.Errorf("camera %s %v is not finite", name, v)
	}
	return v, nil
}

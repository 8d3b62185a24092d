// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package config holds the pipeline configuration of the stereovoronoi
// command.
package config

import (
	"io"
	"math"
	"os"

	"github.com/2dChan/stereovoronoi/emit"
	"github.com/2dChan/stereovoronoi/sphere"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Mode selects the pipeline run by the command.
type Mode string

const (
	// ModePlane triangulates random planar points and emits the planar
	// diagram. The sampler setting is ignored.
	ModePlane Mode = "plane"
	// ModeStereo projects sphere sites, extracts the planar diagram and
	// lifts it back with sphere.Reconstruct.
	ModeStereo Mode = "stereo"
	// ModeSphere builds a closed mesh with pole stitching.
	ModeSphere Mode = "sphere"
)

const (
	SamplerRandom    = "random"
	SamplerFibonacci = "fibonacci"
)

type Fibonacci struct {
	MinLat float64 `yaml:"min_lat"`
	MaxLat float64 `yaml:"max_lat"`
	MinLng float64 `yaml:"min_lng"`
	MaxLng float64 `yaml:"max_lng"`
	Offset float64 `yaml:"offset"`
}

type Config struct {
	Mode      Mode      `yaml:"mode"`
	Sampler   string    `yaml:"sampler"`
	Points    int       `yaml:"points"`
	Seed      int64     `yaml:"seed"`
	Fibonacci Fibonacci `yaml:"fibonacci"`

	Strategy       string  `yaml:"strategy"`
	Radius         float64 `yaml:"radius"`
	RayLength      float64 `yaml:"ray_length"`
	Tolerance      float64 `yaml:"tolerance"`
	SkipDuplicates bool    `yaml:"skip_duplicates"`

	Format string `yaml:"format"`
	// Output is a file path; "-" writes to stdout.
	Output string `yaml:"output"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

func Default() Config {
	return Config{
		Mode:    ModeStereo,
		Sampler: SamplerFibonacci,
		Points:  1000,
		Fibonacci: Fibonacci{
			MinLat: -90,
			MaxLat: 90,
			MinLng: -180,
			MaxLng: 180,
			Offset: 0.5,
		},
		Strategy:  sphere.RoundTrip.String(),
		Radius:    1,
		RayLength: 0.1,
		Tolerance: 1e-12,
		Format:    emit.WKT.String(),
		Output:    "-",
		Width:     1500,
		Height:    750,
	}
}

// Load reads the YAML file at path over the defaults. Unknown keys are
// rejected.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "config: opening file")
	}
	defer func() { _ = f.Close() }()

	cfg, err := Decode(f)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: %s", path)
	}
	return cfg, nil
}

// Decode reads a YAML document over the defaults and validates the result.
// An empty document yields the defaults.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(err, "config: decoding YAML")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Mode {
	case ModePlane:
		// Planar sites always come from the random sampler.
	case ModeStereo, ModeSphere:
		if c.Sampler != SamplerRandom && c.Sampler != SamplerFibonacci {
			return errors.Newf("config: unknown sampler %q", c.Sampler)
		}
	default:
		return errors.Newf("config: unknown mode %q", c.Mode)
	}
	if c.Points <= 0 {
		return errors.Newf("config: points must be positive, got %d", c.Points)
	}
	if c.Mode != ModePlane && c.Sampler == SamplerFibonacci {
		fib := c.Fibonacci
		if !(-90 <= fib.MinLat && fib.MinLat < fib.MaxLat && fib.MaxLat <= 90) {
			return errors.Newf("config: invalid latitude window [%v, %v]", fib.MinLat, fib.MaxLat)
		}
		if !(fib.MinLng < fib.MaxLng) || fib.MaxLng-fib.MinLng > 360 {
			return errors.Newf("config: invalid longitude window [%v, %v]", fib.MinLng, fib.MaxLng)
		}
	}
	if _, err := c.ParseStrategy(); err != nil {
		return err
	}
	if _, err := c.ParseFormat(); err != nil {
		return err
	}
	if !isPositiveFinite(c.Radius) {
		return errors.Newf("config: radius must be positive and finite, got %v", c.Radius)
	}
	if !isPositiveFinite(c.RayLength) {
		return errors.Newf("config: ray_length must be positive and finite, got %v", c.RayLength)
	}
	if !(c.Tolerance >= 0) || math.IsInf(c.Tolerance, 0) {
		return errors.Newf("config: tolerance must be finite and non-negative, got %v", c.Tolerance)
	}
	if c.Output == "" {
		return errors.New("config: output must not be empty")
	}
	if c.Width < 0 || c.Height < 0 {
		return errors.Newf("config: invalid image size %dx%d", c.Width, c.Height)
	}
	return nil
}

func (c Config) ParseStrategy() (sphere.Strategy, error) {
	return sphere.ParseStrategy(c.Strategy)
}

func (c Config) ParseFormat() (emit.Format, error) {
	return emit.ParseFormat(c.Format)
}

func isPositiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

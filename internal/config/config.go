package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fourierforge/internal/dynamo"
)

const (
	DefaultSamples         = 3000
	DefaultTargetSize      = 1000.0
	DefaultFlatness        = 0.1
	DefaultSpeed           = 0.05
	DefaultInteractiveRate = 0.002
	DefaultSubSteps        = 5
	DefaultTargetFPS       = 60
	DefaultTraceMode       = "infinite"
	DefaultTraceLength     = 1000
	DefaultMinDistance     = 0.5
	DefaultMaxZoom         = 15.0
	DefaultPanDecay        = 0.05
	DefaultCullThreshold   = 50
	DefaultWidth           = 1920
	DefaultHeight          = 1080
	DefaultFormat          = "gif"
	DefaultOutput          = "output.gif"

	MinTraceLength = 100
	MaxTraceLength = 5000
)

type Config struct {
	Samples    int            `yaml:"samples"`
	TargetSize float64        `yaml:"target_size"`
	Flatness   float64        `yaml:"flatness"`
	Playback   PlaybackConfig `yaml:"playback"`
	Trace      TraceConfig    `yaml:"trace"`
	Camera     CameraConfig   `yaml:"camera"`
	Render     RenderConfig   `yaml:"render"`
}

type PlaybackConfig struct {
	Speed           float64 `yaml:"speed"`
	InteractiveRate float64 `yaml:"interactive_rate"`
	SubSteps        int     `yaml:"sub_steps"`
	TargetFPS       int     `yaml:"target_fps"`
}

type TraceConfig struct {
	Mode        string  `yaml:"mode"`
	Length      int     `yaml:"length"`
	MinDistance float64 `yaml:"min_distance"`
}

type CameraConfig struct {
	MaxZoom       float64 `yaml:"max_zoom"`
	PanDecay      float64 `yaml:"pan_decay"`
	CullThreshold int     `yaml:"cull_threshold"`
}

type RenderConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

func DefaultConfig() *Config {
	return &Config{
		Samples:    DefaultSamples,
		TargetSize: DefaultTargetSize,
		Flatness:   DefaultFlatness,
		Playback: PlaybackConfig{
			Speed:           DefaultSpeed,
			InteractiveRate: DefaultInteractiveRate,
			SubSteps:        DefaultSubSteps,
			TargetFPS:       DefaultTargetFPS,
		},
		Trace: TraceConfig{
			Mode:        DefaultTraceMode,
			Length:      DefaultTraceLength,
			MinDistance: DefaultMinDistance,
		},
		Camera: CameraConfig{
			MaxZoom:       DefaultMaxZoom,
			PanDecay:      DefaultPanDecay,
			CullThreshold: DefaultCullThreshold,
		},
		Render: RenderConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Format: DefaultFormat,
			Output: DefaultOutput,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
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

// Validate checks every field against its valid range.
func (c *Config) Validate() error {
	bad := func(field string, v any) error {
		return fmt.Errorf("config: %s=%v: %w", field, v, dynamo.ErrParameterBounds)
	}
	switch {
	case c.Samples < 2:
		return bad("samples", c.Samples)
	case c.TargetSize <= 0:
		return bad("target_size", c.TargetSize)
	case c.Flatness <= 0:
		return bad("flatness", c.Flatness)
	case c.Playback.Speed < 0:
		return bad("playback.speed", c.Playback.Speed)
	case c.Playback.InteractiveRate <= 0:
		return bad("playback.interactive_rate", c.Playback.InteractiveRate)
	case c.Playback.SubSteps < 1:
		return bad("playback.sub_steps", c.Playback.SubSteps)
	case c.Playback.TargetFPS < 1:
		return bad("playback.target_fps", c.Playback.TargetFPS)
	case c.Trace.Mode != "infinite" && c.Trace.Mode != "snake":
		return bad("trace.mode", c.Trace.Mode)
	case c.Trace.Length < MinTraceLength || c.Trace.Length > MaxTraceLength:
		return bad("trace.length", c.Trace.Length)
	case c.Trace.MinDistance < 0:
		return bad("trace.min_distance", c.Trace.MinDistance)
	case c.Camera.MaxZoom < 1:
		return bad("camera.max_zoom", c.Camera.MaxZoom)
	case c.Camera.PanDecay <= 0 || c.Camera.PanDecay > 1:
		return bad("camera.pan_decay", c.Camera.PanDecay)
	case c.Camera.CullThreshold < 0:
		return bad("camera.cull_threshold", c.Camera.CullThreshold)
	case c.Render.Width < 16 || c.Render.Height < 16:
		return bad("render size", fmt.Sprintf("%dx%d", c.Render.Width, c.Render.Height))
	case c.Render.Format != "gif" && c.Render.Format != "ffmpeg":
		return bad("render.format", c.Render.Format)
	}
	return nil
}

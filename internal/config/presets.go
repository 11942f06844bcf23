package config

import "slices"

var Presets = map[string]*Config{
	"draft": func() *Config {
		c := DefaultConfig()
		c.Samples = 1000
		c.Flatness = 0.5
		c.Render.Width, c.Render.Height = 640, 360
		return c
	}(),
	"standard": DefaultConfig(),
	"ultra": func() *Config {
		c := DefaultConfig()
		c.Samples = 10000
		c.Flatness = 0.02
		c.Render.Format, c.Render.Output = "ffmpeg", "output.mp4"
		return c
	}(),
	"snake": func() *Config {
		c := DefaultConfig()
		c.Trace.Mode = "snake"
		c.Trace.Length = 1500
		c.Playback.Speed = 0.2
		return c
	}(),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

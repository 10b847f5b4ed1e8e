package config

import "sort"

func video(seconds, fps int) *Config {
	cfg := DefaultConfig()
	cfg.Sweep.Duration = seconds
	cfg.Sweep.FPS = fps
	return cfg
}

func ikeda(mutate func(*Config)) *Config {
	cfg, _ := DefaultFor("ikeda")
	mutate(cfg)
	return cfg
}

var Presets = map[string]map[string]*Config{
	"clifford": {
		"quick": video(10, 20),
		"short": video(30, 24),
		"full":  video(60, 24),
		"long":  video(120, 30),
		"still": func() *Config {
			cfg := DefaultConfig()
			cfg.Output.Format = "png"
			cfg.Output.Title = "Clifford Attractor"
			return cfg
		}(),
		"steady": func() *Config {
			cfg := video(30, 24)
			cfg.Ceiling = CeilingConfig{Mode: "fixed", Value: 6.5}
			return cfg
		}(),
	},
	"ikeda": {
		"classic": ikeda(func(c *Config) {}),
		"still": ikeda(func(c *Config) {
			c.Output.Format = "png"
			c.Output.Title = "Ikeda-like Attractor"
		}),
		"drift": ikeda(func(c *Config) {
			c.Sweep.Param = "b"
			c.Sweep.Amplitude = 0.5
			c.Sweep.Duration = 20
			c.Sweep.FPS = 24
			c.Sweep.Wave = "triangle"
		}),
	},
}

// GetPreset returns a copy of the named preset or nil.
func GetPreset(kind, preset string) *Config {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	cfg, ok := kindPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(kind string) []string {
	kindPresets, ok := Presets[kind]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(kindPresets))
	for name := range kindPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gogpu/gg"

	"github.com/gogpu/layered/timeline"
)

// demoConfig is the optional TOML configuration. Command-line flags
// override it.
type demoConfig struct {
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	PixelRatio float64 `toml:"pixel_ratio"`
	Frames     int     `toml:"frames"`
	FPS        float64 `toml:"fps"`
	SaveEvery  int     `toml:"save_every"`
	Output     string  `toml:"output"`

	Timeline timelineConfig `toml:"timeline"`
	Clips    []clipConfig   `toml:"clip"`
}

type timelineConfig struct {
	Zoom     float64 `toml:"zoom"`
	BPM      float64 `toml:"bpm"`
	GridSnap float64 `toml:"grid_snap"`
	Duration float64 `toml:"duration"`
	Start    float64 `toml:"start"`
}

type clipConfig struct {
	Start  float64 `toml:"start"`
	Length float64 `toml:"length"`
	Lane   int     `toml:"lane"`
	Color  string  `toml:"color"`
}

func defaultConfig() demoConfig {
	s := timeline.DefaultState()
	return demoConfig{
		Width:      800,
		Height:     160,
		PixelRatio: 1,
		Frames:     120,
		FPS:        30,
		Output:     "frames",
		Timeline: timelineConfig{
			Zoom:     s.Zoom,
			BPM:      s.BPM,
			GridSnap: s.GridSnap,
			Duration: s.Duration,
		},
		Clips: []clipConfig{
			{Start: 0, Length: 4, Lane: 0, Color: "#4f8cff"},
			{Start: 2, Length: 2, Lane: 1, Color: "#f5a623"},
			{Start: 5, Length: 3, Lane: 2, Color: "#7ed321"},
			{Start: 8.5, Length: 6, Lane: 0, Color: "#bd10e0"},
		},
	}
}

// loadConfig decodes the TOML file at path over cfg. Unknown keys are an
// error so typos do not go unnoticed.
func loadConfig(path string, cfg *demoConfig) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func (c demoConfig) validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("size %dx%d must be positive", c.Width, c.Height))
	}
	if c.PixelRatio <= 0 {
		errs = append(errs, fmt.Errorf("pixel ratio %g must be positive", c.PixelRatio))
	}
	if c.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps %g must be positive", c.FPS))
	}
	if c.Frames < 0 || c.SaveEvery < 0 {
		errs = append(errs, errors.New("frames and save_every must not be negative"))
	}
	for i, clip := range c.Clips {
		if clip.Length <= 0 {
			errs = append(errs, fmt.Errorf("clip %d: length %g must be positive", i, clip.Length))
		}
		if _, err := gg.ParseHex(clip.Color); err != nil {
			errs = append(errs, fmt.Errorf("clip %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// state returns the initial timeline state.
func (c demoConfig) state() timeline.State {
	return timeline.State{
		Zoom:             c.Timeline.Zoom,
		BPM:              c.Timeline.BPM,
		GridSnap:         c.Timeline.GridSnap,
		Duration:         c.Timeline.Duration,
		PlayheadPosition: c.Timeline.Start,
	}
}

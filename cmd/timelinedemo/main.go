// Command timelinedemo renders a timeline during simulated playback and
// writes the frames as PNG files.
//
// Usage:
//
//	timelinedemo [-config demo.toml] [-frames 120] [-fps 30] [-output frames]
//
// Build with -tags gpu to render layers with gg's GPU accelerator.
//
// Each frame advances the playhead, which only repaints two narrow strips.
// When the playhead passes 80% of the view the timeline pages forward,
// which repaints the grid and content. Statistics are printed at the end.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gogpu/gg"

	"github.com/gogpu/layered"
	"github.com/gogpu/layered/timeline"
)

const (
	lanePadding = 24
	laneHeight  = 36
	clipRadius  = 4
	pageAt      = 0.8
)

// atExit holds cleanups registered by optional backends.
var atExit []func()

func main() {
	cfg := defaultConfig()

	var (
		configPath = flag.String("config", "", "TOML configuration file")
		width      = flag.Int("width", cfg.Width, "logical width")
		height     = flag.Int("height", cfg.Height, "logical height")
		ratio      = flag.Float64("ratio", cfg.PixelRatio, "device pixel ratio")
		frames     = flag.Int("frames", cfg.Frames, "number of frames to simulate")
		fps        = flag.Float64("fps", cfg.FPS, "playback frames per second")
		saveEvery  = flag.Int("save-every", cfg.SaveEvery, "save every Nth frame (0: last frame only)")
		output     = flag.String("output", cfg.Output, "output directory")
		verbose    = flag.Bool("v", false, "log renderer activity")
	)
	flag.Parse()

	if *verbose {
		layered.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if *configPath != "" {
		if err := loadConfig(*configPath, &cfg); err != nil {
			log.Fatal(err)
		}
	}
	// Explicit flags win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "ratio":
			cfg.PixelRatio = *ratio
		case "frames":
			cfg.Frames = *frames
		case "fps":
			cfg.FPS = *fps
		case "save-every":
			cfg.SaveEvery = *saveEvery
		case "output":
			cfg.Output = *output
		}
	})
	if err := cfg.validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	err := run(cfg)
	for _, fn := range atExit {
		fn()
	}
	if err != nil {
		log.Fatal(err)
	}
}

func run(cfg demoConfig) error {
	if err := os.MkdirAll(cfg.Output, 0o755); err != nil {
		return err
	}

	clock := layered.NewManualClock()
	rc := layered.DefaultConfig(cfg.Width, cfg.Height)
	rc.PixelRatio = cfg.PixelRatio
	base, err := layered.New(gg.NewContext(1, 1), rc, layered.WithFrameClock(clock))
	if err != nil {
		return err
	}

	tl, err := timeline.New(base,
		timeline.WithState(cfg.state()),
		timeline.WithContent(clipDrawer(cfg.Clips)))
	if err != nil {
		_ = base.Close()
		return err
	}
	defer tl.Close()
	clock.Tick()

	step := 1 / cfg.FPS
	for i := 1; i <= cfg.Frames; i++ {
		tl.SetPlayhead(cfg.Timeline.Start + float64(i)*step)
		follow(tl)
		clock.Tick()

		if cfg.SaveEvery > 0 && i%cfg.SaveEvery == 0 {
			if err := save(base, cfg.Output, i); err != nil {
				return err
			}
		}
	}
	if err := save(base, cfg.Output, cfg.Frames); err != nil {
		return err
	}

	st := base.Stats()
	log.Printf("Rendered %d frames (%dx%d @%gx): %d layer redraws, %d regions, %d full-surface\n",
		st.Frames, cfg.Width, cfg.Height, cfg.PixelRatio, st.LayerRedraws, st.RegionsDrawn, st.FullSurface)
	return nil
}

// follow pages the view forward when the playhead nears the right edge.
func follow(tl *timeline.Renderer) {
	s := tl.State()
	w := float64(tl.Base().Width())
	if x := s.TimeToX(s.PlayheadPosition); x > w*pageAt {
		tl.ScrollTo(s.ScrollX+x-w*(1-pageAt), s.ScrollY)
	}
}

func save(r *layered.Renderer, dir string, frame int) error {
	path := filepath.Join(dir, fmt.Sprintf("frame-%04d.png", frame))
	if err := r.Context().SavePNG(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// clipDrawer returns a content drawer painting clips as rounded bars, one
// lane per row.
func clipDrawer(clips []clipConfig) timeline.ContentFunc {
	colors := make([]gg.RGBA, len(clips))
	for i, c := range clips {
		colors[i] = gg.Hex(c.Color)
	}
	return func(dc *gg.Context, region *layered.Region, s timeline.State) {
		for i, c := range clips {
			x := s.TimeToX(c.Start)
			w := c.Length * s.Zoom
			y := lanePadding + float64(c.Lane)*laneHeight - s.ScrollY
			h := float64(laneHeight - 6)
			if region != nil && !region.Overlaps(layered.Region{X: x, Y: y, Width: w, Height: h}) {
				continue
			}
			dc.SetColor(colors[i])
			dc.DrawRoundedRectangle(x, y, w, h, clipRadius)
			_ = dc.Fill()
		}
	}
}

// Package automation runs scripted work without the live viewer: batches of
// cinematic renders described in YAML, and sweeps over the number of terms
// kept from a decomposition.
package automation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/fourierforge/internal/config"
	"github.com/san-kum/fourierforge/internal/session"
	"github.com/san-kum/fourierforge/internal/sink"
	"github.com/san-kum/fourierforge/internal/svgpath"
	"github.com/san-kum/fourierforge/internal/viz"
)

func tracer() tracing.Trace {
	return tracing.Select("fourier.batch")
}

// Batch is a list of cinematic shots rendered with shared defaults.
type Batch struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// Preset names the base configuration. Empty means the defaults.
	Preset string `yaml:"preset"`
	// OutDir is prepended to relative shot outputs.
	OutDir string `yaml:"out_dir"`
	// Parallel bounds how many shots render at once. Zero means one.
	Parallel int    `yaml:"parallel"`
	Shots    []Shot `yaml:"shots"`
}

// Shot renders one SVG. Zero fields inherit the batch configuration.
type Shot struct {
	Input   string  `yaml:"input"`
	Output  string  `yaml:"output"`
	Preset  string  `yaml:"preset"`
	Samples int     `yaml:"samples"`
	Speed   float64 `yaml:"speed"`
	MaxZoom float64 `yaml:"max_zoom"`
	FPS     int     `yaml:"fps"`
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	Format  string  `yaml:"format"`
	Ink     string  `yaml:"ink"`
	Rainbow bool    `yaml:"rainbow"`
}

// ShotResult reports one rendered shot.
type ShotResult struct {
	Input   string        `json:"input"`
	Output  string        `json:"output"`
	Cycles  int           `json:"cycles"`
	Frames  int           `json:"frames"`
	Elapsed time.Duration `json:"elapsed_ns"`
	Error   string        `json:"error,omitempty"`
}

// Manifest is written next to the outputs after a batch.
type Manifest struct {
	Name      string       `json:"name"`
	Timestamp time.Time    `json:"timestamp"`
	Shots     []ShotResult `json:"shots"`
}

// LoadBatch loads a batch from a YAML file. Relative inputs are resolved
// against the file's directory.
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var b Batch
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(b.Shots) == 0 {
		return nil, fmt.Errorf("%s: batch has no shots", path)
	}

	dir := filepath.Dir(path)
	for i := range b.Shots {
		if in := b.Shots[i].Input; in != "" && !filepath.IsAbs(in) {
			b.Shots[i].Input = filepath.Join(dir, in)
		}
	}
	return &b, nil
}

// Config builds the configuration of shot s.
func (b *Batch) Config(s Shot) (*config.Config, error) {
	cfg := config.DefaultConfig()
	for _, name := range []string{b.Preset, s.Preset} {
		if name == "" {
			continue
		}
		p := config.GetPreset(name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q", name)
		}
		cfg = p
	}

	if s.Samples > 0 {
		cfg.Samples = s.Samples
	}
	if s.Speed > 0 {
		cfg.Playback.Speed = s.Speed
	}
	if s.MaxZoom > 0 {
		cfg.Camera.MaxZoom = s.MaxZoom
	}
	if s.FPS > 0 {
		cfg.Playback.TargetFPS = s.FPS
	}
	if s.Width > 0 {
		cfg.Render.Width = s.Width
	}
	if s.Height > 0 {
		cfg.Render.Height = s.Height
	}
	cfg.Render.Output = b.output(s)
	cfg.Render.Format = s.Format
	if cfg.Render.Format == "" {
		cfg.Render.Format = sink.FormatOf(cfg.Render.Output)
	}
	return cfg, cfg.Validate()
}

func (b *Batch) output(s Shot) string {
	out := s.Output
	if out == "" {
		base := filepath.Base(s.Input)
		out = strings.TrimSuffix(base, filepath.Ext(base)) + ".gif"
	}
	if !filepath.IsAbs(out) && b.OutDir != "" {
		out = filepath.Join(b.OutDir, out)
	}
	return out
}

// RunBatch renders every shot and writes manifest.json into OutDir. Shot
// failures are recorded in the results; the returned error covers batch
// level problems and cancellation.
func RunBatch(ctx context.Context, b *Batch) ([]ShotResult, error) {
	if b.OutDir != "" {
		if err := os.MkdirAll(b.OutDir, 0o755); err != nil {
			return nil, err
		}
	}

	results := make([]ShotResult, len(b.Shots))
	var done int
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(b.Parallel, 1))
	for i, shot := range b.Shots {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = RenderShot(ctx, b, shot)

			mu.Lock()
			done++
			fmt.Printf("Shot %d/%d: %s -> %s (%d frames)\n", done, len(b.Shots), shot.Input, results[i].Output, results[i].Frames)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	if b.OutDir != "" {
		m := Manifest{Name: b.Name, Timestamp: time.Now(), Shots: results}
		if err := writeManifest(filepath.Join(b.OutDir, "manifest.json"), m); err != nil {
			return results, err
		}
	}
	return results, nil
}

// RenderShot loads, decomposes and records one cinematic cycle.
func RenderShot(ctx context.Context, b *Batch, s Shot) ShotResult {
	start := time.Now()
	res := ShotResult{Input: s.Input, Output: b.output(s)}
	fail := func(err error) ShotResult {
		res.Error = err.Error()
		res.Elapsed = time.Since(start)
		tracer().Errorf("shot %s: %v", s.Input, err)
		return res
	}

	cfg, err := b.Config(s)
	if err != nil {
		return fail(err)
	}

	frames, cycles, err := Render(ctx, cfg, s.Input, func(vis *session.Visuals) error {
		vis.Rainbow = s.Rainbow
		if s.Ink == "" {
			return nil
		}
		if err := vis.SetInk(s.Ink); err != nil {
			return fmt.Errorf("ink %q: %w", s.Ink, err)
		}
		return nil
	})
	res.Frames = frames
	res.Cycles = cycles
	if err != nil {
		return fail(err)
	}
	res.Elapsed = time.Since(start)
	tracer().Infof("shot %s: %d cycles, %d frames in %s", s.Input, res.Cycles, frames, res.Elapsed)
	return res
}

// Render records one cinematic cycle of the SVG at input into
// cfg.Render.Output. style, when set, adjusts the visuals first. It returns
// the frames written and the number of cycles decomposed.
func Render(ctx context.Context, cfg *config.Config, input string, style func(*session.Visuals) error) (int, int, error) {
	sess := session.New(cfg)
	if style != nil {
		if err := style(sess.Visuals()); err != nil {
			return 0, 0, err
		}
	}

	spec := sink.Spec{Width: cfg.Render.Width, Height: cfg.Render.Height, FPS: cfg.Playback.TargetFPS}
	out, err := sink.Open(ctx, cfg.Render.Format, cfg.Render.Output, spec)
	if err != nil {
		return 0, 0, err
	}

	r := viz.NewRenderer(spec.Width, spec.Height)
	var last []byte
	draw := func(v session.FrameView) []byte {
		if last != nil {
			r.Release(last)
		}
		last = r.Render(v)
		return last
	}

	src := svgpath.File{Path: input, Flatness: cfg.Flatness}
	frames, err := session.RenderCinematic(ctx, sess, src, out, draw)
	return frames, sess.Total(), err
}

func writeManifest(path string, m Manifest) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

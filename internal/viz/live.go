package viz

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fourierforge/internal/analysis"
	"github.com/san-kum/fourierforge/internal/camera"
	"github.com/san-kum/fourierforge/internal/config"
	"github.com/san-kum/fourierforge/internal/metrics"
	"github.com/san-kum/fourierforge/internal/pipeline"
	"github.com/san-kum/fourierforge/internal/session"
	"github.com/san-kum/fourierforge/internal/sim"
	"github.com/san-kum/fourierforge/internal/sink"
)

const (
	defaultCols   = 80
	defaultRows   = 24
	panelCols     = 50
	panStep       = 40.0
	speedStep     = 0.01
	trailStep     = 100
	spectrumBins  = 48
	shutdownGrace = 2 * time.Second
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Options configure a live viewer.
type Options struct {
	Config *config.Config
	// Source is loaded on start when set.
	Source pipeline.Source
	Name   string
	Theme  string
	// OutDir receives recordings. Defaults to the working directory.
	OutDir string
}

// Model is the Bubble Tea model of the live viewer. It owns a session and
// drives it once per tick.
type Model struct {
	s        *session.Session
	opts     Options
	canvas   *Canvas
	renderer *Renderer
	theme    Theme

	last     time.Time
	frame    int
	view     session.FrameView
	spectrum []float64
	specFor  int
	rms      float64
	rmsFor   [2]int
	shots    int
	showHelp bool
	err      error
}

func NewModel(opts Options) *Model {
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	if opts.Name == "" {
		opts.Name = "fourierforge"
	}
	m := &Model{
		s:        session.New(opts.Config),
		opts:     opts,
		canvas:   NewCanvas(defaultCols-panelCols, defaultRows-2),
		renderer: NewRenderer(opts.Config.Render.Width, opts.Config.Render.Height),
		theme:    GetTheme(opts.Theme),
	}
	m.theme.Apply(m.s.Visuals())
	if opts.Source != nil {
		m.err = m.s.Load(opts.Source)
	}
	return m
}

// Session exposes the driven session.
func (m *Model) Session() *session.Session { return m.s }

func (m *Model) Init() tea.Cmd {
	return tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.canvas.Resize(max(msg.Width-panelCols, 10), max(msg.Height-2, 5))
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	case tea.MouseMsg:
		m.handleMouse(msg)
	case TickMsg:
		m.step(time.Time(msg))
		return m, tick()
	}
	return m, nil
}

// step advances the session by the wall time since the previous tick and
// renders a recording frame when one is due.
func (m *Model) step(now time.Time) {
	dt := 0.0
	if !m.last.IsZero() {
		dt = now.Sub(m.last).Seconds()
	}
	m.last = now
	m.frame++

	wasLoading := m.view.Loading
	m.view = m.s.Frame(dt)
	if wasLoading && !m.view.Loading {
		m.spectrum, m.rmsFor = nil, [2]int{}
	}
	if m.view.FrameDue {
		buf := m.renderer.Render(m.view)
		m.s.WriteFrame(buf)
		m.renderer.Release(buf)
	}
	if m.view.Completed {
		m.shots++
	}
	Sketch(m.canvas, m.view)
}

func (m *Model) handleKey(key string) tea.Cmd {
	s := m.s
	switch key {
	case "q", "ctrl+c":
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		m.err = s.Close(ctx)
		return tea.Quit
	case " ":
		s.TogglePause()
	case "r":
		s.Reset()
	case "c":
		m.startCinematic()
	case "g":
		m.toggleRecording()
	case "+", "=":
		s.ZoomBy(camera.WheelFactor)
	case "-", "_":
		s.ZoomBy(1 / camera.WheelFactor)
	case "0":
		s.ResetView()
	case "left", "h":
		s.Drag(panStep, 0)
	case "right", "l":
		s.Drag(-panStep, 0)
	case "up", "k":
		s.Drag(0, panStep)
	case "down", "j":
		s.Drag(0, -panStep)
	case "f":
		s.SetAutoFollow(!s.AutoFollow())
	case "[":
		s.SetActiveCount(s.Active() / 2)
	case "]":
		s.SetActiveCount(s.Active() * 2)
	case "{":
		s.SetActiveCount(s.Active() - 1)
	case "}":
		s.SetActiveCount(s.Active() + 1)
	case ",":
		s.SetSpeed(s.Speed() - speedStep)
	case ".":
		s.SetSpeed(s.Speed() + speedStep)
	case "m":
		if s.TrailMode() == sim.TraceSnake {
			s.SetTrailMode(sim.TraceInfinite, s.TrailLength())
		} else {
			s.SetTrailMode(sim.TraceSnake, s.TrailLength())
		}
	case "<":
		s.SetTrailMode(s.TrailMode(), s.TrailLength()-trailStep)
	case ">":
		s.SetTrailMode(s.TrailMode(), s.TrailLength()+trailStep)
	case "1":
		s.Visuals().ShowCircles = !s.Visuals().ShowCircles
	case "2":
		s.Visuals().ShowArms = !s.Visuals().ShowArms
	case "3":
		s.Visuals().ShowTrail = !s.Visuals().ShowTrail
	case "4":
		s.Visuals().ShowReference = !s.Visuals().ShowReference
	case "b":
		s.Visuals().Rainbow = !s.Visuals().Rainbow
	case "t":
		m.theme = NextTheme(m.theme.Name)
		m.theme.Apply(s.Visuals())
	case "?":
		m.showHelp = !m.showHelp
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.s.ZoomBy(camera.WheelFactor)
	case tea.MouseButtonWheelDown:
		m.s.ZoomBy(1 / camera.WheelFactor)
	}
}

func (m *Model) spec() sink.Spec {
	cfg := m.opts.Config
	return sink.Spec{Width: cfg.Render.Width, Height: cfg.Render.Height, FPS: cfg.Playback.TargetFPS}
}

// nextOutput names the next recording after the configured output file.
func (m *Model) nextOutput(kind string) string {
	base := filepath.Base(m.opts.Config.Render.Output)
	ext := filepath.Ext(base)
	name := fmt.Sprintf("%s-%s-%03d%s", strings.TrimSuffix(base, ext), kind, m.shots+1, ext)
	return filepath.Join(m.opts.OutDir, name)
}

func (m *Model) openSink(kind string) (sink.Sink, error) {
	out := m.nextOutput(kind)
	return sink.Open(context.Background(), m.opts.Config.Render.Format, out, m.spec())
}

func (m *Model) startCinematic() {
	if m.s.Total() == 0 || m.s.Recording() {
		return
	}
	sk, err := m.openSink("cinematic")
	if err != nil {
		m.err = err
		return
	}
	if err := m.s.StartCinematic(sk); err != nil {
		_ = sk.Close()
		m.err = err
	}
}

func (m *Model) toggleRecording() {
	if m.s.Recording() {
		m.s.StopRecording()
		m.shots++
		return
	}
	sk, err := m.openSink("take")
	if err != nil {
		m.err = err
		return
	}
	m.err = m.s.StartRecording(sk)
}

// Err returns the last error raised by a key action.
func (m *Model) Err() error { return m.err }

func (m *Model) View() string {
	main := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		panelStyle.Render(m.panel()))
	if m.showHelp {
		return helpText + "\n" + main
	}
	return main
}

func (m *Model) panel() string {
	s, v := m.s, m.view
	var b strings.Builder

	b.WriteString(HeaderStyle.Render(GradientText(strings.ToUpper(m.opts.Name), m.theme.Primary, m.theme.Accent)) + "\n\n")
	b.WriteString(m.statusLine() + "\n")
	b.WriteString(Subtle.Render(s.Status()) + "\n\n")

	b.WriteString(ProgressBar(s.Time(), 30) + fmt.Sprintf(" %5.1f%%\n\n", s.Time()*100))

	row := func(label, value string) {
		b.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Cycles", fmt.Sprintf("%d / %d", s.Active(), s.Total()))
	row("Drawn", fmt.Sprintf("%d circles", len(v.Circles)))
	if s.Total() > 0 {
		row("Error", fmt.Sprintf("%.3f rms", m.reconstructionError()))
	}
	row("Speed", fmt.Sprintf("%.2f", s.Speed()))
	row("Zoom", fmt.Sprintf("%.2fx", s.Zoom()))
	row("Follow", onOff(s.AutoFollow()))
	row("Trail", trailLabel(s))
	row("Shots", fmt.Sprintf("%d", m.shots))
	if v.Cinematic {
		row("Phase", v.Phase.String())
	}
	b.WriteString(MetricLabel.Render("Ink") + Swatch(s.Visuals().Ink) + " " + Subtle.Render(m.theme.Name) + "\n")

	if chart := m.spectrumChart(); chart != "" {
		b.WriteString(graphStyle.Render(chart) + "\n")
	}
	if m.err != nil {
		b.WriteString(StatusRecording.UnsetBlink().Render("error: "+m.err.Error()) + "\n")
	}
	b.WriteString("\n" + Separator(40) + "\n")
	b.WriteString(KeyHint.Render("SP:Play R:Reset C:Cinematic G:Record\n[ ]:Cycles , .:Speed M:Trail ?:Help Q:Quit"))
	return b.String()
}

func (m *Model) statusLine() string {
	v := m.view
	switch {
	case v.Loading:
		return StatusPaused.Render(AnimatedSpinner(m.frame) + " LOADING")
	case v.Cinematic:
		return StatusCinematic.Render("● CINEMATIC")
	case v.Recording:
		return StatusRecording.Render("● REC")
	case m.s.Paused():
		return StatusPaused.Render("PAUSED")
	}
	return StatusRunning.Render("PLAYING")
}

// reconstructionError scores the active terms against the loaded path,
// recomputing only when the list or the active count changes.
func (m *Model) reconstructionError() float64 {
	key := [2]int{m.s.Total(), m.s.Active()}
	if key != m.rmsFor {
		e := metrics.NewReconstructionError()
		e.Observe(m.s.Path(), m.s.Epicycles(), m.s.Active())
		m.rms, m.rmsFor = e.Value(), key
	}
	return m.rms
}

// spectrumChart plots log10 amplitude of the largest epicycles. It is
// recomputed only when a new list is installed.
func (m *Model) spectrumChart() string {
	epis := m.s.Epicycles()
	if len(epis) < 2 {
		return ""
	}
	if m.specFor != len(epis) || m.spectrum == nil {
		amps := analysis.Amplitudes(epis, spectrumBins)
		m.spectrum = make([]float64, len(amps))
		for i, a := range amps {
			m.spectrum[i] = math.Log10(a + 1e-9)
		}
		m.specFor = len(epis)
	}
	if len(m.spectrum) < 2 {
		return ""
	}
	return asciigraph.Plot(m.spectrum,
		asciigraph.Height(5),
		asciigraph.Width(36),
		asciigraph.Caption("log10 |c| by rank"))
}

func trailLabel(s *session.Session) string {
	if s.TrailMode() == sim.TraceSnake {
		return fmt.Sprintf("snake %d", s.TrailLength())
	}
	return "infinite"
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Play/Pause               ║
║  R        - Reset to outline         ║
║  C        - Record cinematic shot    ║
║  G        - Start/stop recording     ║
║  + / -    - Zoom in/out              ║
║  Arrows   - Pan                      ║
║  0        - Reset view               ║
║  F        - Toggle auto-follow       ║
║  [ ] { }  - Active cycles            ║
║  , .      - Speed                    ║
║  M  < >   - Trail mode and length    ║
║  1-4      - Circles/arms/trail/ref   ║
║  B        - Rainbow ink              ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

// Run opens the live viewer in the alternate screen.
func Run(opts Options) error {
	m := NewModel(opts)
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run(); err != nil {
		return err
	}
	return nil
}

package viz

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fourierforge/internal/config"
	"github.com/san-kum/fourierforge/internal/svgpath"
)

const (
	stateFiles = iota
	statePreset
	stateLive
)

var (
	menuTitle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuActive = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuDesc   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuIdle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuKey    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

// Launcher lets the user pick an SVG file from a directory and a preset,
// then hands over to the live viewer.
type Launcher struct {
	state    int
	dir      string
	files    []string
	presets  []string
	cursor   int
	selected string
	opts     Options
	live     *Model
	width    int
	height   int
}

// NewLauncher lists the SVG files in dir. opts seeds the live viewer.
func NewLauncher(dir string, opts Options) (*Launcher, error) {
	files, err := ListSVG(dir)
	if err != nil {
		return nil, err
	}
	return &Launcher{
		dir:     dir,
		files:   files,
		presets: config.ListPresets(),
		opts:    opts,
	}, nil
}

// ListSVG returns the names of the .svg files in dir, sorted.
func ListSVG(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".svg") {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

func (l *Launcher) Init() tea.Cmd { return nil }

func (l *Launcher) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if l.state == stateLive {
		_, cmd := l.live.Update(msg)
		return l, cmd
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.width, l.height = msg.Width, msg.Height
	case tea.KeyMsg:
		return l, l.menuKey(msg.String())
	}
	return l, nil
}

func (l *Launcher) items() []string {
	if l.state == statePreset {
		return l.presets
	}
	return l.files
}

func (l *Launcher) menuKey(key string) tea.Cmd {
	switch key {
	case "q", "ctrl+c":
		return tea.Quit
	case "esc":
		if l.state == statePreset {
			l.state, l.cursor = stateFiles, 0
		}
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
		}
	case "down", "j":
		if l.cursor < len(l.items())-1 {
			l.cursor++
		}
	case "enter", " ":
		items := l.items()
		if len(items) == 0 {
			return nil
		}
		choice := items[l.cursor]
		if l.state == stateFiles {
			l.selected = choice
			l.state, l.cursor = statePreset, max(slices.Index(l.presets, "standard"), 0)
			return nil
		}
		return l.start(choice)
	}
	return nil
}

func (l *Launcher) start(preset string) tea.Cmd {
	opts := l.opts
	if cfg := config.GetPreset(preset); cfg != nil {
		opts.Config = cfg
	}
	if opts.Config == nil {
		opts.Config = config.DefaultConfig()
	}
	opts.Name = strings.TrimSuffix(l.selected, filepath.Ext(l.selected))
	opts.Source = svgpath.File{Path: filepath.Join(l.dir, l.selected), Flatness: opts.Config.Flatness}

	l.live = NewModel(opts)
	if l.width > 0 {
		l.live.Update(tea.WindowSizeMsg{Width: l.width, Height: l.height})
	}
	l.state = stateLive
	return l.live.Init()
}

func (l *Launcher) View() string {
	switch l.state {
	case stateFiles:
		return l.viewMenu("FOURIERFORGE", "epicycle drawing from "+l.dir, l.files, "no .svg files here")
	case statePreset:
		return l.viewMenu(strings.ToUpper(l.selected), "choose a quality preset", l.presets, "")
	case stateLive:
		return l.live.View()
	}
	return ""
}

func (l *Launcher) viewMenu(title, sub string, items []string, empty string) string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render(title) + "\n    " + menuSub.Render(sub) + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	if len(items) == 0 {
		b.WriteString("    " + menuIdle.Render(empty) + "\n")
	}
	for i, name := range items {
		desc := l.describe(name)
		if i == l.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-24s", name)), menuDesc.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", menuIdle.Render(fmt.Sprintf("  %-24s", name)), menuIdle.Render(desc)))
		}
	}
	b.WriteString("\n    " + menuKey.Render("j/k") + menuIdle.Render(" navigate  ") + menuKey.Render("enter") + menuIdle.Render(" select  "))
	if l.state == statePreset {
		b.WriteString(menuKey.Render("esc") + menuIdle.Render(" back  "))
	}
	b.WriteString(menuKey.Render("q") + menuIdle.Render(" quit") + "\n")
	return b.String()
}

func (l *Launcher) describe(item string) string {
	if l.state != statePreset {
		return ""
	}
	cfg := config.GetPreset(item)
	if cfg == nil {
		return ""
	}
	return fmt.Sprintf("%d samples, %s trail", cfg.Samples, cfg.Trace.Mode)
}

// RunLauncher browses dir for SVG files in the alternate screen.
func RunLauncher(dir string, opts Options) error {
	l, err := NewLauncher(dir, opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(l, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

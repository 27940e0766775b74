// Package tui is the live terminal view: a spinning globe beside rolling
// charts and parameter sliders.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/climsim/internal/chart"
	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/config"
	"github.com/san-kum/climsim/internal/dynamo"
	"github.com/san-kum/climsim/internal/globe"
	"github.com/san-kum/climsim/internal/i18n"
	"github.com/san-kum/climsim/internal/logger"
	"github.com/san-kum/climsim/internal/sim"
)

const (
	defaultWidth  = 120
	defaultHeight = 36
	statsWidth    = 64
	spinPerTick   = 0.03
)

type tickMsg time.Time

// Model is the bubbletea model. It owns the loop: every tick runs on the
// bubbletea goroutine.
type Model struct {
	ctx      context.Context
	loop     *sim.Loop
	interval time.Duration

	temps  *chart.Chart
	energy *chart.Chart
	globe  *globe.Globe

	tr       *i18n.Translator
	theme    int
	styles   Styles
	presets  []string
	preset   int
	selected int
	params   climate.Params

	width, height int
	paused        bool
	diverged      bool
	showHelp      bool
}

// New builds the view around loop, attaching the charts and globe as
// sinks. ctx carries the logger.
func New(ctx context.Context, loop *sim.Loop, cfg *config.Config) Model {
	lang := cfg.Language
	if lang == "" {
		lang = i18n.Detect()
	}
	theme := ThemeIndex(cfg.Theme)

	m := Model{
		ctx:      logger.WithName(ctx, "tui"),
		loop:     loop,
		interval: cfg.TickInterval,
		temps:    chart.NewTemperature(cfg.Window),
		energy:   chart.NewEnergy(cfg.Window),
		globe:    globe.New(defaultWidth-statsWidth-8, (defaultWidth-statsWidth-8)/2),
		tr:       i18n.New(lang),
		theme:    theme,
		styles:   NewStyles(Themes[theme]),
		presets:  config.ListPresets(),
		preset:   -1,
		params:   loop.Model().Params(),
		width:    defaultWidth,
		height:   defaultHeight,
	}
	if m.interval <= 0 {
		m.interval = sim.DefaultInterval
	}
	loop.AddSink(m.temps)
	loop.AddSink(m.energy)
	loop.AddSink(m.globe)
	m.globe.Apply(globe.ViewOf(loop.Last()))
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			m.reset()
		case "tab":
			m.selected = (m.selected + 1) % len(climate.ParamNames)
		case "shift+tab":
			m.selected = (m.selected + len(climate.ParamNames) - 1) % len(climate.ParamNames)
		case "up", "k":
			m.adjust(1)
		case "down", "j":
			m.adjust(-1)
		case "p":
			m.nextPreset()
		case "l":
			m.tr = m.tr.Next()
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
			m.styles = NewStyles(Themes[m.theme])
		case "+", "=":
			m.globe.Zoom(true)
		case "-", "_":
			m.globe.Zoom(false)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		gw := max(10, m.width-statsWidth-8)
		m.globe.Resize(gw, max(5, min(m.height-4, gw/2)))
	case tickMsg:
		if !m.paused {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	_, err := m.loop.Tick()
	switch {
	case err == nil:
		m.diverged = false
	case errors.Is(err, dynamo.ErrInvalidState):
		if !m.diverged {
			logger.WarnKV(m.ctx, "step rejected", "error", err, "params", m.loop.Model().Params())
		}
		m.diverged = true
	default:
		logger.ErrorKV(m.ctx, "step failed", "error", err)
	}
	m.globe.Spin(spinPerTick)
}

// adjust moves the selected slider by dir steps and queues the change for
// the next tick.
func (m *Model) adjust(dir float64) {
	name := climate.ParamNames[m.selected]
	r := climate.Ranges[name]
	cur, _ := m.params.Get(name)
	p, _ := climate.PartialFor(name, r.Clamp(cur+dir*r.Step))
	m.params = p.Apply(m.params)
	m.loop.Queue(p)
}

func (m *Model) reset() {
	m.loop.Reset()
	m.params = m.loop.Model().Params()
	m.diverged = false
	m.globe.Apply(globe.ViewOf(m.loop.Last()))
	logger.InfoKV(m.ctx, "reset", "temperature", m.loop.Model().Temperature())
}

func (m *Model) nextPreset() {
	if len(m.presets) == 0 {
		return
	}
	m.preset = (m.preset + 1) % len(m.presets)
	p, _ := config.GetPreset(m.presets[m.preset])

	model := m.loop.Model()
	model.UpdateParams(climate.Full(p.Params))
	model.SetInitialTemperature(p.InitialTemperature)
	m.reset()
	logger.InfoKV(m.ctx, "preset", "name", p.Name)
}

// View renders the TUI interface.
func (m Model) View() string {
	st := m.styles
	tr := m.tr
	model := m.loop.Model()
	last := m.loop.Last()

	var s strings.Builder
	s.WriteString(st.Title.Render(strings.ToUpper(tr.T(i18n.Title))) + "\n")

	status := st.Running.Render(tr.T(i18n.StatusRunning))
	switch {
	case m.diverged:
		status = st.Error.Render(tr.T(i18n.StatusDiverged))
	case m.paused:
		status = st.Paused.Render(tr.T(i18n.StatusPaused))
	}
	s.WriteString(status + "  " + st.Value.Render(tr.T(i18n.Step, "n", fmt.Sprint(m.loop.Steps()))))
	if m.preset >= 0 {
		s.WriteString("  " + st.Value.Render(tr.T(i18n.Preset, "name", m.presets[m.preset])))
	}
	s.WriteString("\n\n")

	snap := last.Snapshot
	row := func(label, value string) {
		s.WriteString(st.Label.Render(label) + st.Value.Render(value) + "\n")
	}
	row(tr.T(i18n.Temperature), fmt.Sprintf("%.2f", model.Temperature()))
	s.WriteString(st.Label.Render(tr.T(i18n.Equilibrium, "value", fmt.Sprintf("%.2f", model.Equilibrium()))) + "\n")
	row(tr.T(i18n.Absorbed), fmt.Sprintf("%.1f", snap.Absorbed))
	row(tr.T(i18n.Reflected), fmt.Sprintf("%.1f", snap.Reflected))
	row(tr.T(i18n.Outgoing), fmt.Sprintf("%.1f", snap.Outgoing))
	row(tr.T(i18n.Net), fmt.Sprintf("%+.2f", snap.Net))
	row(tr.T(i18n.Forcing), fmt.Sprintf("%.2f", snap.Forcing))
	s.WriteString("\n")

	chartWidth := statsWidth - 16
	if out := m.temps.Render(chartWidth, 5, tr.T(i18n.Temperature)); out != "" {
		s.WriteString(out + "\n\n")
	}
	if out := m.energy.Render(chartWidth, 5, tr.T(i18n.Energy)); out != "" {
		s.WriteString(out + "\n\n")
	}

	for i, name := range climate.ParamNames {
		v, _ := m.params.Get(name)
		r := climate.Ranges[name]
		line := fmt.Sprintf("%-26s %s %g", tr.T(name), Bar((v-r.Min)/(r.Max-r.Min), 12), v)
		if i == m.selected {
			s.WriteString(st.Active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.Value.Render(line) + "\n")
		}
	}

	help := tr.T(i18n.HelpShort)
	if m.showHelp {
		help = tr.T(i18n.Help) + "\n" + tr.T(i18n.Theme, "name", Themes[m.theme].Name)
	}
	s.WriteString(st.Help.Render(help))

	globeView := st.Panel.Render(m.globe.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, globeView, st.Stats.Render(s.String()))
}

// Run starts the bubbletea program on the alternate screen and blocks
// until the user quits or ctx is done.
func Run(ctx context.Context, loop *sim.Loop, cfg *config.Config) error {
	p := tea.NewProgram(New(ctx, loop, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/config"
	"github.com/san-kum/climsim/internal/sim"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Language = "en"
	model, err := cfg.Model()
	require.NoError(t, err)
	loop := sim.NewLoop(model, cfg.Dt, sim.WithClock(clockwork.NewFakeClock()))
	return New(context.Background(), loop, cfg)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func tick() tea.Msg { return tickMsg(time.Now()) }

func TestTickStepsLoop(t *testing.T) {
	m := newTestModel(t)
	m = send(m, tick(), tick(), tick())

	assert.Equal(t, 3, m.loop.Steps())
	assert.Equal(t, 3, m.temps.Len())
	assert.Equal(t, 3, m.energy.Len())
}

func TestPauseStopsStepping(t *testing.T) {
	m := newTestModel(t)
	m = send(m, key(" "), tick(), tick())
	assert.True(t, m.paused)
	assert.Zero(t, m.loop.Steps())

	m = send(m, key(" "), tick())
	assert.Equal(t, 1, m.loop.Steps())
}

func TestSliderQueuesUpdate(t *testing.T) {
	m := newTestModel(t)
	m = send(m, key("up"), key("up"))
	assert.Equal(t, 300.0, m.params.CO2)
	assert.Equal(t, 280.0, m.loop.Model().Params().CO2, "applied on the next tick")

	m = send(m, tick())
	assert.Equal(t, 300.0, m.loop.Model().Params().CO2)

	m = send(m, key("tab"), key("down"))
	assert.InDelta(t, 0.29, m.params.Albedo, 1e-9)
}

func TestSliderClamps(t *testing.T) {
	m := newTestModel(t)
	m = send(m, key("tab"), key("tab"), key("tab"))
	assert.Equal(t, climate.ParamForestCover, climate.ParamNames[m.selected])
	for i := 0; i < 40; i++ {
		m = send(m, key("down"))
	}
	assert.Zero(t, m.params.ForestCover)
}

func TestShiftTabWraps(t *testing.T) {
	m := newTestModel(t)
	m = send(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, len(climate.ParamNames)-1, m.selected)
}

func TestReset(t *testing.T) {
	m := newTestModel(t)
	m = send(m, key("up"), tick(), tick(), key("r"))

	assert.Zero(t, m.loop.Steps())
	assert.Zero(t, m.temps.Len())
	assert.Equal(t, 15.0, m.loop.Model().Temperature())
	assert.Equal(t, 290.0, m.params.CO2)
}

func TestPresetCycle(t *testing.T) {
	m := newTestModel(t)
	m = send(m, tick(), key("p"))

	require.Equal(t, "doubled", m.presets[m.preset])
	assert.Equal(t, 560.0, m.loop.Model().Params().CO2)
	assert.Equal(t, 560.0, m.params.CO2)
	assert.Zero(t, m.loop.Steps())

	m = send(m, key("p"), key("p"), key("p"), key("p"), key("p"))
	assert.Equal(t, "snowball", m.presets[m.preset])
	assert.Equal(t, -30.0, m.loop.Model().Temperature())
}

func TestLanguageAndThemeCycle(t *testing.T) {
	m := newTestModel(t)
	assert.Contains(t, m.View(), "CLIMATE SIMULATOR")

	m = send(m, key("l"))
	assert.Equal(t, "es", m.tr.Lang())
	assert.Contains(t, m.View(), "SIMULADOR CLIMÁTICO")

	m = send(m, key("t"))
	assert.Equal(t, 1, m.theme)
}

func TestViewShowsChartsAndStatus(t *testing.T) {
	m := newTestModel(t)
	m = send(m, tick(), tick())
	view := m.View()

	assert.Contains(t, view, "running")
	assert.Contains(t, view, "Energy (W/m²)")
	assert.Contains(t, view, "equilibrium")

	m = send(m, key(" "))
	assert.Contains(t, m.View(), "paused")

	m = send(m, key("?"))
	assert.Contains(t, m.View(), "space: pause")
}

func TestDivergedState(t *testing.T) {
	m := newTestModel(t)
	m.loop.Model().SetTemperature(1e80)
	m = send(m, tick())

	assert.True(t, m.diverged)
	assert.Contains(t, m.View(), "diverged")

	m = send(m, key("r"))
	assert.False(t, m.diverged)
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestWindowResize(t *testing.T) {
	m := newTestModel(t)
	m = send(m, tea.WindowSizeMsg{Width: 160, Height: 50})
	f := m.globe.Frame()
	assert.Equal(t, 160-statsWidth-8, f.Width)
	assert.Equal(t, (160-statsWidth-8)/2, f.Height)
}

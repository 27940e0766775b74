// Package gui is the desktop view: a raylib globe with live charts.
package gui

import (
	"context"
	"errors"
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

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
	screenWidth  = 1280
	screenHeight = 720
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColWarn    = rl.NewColor(255, 170, 0, 255)
	ColError   = rl.NewColor(255, 68, 68, 255)
)

type App struct {
	ctx      context.Context
	loop     *sim.Loop
	interval time.Duration
	elapsed  time.Duration

	temps  *chart.Chart
	energy *chart.Chart
	tr     *i18n.Translator

	Camera   rl.Camera3D
	Running  bool
	Diverged bool
	ParamSel int
	Params   climate.Params
	presets  []string
	preset   int
}

func NewApp(ctx context.Context, loop *sim.Loop, cfg *config.Config) *App {
	lang := cfg.Language
	if lang == "" {
		lang = i18n.Detect()
	}
	a := &App{
		ctx:      logger.WithName(ctx, "gui"),
		loop:     loop,
		interval: cfg.TickInterval,
		temps:    chart.NewTemperature(cfg.Window),
		energy:   chart.NewEnergy(cfg.Window),
		tr:       i18n.New(lang),
		Camera: rl.NewCamera3D(
			rl.NewVector3(0, 1.2, 4),
			rl.NewVector3(0, 0, 0),
			rl.NewVector3(0, 1, 0),
			45.0,
			rl.CameraPerspective,
		),
		Running: true,
		Params:  loop.Model().Params(),
		presets: config.ListPresets(),
		preset:  -1,
	}
	if a.interval <= 0 {
		a.interval = sim.DefaultInterval
	}
	loop.AddSink(a.temps)
	loop.AddSink(a.energy)
	return a
}

// Run opens the window and blocks until it is closed or ctx is done.
func Run(ctx context.Context, loop *sim.Loop, cfg *config.Config) {
	rl.InitWindow(screenWidth, screenHeight, "climsim")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)

	app := NewApp(ctx, loop, cfg)
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if a.ctx.Err() != nil || rl.IsKeyPressed(rl.KeyQ) {
			return
		}
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	rl.UpdateCamera(&a.Camera, rl.CameraOrbital)

	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		a.Running = !a.Running
	case rl.IsKeyPressed(rl.KeyR):
		a.reset()
	case rl.IsKeyPressed(rl.KeyTab):
		a.ParamSel = (a.ParamSel + 1) % len(climate.ParamNames)
	case rl.IsKeyPressed(rl.KeyUp):
		a.adjust(1)
	case rl.IsKeyPressed(rl.KeyDown):
		a.adjust(-1)
	case rl.IsKeyPressed(rl.KeyP):
		a.nextPreset()
	case rl.IsKeyPressed(rl.KeyL):
		a.tr = a.tr.Next()
	}

	if !a.Running {
		return
	}
	a.elapsed += time.Duration(float64(rl.GetFrameTime()) * float64(time.Second))
	for a.elapsed >= a.interval {
		a.elapsed -= a.interval
		a.tick()
	}
}

func (a *App) tick() {
	_, err := a.loop.Tick()
	switch {
	case err == nil:
		a.Diverged = false
	case errors.Is(err, dynamo.ErrInvalidState):
		if !a.Diverged {
			logger.WarnKV(a.ctx, "step rejected", "error", err)
		}
		a.Diverged = true
	default:
		logger.ErrorKV(a.ctx, "step failed", "error", err)
	}
}

func (a *App) adjust(dir float64) {
	name := climate.ParamNames[a.ParamSel]
	r := climate.Ranges[name]
	cur, _ := a.Params.Get(name)
	p, _ := climate.PartialFor(name, r.Clamp(cur+dir*r.Step))
	a.Params = p.Apply(a.Params)
	a.loop.Queue(p)
}

func (a *App) reset() {
	a.loop.Reset()
	a.Params = a.loop.Model().Params()
	a.Diverged = false
	a.elapsed = 0
}

func (a *App) nextPreset() {
	a.preset = (a.preset + 1) % len(a.presets)
	p, _ := config.GetPreset(a.presets[a.preset])
	model := a.loop.Model()
	model.UpdateParams(climate.Full(p.Params))
	model.SetInitialTemperature(p.InitialTemperature)
	a.reset()
	logger.InfoKV(a.ctx, "preset", "name", p.Name)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	last := a.loop.Last()
	rl.BeginMode3D(a.Camera)
	DrawGlobe(globe.ViewOf(last), last.Snapshot.Forcing)
	rl.EndMode3D()

	a.DrawHUD(last)
	rl.EndDrawing()
}

func (a *App) DrawHUD(last sim.Sample) {
	tr := a.tr
	rl.DrawText("climsim", 30, 30, 24, ColSelect)

	status, col := tr.T(i18n.StatusRunning), ColSelect
	switch {
	case a.Diverged:
		status, col = tr.T(i18n.StatusDiverged), ColError
	case !a.Running:
		status, col = tr.T(i18n.StatusPaused), ColWarn
	}
	rl.DrawText(status, 30, 64, 16, col)

	snap := last.Snapshot
	y := int32(100)
	for _, line := range []string{
		fmt.Sprintf("%s  %.2f", tr.T(i18n.Temperature), snap.Temperature),
		tr.T(i18n.Equilibrium, "value", fmt.Sprintf("%.2f", a.loop.Model().Equilibrium())),
		fmt.Sprintf("%s  %.1f", tr.T(i18n.Absorbed), snap.Absorbed),
		fmt.Sprintf("%s  %.1f", tr.T(i18n.Outgoing), snap.Outgoing),
		fmt.Sprintf("%s  %+.2f", tr.T(i18n.Net), snap.Net),
	} {
		rl.DrawText(line, 30, y, 16, ColText)
		y += 22
	}

	y += 12
	for i, name := range climate.ParamNames {
		v, _ := a.Params.Get(name)
		c := ColText
		prefix := "  "
		if i == a.ParamSel {
			c, prefix = ColSelect, "> "
		}
		rl.DrawText(fmt.Sprintf("%s%s  %g", prefix, tr.T(name), v), 30, y, 16, c)
		y += 22
	}

	DrawChart(a.temps, tr.T(i18n.Temperature), rl.NewRectangle(880, 60, 370, 220))
	DrawChart(a.energy, tr.T(i18n.Energy), rl.NewRectangle(880, 340, 370, 220))

	rl.DrawText(tr.T(i18n.Help), 30, 680, 14, ColTextDim)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 1180, 30, 14, ColTextDim)
}

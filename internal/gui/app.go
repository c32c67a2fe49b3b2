package gui

import (
	"errors"
	"log"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/sim"
)

const fontPath = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"

var ErrWindowInit = errors.New("gui: window could not be created")

type App struct {
	Sim    *sim.Simulator
	Params sim.Params
	Title  string
	Font   rl.Font

	Paused       bool
	Quit         bool
	Telemetry    []float64 // energy history
	MaxTelemetry int

	last sim.RenderState
}

// initWindow opens a window sized to the session and caps the frame rate.
func initWindow(p sim.Params, title string) error {
	rl.InitWindow(int32(p.Width), int32(p.Height), title)
	if !rl.IsWindowReady() {
		return ErrWindowInit
	}
	rl.SetTargetFPS(int32(p.FrameRate))
	rl.SetExitKey(0)
	return nil
}

// loadFont loads Liberation Mono, falling back to the raylib default font.
func loadFont() rl.Font {
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	if font.Texture.ID == 0 {
		log.Printf("gui: %s not found, using default font", fontPath)
		return rl.GetFontDefault()
	}
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

func NewApp(s *sim.Simulator, title string) *App {
	return &App{
		Sim:          s,
		Params:       s.Params(),
		Title:        title,
		Font:         loadFont(),
		MaxTelemetry: 240,
		Telemetry:    make([]float64, 0, 240),
		last:         s.Render(),
	}
}

// Run opens the window and blocks until it is closed.
func Run(s *sim.Simulator, title string) error {
	if err := initWindow(s.Params(), title); err != nil {
		return err
	}
	defer rl.CloseWindow()

	app := NewApp(s, title)
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.Quit {
		a.Update()
		a.Draw()
	}
}

// sampleInput polls the mouse and keyboard for one frame.
func (a *App) sampleInput() sim.Input {
	mouse := rl.GetMousePosition()
	p := dynamo.Vec2{X: float64(mouse.X), Y: float64(mouse.Y)}

	in := sim.Input{
		Pointer: p,
		Pressed: rl.IsMouseButtonDown(rl.MouseLeftButton),
	}

	clicked := rl.IsMouseButtonPressed(rl.MouseLeftButton) && a.last.ResetHit(p)
	if rl.IsKeyPressed(rl.KeyR) || clicked {
		in.Command = sim.CommandReset
	}
	return in
}

// TogglePause flips the pause state and resyncs the simulator on resume so
// mouse travel during the pause is not read as one frame of motion.
func (a *App) TogglePause() {
	a.Paused = !a.Paused
	if !a.Paused {
		a.Sim.Resync()
	}
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.Quit = true
		return
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.TogglePause()
	}

	in := a.sampleInput()
	if a.Paused && in.Command != sim.CommandReset {
		return
	}

	a.last = a.Sim.Step(in)

	if len(a.Telemetry) >= a.MaxTelemetry {
		a.Telemetry = a.Telemetry[1:]
	}
	a.Telemetry = append(a.Telemetry, a.last.Energy)
}

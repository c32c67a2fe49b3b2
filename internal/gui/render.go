package gui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/sim"
)

var (
	ColBg      = rl.NewColor(255, 255, 255, 255)
	ColRail    = rl.NewColor(200, 200, 200, 255)
	ColSlider  = rl.NewColor(100, 200, 200, 255)
	ColInk     = rl.NewColor(0, 0, 0, 255)
	ColBob     = rl.NewColor(255, 0, 0, 255)
	ColText    = rl.NewColor(60, 60, 60, 255)
	ColTextDim = rl.NewColor(150, 150, 150, 255)
	ColButton  = rl.NewColor(220, 220, 220, 255)
)

const (
	railWidth   = 10
	railCapR    = 10
	pivotR      = 5
	bobR        = 25
	knobW       = 10
	telemetryW  = 400
	telemetryH  = 60
	hudFontSize = 16
)

func vec(p dynamo.Vec2) rl.Vector2 {
	return rl.NewVector2(float32(p.X), float32(p.Y))
}

func rect(r dynamo.Rect) rl.Rectangle {
	return rl.NewRectangle(float32(r.X), float32(r.Y), float32(r.W), float32(r.H))
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawScene(a.last)
	a.drawControls(a.last)
	a.DrawHUD()
	a.DrawTelemetry()

	rl.EndDrawing()
}

func (a *App) drawScene(rs sim.RenderState) {
	rl.DrawLineEx(vec(rs.RailStart), vec(rs.RailEnd), railWidth, ColRail)
	rl.DrawCircleV(vec(rs.RailStart), railCapR, ColRail)
	rl.DrawCircleV(vec(rs.RailEnd), railCapR, ColRail)

	rl.DrawRectangleRec(rect(rs.Slider), ColSlider)
	rl.DrawCircleV(vec(rs.Pivot), pivotR, ColInk)
	rl.DrawLineV(vec(rs.Pivot), vec(rs.Bob), ColInk)
	rl.DrawCircleV(vec(rs.Bob), bobR, ColBob)
}

func (a *App) drawControls(rs sim.RenderState) {
	if b := rs.Reset; b != nil {
		r := rect(b.Rect)
		rl.DrawRectangleRec(r, ColButton)
		rl.DrawRectangleLinesEx(r, 2, ColInk)

		size := rl.MeasureTextEx(a.Font, b.Label, hudFontSize+4, 1)
		at := rl.NewVector2(r.X+(r.Width-size.X)/2, r.Y+(r.Height-size.Y)/2)
		rl.DrawTextEx(a.Font, b.Label, at, hudFontSize+4, 1, ColInk)
	}

	if ds := rs.DampingSlider; ds != nil {
		track := rect(ds.Track)
		rl.DrawRectangleRec(track, ColRail)
		knob := rl.NewRectangle(float32(ds.Knob.X)-knobW/2, track.Y-4, knobW, track.Height+8)
		col := ColSlider
		if ds.Held {
			col = ColInk
		}
		rl.DrawRectangleRec(knob, col)
		a.drawText(fmt.Sprintf("damping %.4f", ds.Value), int(track.X+track.Width)+12, int(track.Y), hudFontSize, ColText)
	}
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) DrawHUD() {
	rs := a.last
	x := 20
	if rs.Reset != nil {
		x = int(rs.Reset.Rect.X+rs.Reset.Rect.W) + 20
	}

	a.drawText(a.Title, x, 20, hudFontSize+4, ColInk)
	a.drawText(fmt.Sprintf("%s  t=%.2fs  theta=%.1fdeg  omega=%.3f rad/s  damping=%.4f",
		rs.Mode, rs.Time, rs.Theta*180/math.Pi, rs.Omega, rs.Damping), x, 46, hudFontSize, ColText)
	a.drawText(fmt.Sprintf("pointer %.0f px/s  pivot accel %.2f m/s2", rs.PointerVel.Len(), rs.PivotAccel),
		x, 68, hudFontSize-4, ColTextDim)

	status := "RUNNING"
	if a.Paused {
		status = "PAUSED"
	}
	w := int(a.Params.Width)
	a.drawText(status, w-110, 20, hudFontSize, ColText)
	a.drawText("[SPACE] PAUSE  [R] RESET  [Q] QUIT", w-360, int(a.Params.Height)-24, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), w-110, 40, 14, ColTextDim)
}

// DrawTelemetry plots the recent energy history as a line strip.
func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX := int(a.Params.Width) - telemetryW - 130
	rectY := int(a.Params.Height) - telemetryH - 40

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(telemetryW)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+telemetryH) - float32(norm)*float32(telemetryH)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColTextDim)
	a.drawText(fmt.Sprintf("E: %.3e J", a.Telemetry[len(a.Telemetry)-1]), rectX+telemetryW+10, rectY+telemetryH-10, 14, ColText)
}

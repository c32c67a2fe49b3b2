package sim

import "github.com/san-kum/pendulab/internal/dynamo"

// Interaction geometry, in pixels.
const (
	GrabRadius   = 30.0
	SliderWidth  = 100.0
	SliderHeight = 50.0
	ResetLabel   = "Reset"
)

var (
	resetButtonRect = dynamo.Rect{X: 20, Y: 20, W: 100, H: 40}
	dampingTrackW   = 200.0
	dampingTrackH   = 20.0
)

type Mode int

const (
	ModeFree Mode = iota
	ModeDraggingBob
	ModeDraggingPivot
)

func (m Mode) String() string {
	switch m {
	case ModeDraggingBob:
		return "dragging-bob"
	case ModeDraggingPivot:
		return "dragging-pivot"
	default:
		return "free"
	}
}

type Command int

const (
	CommandNone Command = iota
	CommandReset
)

// Input is one frame of host input. Dt <= 0 selects 1/FrameRate.
type Input struct {
	Dt      float64
	Pointer dynamo.Vec2
	Pressed bool
	Command Command
}

// Params are the construction constants of a session.
type Params struct {
	Width, Height   float64
	LengthPx        float64
	LengthScale     float64 // meters per pixel
	Gravity         float64
	Damping         float64
	InitialAngleDeg float64
	RailStartX      float64
	RailEndX        float64
	RailY           float64
	FrameRate       int

	// PivotCoupling feeds the pointer's horizontal acceleration into the
	// dynamics while the pivot is dragged.
	PivotCoupling bool
	ResetButton   bool
	DampingSlider bool
	DampingMin    float64
	DampingMax    float64
}

func (p Params) Dt() float64 {
	return 1 / float64(p.FrameRate)
}

func (p Params) LengthMeters() float64 {
	return p.LengthPx * p.LengthScale
}

func (p Params) withDefaults() Params {
	if p.FrameRate <= 0 {
		p.FrameRate = 60
	}
	if p.Damping <= 0 || p.Damping > 1 {
		p.Damping = 1
	}
	if p.RailEndX < p.RailStartX {
		p.RailStartX, p.RailEndX = p.RailEndX, p.RailStartX
	}
	if p.DampingSlider && p.DampingMax <= p.DampingMin {
		p.DampingSlider = false
	}
	return p
}

// PendulumState is the mutable physical state.
type PendulumState struct {
	Theta   float64
	Omega   float64
	Pivot   dynamo.Vec2
	Damping float64
}

type Button struct {
	Rect  dynamo.Rect
	Label string
}

type DampingSlider struct {
	Track    dynamo.Rect
	Knob     dynamo.Vec2
	Value    float64
	Min, Max float64
	Held     bool
}

// RenderState is everything a host needs to draw one frame.
type RenderState struct {
	Pivot     dynamo.Vec2
	Bob       dynamo.Vec2
	RailStart dynamo.Vec2
	RailEnd   dynamo.Vec2
	Slider    dynamo.Rect

	Reset         *Button
	DampingSlider *DampingSlider

	Mode    Mode
	Theta   float64
	Omega   float64
	Damping float64
	Energy  float64
	Time    float64
	Frame   int

	// PointerVel is the raw frame-to-frame pointer velocity in px/s.
	PointerVel dynamo.Vec2
	// PivotAccel is the coupling input in m/s², zero unless the pivot is
	// being dragged with coupling enabled.
	PivotAccel float64
}

type Observer interface {
	OnStep(rs RenderState)
}

// ResetHit reports whether p lies on the reset button, if there is one.
func (rs RenderState) ResetHit(p dynamo.Vec2) bool {
	return rs.Reset != nil && rs.Reset.Rect.Contains(p)
}

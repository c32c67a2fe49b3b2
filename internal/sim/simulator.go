package sim

import (
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/integrators"
	"github.com/san-kum/pendulab/internal/physics"
)

// Simulator is the interactive pendulum. It is advanced once per frame by a
// host through Step and is not safe for concurrent use.
type Simulator struct {
	params     Params
	dyn        *physics.Pendulum
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
	observers  []Observer

	state   PendulumState
	initial PendulumState
	mode    Mode

	knobHeld   bool
	grabOffset dynamo.Vec2
	pointer    PointerSample
	pivotKin   PointerSample
	pivotAccel float64

	time  float64
	frame int
}

// New builds a simulator at its initial conditions. A nil integrator selects
// semi-implicit Euler.
func New(p Params, integrator dynamo.Integrator) *Simulator {
	p = p.withDefaults()
	if integrator == nil {
		integrator = integrators.NewSymplecticEuler()
	}

	dyn := physics.NewPendulum()
	dyn.Length = p.LengthMeters()
	dyn.Gravity = p.Gravity

	initial := PendulumState{
		Theta:   p.InitialAngleDeg * math.Pi / 180,
		Pivot:   dynamo.Vec2{X: p.Width / 2, Y: p.RailY},
		Damping: p.Damping,
	}
	initial.Pivot.X = dynamo.Clamp(initial.Pivot.X, p.RailStartX, p.RailEndX)

	return &Simulator{
		params:     p,
		dyn:        dyn,
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]Observer, 0),
		state:      initial,
		initial:    initial,
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric) { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)    { s.observers = append(s.observers, o) }

func (s *Simulator) Params() Params                { return s.params }
func (s *Simulator) State() PendulumState          { return s.state }
func (s *Simulator) Mode() Mode                    { return s.mode }
func (s *Simulator) Dynamics() *physics.Pendulum   { return s.dyn }
func (s *Simulator) Integrator() dynamo.Integrator { return s.integrator }
func (s *Simulator) Time() float64                 { return s.time }

// Metrics returns the current value of every attached metric.
func (s *Simulator) Metrics() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

// Reset restores the initial state and drops any drag in progress.
func (s *Simulator) Reset() {
	s.state = s.initial
	s.mode = ModeFree
	s.knobHeld = false
	s.grabOffset = dynamo.Vec2{}
	s.pivotAccel = 0
	s.pivotKin = PointerSample{}
}

// Resync forgets pointer and pivot history so the next Step measures motion
// from that frame on. Hosts call it when resuming from pause, since frames
// skipped while paused would otherwise read as one large jump.
func (s *Simulator) Resync() {
	s.pointer = PointerSample{}
	s.pivotKin = PointerSample{}
	s.pivotAccel = 0
}

// Step advances one frame and returns what to draw.
func (s *Simulator) Step(in Input) RenderState {
	dt := in.Dt
	if dt <= 0 {
		dt = s.params.Dt()
	}

	s.pointer.Sample(in.Pointer, dt)

	if in.Command == CommandReset {
		s.Reset()
		return s.finish(dt, false)
	}

	if !in.Pressed {
		s.release()
	} else if s.mode == ModeFree && !s.knobHeld {
		s.grab(in.Pointer)
	}

	if s.mode == ModeDraggingPivot {
		s.dragPivot(in.Pointer)
	}
	// Coupling follows the clamped pivot, not the pointer: a pivot held at
	// a rail end feels no acceleration however the pointer moves.
	s.pivotKin.Sample(s.state.Pivot, dt)

	s.pivotAccel = 0
	switch s.mode {
	case ModeDraggingBob:
		s.dragBob(in.Pointer)
	case ModeDraggingPivot:
		if s.params.PivotCoupling {
			s.pivotAccel = s.pivotKin.Accel.X * s.params.LengthScale
		}
		s.integrate(s.pivotAccel, dt)
	default:
		s.integrate(0, dt)
	}

	if s.knobHeld {
		s.dragKnob(in.Pointer)
	}

	return s.finish(dt, true)
}

func (s *Simulator) finish(dt float64, observe bool) RenderState {
	s.time += dt
	s.frame++

	if observe {
		x := dynamo.State{s.state.Theta, s.state.Omega}
		u := dynamo.Control{s.pivotAccel}
		for _, m := range s.metrics {
			m.Observe(x, u, s.time)
		}
	}

	rs := s.Render()
	for _, o := range s.observers {
		o.OnStep(rs)
	}
	return rs
}

func (s *Simulator) release() {
	s.mode = ModeFree
	s.knobHeld = false
}

func (s *Simulator) grab(p dynamo.Vec2) {
	bob := BobPosition(s.state.Pivot, s.params.LengthPx, s.state.Theta)

	switch {
	case p.Dist(bob) < GrabRadius:
		s.mode = ModeDraggingBob
		s.grabOffset = p.Sub(bob)
		s.state.Omega = 0
	case s.sliderRect().ContainsStrict(p):
		s.mode = ModeDraggingPivot
		s.grabOffset = dynamo.Vec2{X: p.X - s.state.Pivot.X}
	case s.params.DampingSlider && s.dampingTrack().Contains(p):
		s.knobHeld = true
	}
}

// dragBob is kinematic: the rod follows the pointer and velocity is discarded.
func (s *Simulator) dragBob(p dynamo.Vec2) {
	target := p.Sub(s.grabOffset).Sub(s.state.Pivot)
	s.state.Theta = math.Atan2(target.X, target.Y)
	s.state.Omega = 0
}

func (s *Simulator) dragPivot(p dynamo.Vec2) {
	x := dynamo.Clamp(p.X-s.grabOffset.X, s.params.RailStartX, s.params.RailEndX)
	s.state.Pivot = dynamo.Vec2{X: x, Y: s.params.RailY}
}

func (s *Simulator) dragKnob(p dynamo.Vec2) {
	track := s.dampingTrack()
	lo, hi := s.params.DampingMin, s.params.DampingMax
	v := lo + (p.X-track.X)/track.W*(hi-lo)
	s.state.Damping = dynamo.Clamp(v, lo, hi)
}

func (s *Simulator) integrate(pivotAccel, dt float64) {
	x := dynamo.State{s.state.Theta, s.state.Omega}
	x = s.integrator.Step(s.dyn, x, dynamo.Control{pivotAccel}, s.time, dt, s.state.Damping)
	s.state.Theta, s.state.Omega = x[0], x[1]
}

func (s *Simulator) sliderRect() dynamo.Rect {
	return dynamo.RectAround(s.state.Pivot, SliderWidth, SliderHeight)
}

func (s *Simulator) dampingTrack() dynamo.Rect {
	return dynamo.Rect{X: 20, Y: s.params.Height - 60, W: dampingTrackW, H: dampingTrackH}
}

// Render derives the current render state without advancing the simulation.
func (s *Simulator) Render() RenderState {
	p := s.params
	rs := RenderState{
		Pivot:      s.state.Pivot,
		Bob:        BobPosition(s.state.Pivot, p.LengthPx, s.state.Theta),
		RailStart:  dynamo.Vec2{X: p.RailStartX, Y: p.RailY},
		RailEnd:    dynamo.Vec2{X: p.RailEndX, Y: p.RailY},
		Slider:     s.sliderRect(),
		Mode:       s.mode,
		Theta:      s.state.Theta,
		Omega:      s.state.Omega,
		Damping:    s.state.Damping,
		Energy:     s.dyn.Energy(dynamo.State{s.state.Theta, s.state.Omega}),
		PointerVel: s.pointer.Vel,
		PivotAccel: s.pivotAccel,
		Time:       s.time,
		Frame:      s.frame,
	}

	if p.ResetButton {
		rs.Reset = &Button{Rect: resetButtonRect, Label: ResetLabel}
	}

	if p.DampingSlider {
		track := s.dampingTrack()
		frac := (s.state.Damping - p.DampingMin) / (p.DampingMax - p.DampingMin)
		frac = dynamo.Clamp(frac, 0, 1)
		rs.DampingSlider = &DampingSlider{
			Track: track,
			Knob:  dynamo.Vec2{X: track.X + frac*track.W, Y: track.Y + track.H/2},
			Value: s.state.Damping,
			Min:   p.DampingMin,
			Max:   p.DampingMax,
			Held:  s.knobHeld,
		}
	}

	return rs
}

// BobPosition returns pivot + length·(sin θ, cos θ).
func BobPosition(pivot dynamo.Vec2, length, theta float64) dynamo.Vec2 {
	return dynamo.Vec2{
		X: pivot.X + length*math.Sin(theta),
		Y: pivot.Y + length*math.Cos(theta),
	}
}

package sim

import (
	"math"
	"testing"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// railParams mirrors the rail preset: pivot high on a rail, 45° release.
func railParams() Params {
	return Params{
		Width:           1000,
		Height:          600,
		LengthPx:        400,
		LengthScale:     0.0025,
		Gravity:         9.81,
		Damping:         0.999,
		InitialAngleDeg: 45,
		RailStartX:      100,
		RailEndX:        900,
		RailY:           100,
		FrameRate:       60,
	}
}

// labParams mirrors the lab preset: pivot at screen centre, all controls on.
func labParams() Params {
	return Params{
		Width:         1000,
		Height:        1000,
		LengthPx:      400,
		LengthScale:   0.01,
		Gravity:       9.81,
		Damping:       0.999,
		RailStartX:    100,
		RailEndX:      900,
		RailY:         500,
		FrameRate:     60,
		PivotCoupling: true,
		ResetButton:   true,
		DampingSlider: true,
		DampingMin:    0.9,
		DampingMax:    1.0,
	}
}

var away = Input{Pointer: dynamo.Vec2{X: -1000, Y: -1000}}

func TestBobPosition(t *testing.T) {
	pivot := dynamo.Vec2{X: 500, Y: 100}

	tests := []struct {
		theta float64
		want  dynamo.Vec2
	}{
		{0, dynamo.Vec2{X: 500, Y: 500}},
		{math.Pi / 2, dynamo.Vec2{X: 900, Y: 100}},
		{-math.Pi / 2, dynamo.Vec2{X: 100, Y: 100}},
		{math.Pi, dynamo.Vec2{X: 500, Y: -300}},
	}

	for _, tt := range tests {
		got := BobPosition(pivot, 400, tt.theta)
		if got.Dist(tt.want) > 1e-9 {
			t.Errorf("theta %.3f: expected %v, got %v", tt.theta, tt.want, got)
		}
		if again := BobPosition(pivot, 400, tt.theta); again != got {
			t.Errorf("theta %.3f: not deterministic: %v vs %v", tt.theta, got, again)
		}
	}
}

func TestEquilibriumFixedPoint(t *testing.T) {
	s := New(labParams(), nil)

	for i := 0; i < 5000; i++ {
		s.Step(away)
	}

	st := s.State()
	if st.Theta != 0 || st.Omega != 0 {
		t.Errorf("expected fixed point, got theta=%g omega=%g", st.Theta, st.Omega)
	}
}

func TestFirstStepRegression(t *testing.T) {
	p := labParams()
	p.InitialAngleDeg = 45
	s := New(p, nil)

	s.Step(away)

	st := s.State()
	if math.Abs(st.Omega-(-0.028874086691319127)) > 1e-12 {
		t.Errorf("omega = %.17g", st.Omega)
	}
	if math.Abs(st.Theta-0.7849169286192597) > 1e-12 {
		t.Errorf("theta = %.17g", st.Theta)
	}
}

func TestUndampedEnergyBounded(t *testing.T) {
	for _, p := range []Params{railParams(), labParams()} {
		p.Damping = 1
		p.InitialAngleDeg = 45
		s := New(p, nil)

		e0 := s.Render().Energy
		for i := 0; i < 10000; i++ {
			rs := s.Step(away)
			if drift := math.Abs(rs.Energy-e0) / e0; drift > 0.05 {
				t.Fatalf("L=%.2fm step %d: energy drift %.4f", p.LengthMeters(), i, drift)
			}
		}
	}
}

func TestDampingDecay(t *testing.T) {
	p := railParams()
	s := New(p, nil)

	for i := 0; i < 100; i++ {
		s.Step(away)
	}
	early := math.Abs(s.State().Omega)

	for i := 100; i < 10000; i++ {
		s.Step(away)
	}
	late := math.Abs(s.State().Omega)

	if late >= early {
		t.Errorf("expected decay: |omega| %.6f after 10000 steps, %.6f after 100", late, early)
	}
}

func TestPivotClampedToRail(t *testing.T) {
	s := New(labParams(), nil)
	grab := dynamo.Vec2{X: 500, Y: 500}

	s.Step(Input{Pointer: grab, Pressed: true})
	if s.Mode() != ModeDraggingPivot {
		t.Fatalf("expected dragging-pivot, got %s", s.Mode())
	}

	tests := []struct {
		x, want float64
	}{
		{-200, 100},
		{99.5, 100},
		{640, 640},
		{900.25, 900},
		{5000, 900},
	}

	for _, tt := range tests {
		rs := s.Step(Input{Pointer: dynamo.Vec2{X: tt.x, Y: 500}, Pressed: true})
		if rs.Pivot.X != tt.want {
			t.Errorf("pointer x %.2f: expected pivot %.2f, got %.2f", tt.x, tt.want, rs.Pivot.X)
		}
		if rs.Pivot.Y != 500 {
			t.Errorf("pivot y moved to %.2f", rs.Pivot.Y)
		}
	}
}

func TestPivotCoupling(t *testing.T) {
	p := labParams()
	s := New(p, nil)

	s.Step(Input{Pointer: dynamo.Vec2{X: 500, Y: 500}, Pressed: true})
	s.Step(Input{Pointer: dynamo.Vec2{X: 510, Y: 500}, Pressed: true})

	// a = 10px * 60 * 60 = 36000 px/s² -> 360 m/s²; alpha = -360/4
	want := -90.0 / 60 * 0.999
	if got := s.State().Omega; math.Abs(got-want) > 1e-6 {
		t.Errorf("expected omega %.6f, got %.6f", want, got)
	}

	p.PivotCoupling = false
	s = New(p, nil)
	s.Step(Input{Pointer: dynamo.Vec2{X: 500, Y: 500}, Pressed: true})
	s.Step(Input{Pointer: dynamo.Vec2{X: 510, Y: 500}, Pressed: true})
	if got := s.State().Omega; got != 0 {
		t.Errorf("expected no coupling, got omega %.6f", got)
	}
}

func TestClampedPivotFeelsNoCoupling(t *testing.T) {
	p := labParams()
	p.Width = 1800 // pivot starts on the right rail end
	s := New(p, nil)

	s.Step(Input{Pointer: dynamo.Vec2{X: 900, Y: 500}, Pressed: true})
	if s.Mode() != ModeDraggingPivot {
		t.Fatalf("expected pivot drag, got %s", s.Mode())
	}

	for _, x := range []float64{2000, 2010, 1990, 2600, 2000} {
		rs := s.Step(Input{Pointer: dynamo.Vec2{X: x, Y: 500}, Pressed: true})
		if rs.Pivot.X != 900 {
			t.Fatalf("pointer x %.0f: expected pivot held at 900, got %.2f", x, rs.Pivot.X)
		}
		if rs.PivotAccel != 0 {
			t.Errorf("pointer x %.0f: expected no pivot acceleration, got %.4f", x, rs.PivotAccel)
		}
		if rs.Omega != 0 {
			t.Errorf("pointer x %.0f: expected omega 0, got %.6f", x, rs.Omega)
		}
	}
}

func TestResyncDropsSkippedMotion(t *testing.T) {
	s := New(labParams(), nil)

	s.Step(Input{Pointer: dynamo.Vec2{X: 500, Y: 500}, Pressed: true})
	s.Step(Input{Pointer: dynamo.Vec2{X: 500, Y: 500}, Pressed: true})

	// The host stopped stepping while the pointer travelled 150px.
	s.Resync()
	rs := s.Step(Input{Pointer: dynamo.Vec2{X: 650, Y: 500}, Pressed: true})
	if rs.Pivot.X != 650 {
		t.Fatalf("expected pivot to follow to 650, got %.2f", rs.Pivot.X)
	}
	if rs.PivotAccel != 0 || rs.Omega != 0 {
		t.Errorf("expected a quiet first frame, got accel %.4f omega %.6f", rs.PivotAccel, rs.Omega)
	}

	// 10px in one frame from rest: 36000 px/s² -> 360 m/s²
	rs = s.Step(Input{Pointer: dynamo.Vec2{X: 660, Y: 500}, Pressed: true})
	if math.Abs(rs.PivotAccel-360) > 1e-6 {
		t.Errorf("expected pivot acceleration 360, got %.6f", rs.PivotAccel)
	}
	if math.Abs(rs.PointerVel.X-600) > 1e-6 {
		t.Errorf("expected pointer velocity 600 px/s, got %.6f", rs.PointerVel.X)
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	s := New(labParams(), nil)

	s.Step(Input{Pointer: dynamo.Vec2{X: 500, Y: 500}, Pressed: true})
	for x := 510.0; x < 800; x += 15 {
		s.Step(Input{Pointer: dynamo.Vec2{X: x, Y: 500}, Pressed: true})
	}
	s.Step(Input{Pointer: dynamo.Vec2{X: 120, Y: 950}, Pressed: false})
	if s.State().Omega == 0 {
		t.Fatal("expected a disturbed pendulum before reset")
	}

	rs := s.Step(Input{Pointer: dynamo.Vec2{X: 700, Y: 500}, Pressed: true, Command: CommandReset})

	st := s.State()
	if st.Theta != 0 || st.Omega != 0 {
		t.Errorf("expected theta=0 omega=0, got %g %g", st.Theta, st.Omega)
	}
	if st.Pivot != (dynamo.Vec2{X: 500, Y: 500}) {
		t.Errorf("expected pivot at centre, got %v", st.Pivot)
	}
	if st.Damping != 0.999 {
		t.Errorf("expected damping restored, got %g", st.Damping)
	}
	if rs.Mode != ModeFree || s.Mode() != ModeFree {
		t.Errorf("expected free mode after reset, got %s", s.Mode())
	}
}

func TestDampingKnob(t *testing.T) {
	s := New(labParams(), nil)

	rs := s.Step(Input{Pointer: dynamo.Vec2{X: 120, Y: 950}, Pressed: true})
	if math.Abs(rs.Damping-0.95) > 1e-12 {
		t.Errorf("expected damping 0.95, got %g", rs.Damping)
	}
	if rs.DampingSlider == nil || !rs.DampingSlider.Held {
		t.Fatal("expected held damping slider")
	}
	if math.Abs(rs.DampingSlider.Knob.X-120) > 1e-9 {
		t.Errorf("expected knob at x=120, got %g", rs.DampingSlider.Knob.X)
	}

	rs = s.Step(Input{Pointer: dynamo.Vec2{X: 2000, Y: 950}, Pressed: true})
	if rs.Damping != 1.0 {
		t.Errorf("expected damping clamped to 1, got %g", rs.Damping)
	}

	rs = s.Step(Input{Pointer: dynamo.Vec2{X: -50, Y: 950}, Pressed: true})
	if rs.Damping != 0.9 {
		t.Errorf("expected damping clamped to 0.9, got %g", rs.Damping)
	}

	// Sweeping across the bob while the knob is held must not grab it.
	s.Step(Input{Pointer: rs.Bob, Pressed: true})
	if s.Mode() != ModeFree {
		t.Errorf("expected free mode while knob held, got %s", s.Mode())
	}

	rs = s.Step(Input{Pointer: rs.Bob, Pressed: false})
	if rs.DampingSlider.Held {
		t.Error("expected knob released")
	}
}

func TestRenderStateOptionalControls(t *testing.T) {
	rs := New(railParams(), nil).Render()
	if rs.Reset != nil || rs.DampingSlider != nil {
		t.Error("rail preset has no reset button or damping slider")
	}
	if rs.Slider != (dynamo.Rect{X: 450, Y: 75, W: 100, H: 50}) {
		t.Errorf("unexpected slider rect %v", rs.Slider)
	}
	if rs.RailStart != (dynamo.Vec2{X: 100, Y: 100}) || rs.RailEnd != (dynamo.Vec2{X: 900, Y: 100}) {
		t.Errorf("unexpected rail %v %v", rs.RailStart, rs.RailEnd)
	}

	rs = New(labParams(), nil).Render()
	if rs.Reset == nil || rs.Reset.Label != ResetLabel {
		t.Error("lab preset should expose the reset button")
	}
	if rs.DampingSlider == nil || rs.DampingSlider.Min != 0.9 || rs.DampingSlider.Max != 1.0 {
		t.Error("lab preset should expose the damping slider")
	}
}

type countingMetric struct{ n int }

func (c *countingMetric) Name() string { return "count" }

func (c *countingMetric) Observe(x dynamo.State, u dynamo.Control, t float64) {
	c.n++
}

func (c *countingMetric) Value() float64 { return float64(c.n) }

func (c *countingMetric) Reset() { c.n = 0 }

type frameRecorder struct{ frames []RenderState }

func (f *frameRecorder) OnStep(rs RenderState) { f.frames = append(f.frames, rs) }

func TestMetricsAndObservers(t *testing.T) {
	s := New(labParams(), nil)
	m := &countingMetric{}
	rec := &frameRecorder{}
	s.AddMetric(m)
	s.AddObserver(rec)

	for i := 0; i < 10; i++ {
		s.Step(away)
	}
	s.Step(Input{Command: CommandReset})

	if m.n != 10 {
		t.Errorf("expected 10 metric observations, got %d", m.n)
	}
	if len(rec.frames) != 11 {
		t.Fatalf("expected 11 observed frames, got %d", len(rec.frames))
	}
	if rec.frames[10].Frame != 11 {
		t.Errorf("expected frame counter 11, got %d", rec.frames[10].Frame)
	}
	if got := s.Metrics()["count"]; got != 10 {
		t.Errorf("expected metric value 10, got %g", got)
	}
}

func TestDefaultDt(t *testing.T) {
	s := New(Params{LengthPx: 100, LengthScale: 0.01, Gravity: 9.81, RailEndX: 100}, nil)
	s.Step(away)
	if math.Abs(s.Time()-1.0/60) > 1e-15 {
		t.Errorf("expected dt 1/60, got %g", s.Time())
	}

	s.Step(Input{Dt: 0.5})
	if math.Abs(s.Time()-(1.0/60+0.5)) > 1e-15 {
		t.Errorf("expected explicit dt honoured, got %g", s.Time())
	}
}

func TestPointerSample(t *testing.T) {
	var p PointerSample
	dt := 0.5

	p.Sample(dynamo.Vec2{X: 10, Y: 10}, dt)
	if p.Vel != (dynamo.Vec2{}) || p.Accel != (dynamo.Vec2{}) {
		t.Errorf("first sample should be at rest, got vel %v accel %v", p.Vel, p.Accel)
	}

	p.Sample(dynamo.Vec2{X: 12, Y: 10}, dt)
	if p.Vel != (dynamo.Vec2{X: 4}) || p.Accel != (dynamo.Vec2{X: 8}) {
		t.Errorf("unexpected kinematics vel %v accel %v", p.Vel, p.Accel)
	}

	p.Sample(dynamo.Vec2{X: 12, Y: 10}, dt)
	if p.Vel != (dynamo.Vec2{}) || p.Accel != (dynamo.Vec2{X: -8}) {
		t.Errorf("unexpected kinematics vel %v accel %v", p.Vel, p.Accel)
	}
}

func TestResetHit(t *testing.T) {
	lab := New(labParams(), nil).Render()
	if !lab.ResetHit(dynamo.Vec2{X: 50, Y: 40}) {
		t.Error("expected hit inside the reset button")
	}
	if lab.ResetHit(dynamo.Vec2{X: 500, Y: 40}) {
		t.Error("unexpected hit outside the reset button")
	}

	rail := New(railParams(), nil).Render()
	if rail.ResetHit(dynamo.Vec2{X: 50, Y: 40}) {
		t.Error("rail preset has no reset button")
	}
}

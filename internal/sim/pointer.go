package sim

import "github.com/san-kum/pendulab/internal/dynamo"

// PointerSample holds finite-difference pointer kinematics over one frame.
// The estimates are unfiltered and follow every bit of frame jitter.
type PointerSample struct {
	Pos     dynamo.Vec2
	Prev    dynamo.Vec2
	Vel     dynamo.Vec2
	PrevVel dynamo.Vec2
	Accel   dynamo.Vec2
	primed  bool
}

// Sample records pos as the current position. The first sample has zero
// displacement.
func (p *PointerSample) Sample(pos dynamo.Vec2, dt float64) {
	if p.primed {
		p.Prev = p.Pos
	} else {
		p.Prev = pos
		p.primed = true
	}
	p.Pos = pos

	p.PrevVel = p.Vel
	p.Vel = p.Pos.Sub(p.Prev).Scale(1 / dt)
	p.Accel = p.Vel.Sub(p.PrevVel).Scale(1 / dt)
}

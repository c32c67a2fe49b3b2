package dynamo

import "math"

// Vec2 is a point or displacement in screen pixels; y grows downward.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(w Vec2) Vec2      { return Vec2{v.X + w.X, v.Y + w.Y} }
func (v Vec2) Sub(w Vec2) Vec2      { return Vec2{v.X - w.X, v.Y - w.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Len() float64         { return math.Hypot(v.X, v.Y) }

// Dist returns the euclidean distance between v and w.
func (v Vec2) Dist(w Vec2) float64 {
	return math.Hypot(v.X-w.X, v.Y-w.Y)
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// RectAround returns a w×h rectangle centred on c.
func RectAround(c Vec2, w, h float64) Rect {
	return Rect{X: c.X - w/2, Y: c.Y - h/2, W: w, H: h}
}

// ContainsStrict reports whether p lies in the open interior of r.
func (r Rect) ContainsStrict(p Vec2) bool {
	return p.X > r.X && p.X < r.X+r.W && p.Y > r.Y && p.Y < r.Y+r.H
}

// Contains reports whether p lies inside r or on its edge.
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}

// Package analysis inspects recorded pendulum traces.
//
//   - [DominantPeriod]: spectral period estimate of a theta trace
//   - [SmallAnglePeriod]: the linearised reference period 2π√(L/g)
//   - [NewPhasePortrait]: (theta, omega) points of a trace
//   - [ZeroCrossings]: positive-going crossings of theta through zero
//
// A free swing started at a small angle should report a dominant period close
// to the small-angle period:
//
//	got := analysis.DominantPeriod(result.Thetas(), result.Dt)
//	want := analysis.SmallAnglePeriod(1.0, 9.81)
package analysis

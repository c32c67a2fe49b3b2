package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the one-sided magnitude spectrum of data.
func PowerSpectrum(data []float64) []float64 {
	spectrum := fft.FFTReal(data)
	ps := make([]float64, len(spectrum)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}

	return ps
}

// DominantPeriod estimates the period of the strongest oscillation in samples
// taken every dt seconds. The trace is mean-removed and truncated to a power of
// two. It returns 0 when the trace is too short or carries no oscillation.
func DominantPeriod(samples []float64, dt float64) float64 {
	n := 1
	for n*2 <= len(samples) {
		n *= 2
	}
	if n < 4 || dt <= 0 {
		return 0
	}

	trace := make([]float64, n)
	mean := 0.0
	for _, v := range samples[:n] {
		mean += v
	}
	mean /= float64(n)
	for i, v := range samples[:n] {
		trace[i] = v - mean
	}

	ps := PowerSpectrum(trace)
	peak := 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if peak == 0 || ps[peak] == 0 {
		return 0
	}

	freq := float64(peak) / (float64(n) * dt)
	return 1 / freq
}

// SmallAnglePeriod is 2π√(L/g).
func SmallAnglePeriod(length, gravity float64) float64 {
	if length <= 0 || gravity <= 0 {
		return 0
	}
	return 2 * math.Pi * math.Sqrt(length/gravity)
}

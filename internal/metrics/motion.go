package metrics

import (
	"math"

	"github.com/san-kum/pendulab/internal/dynamo"
)

// PeakOmega tracks the largest |omega| seen.
type PeakOmega struct {
	peak float64
}

func NewPeakOmega() *PeakOmega {
	return &PeakOmega{}
}

func (p *PeakOmega) Name() string { return "peak_omega" }

func (p *PeakOmega) Observe(x dynamo.State, u dynamo.Control, t float64) {
	if len(x) < 2 {
		return
	}
	p.peak = math.Max(p.peak, math.Abs(x[1]))
}

func (p *PeakOmega) Value() float64 { return p.peak }

func (p *PeakOmega) Reset() { p.peak = 0 }

// PivotEffort is the mean |pivot acceleration| fed into the dynamics, in m/s².
type PivotEffort struct {
	sum     float64
	samples int
}

func NewPivotEffort() *PivotEffort {
	return &PivotEffort{}
}

func (c *PivotEffort) Name() string { return "pivot_effort" }

func (c *PivotEffort) Observe(x dynamo.State, u dynamo.Control, t float64) {
	for _, val := range u {
		c.sum += math.Abs(val)
	}
	c.samples++
}

func (c *PivotEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *PivotEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

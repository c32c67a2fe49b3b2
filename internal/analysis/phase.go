package analysis

import (
	"strings"

	"github.com/san-kum/pendulab/internal/sim"
)

// Point is one (theta, omega) sample.
type Point struct{ X, Y float64 }

// PhasePortrait holds the phase-space trajectory of a trace
type PhasePortrait struct {
	Points []Point
}

// NewPhasePortrait collects (theta, omega) from recorded frames.
func NewPhasePortrait(frames []sim.RenderState) *PhasePortrait {
	portrait := &PhasePortrait{Points: make([]Point, 0, len(frames))}
	for _, f := range frames {
		portrait.Points = append(portrait.Points, Point{X: f.Theta, Y: f.Omega})
	}
	return portrait
}

// ZeroCrossings returns the times at which theta crosses zero going positive,
// linearly interpolated between frames.
func ZeroCrossings(frames []sim.RenderState) []float64 {
	var times []float64
	for i := 1; i < len(frames); i++ {
		prev, curr := frames[i-1], frames[i]
		if prev.Theta < 0 && curr.Theta >= 0 {
			frac := -prev.Theta / (curr.Theta - prev.Theta)
			times = append(times, prev.Time+frac*(curr.Time-prev.Time))
		}
	}
	return times
}

// CrossingPeriod averages the spacing of zero crossings. It returns 0 with
// fewer than two crossings.
func CrossingPeriod(frames []sim.RenderState) float64 {
	times := ZeroCrossings(frames)
	if len(times) < 2 {
		return 0
	}
	return (times[len(times)-1] - times[0]) / float64(len(times)-1)
}

// ToASCII renders the portrait on a width×height character grid
func (p *PhasePortrait) ToASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := p.Points[0].X, p.Points[0].X
	minY, maxY := p.Points[0].Y, p.Points[0].Y

	for _, pt := range p.Points {
		minX = min(minX, pt.X)
		maxX = max(maxX, pt.X)
		minY = min(minY, pt.Y)
		maxY = max(maxY, pt.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, pt := range p.Points {
		col := int((pt.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((pt.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// axes
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

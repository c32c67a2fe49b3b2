package sim_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pendulab/internal/dynamo"
	"github.com/san-kum/pendulab/internal/sim"
)

func press(x, y float64) sim.Input {
	return sim.Input{Pointer: dynamo.Vec2{X: x, Y: y}, Pressed: true}
}

func hover(x, y float64) sim.Input {
	return sim.Input{Pointer: dynamo.Vec2{X: x, Y: y}}
}

var _ = Describe("Simulator interaction", func() {
	var s *sim.Simulator

	BeforeEach(func() {
		s = sim.New(sim.Params{
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
		}, nil)
	})

	It("starts free at the initial angle", func() {
		Expect(s.Mode()).To(Equal(sim.ModeFree))
		Expect(s.State().Theta).To(BeNumerically("~", math.Pi/4, 1e-15))
		Expect(s.State().Pivot).To(Equal(dynamo.Vec2{X: 500, Y: 100}))
	})

	It("stays free when pressing empty space", func() {
		s.Step(press(950, 550))
		Expect(s.Mode()).To(Equal(sim.ModeFree))
		Expect(s.State().Omega).NotTo(BeZero())
	})

	Context("grabbing the bob", func() {
		var offset dynamo.Vec2

		BeforeEach(func() {
			for i := 0; i < 10; i++ {
				s.Step(hover(-100, -100))
			}
			Expect(s.State().Omega).NotTo(BeZero())

			bob := s.Render().Bob
			offset = dynamo.Vec2{X: 5, Y: 5}
			s.Step(press(bob.X+offset.X, bob.Y+offset.Y))
		})

		It("zeroes omega and enters dragging-bob", func() {
			Expect(s.Mode()).To(Equal(sim.ModeDraggingBob))
			Expect(s.State().Omega).To(Equal(0.0))
		})

		It("points the rod at the pointer minus the grab offset", func() {
			rs := s.Step(press(500+offset.X, 500+offset.Y))
			Expect(rs.Theta).To(BeNumerically("~", 0, 1e-12))
			Expect(rs.Bob.Dist(dynamo.Vec2{X: 500, Y: 500})).To(BeNumerically("<", 1e-9))

			rs = s.Step(press(900+offset.X, 100+offset.Y))
			Expect(rs.Theta).To(BeNumerically("~", math.Pi/2, 1e-12))
			Expect(rs.Omega).To(Equal(0.0))
		})

		It("ignores the pivot slider while held", func() {
			s.Step(press(500, 100))
			Expect(s.Mode()).To(Equal(sim.ModeDraggingBob))
			Expect(s.State().Pivot.X).To(Equal(500.0))
		})

		It("returns to free on the next unpressed step and swings back", func() {
			s.Step(press(900+offset.X, 100+offset.Y))

			rs := s.Step(hover(900+offset.X, 100+offset.Y))
			Expect(rs.Mode).To(Equal(sim.ModeFree))
			Expect(rs.Omega).To(BeNumerically("<", 0))
		})
	})

	Context("dragging the pivot", func() {
		BeforeEach(func() {
			s.Step(press(510, 100))
		})

		It("enters dragging-pivot from inside the slider", func() {
			Expect(s.Mode()).To(Equal(sim.ModeDraggingPivot))
		})

		It("keeps the grab offset and the rail height", func() {
			rs := s.Step(press(610, 140))
			Expect(rs.Pivot).To(Equal(dynamo.Vec2{X: 600, Y: 100}))
			Expect(rs.Slider).To(Equal(dynamo.Rect{X: 550, Y: 75, W: 100, H: 50}))
		})

		It("keeps integrating while the pivot moves", func() {
			before := s.State().Theta
			s.Step(press(520, 100))
			Expect(s.State().Theta).NotTo(Equal(before))
		})

		It("never switches to the bob while held", func() {
			bob := s.Render().Bob
			s.Step(press(bob.X, bob.Y))
			Expect(s.Mode()).To(Equal(sim.ModeDraggingPivot))
		})

		It("releases on the first unpressed step", func() {
			s.Step(hover(520, 100))
			Expect(s.Mode()).To(Equal(sim.ModeFree))
		})
	})

	Context("reset", func() {
		It("restores the canonical free state from any mode", func() {
			s.Step(press(510, 100))
			s.Step(press(700, 100))
			Expect(s.Mode()).To(Equal(sim.ModeDraggingPivot))

			rs := s.Step(sim.Input{Pointer: dynamo.Vec2{X: 700, Y: 100}, Pressed: true, Command: sim.CommandReset})
			Expect(rs.Mode).To(Equal(sim.ModeFree))
			Expect(rs.Pivot).To(Equal(dynamo.Vec2{X: 500, Y: 100}))
			Expect(rs.Theta).To(BeNumerically("~", math.Pi/4, 1e-15))
			Expect(rs.Omega).To(Equal(0.0))
		})

		It("re-enters a drag on the following pressed step", func() {
			s.Step(press(510, 100))
			s.Step(sim.Input{Pointer: dynamo.Vec2{X: 510, Y: 100}, Pressed: true, Command: sim.CommandReset})
			s.Step(press(510, 100))
			Expect(s.Mode()).To(Equal(sim.ModeDraggingPivot))
		})
	})
})

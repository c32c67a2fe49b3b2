// Package viz is the terminal host for the pendulum.
//
// It runs a Bubble Tea program that drives a [sim.Simulator] with mouse
// events, drawing each render state on a braille [Canvas]. Terminal cells are
// mapped onto world pixels so the bob and pivot slider can be grabbed with the
// mouse the same way as in the desktop window.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial state
//	T     - Cycle color themes
//	Q     - Quit
package viz

// Package viz provides terminal-based visualization for generator rigs.
//
// The package implements an interactive view using the Bubble Tea framework:
//
//   - [LiveModel]: animated rotor view with per-coil voltage readouts
//   - [Canvas]: Braille-based pixel canvas for high-fidelity rendering
//   - Theme selection with 3 built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume the rotor
//	R     - Rewind to t=0
//	T     - Cycle color themes
//	Up/K  - Speed up playback
//	Down/J - Slow down playback
//	?     - Show help overlay
//
// [RenderRotor] draws a single frame of the disk, magnets and coils onto a
// Canvas and can be used on its own, outside the interactive view.
package viz

// Package viz draws epicycle sessions, both as RGB frames for recordings and
// in the terminal.
//
//   - [Renderer]: rasterizes a frame into a pooled RGB buffer
//   - [Canvas]: Braille dot canvas used by the terminal viewer
//   - [Model]: the Bubble Tea live viewer driving a session
//   - [Launcher]: file and preset picker in front of the live viewer
//
// # Key Bindings
//
//	Space - Play/Pause
//	R     - Reset to the outline
//	C     - Record a cinematic shot
//	G     - Start/stop a manual recording
//	+/-   - Zoom
//	[]    - Halve/double the active cycles
//	T     - Cycle color themes
//	?     - Show help overlay
//
// # Recording
//
// Recordings are written next to the configured output file, numbered per
// shot, as GIF or through ffmpeg depending on the render format.
package viz

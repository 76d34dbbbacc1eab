// Package viz renders trajectories in the terminal.
//
//   - [HeightProfile]: asciigraph chart of height over the flight
//   - [Canvas]: Braille pixel canvas for the flight path
//   - [WatchModel]: Bubble Tea program replaying a flight
//   - [RenderSummary]: styled summary block for CLI output
//
// # Key Bindings (watch)
//
//	Space - Pause/Resume replay
//	R     - Restart from launch
//	[ ]   - Step backward/forward while paused
//	+ -   - Change playback speed
//	Q     - Quit
package viz

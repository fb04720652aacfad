// Package tui is the interactive control loop: it redraws the World in the
// terminal and moves one tracked robot with the arrow keys.
//
// Keys:
//   - arrows: move the tracked robot one cell, clamped to the grid
//   - q, Esc: quit
package tui

// Package viz renders a universe in the terminal.
//
// It is a presentation adapter only: the core simulation never depends on it,
// and nothing here writes to a body. Positions are projected onto a braille
// [Canvas] with the display scale half extent / radius, and each body is
// drawn with the glyph its identity tag resolves to through a
// [GlyphResolver]. Tags that do not resolve fall back to a default glyph.
//
// The live view is a Bubble Tea program:
//
//	Space - Pause/Resume simulation
//	+/-   - Change steps per frame
//	T     - Toggle trails
//	?     - Show help overlay
//	Q     - Quit
//
// It stops by itself once the requested duration has been simulated.
package viz

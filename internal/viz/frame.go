package viz

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/nbody/internal/universe"
)

// DrawFrame renders trails as braille dots and every body as its glyph.
// Only display copies of positions are scaled; bodies are read, never
// written.
func DrawFrame(c *Canvas, p Projection, bodies []universe.Body, trails [][]r2.Vec, glyphs GlyphResolver) {
	c.Clear()
	for _, trail := range trails {
		for _, pt := range trail {
			c.Set(p.Apply(pt))
		}
	}
	for _, b := range bodies {
		x, y := p.Apply(b.Position())
		c.Mark(x, y, glyphFor(glyphs, b.Tag()))
	}
}

// DrawPaths connects consecutive points of each path with lines, for
// rendering a stored trajectory rather than a live one.
func DrawPaths(c *Canvas, p Projection, paths [][]r2.Vec) {
	for _, path := range paths {
		for i := 1; i < len(path); i++ {
			x0, y0 := p.Apply(path[i-1])
			x1, y1 := p.Apply(path[i])
			if absInt(x1-x0) > c.SubWidth() || absInt(y1-y0) > c.SubHeight() {
				continue
			}
			c.DrawLine(x0, y0, x1, y1)
		}
	}
}

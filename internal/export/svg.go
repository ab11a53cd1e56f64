package export

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/nbody/internal/sim"
	"github.com/san-kum/nbody/internal/viz"
)

var palette = []string{"#ffcc00", "#00ccff", "#ff4444", "#00ff88", "#ff00ff", "#ff8800", "#8888ff", "#ffffff"}

// Paths splits a sampled trajectory into one position path per body.
func Paths(samples []sim.Sample) [][]r2.Vec {
	if len(samples) == 0 {
		return nil
	}
	paths := make([][]r2.Vec, len(samples[0].Bodies))
	for _, s := range samples {
		for i := range paths {
			if i < len(s.Bodies) {
				paths[i] = append(paths[i], s.Bodies[i].Position)
			}
		}
	}
	return paths
}

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot.
// Glyph cells are written as text.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.SubWidth()) * scale
	height := float64(canvas.SubHeight()) * scale

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#00ff00">
`, width, height, width, height))

	dotRadius := scale * 0.4
	var glyphs strings.Builder
	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4
			if r := canvas.Grid[row][col]; r < 0x2800 || r > 0x28ff {
				glyphs.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%.1f">%s</text>
`, baseX, baseY+scale*4, scale*4, svgEscape(string(r))))
				continue
			}
			for _, d := range canvas.Dots(row, col) {
				cx := baseX + float64(d[0])*scale + scale/2
				cy := baseY + float64(d[1])*scale + scale/2
				sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
			}
		}
	}
	sb.WriteString("</g>\n")
	if glyphs.Len() > 0 {
		sb.WriteString(`<g fill="#ffffff" font-family="monospace">` + "\n")
		sb.WriteString(glyphs.String())
		sb.WriteString("</g>\n")
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// TrajectoryToSVG draws one polyline per body, fitted to the bounding box
// of all paths. Labels, when given, are placed at each path's final point.
func TrajectoryToSVG(paths [][]r2.Vec, labels []string, width, height int) string {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	points := 0
	for _, path := range paths {
		for _, p := range path {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
			points++
		}
	}
	if points < 2 {
		return ""
	}

	// Equal scale on both axes keeps orbits round.
	rangeX := maxX - minX
	rangeY := maxY - minY
	span := math.Max(rangeX, rangeY)
	if span == 0 {
		span = 1
	}
	span *= 1.2
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	side := float64(min(width, height))
	toScreen := func(p r2.Vec) (float64, float64) {
		x := float64(width)/2 + (p.X-cx)/span*side
		y := float64(height)/2 - (p.Y-cy)/span*side
		return x, y
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i, path := range paths {
		if len(path) == 0 {
			continue
		}
		color := palette[i%len(palette)]
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))
		for j, p := range path {
			x, y := toScreen(p)
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString(`"/>` + "\n")

		x, y := toScreen(path[len(path)-1])
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="%s"/>`+"\n", x, y, color))
		if i < len(labels) && labels[i] != "" {
			sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" fill="%s" font-family="monospace" font-size="10">%s</text>`+"\n",
				x+5, y-5, color, svgEscape(labels[i])))
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

var svgEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func svgEscape(s string) string { return svgEscaper.Replace(s) }

package viz

import (
	"errors"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrNoGlyph is returned by a GlyphResolver that has nothing for a tag.
var ErrNoGlyph = errors.New("viz: no glyph for tag")

// GlyphResolver maps a body's identity tag to the rune drawn for it.
type GlyphResolver interface {
	Resolve(tag string) (rune, error)
}

// TagGlyphs resolves tags by their base name, without directory or
// extension, so "images/earth.gif" and "earth" share a glyph.
type TagGlyphs map[string]rune

// DefaultGlyphs covers the bodies in the bundled presets.
func DefaultGlyphs() TagGlyphs {
	return TagGlyphs{
		"sun":     '☉',
		"mercury": '☿',
		"venus":   '♀',
		"earth":   '♁',
		"moon":    '☾',
		"mars":    '♂',
		"jupiter": '♃',
		"saturn":  '♄',
		"uranus":  '♅',
		"neptune": '♆',
		"star":    '★',
	}
}

func (g TagGlyphs) Resolve(tag string) (rune, error) {
	if r, ok := g[baseName(tag)]; ok {
		return r, nil
	}
	return 0, ErrNoGlyph
}

// FallbackGlyph is drawn for bodies with no usable tag.
const FallbackGlyph = '●'

// glyphFor never fails: an unresolved tag falls back to the upper-cased
// first letter of its base name, then to FallbackGlyph.
func glyphFor(r GlyphResolver, tag string) rune {
	if r != nil {
		if g, err := r.Resolve(tag); err == nil {
			return g
		}
	}
	name := baseName(tag)
	if c, _ := utf8.DecodeRuneInString(name); c != utf8.RuneError && unicode.IsLetter(c) {
		return unicode.ToUpper(c)
	}
	return FallbackGlyph
}

func baseName(tag string) string {
	if tag == "" {
		return ""
	}
	name := path.Base(strings.ReplaceAll(tag, "\\", "/"))
	if ext := path.Ext(name); ext != "" && ext != name {
		name = strings.TrimSuffix(name, ext)
	}
	return strings.ToLower(name)
}

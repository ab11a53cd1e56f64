package universe

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

const bodyFields = 6

// Load decodes a snapshot from r. On failure it returns a nil Universe and
// an error satisfying errors.Is(err, ErrFormat), or the underlying read
// error. Lines after the declared count are not read.
func Load(r io.Reader) (*Universe, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	lineNo := 0

	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		lineNo++
		return sc.Text(), true
	}

	line, ok := next()
	if !ok {
		return nil, readFailure(sc, &FormatError{Line: lineNo + 1, Reason: "missing body count"})
	}
	count, err := parseCount(line)
	if err != nil {
		return nil, &FormatError{Line: lineNo, Text: line, Reason: "invalid body count", Err: err}
	}

	line, ok = next()
	if !ok {
		return nil, readFailure(sc, &FormatError{Line: lineNo + 1, Reason: "missing radius"})
	}
	radius, err := parseRadius(line)
	if err != nil {
		return nil, &FormatError{Line: lineNo, Text: line, Reason: "invalid radius", Err: err}
	}

	bodies := make([]Body, 0, min(count, 1024))
	for uint64(len(bodies)) < count {
		line, ok = next()
		if !ok {
			reason := fmt.Sprintf("missing data: %d of %d bodies read", len(bodies), count)
			return nil, readFailure(sc, &FormatError{Line: lineNo + 1, Reason: reason})
		}
		b, err := parseBody(line)
		if err != nil {
			return nil, &FormatError{Line: lineNo, Text: line, Reason: "invalid body record", Err: err}
		}
		bodies = append(bodies, b)
	}

	u := New(radius)
	u.bodies = bodies
	return u, nil
}

// Parse is Load over a string.
func Parse(s string) (*Universe, error) {
	return Load(strings.NewReader(s))
}

// readFailure prefers a scanner I/O error over the format error it caused.
// A line over the buffer limit is malformed input, not an I/O failure.
func readFailure(sc *bufio.Scanner, fe *FormatError) error {
	err := sc.Err()
	switch {
	case err == nil:
		return fe
	case errors.Is(err, bufio.ErrTooLong):
		return &FormatError{Line: fe.Line, Reason: "line too long", Err: err}
	}
	return fmt.Errorf("universe: read snapshot: %w", err)
}

func parseCount(line string) (uint64, error) {
	f := strings.Fields(line)
	if len(f) != 1 {
		return 0, fmt.Errorf("want 1 field, got %d", len(f))
	}
	return strconv.ParseUint(f[0], 10, 64)
}

func parseRadius(line string) (float64, error) {
	f := strings.Fields(line)
	if len(f) != 1 {
		return 0, fmt.Errorf("want 1 field, got %d", len(f))
	}
	return parseFinite(f[0])
}

func parseBody(line string) (Body, error) {
	f := strings.Fields(line)
	if len(f) != bodyFields {
		return Body{}, fmt.Errorf("want %d fields, got %d", bodyFields, len(f))
	}

	var v [bodyFields - 1]float64
	for i := range v {
		x, err := parseFinite(f[i])
		if err != nil {
			return Body{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		v[i] = x
	}
	if v[4] < 0 {
		return Body{}, fmt.Errorf("negative mass %v", v[4])
	}

	return NewBody(v[4], r2.Vec{X: v[0], Y: v[1]}, r2.Vec{X: v[2], Y: v[3]}, f[5]), nil
}

func parseFinite(s string) (float64, error) {
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return x, nil
}

// WriteTo encodes the snapshot. Numbers use the shortest form that parses
// back to the same float64, so Load(WriteTo(u)) is exact. Tags are written
// as is; a tag that is empty or holds whitespace will not decode.
func (u *Universe) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64

	write := func(s string) error {
		k, err := bw.WriteString(s)
		n += int64(k)
		return err
	}

	if err := write(strconv.Itoa(len(u.bodies)) + "\n" + formatFloat(u.radius) + "\n"); err != nil {
		return n, err
	}
	for i := range u.bodies {
		if err := write(formatBody(&u.bodies[i])); err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// MarshalText implements encoding.TextMarshaler.
func (u *Universe) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := u.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. u is left untouched
// when text is malformed.
func (u *Universe) UnmarshalText(text []byte) error {
	dec, err := Load(bytes.NewReader(text))
	if err != nil {
		return err
	}
	u.bodies = dec.bodies
	u.radius = dec.radius
	if u.workers < 1 {
		u.workers = 1
	}
	u.forces, u.accels, u.newPos, u.newVel = nil, nil, nil, nil
	return nil
}

func (u *Universe) String() string {
	b, _ := u.MarshalText()
	return string(b)
}

func formatBody(b *Body) string {
	var sb strings.Builder
	for _, x := range [...]float64{b.position.X, b.position.Y, b.velocity.X, b.velocity.Y, b.mass} {
		sb.WriteString(formatFloat(x))
		sb.WriteByte(' ')
	}
	sb.WriteString(b.tag)
	sb.WriteByte('\n')
	return sb.String()
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

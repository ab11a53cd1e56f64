package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/nbody/internal/universe"
)

func sunEarth(t *testing.T) *universe.Universe {
	t.Helper()
	u, err := universe.Parse("2\n2.5e11\n" +
		"0 0 0 0 1.989e30 sun.gif\n" +
		"1.496e11 0 0 2.98e4 5.974e24 earth.gif\n")
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func tick(t *testing.T, m Model) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(TickMsg(time.Now()))
	return next.(Model), cmd
}

func TestModelStopsAtDuration(t *testing.T) {
	u := sunEarth(t)
	m := NewModel(u, Options{Dt: 25000, Duration: 100000, StepsPerFrame: 3})

	m, cmd := tick(t, m)
	if m.Steps() != 3 || m.Elapsed() != 75000 || m.Done() || isQuit(cmd) {
		t.Fatalf("after one frame: steps=%d t=%g done=%v", m.Steps(), m.Elapsed(), m.Done())
	}

	m, cmd = tick(t, m)
	if m.Steps() != 4 || m.Elapsed() != 100000 || !m.Done() {
		t.Fatalf("after two frames: steps=%d t=%g done=%v", m.Steps(), m.Elapsed(), m.Done())
	}
	if !isQuit(cmd) {
		t.Error("finished model did not quit")
	}

	ref := sunEarth(t)
	for i := 0; i < 4; i++ {
		ref.Step(25000)
	}
	if u.String() != ref.String() {
		t.Errorf("live view diverged from direct stepping:\n%s\nvs\n%s", u, ref)
	}
}

func TestModelZeroDuration(t *testing.T) {
	m := NewModel(sunEarth(t), Options{Dt: 25000})
	if !m.Done() || !isQuit(m.Init()) {
		t.Error("zero duration should finish immediately")
	}
}

func TestModelKeys(t *testing.T) {
	u := sunEarth(t)
	m := NewModel(u, Options{Dt: 25000, Duration: 1e9})
	before := u.String()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	m = next.(Model)
	m, _ = tick(t, m)
	if m.Steps() != 0 || u.String() != before {
		t.Error("paused model stepped")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	m = next.(Model)
	if m.opts.StepsPerFrame != 2 {
		t.Errorf("steps per frame = %d, want 2", m.opts.StepsPerFrame)
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}); !isQuit(cmd) {
		t.Error("q did not quit")
	}
}

func TestModelViewDoesNotTouchBodies(t *testing.T) {
	u := sunEarth(t)
	m := NewModel(u, Options{Dt: 25000, Duration: 1e9, Width: 40, Height: 20})
	m, _ = tick(t, m)
	before := u.String()

	view := m.View()
	for _, want := range []string{"Elapsed Time", "25000.00 s", "☉", "♁", "earth.gif"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if u.String() != before {
		t.Error("View modified the universe")
	}
	if got := u.At(1).Position(); r2.Norm(got) < 1e11 {
		t.Errorf("earth position scaled in place: %v", got)
	}
}

func TestModelTrailsCapped(t *testing.T) {
	m := NewModel(sunEarth(t), Options{Dt: 25000, Duration: 1e9, StepsPerFrame: 10, TrailLength: 5})
	m, _ = tick(t, m)
	for i, tr := range m.trails {
		if len(tr) != 5 {
			t.Errorf("trail %d has %d points, want 5", i, len(tr))
		}
	}
}

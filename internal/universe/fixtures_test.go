package universe_test

import (
	"math"

	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/nbody/internal/universe"
)

const pairSnapshot = "2\n" +
	"100\n" +
	"1 2 3 4 5 earth.gif\n" +
	"6 7 8 9 10 mars.gif\n"

const solarSnapshot = "5\n" +
	"2.50e+11\n" +
	"1.4960e+11  0.0000e+00  0.0000e+00  2.9800e+04  5.9740e+24    earth.gif\n" +
	"2.2790e+11  0.0000e+00  0.0000e+00  2.4100e+04  6.4190e+23     mars.gif\n" +
	"5.7900e+10  0.0000e+00  0.0000e+00  4.7900e+04  3.3020e+23  mercury.gif\n" +
	"0.0000e+00  0.0000e+00  0.0000e+00  0.0000e+00  1.9890e+30      sun.gif\n" +
	"1.0820e+11  0.0000e+00  0.0000e+00  3.5000e+04  4.8690e+24    venus.gif\n"

func mustParse(s string) *universe.Universe {
	u, err := universe.Parse(s)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())
	return u
}

// ring places n equal masses on a circle with tangential velocities.
func ring(n int) *universe.Universe {
	u := universe.New(1e9)
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		p := r2.Vec{X: 5e8 * math.Cos(a), Y: 5e8 * math.Sin(a)}
		v := r2.Vec{X: -1e3 * math.Sin(a), Y: 1e3 * math.Cos(a)}
		u.Add(universe.NewBody(1e24+float64(i)*1e21, p, v, "rock.gif"))
	}
	return u
}

func expectVecClose(offset int, got, want r2.Vec, rel float64) {
	tol := func(x float64) float64 { return rel * math.Max(math.Abs(x), 1) }
	ExpectWithOffset(offset+1, got.X).To(BeNumerically("~", want.X, tol(want.X)))
	ExpectWithOffset(offset+1, got.Y).To(BeNumerically("~", want.Y, tol(want.Y)))
}

package universe_test

import (
	"bufio"
	"bytes"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/nbody/internal/universe"
)

var _ = Describe("Load", func() {
	It("decodes count, radius and bodies in file order", func() {
		u := mustParse(pairSnapshot)

		Expect(u.Len()).To(Equal(2))
		Expect(u.Radius()).To(BeNumerically("~", 100.0, 1e-9))
		Expect(u.At(0).Position()).To(Equal(r2.Vec{X: 1, Y: 2}))
		Expect(u.At(0).Velocity()).To(Equal(r2.Vec{X: 3, Y: 4}))
		Expect(u.At(0).Mass()).To(Equal(5.0))
		Expect(u.At(0).Tag()).To(Equal("earth.gif"))
		Expect(u.At(1).Position()).To(Equal(r2.Vec{X: 6, Y: 7}))
		Expect(u.At(1).Tag()).To(Equal("mars.gif"))
	})

	It("accepts arbitrary whitespace between fields", func() {
		u := mustParse("1\n10\n \t1\t\t2   3 4  5\tsun.gif  \n")
		Expect(u.At(0).Position()).To(Equal(r2.Vec{X: 1, Y: 2}))
		Expect(u.At(0).Tag()).To(Equal("sun.gif"))
	})

	It("accepts scientific notation", func() {
		u := mustParse(solarSnapshot)
		Expect(u.Len()).To(Equal(5))
		Expect(u.Radius()).To(Equal(2.5e11))
		Expect(u.At(3).Mass()).To(Equal(1.989e30))
		Expect(u.At(3).Tag()).To(Equal("sun.gif"))
	})

	It("yields an empty universe for a zero count", func() {
		u := mustParse("0\n5\n")
		Expect(u.Len()).To(BeZero())
		Expect(u.Bodies()).To(BeEmpty())
	})

	It("ignores lines past the declared count", func() {
		u := mustParse(pairSnapshot + "this is not a body\n")
		Expect(u.Len()).To(Equal(2))
	})

	It("leaves derived fields zero", func() {
		u := mustParse(pairSnapshot)
		Expect(u.At(0).Force()).To(Equal(r2.Vec{}))
		Expect(u.At(0).Acceleration()).To(Equal(r2.Vec{}))
	})

	DescribeTable("rejects malformed snapshots",
		func(input string, line int, reason string) {
			u, err := universe.Parse(input)
			Expect(u).To(BeNil())
			Expect(errors.Is(err, universe.ErrFormat)).To(BeTrue())

			var fe *universe.FormatError
			Expect(errors.As(err, &fe)).To(BeTrue())
			Expect(fe.Line).To(Equal(line))
			Expect(fe.Reason).To(ContainSubstring(reason))
		},
		Entry("empty input", "", 1, "missing body count"),
		Entry("non-numeric count", "two\n100\n", 1, "invalid body count"),
		Entry("negative count", "-1\n100\n", 1, "invalid body count"),
		Entry("missing radius", "2\n", 2, "missing radius"),
		Entry("non-numeric radius", "2\nwide\n", 2, "invalid radius"),
		Entry("five fields", "2\n100\n1 2 3 4 5 earth.gif\n6 7 8 9 10\n", 4, "invalid body record"),
		Entry("seven fields", "1\n100\n1 2 3 4 5 earth.gif extra\n", 3, "invalid body record"),
		Entry("bad number", "1\n100\n1 2 x 4 5 earth.gif\n", 3, "invalid body record"),
		Entry("negative mass", "1\n100\n1 2 3 4 -5 earth.gif\n", 3, "invalid body record"),
		Entry("non-finite value", "1\n100\n1 NaN 3 4 5 earth.gif\n", 3, "invalid body record"),
		Entry("too few lines", "3\n100\n1 2 3 4 5 earth.gif\n6 7 8 9 10 mars.gif\n", 5, "missing data"),
	)

	It("reports the offending line text", func() {
		_, err := universe.Parse("1\n100\n1 2 3 4 5\n")
		Expect(err).To(MatchError(ContainSubstring(`"1 2 3 4 5"`)))
	})
})

var _ = Describe("WriteTo", func() {
	It("reproduces the input lines verbatim", func() {
		u := mustParse(pairSnapshot)

		var buf bytes.Buffer
		n, err := u.WriteTo(&buf)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(BeEquivalentTo(len(pairSnapshot)))
		Expect(buf.String()).To(Equal(pairSnapshot))
	})

	It("writes an empty universe as count and radius", func() {
		Expect(universe.New(42).String()).To(Equal("0\n42\n"))
	})

	It("round-trips every field in order", func() {
		u := mustParse(solarSnapshot)
		u.Step(3600)

		text, err := u.MarshalText()
		Expect(err).NotTo(HaveOccurred())
		back := mustParse(string(text))

		Expect(back.Len()).To(Equal(u.Len()))
		Expect(back.Radius()).To(Equal(u.Radius()))
		for i := 0; i < u.Len(); i++ {
			Expect(back.At(i).Position()).To(Equal(u.At(i).Position()))
			Expect(back.At(i).Velocity()).To(Equal(u.At(i).Velocity()))
			Expect(back.At(i).Mass()).To(Equal(u.At(i).Mass()))
			Expect(back.At(i).Tag()).To(Equal(u.At(i).Tag()))
		}
	})
})

var _ = Describe("UnmarshalText", func() {
	It("replaces the body sequence", func() {
		u := universe.New(1)
		u.Add(universe.NewBody(1, r2.Vec{}, r2.Vec{}, "old.gif"))

		Expect(u.UnmarshalText([]byte(pairSnapshot))).To(Succeed())
		Expect(u.Len()).To(Equal(2))
		Expect(u.Radius()).To(Equal(100.0))
	})

	It("leaves the universe untouched on error", func() {
		u := mustParse(pairSnapshot)
		before := u.String()

		err := u.UnmarshalText([]byte("3\n100\n1 2 3 4 5 a.gif\n"))
		Expect(err).To(MatchError(universe.ErrFormat))
		Expect(u.String()).To(Equal(before))
	})
})

var _ = Describe("Load with a failing reader", func() {
	It("returns the read error instead of a format error", func() {
		boom := errors.New("boom")
		_, err := universe.Load(&failingReader{data: "2\n", err: boom})
		Expect(err).To(MatchError(boom))
		Expect(errors.Is(err, universe.ErrFormat)).To(BeFalse())
	})
})

var _ = Describe("Load with an oversized line", func() {
	It("reports a format error on that line", func() {
		text := "1\n100\n1 2 3 4 5 " + strings.Repeat("x", 2<<20) + "\n"
		_, err := universe.Parse(text)
		Expect(errors.Is(err, universe.ErrFormat)).To(BeTrue())
		Expect(errors.Is(err, bufio.ErrTooLong)).To(BeTrue())

		var fe *universe.FormatError
		Expect(errors.As(err, &fe)).To(BeTrue())
		Expect(fe.Line).To(Equal(3))
		Expect(fe.Reason).To(Equal("line too long"))
	})
})

type failingReader struct {
	data string
	err  error
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.data == "" {
		return 0, r.err
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

var _ = Describe("indexed access", func() {
	var u *universe.Universe

	BeforeEach(func() {
		u = mustParse(pairSnapshot)
	})

	It("panics with an IndexError out of range", func() {
		Expect(func() { u.At(2) }).To(PanicWith(BeAssignableToTypeOf(&universe.IndexError{})))
		Expect(func() { u.At(-1) }).To(Panic())
	})

	It("returns ErrIndex from the checked form", func() {
		_, err := u.Body(7)
		Expect(err).To(MatchError(universe.ErrIndex))
		Expect(err.Error()).To(ContainSubstring("7"))
	})

	It("hands out copies", func() {
		b := u.At(0)
		b.SetPosition(r2.Vec{X: 99, Y: 99})
		Expect(u.At(0).Position()).To(Equal(r2.Vec{X: 1, Y: 2}))

		bodies := u.Bodies()
		bodies[1].SetTag("pluto.gif")
		Expect(u.At(1).Tag()).To(Equal("mars.gif"))
	})
})

var _ = Describe("Body", func() {
	It("stores constructor arguments verbatim", func() {
		b := universe.NewBody(7, r2.Vec{X: 1, Y: -1}, r2.Vec{X: 2, Y: -2}, "moon.gif")
		Expect(b.Mass()).To(Equal(7.0))
		Expect(b.Position()).To(Equal(r2.Vec{X: 1, Y: -1}))
		Expect(b.Velocity()).To(Equal(r2.Vec{X: 2, Y: -2}))
		Expect(b.Tag()).To(Equal("moon.gif"))
	})

	It("overwrites only the named field", func() {
		b := universe.NewBody(7, r2.Vec{X: 1}, r2.Vec{Y: 1}, "moon.gif")
		b.SetForce(r2.Vec{X: 3})
		b.SetAcceleration(r2.Vec{Y: 3})
		b.SetMass(8)
		b.SetTag("io.gif")

		Expect(b.Force()).To(Equal(r2.Vec{X: 3}))
		Expect(b.Acceleration()).To(Equal(r2.Vec{Y: 3}))
		Expect(b.Mass()).To(Equal(8.0))
		Expect(b.Tag()).To(Equal("io.gif"))
		Expect(b.Position()).To(Equal(r2.Vec{X: 1}))
		Expect(b.Velocity()).To(Equal(r2.Vec{Y: 1}))
	})
})

var _ = Describe("Clone", func() {
	It("is independent of its source", func() {
		u := mustParse(solarSnapshot)
		c := u.Clone()
		c.Step(3600)

		Expect(u.String()).To(Equal(mustParse(solarSnapshot).String()))
		Expect(strings.Count(c.String(), "\n")).To(Equal(7))
		Expect(c.String()).NotTo(Equal(u.String()))
	})
})

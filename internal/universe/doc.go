// Package universe implements a two-dimensional Newtonian N-body system.
//
// The package owns three concerns:
//
//   - [Body]: a point mass with position, velocity and an opaque identity tag
//   - [Universe]: the ordered body collection plus a domain radius
//   - the text snapshot codec ([Load], [Parse], [Universe.WriteTo])
//
// Forces are computed with the direct all-pairs method and integrated with
// semi-implicit Euler. Each call to [Universe.Step] computes every force from
// the same pre-step snapshot before any body is moved.
//
// # Example
//
//	u, err := universe.Load(os.Stdin)
//	if err != nil {
//	    return err
//	}
//	for t := 0.0; t < 3.15e7; t += 25000 {
//	    u.Step(25000)
//	}
//	u.WriteTo(os.Stdout)
//
// # Snapshot format
//
//	<count>
//	<radius>
//	<pos.x> <pos.y> <vel.x> <vel.y> <mass> <tag>
//	...
//
// # Thread Safety
//
// A Universe is not safe for concurrent use. [Universe.SetWorkers] lets Step
// split force accumulation across goroutines internally; Step still returns
// only after every worker has finished.
package universe

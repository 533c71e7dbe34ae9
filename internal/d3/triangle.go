package d3

import "gonum.org/v1/gonum/spatial/r3"

// Cross returns the unnormalized normal of triangle abc. Its norm
// is twice the triangle area.
func Cross(a, b, c r3.Vec) r3.Vec {
	return r3.Cross(r3.Sub(b, a), r3.Sub(c, a))
}

// Centroid returns the mean of the triangle corners.
func Centroid(a, b, c r3.Vec) r3.Vec {
	return r3.Scale(1./3., r3.Add(a, r3.Add(b, c)))
}

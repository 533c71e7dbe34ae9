package manifold

import (
	"math"

	"github.com/jamiedonnelly-px/manifold/internal/d3"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// DeviationStats summarizes how far the vertices of one mesh
// lie from another mesh.
type DeviationStats struct {
	Max  float64
	Mean float64
	RMS  float64
}

// Deviation measures the distance from every vertex of a to the surface of b,
// a one-sided Hausdorff distance sampled at the vertices of a. Only the faces
// of b are considered.
//
// Candidate faces are found through a kd-tree over the vertices of b: if the
// nearest vertex lies at distance r, the nearest surface point belongs to a
// face with a corner within r plus the longest edge of b.
func Deviation(a, b Mesh) DeviationStats {
	if len(a.Vertices) == 0 || len(b.Faces) == 0 {
		return DeviationStats{}
	}
	vf := make([][]int, len(b.Vertices))
	for fi, f := range b.Faces {
		for _, v := range f {
			vf[v] = append(vf[v], fi)
		}
	}
	pts := make(kdVertices, 0, len(b.Vertices))
	for i, v := range b.Vertices {
		if len(vf[i]) > 0 {
			pts = append(pts, kdVertex{v: v, idx: i})
		}
	}
	tree := kdtree.New(pts, false)
	_, maxEdge2 := edgeRange2(b.Triangles())
	maxEdge := math.Sqrt(maxEdge2)

	visited := make([]int, len(b.Faces))
	var ds DeviationStats
	var sum2 float64
	for i, p := range a.Vertices {
		q := kdVertex{v: p}
		_, best := tree.Nearest(q)
		r := math.Sqrt(best) + maxEdge
		keep := kdtree.NewDistKeeper(r * r)
		tree.NearestSet(keep, q)
		for _, c := range keep.Heap {
			if c.Comparable == nil {
				continue
			}
			for _, fi := range vf[c.Comparable.(kdVertex).idx] {
				if visited[fi] == i+1 {
					continue
				}
				visited[fi] = i + 1
				f := b.Faces[fi]
				cp := Triangle{b.Vertices[f[0]], b.Vertices[f[1]], b.Vertices[f[2]]}.ClosestPoint(p)
				if d2 := r3.Norm2(r3.Sub(p, cp)); d2 < best {
					best = d2
				}
			}
		}
		d := math.Sqrt(best)
		ds.Max = math.Max(ds.Max, d)
		ds.Mean += d
		sum2 += best
	}
	n := float64(len(a.Vertices))
	ds.Mean /= n
	ds.RMS = math.Sqrt(sum2 / n)
	return ds
}

// VertexDeviation measures the distance from every vertex of a to the
// nearest vertex of b. It is cheaper than Deviation but never smaller.
func VertexDeviation(a, b Mesh) DeviationStats {
	if len(a.Vertices) == 0 || len(b.Vertices) == 0 {
		return DeviationStats{}
	}
	pts := make(kdtree.Points, len(b.Vertices))
	for i, v := range b.Vertices {
		pts[i] = kdtree.Point{v.X, v.Y, v.Z}
	}
	tree := kdtree.New(pts, false)
	var ds DeviationStats
	var sum2 float64
	for _, v := range a.Vertices {
		_, dist2 := tree.Nearest(kdtree.Point{v.X, v.Y, v.Z})
		d := math.Sqrt(dist2)
		ds.Max = math.Max(ds.Max, d)
		ds.Mean += d
		sum2 += dist2
	}
	n := float64(len(a.Vertices))
	ds.Mean /= n
	ds.RMS = math.Sqrt(sum2 / n)
	return ds
}

// ClosestPoint returns the point of the triangle nearest to p. Degenerate
// triangles return their corner nearest to p.
func (t Triangle) ClosestPoint(p r3.Vec) r3.Vec {
	a, b, c := t[0], t[1], t[2]
	if r3.Norm2(d3.Cross(a, b, c)) == 0 {
		best := a
		for _, v := range t[1:] {
			if r3.Norm2(r3.Sub(p, v)) < r3.Norm2(r3.Sub(p, best)) {
				best = v
			}
		}
		return best
	}
	ab, ac := r3.Sub(b, a), r3.Sub(c, a)
	ap := r3.Sub(p, a)
	s1, s2 := r3.Dot(ab, ap), r3.Dot(ac, ap)
	if s1 <= 0 && s2 <= 0 {
		return a
	}
	bp := r3.Sub(p, b)
	s3, s4 := r3.Dot(ab, bp), r3.Dot(ac, bp)
	if s3 >= 0 && s4 <= s3 {
		return b
	}
	vc := s1*s4 - s3*s2
	if vc <= 0 && s1 >= 0 && s3 <= 0 {
		return r3.Add(a, r3.Scale(s1/(s1-s3), ab))
	}
	cp := r3.Sub(p, c)
	s5, s6 := r3.Dot(ab, cp), r3.Dot(ac, cp)
	if s6 >= 0 && s5 <= s6 {
		return c
	}
	vb := s5*s2 - s1*s6
	if vb <= 0 && s2 >= 0 && s6 <= 0 {
		return r3.Add(a, r3.Scale(s2/(s2-s6), ac))
	}
	va := s3*s6 - s5*s4
	if va <= 0 && s4-s3 >= 0 && s5-s6 >= 0 {
		w := (s4 - s3) / ((s4 - s3) + (s5 - s6))
		return r3.Add(b, r3.Scale(w, r3.Sub(c, b)))
	}
	denom := 1 / (va + vb + vc)
	return r3.Add(a, r3.Add(r3.Scale(vb*denom, ab), r3.Scale(vc*denom, ac)))
}

var (
	_ kdtree.Interface  = kdVertices{}
	_ kdtree.Comparable = kdVertex{}
)

// kdVertex is a mesh vertex that remembers its index in the kd-tree.
type kdVertex struct {
	v   r3.Vec
	idx int
}

type kdVertices []kdVertex

func (k kdVertices) Index(i int) kdtree.Comparable { return k[i] }

// Len returns the length of the list.
func (k kdVertices) Len() int { return len(k) }

// Pivot partitions the list based on the dimension specified.
func (k kdVertices) Pivot(d kdtree.Dim) int {
	p := kdPlane{dim: d, vertices: k}
	return kdtree.Partition(p, kdtree.MedianOfMedians(p))
}

// Slice returns a slice of the list using zero-based half
// open indexing equivalent to built-in slice indexing.
func (k kdVertices) Slice(start, end int) kdtree.Interface {
	return k[start:end]
}

// Compare returns the signed distance of a from the plane passing through
// b and perpendicular to the dimension d.
func (a kdVertex) Compare(b kdtree.Comparable, d kdtree.Dim) float64 {
	return kdElem(a.v, d) - kdElem(b.(kdVertex).v, d)
}

// Dims returns the number of dimensions described in the Comparable.
func (a kdVertex) Dims() int { return 3 }

// Distance returns the squared Euclidean distance between the receiver and
// the parameter.
func (a kdVertex) Distance(b kdtree.Comparable) float64 {
	return r3.Norm2(r3.Sub(a.v, b.(kdVertex).v))
}

func kdElem(v r3.Vec, d kdtree.Dim) float64 {
	switch d {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	return v.Z
}

type kdPlane struct {
	dim      kdtree.Dim
	vertices kdVertices
}

func (p kdPlane) Less(i, j int) bool {
	return kdElem(p.vertices[i].v, p.dim) < kdElem(p.vertices[j].v, p.dim)
}
func (p kdPlane) Swap(i, j int) {
	p.vertices[i], p.vertices[j] = p.vertices[j], p.vertices[i]
}
func (p kdPlane) Len() int {
	return len(p.vertices)
}
func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	p.vertices = p.vertices[start:end]
	return p
}

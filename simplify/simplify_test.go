package simplify_test

import (
	"bytes"
	"context"
	"log"
	"testing"

	"github.com/jamiedonnelly-px/manifold"
	"github.com/jamiedonnelly-px/manifold/internal/d3"
	"github.com/jamiedonnelly-px/manifold/internal/meshtest"
	"github.com/jamiedonnelly-px/manifold/simplify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOctahedron(t *testing.T) {
	out, st, err := simplify.Simplify(meshtest.Octahedron(), simplify.DefaultConfig())
	require.NoError(t, err)
	assert.Len(t, out.Vertices, 3)
	assert.Len(t, out.Faces, 2)
	assert.NoError(t, manifold.CheckIndices(out))
	assert.Equal(t, 3, st.Collapses)
	assert.False(t, st.Exhausted)
}

func TestCube(t *testing.T) {
	cfg := simplify.DefaultConfig()
	cfg.Reduction = 0.25
	out, st, err := simplify.Simplify(meshtest.Cube(), cfg)
	require.NoError(t, err)
	assert.Len(t, out.Vertices, 6)
	assert.Len(t, out.Faces, 8)
	assert.Equal(t, 6, st.Target)
	assert.Equal(t, 2, st.Collapses)
	require.NoError(t, manifold.CheckManifold(out))
	assert.Equal(t, 2, out.EulerCharacteristic())
}

func TestTargetReached(t *testing.T) {
	for _, test := range []struct {
		name  string
		mesh  manifold.Mesh
		cfg   simplify.Config
		euler int
	}{
		{"icosphere midpoint", meshtest.Icosphere(2), simplify.DefaultConfig(), 2},
		{"icosphere plain", meshtest.Icosphere(2), simplify.Config{Reduction: 0.8, Midpoint: true}, 2},
		{"icosphere optimal", meshtest.Icosphere(2), simplify.Config{Reduction: 0.7, ValenceAware: true, OptimalValence: 6, ValenceWeight: 1}, 2},
		{"icosphere accumulate", meshtest.Icosphere(2), simplify.Config{Reduction: 0.7, AccumulateQuadrics: true}, 2},
		{"torus", meshtest.Torus(16, 10, 2, 0.6), simplify.DefaultConfig(), 0},
	} {
		t.Run(test.name, func(t *testing.T) {
			out, st, err := simplify.Simplify(test.mesh, test.cfg)
			require.NoError(t, err)
			assert.Equal(t, test.cfg.Target(len(test.mesh.Vertices)), st.Target)
			if !st.Exhausted {
				assert.Len(t, out.Vertices, st.Target)
			}
			assert.Equal(t, len(out.Vertices), st.OutputVertices)
			assert.Equal(t, len(out.Faces), st.OutputFaces)
			assert.Len(t, st.History, st.Collapses)
			require.NoError(t, manifold.CheckManifold(out))
			assert.Equal(t, test.euler, out.EulerCharacteristic())
			// A closed triangle mesh has F = 2V - 2χ.
			assert.Equal(t, 2*len(out.Vertices)-2*test.euler, len(out.Faces))
			for i, v := range out.Vertices {
				assert.True(t, d3.IsFinite(v), "vertex %d is %v", i, v)
			}
		})
	}
}

func TestTargetOverride(t *testing.T) {
	out, st, err := simplify.Simplify(meshtest.Icosphere(2), simplify.Config{TargetVertices: 100, Midpoint: true})
	require.NoError(t, err)
	assert.Equal(t, 100, st.Target)
	assert.Len(t, out.Vertices, 100)
}

func TestDeterministic(t *testing.T) {
	m := meshtest.Icosphere(3)
	cfg := simplify.DefaultConfig()
	cfg.Reduction = 0.75
	a, sa, err := simplify.Simplify(m, cfg)
	require.NoError(t, err)
	b, sb, err := simplify.Simplify(m, cfg)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, sa.History, sb.History)
}

func TestInputUntouched(t *testing.T) {
	m := meshtest.Icosphere(1)
	orig := m.Clone()
	_, _, err := simplify.Simplify(m, simplify.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, orig, m)
}

func TestTinyReduction(t *testing.T) {
	cfg := simplify.DefaultConfig()
	cfg.Reduction = 0.001
	out, _, err := simplify.Simplify(meshtest.Cube(), cfg)
	require.NoError(t, err)
	assert.Len(t, out.Vertices, 7)

	cfg.Reduction = 0
	cube := meshtest.Cube()
	out, st, err := simplify.Simplify(cube, cfg)
	require.NoError(t, err)
	assert.Equal(t, cube, out)
	assert.Zero(t, st.Collapses)
}

func TestExhausted(t *testing.T) {
	var buf bytes.Buffer
	cfg := simplify.DefaultConfig()
	cfg.Reduction = 0.9
	cfg.Logger = log.New(&buf, "", 0)
	out, st, err := simplify.Simplify(meshtest.Octahedron(), cfg)
	require.NoError(t, err)
	assert.True(t, st.Exhausted)
	assert.Zero(t, st.Target)
	assert.Len(t, out.Vertices, 3)
	assert.Len(t, out.Faces, 2)
	assert.Contains(t, buf.String(), "cannot be collapsed")
}

func TestOpenMesh(t *testing.T) {
	m := meshtest.RemoveFace(meshtest.Icosphere(1), 0)
	boundary := boundaryEdges(m)
	require.Len(t, boundary, 3)

	s, err := simplify.New(m, simplify.Config{Reduction: 0.6, Midpoint: true})
	require.NoError(t, err)
	out, err := s.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, manifold.CheckIndices(out))
	assert.Len(t, boundaryEdges(out), 3)
	for _, c := range s.Stats().History {
		_, ok := boundary[manifold.EdgeKey(c.Keep, c.Remove)]
		assert.False(t, ok, "boundary edge %d-%d collapsed", c.Keep, c.Remove)
	}
}

func TestErrors(t *testing.T) {
	_, _, err := simplify.Simplify(meshtest.Cube(), simplify.Config{Reduction: 1})
	assert.ErrorIs(t, err, simplify.ErrBadConfig)
	_, _, err = simplify.Simplify(meshtest.Cube(), simplify.Config{Reduction: 0.5, ValenceAware: true})
	assert.ErrorIs(t, err, simplify.ErrBadConfig)
	_, _, err = simplify.Simplify(meshtest.RemoveFace(meshtest.Cube(), 0), simplify.DefaultConfig())
	assert.ErrorIs(t, err, manifold.ErrNotManifold)
	_, _, err = simplify.Simplify(manifold.Mesh{}, simplify.DefaultConfig())
	assert.ErrorIs(t, err, manifold.ErrEmptyMesh)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = simplify.SimplifyContext(ctx, meshtest.Icosphere(2), simplify.DefaultConfig())
	assert.ErrorIs(t, err, context.Canceled)

	s, err := simplify.New(meshtest.Cube(), simplify.DefaultConfig())
	require.NoError(t, err)
	_, err = s.Run(context.Background())
	require.NoError(t, err)
	_, err = s.Run(context.Background())
	assert.ErrorIs(t, err, simplify.ErrAlreadyRun)
}

func TestDeviationBounded(t *testing.T) {
	m := meshtest.Icosphere(3)
	out, _, err := simplify.Simplify(m, simplify.DefaultConfig())
	require.NoError(t, err)
	dev := manifold.Deviation(out, m)
	assert.Less(t, dev.Max, 0.5)
	assert.LessOrEqual(t, dev.Mean, dev.RMS)
}

func boundaryEdges(m manifold.Mesh) map[[2]int]bool {
	count := make(map[[2]int]int)
	for _, f := range m.Faces {
		for j := range f {
			count[manifold.EdgeKey(f[j], f[(j+1)%3])]++
		}
	}
	boundary := make(map[[2]int]bool)
	for e, n := range count {
		if n == 1 {
			boundary[e] = true
		}
	}
	return boundary
}

func TestSingularFallback(t *testing.T) {
	var buf bytes.Buffer
	m := meshtest.SubdividedCube(3)
	require.NoError(t, manifold.CheckManifold(m))
	cfg := simplify.Config{Reduction: 0.5, Logger: log.New(&buf, "", 0)}
	out, st, err := simplify.Simplify(m, cfg)
	require.NoError(t, err)
	assert.Positive(t, st.SingularSolves)
	assert.Contains(t, buf.String(), "singular, using midpoint")
	require.NoError(t, manifold.CheckManifold(out))
	assert.Equal(t, 2, out.EulerCharacteristic())
	for i, v := range out.Vertices {
		assert.True(t, d3.IsFinite(v), "vertex %d is %v", i, v)
	}
}

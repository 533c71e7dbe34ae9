// Package simplify decimates closed triangle meshes by greedy quadric
// error metric (QEM) edge collapse with valence-aware weighting.
//
// Every edge is scored by the quadric error of its merged position,
// optionally scaled by how far the merged vertex valence strays from an
// optimal valence. Edges are then collapsed cheapest first while the
// two endpoints share exactly two neighbours and two faces, which keeps
// a closed 2-manifold input manifold.
package simplify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/jamiedonnelly-px/manifold"
	"gonum.org/v1/gonum/spatial/r3"
)

var (
	ErrBadConfig  = errors.New("bad simplify config")
	ErrAlreadyRun = errors.New("simplifier already run")
)

// Config controls a simplification pass.
type Config struct {
	// Reduction is the fraction of vertices to remove, in [0, 1).
	// The target vertex count is floor(n*(1-Reduction)).
	Reduction float64
	// TargetVertices overrides Reduction when positive.
	TargetVertices int
	// ValenceAware scales collapse costs by a valence penalty
	// |valence-OptimalValence|*ValenceWeight + 1.
	ValenceAware   bool
	OptimalValence int
	ValenceWeight  float64
	// Midpoint scores collapses at the edge midpoint instead of the
	// quadric minimizer. Collapsed vertices always move to the midpoint.
	Midpoint bool
	// AccumulateQuadrics adds the quadric of a removed vertex to the
	// surviving one. When false quadrics keep their initial value.
	AccumulateQuadrics bool
	// Logger receives non-fatal diagnostics. Nil disables logging.
	Logger *log.Logger
}

// DefaultConfig returns a config that halves the vertex count with
// valence-aware midpoint collapses and an optimal valence of 6.
func DefaultConfig() Config {
	return Config{
		Reduction:      0.5,
		ValenceAware:   true,
		OptimalValence: 6,
		ValenceWeight:  1,
		Midpoint:       true,
	}
}

func (cfg Config) validate() error {
	switch {
	case cfg.Reduction < 0 || cfg.Reduction >= 1 || math.IsNaN(cfg.Reduction):
		return fmt.Errorf("%w: reduction %g not in [0, 1)", ErrBadConfig, cfg.Reduction)
	case cfg.TargetVertices < 0:
		return fmt.Errorf("%w: negative target vertex count %d", ErrBadConfig, cfg.TargetVertices)
	case cfg.ValenceAware && cfg.OptimalValence <= 0:
		return fmt.Errorf("%w: optimal valence must be positive, got %d", ErrBadConfig, cfg.OptimalValence)
	case cfg.ValenceAware && !(cfg.ValenceWeight >= 0):
		return fmt.Errorf("%w: valence weight must be non-negative, got %g", ErrBadConfig, cfg.ValenceWeight)
	}
	return nil
}

// Target returns the vertex count a pass over n vertices aims for.
func (cfg Config) Target(n int) int {
	if cfg.TargetVertices > 0 {
		return cfg.TargetVertices
	}
	// Small bias so that exact products like 10*(1-0.9) do not round down.
	return int(math.Floor(float64(n)*(1-cfg.Reduction) + 1e-9))
}

// Collapse records one executed edge collapse.
type Collapse struct {
	Keep, Remove int
	Cost         float64
}

// Stats describes a finished simplification pass.
type Stats struct {
	InputVertices, InputFaces   int
	Target                      int
	OutputVertices, OutputFaces int
	// Collapses is the number of executed collapses.
	Collapses int
	// Rejected counts popped edges that failed the two neighbour, two face check.
	Rejected int
	// Stale counts popped entries whose vertices died or were re-evaluated.
	Stale int
	// SingularSolves counts optimal position solves that fell back to the midpoint.
	SingularSolves int
	// Exhausted is set when no collapsible edge remained before reaching Target.
	Exhausted bool
	History   []Collapse
}

// Simplifier holds the working state of one simplification pass. The input
// mesh is copied on construction and never modified.
type Simplifier struct {
	cfg    Config
	target int

	faces    [][3]int
	pos      []r3.Vec
	adj      adjacency
	quadrics []Quadric

	aliveV []bool
	aliveF []bool
	nverts int
	nfaces int
	// merged lists the input vertices each surviving vertex subsumes,
	// owner is its inverse.
	merged  [][]int
	owner   []int
	version []uint32

	sched   *scheduler
	solver  *solver
	scratch []int
	stats   Stats
	ran     bool
}

// New builds the adjacency, quadrics and initial collapse schedule of m.
// Only face indices are validated; use Simplify to also reject input
// that is not a closed 2-manifold.
func New(m manifold.Mesh, cfg Config) (*Simplifier, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if err := manifold.CheckIndices(m); err != nil {
		return nil, err
	}
	nv := len(m.Vertices)
	s := &Simplifier{
		cfg:     cfg,
		target:  cfg.Target(nv),
		faces:   make([][3]int, len(m.Faces)),
		pos:     make([]r3.Vec, nv),
		aliveV:  make([]bool, nv),
		aliveF:  make([]bool, len(m.Faces)),
		nverts:  nv,
		nfaces:  len(m.Faces),
		merged:  make([][]int, nv),
		owner:   make([]int, nv),
		version: make([]uint32, nv),
		solver:  newSolver(),
		scratch: make([]int, 0, 16),
	}
	copy(s.faces, m.Faces)
	copy(s.pos, m.Vertices)
	for v := range s.aliveV {
		s.aliveV[v] = true
		s.merged[v] = []int{v}
		s.owner[v] = v
	}
	for f := range s.aliveF {
		s.aliveF[f] = true
	}
	s.adj = buildAdjacency(nv, s.faces)
	s.quadrics = vertexQuadrics(s.pos, s.faces, s.adj.vf)

	s.stats = Stats{
		InputVertices: nv,
		InputFaces:    len(m.Faces),
		Target:        s.target,
	}
	initial := make([]candidate, len(s.adj.edges))
	for i, e := range s.adj.edges {
		initial[i] = s.candidate(e[0], e[1])
	}
	s.sched = newScheduler(2 * len(initial))
	s.sched.seed(initial)
	return s, nil
}

// Run collapses edges until the target vertex count is reached or no
// collapsible edge remains, then returns the compacted mesh. Running out of
// edges is not an error: the partially reduced mesh is returned and
// Stats().Exhausted is set. ctx is checked between collapses; on
// cancellation the working state is abandoned.
func (s *Simplifier) Run(ctx context.Context) (manifold.Mesh, error) {
	if s.ran {
		return manifold.Mesh{}, ErrAlreadyRun
	}
	s.ran = true
	for pops := 0; ; pops++ {
		if pops%256 == 0 {
			if err := ctx.Err(); err != nil {
				return manifold.Mesh{}, fmt.Errorf("simplification abandoned after %d collapses: %w", s.stats.Collapses, err)
			}
		}
		if s.step() {
			break
		}
	}
	out := s.rebuild()
	s.stats.OutputVertices = len(out.Vertices)
	s.stats.OutputFaces = len(out.Faces)
	return out, nil
}

// step pops the scheduler once and collapses the popped edge if it is
// still valid. It returns true when the pass is done.
func (s *Simplifier) step() (done bool) {
	if s.nverts <= s.target {
		return true
	}
	c, ok := s.sched.pop()
	if !ok {
		s.stats.Exhausted = true
		s.logf("warning: edge cannot be collapsed anymore, stopped at %d vertices (target %d)", s.nverts, s.target)
		return true
	}
	if s.stale(c) {
		s.stats.Stale++
		return false
	}
	l, ok := s.canCollapse(c.keep, c.remove)
	if !ok {
		s.stats.Rejected++
		return false
	}
	s.collapse(c.keep, c.remove, l)
	s.stats.Collapses++
	s.stats.History = append(s.stats.History, Collapse{Keep: c.keep, Remove: c.remove, Cost: c.cost})
	return false
}

// Stats returns the counters of the pass so far.
func (s *Simplifier) Stats() Stats { return s.stats }

func (s *Simplifier) logf(format string, args ...interface{}) {
	if s.cfg.Logger != nil {
		s.cfg.Logger.Printf(format, args...)
	}
}

// Simplify reduces the vertex count of the closed 2-manifold m per cfg.
// Input that is not a closed 2-manifold is rejected before any work is done.
func Simplify(m manifold.Mesh, cfg Config) (manifold.Mesh, Stats, error) {
	return SimplifyContext(context.Background(), m, cfg)
}

// SimplifyContext is like Simplify but abandons the pass when ctx is done.
func SimplifyContext(ctx context.Context, m manifold.Mesh, cfg Config) (manifold.Mesh, Stats, error) {
	if err := manifold.CheckManifold(m); err != nil {
		return manifold.Mesh{}, Stats{}, fmt.Errorf("simplify precondition: %w", err)
	}
	s, err := New(m, cfg)
	if err != nil {
		return manifold.Mesh{}, Stats{}, err
	}
	out, err := s.Run(ctx)
	return out, s.stats, err
}

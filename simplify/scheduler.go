package simplify

import "container/heap"

// candidate is a scheduled collapse of remove into keep. The vertex
// versions at push time let the scheduler recognise superseded entries.
type candidate struct {
	cost         float64
	keep, remove int
	keepVer      uint32
	removeVer    uint32
	seq          uint64
}

// candidateHeap is a min-heap of candidates ordered by cost. Ties are broken
// by vertex indices and then push order so runs are reproducible.
type candidateHeap []candidate

func (h candidateHeap) Len() int { return len(h) }

func (h candidateHeap) Less(i, j int) bool {
	a, b := &h[i], &h[j]
	switch {
	case a.cost != b.cost:
		return a.cost < b.cost
	case a.keep != b.keep:
		return a.keep < b.keep
	case a.remove != b.remove:
		return a.remove < b.remove
	}
	return a.seq < b.seq
}

func (h candidateHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *candidateHeap) Push(x interface{}) {
	*h = append(*h, x.(candidate))
}

func (h *candidateHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// scheduler orders pending collapses. Entries are never updated in place:
// a re-evaluated edge is pushed again and the outdated entry is discarded
// when popped (lazy deletion).
type scheduler struct {
	h   candidateHeap
	seq uint64
}

func newScheduler(capacity int) *scheduler {
	return &scheduler{h: make(candidateHeap, 0, capacity)}
}

func (s *scheduler) push(c candidate) {
	c.seq = s.seq
	s.seq++
	heap.Push(&s.h, c)
}

// pop removes the cheapest candidate. ok is false when the scheduler is empty.
func (s *scheduler) pop() (c candidate, ok bool) {
	if len(s.h) == 0 {
		return candidate{}, false
	}
	return heap.Pop(&s.h).(candidate), true
}

func (s *scheduler) Len() int { return len(s.h) }

// seed adds the initial candidates in one batch, heapifying once.
func (s *scheduler) seed(cs []candidate) {
	for _, c := range cs {
		c.seq = s.seq
		s.seq++
		s.h = append(s.h, c)
	}
	heap.Init(&s.h)
}

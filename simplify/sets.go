package simplify

import "golang.org/x/exp/slices"

// Adjacency sets are small sorted int slices. Vertex degrees in a
// decimated surface stay in the single digits so linear merges beat maps
// and give a deterministic iteration order for free.

func insertSorted(s []int, v int) []int {
	i, found := slices.BinarySearch(s, v)
	if found {
		return s
	}
	return slices.Insert(s, i, v)
}

func removeSorted(s []int, v int) []int {
	i, found := slices.BinarySearch(s, v)
	if !found {
		return s
	}
	return slices.Delete(s, i, i+1)
}

// union returns the sorted union of a and b in a new slice.
func union(a, b []int) []int {
	u := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			u = append(u, a[i])
			i++
		case a[i] > b[j]:
			u = append(u, b[j])
			j++
		default:
			u = append(u, a[i])
			i++
			j++
		}
	}
	u = append(u, a[i:]...)
	return append(u, b[j:]...)
}

// intersect appends the common elements of a and b to dst.
func intersect(dst, a, b []int) []int {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			dst = append(dst, a[i])
			i++
			j++
		}
	}
	return dst
}

// countCommon returns the number of elements a and b share.
func countCommon(a, b []int) (n int) {
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			n++
			i++
			j++
		}
	}
	return n
}

// without removes every element of exclude from s in place.
func without(s []int, exclude ...int) []int {
	return slices.DeleteFunc(s, func(v int) bool {
		return slices.Contains(exclude, v)
	})
}

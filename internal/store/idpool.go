package store

import "container/heap"

// Capacity is the number of todos a store can hold at once. Ids are the
// integers [0, Capacity).
const Capacity = 100

// idPool is a min-heap of unassigned ids, so the smallest free id is always
// handed out first.
type idPool []int

func (p idPool) Len() int           { return len(p) }
func (p idPool) Less(i, j int) bool { return p[i] < p[j] }
func (p idPool) Swap(i, j int)      { p[i], p[j] = p[j], p[i] }

func (p *idPool) Push(x any) { *p = append(*p, x.(int)) }

func (p *idPool) Pop() any {
	old := *p
	n := len(old)
	x := old[n-1]
	*p = old[:n-1]
	return x
}

// newIDPool returns the complement of used within [0, Capacity).
func newIDPool(used map[int]bool) *idPool {
	p := make(idPool, 0, Capacity-len(used))
	for i := 0; i < Capacity; i++ {
		if !used[i] {
			p = append(p, i)
		}
	}
	heap.Init(&p)
	return &p
}

// take removes and returns the smallest free id.
func (p *idPool) take() (int, bool) {
	if p.Len() == 0 {
		return 0, false
	}
	return heap.Pop(p).(int), true
}

// release returns id to the pool.
func (p *idPool) release(id int) {
	heap.Push(p, id)
}

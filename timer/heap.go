package timer

import "time"

// timerItem is one entry in the manager's heap: a pending invocation of a
// callback, one-shot or repeating.
type timerItem struct {
	id        ID
	seq       uint64
	trigger   time.Time
	period    time.Duration
	remaining int // Forever, or a positive count of fires left
	fn        func()
	index     int // heap index, maintained by container/heap
}

// timerHeap is a min-heap ordered by trigger time, with seq as a stable
// tiebreaker so timers due at the exact same instant fire in schedule
// order, per the ordering guarantee in spec.md §4.3.
type timerHeap []*timerItem

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].trigger.Equal(h[j].trigger) {
		return h[i].seq < h[j].seq
	}
	return h[i].trigger.Before(h[j].trigger)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	item := x.(*timerItem)
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

package planner

// queueEntry is one datasource's pending batch in the global queue.
type queueEntry struct {
	datasource string
	batch      SegmentBatch
}

// priorityQueue orders queueEntry newest-first by umbrella interval
// (start, then end), the inversion of container/heap's usual min-heap:
// Less reports "should come out first", so it compares greater-than.
// Mirrors the heap.Interface usage in tempo's own
// modules/backendscheduler (container/heap over a custom Item type).
type priorityQueue []*queueEntry

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	a, b := pq[i].batch.Umbrella(), pq[j].batch.Umbrella()
	if !a.Start.Equal(b.Start) {
		return a.Start.After(b.Start)
	}
	return a.End.After(b.End)
}

func (pq priorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue) Push(x interface{}) {
	*pq = append(*pq, x.(*queueEntry))
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

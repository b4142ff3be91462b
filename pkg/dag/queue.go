package dag

import "container/heap"

// Queue is a priority queue of commits that dequeues the newest key first.
// Equal keys dequeue stash entries before commits, then in insertion order.
//
// The zero value is an empty queue ready to use.
type Queue struct {
	items queueItems
	seq   int
}

type queueItem struct {
	commit *Commit
	seq    int
}

type queueItems []queueItem

func (q queueItems) Len() int { return len(q) }

func (q queueItems) Less(i, j int) bool {
	a, b := q[i].commit, q[j].commit
	if a.Key != b.Key {
		return a.Key > b.Key
	}
	if a.Kind != b.Kind {
		return a.Kind == KindStash
	}
	return q[i].seq < q[j].seq
}

func (q queueItems) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *queueItems) Push(x any) { *q = append(*q, x.(queueItem)) }

func (q *queueItems) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}

// Push adds a commit to the queue.
func (q *Queue) Push(c *Commit) {
	q.pushSeq(c, q.seq)
	q.seq++
}

// Pop removes and returns the commit with the highest priority.
func (q *Queue) Pop() (*Commit, bool) {
	c, _, ok := q.popSeq()
	return c, ok
}

// Len returns the number of queued commits.
func (q *Queue) Len() int { return q.items.Len() }

func (q *Queue) pushSeq(c *Commit, seq int) {
	heap.Push(&q.items, queueItem{commit: c, seq: seq})
}

func (q *Queue) popSeq() (*Commit, int, bool) {
	if q.items.Len() == 0 {
		return nil, 0, false
	}
	it := heap.Pop(&q.items).(queueItem)
	return it.commit, it.seq, true
}

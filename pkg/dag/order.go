package dag

import (
	"fmt"
	"strings"
)

// Order selects how [Sort] arranges commits.
type Order int

const (
	// OrderChronological places children before parents and otherwise
	// sorts by key, newest first (git log --date-order).
	OrderChronological Order = iota
	// OrderTopological places children before parents and keeps each line
	// of history together (git log --topo-order).
	OrderTopological
)

// String returns "chrono" or "topo".
func (o Order) String() string {
	if o == OrderTopological {
		return "topo"
	}
	return "chrono"
}

// ParseOrder parses an order name. Accepted values are "chrono",
// "chronological", "topo" and "topological".
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "chrono", "chronological", "date":
		return OrderChronological, nil
	case "topo", "topological":
		return OrderTopological, nil
	}
	return OrderChronological, fmt.Errorf("unknown order %q (want chrono or topo)", s)
}

// Sort returns a new slice with the commits arranged according to order.
//
// Stash entries are removed before sorting and put back directly above their
// first parent with [MergeStashes]. Ties are broken by input position. If
// the parent links contain a cycle, the commits that could not be placed are
// appended in input order.
func Sort(commits []*Commit, order Order) []*Commit {
	var regular, stashes []*Commit
	for _, c := range commits {
		if c.IsStash() {
			stashes = append(stashes, c)
		} else {
			regular = append(regular, c)
		}
	}

	index := make(map[string]int, len(regular))
	for i, c := range regular {
		index[c.Hash] = i
	}

	// pending[i] counts the children of commit i not yet emitted.
	pending := make([]int, len(regular))
	parents := make([][]int, len(regular))
	for i, c := range regular {
		for _, p := range c.Parents {
			j, ok := index[p]
			if !ok || containsInt(parents[i], j) {
				continue
			}
			parents[i] = append(parents[i], j)
			pending[j]++
		}
	}

	var out []*Commit
	if order == OrderTopological {
		out = sortTopological(regular, parents, pending)
	} else {
		out = sortChronological(regular, parents, pending)
	}

	if len(out) < len(regular) {
		placed := make(map[string]bool, len(out))
		for _, c := range out {
			placed[c.Hash] = true
		}
		for _, c := range regular {
			if !placed[c.Hash] {
				out = append(out, c)
			}
		}
	}
	return MergeStashes(out, stashes)
}

func sortChronological(commits []*Commit, parents [][]int, pending []int) []*Commit {
	var q Queue
	for i, c := range commits {
		if pending[i] == 0 {
			q.pushSeq(c, i)
		}
	}
	out := make([]*Commit, 0, len(commits))
	for q.Len() > 0 {
		c, i, _ := q.popSeq()
		out = append(out, c)
		for _, j := range parents[i] {
			pending[j]--
			if pending[j] == 0 {
				q.pushSeq(commits[j], j)
			}
		}
	}
	return out
}

func sortTopological(commits []*Commit, parents [][]int, pending []int) []*Commit {
	var tips Queue
	for i, c := range commits {
		if pending[i] == 0 {
			tips.pushSeq(c, i)
		}
	}
	ordered := make([]int, 0, tips.Len())
	for tips.Len() > 0 {
		_, i, _ := tips.popSeq()
		ordered = append(ordered, i)
	}

	// LIFO frontier: the newest tip is on top, and a commit's first parent
	// is pushed last so its line continues before any side branch.
	stack := make([]int, 0, len(commits))
	for k := len(ordered) - 1; k >= 0; k-- {
		stack = append(stack, ordered[k])
	}

	out := make([]*Commit, 0, len(commits))
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, commits[i])
		for k := len(parents[i]) - 1; k >= 0; k-- {
			j := parents[i][k]
			pending[j]--
			if pending[j] == 0 {
				stack = append(stack, j)
			}
		}
	}
	return out
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

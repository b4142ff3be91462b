package dag

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHash is returned by [New] when a commit has an empty hash.
	ErrInvalidHash = errors.New("commit hash must not be empty")

	// ErrDuplicateHash is returned by [New] when two commits share a hash.
	// Every row of the graph must belong to exactly one commit.
	ErrDuplicateHash = errors.New("duplicate commit hash")

	// ErrUnknownCommit is returned by lookups that require the commit to be
	// present in the DAG.
	ErrUnknownCommit = errors.New("unknown commit")
)

// DAG is an ordered commit list with parent and child lookup.
//
// The zero value is an empty DAG. Use [New] to build a populated one.
type DAG struct {
	commits  []*Commit
	index    map[string]int
	children map[string][]string
}

// New indexes commits in the given order.
//
// Children lists are built from the Parents field of every commit, in input
// order. A parent hash that is not itself in commits is still recorded as
// having children, so [DAG.Children] works for any hash a commit refers to.
//
// New returns [ErrInvalidHash] or [ErrDuplicateHash] wrapped with the
// offending position. The commits slice is retained, not copied.
func New(commits []*Commit) (*DAG, error) {
	d := &DAG{
		commits:  commits,
		index:    make(map[string]int, len(commits)),
		children: make(map[string][]string, len(commits)),
	}
	for i, c := range commits {
		if c == nil || c.Hash == "" {
			return nil, fmt.Errorf("commit %d: %w", i, ErrInvalidHash)
		}
		if _, ok := d.index[c.Hash]; ok {
			return nil, fmt.Errorf("commit %s: %w", c.Hash, ErrDuplicateHash)
		}
		d.index[c.Hash] = i
	}
	for _, c := range commits {
		for _, p := range c.Parents {
			d.children[p] = append(d.children[p], c.Hash)
		}
	}
	return d, nil
}

// Len returns the number of commits.
func (d *DAG) Len() int { return len(d.commits) }

// Commits returns the commits in display order. The slice is shared and
// must not be modified.
func (d *DAG) Commits() []*Commit { return d.commits }

// Commit returns the commit with the given hash.
func (d *DAG) Commit(hash string) (*Commit, bool) {
	i, ok := d.index[hash]
	if !ok {
		return nil, false
	}
	return d.commits[i], true
}

// Index returns the row of the commit with the given hash.
func (d *DAG) Index(hash string) (int, bool) {
	i, ok := d.index[hash]
	return i, ok
}

// Contains reports whether hash is a commit of the DAG.
func (d *DAG) Contains(hash string) bool {
	_, ok := d.index[hash]
	return ok
}

// Parents returns the parent hashes of a commit, first parent first.
// Unknown hashes have no parents.
func (d *DAG) Parents(hash string) []string {
	if c, ok := d.Commit(hash); ok {
		return c.Parents
	}
	return nil
}

// Children returns the hashes of the commits that list hash as a parent,
// in display order.
func (d *DAG) Children(hash string) []string {
	return d.children[hash]
}

// OwningChildren returns the children whose first parent is hash. These are
// the children whose lane the commit inherits.
func (d *DAG) OwningChildren(hash string) []string {
	var out []string
	for _, child := range d.children[hash] {
		parents := d.Parents(child)
		if len(parents) > 0 && parents[0] == hash {
			out = append(out, child)
		}
	}
	return out
}

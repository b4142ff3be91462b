// Package dag provides the commit history model consumed by the graph layout.
//
// # Overview
//
// A [DAG] is an ordered list of [Commit] records plus parent and child lookup.
// The order of the list is the display order: row 0 is the first commit, and
// every commit is expected to appear before its parents. The layout in
// package graph relies on that order to assign lanes and build edges.
//
// # Building a DAG
//
// Commits are created by a source (git log output, JSON records) and handed
// to [New], which indexes them and computes the child lists:
//
//	d, err := dag.New(commits)
//	if err != nil {
//	    return err
//	}
//	for _, c := range d.Commits() {
//	    fmt.Println(c.ShortHash(), d.Children(c.Hash))
//	}
//
// Parents that are not part of the input (for example the index and
// untracked-file commits a stash points at) stay in [Commit.Parents] but
// never appear as commits of their own.
//
// # Ordering
//
// [Sort] reorders commits with one of two policies:
//
//   - [OrderChronological]: children before parents, otherwise newest first
//   - [OrderTopological]: children before parents, keeping each line of
//     history contiguous
//
// Both place stash entries directly above the commit they were created from
// (see [MergeStashes]).
//
// # Concurrency
//
// A DAG is immutable after [New] returns and is safe for concurrent readers.
package dag

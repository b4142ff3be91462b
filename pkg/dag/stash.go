package dag

// MergeStashes inserts each stash directly before its first parent in
// commits and returns the combined list.
//
// Stashes with no parents, or whose first parent is not in commits, are
// dropped. Several stashes on the same commit keep their relative order.
// Every placed stash is marked [KindStash] and receives its parent's Key as a
// synthetic ordering key, so a later [Sort] keeps it directly above that
// commit. The stash records are modified in place.
func MergeStashes(commits, stashes []*Commit) []*Commit {
	if len(stashes) == 0 {
		return commits
	}

	byParent := make(map[string][]*Commit, len(stashes))
	for _, s := range stashes {
		p, ok := s.FirstParent()
		if !ok {
			continue
		}
		byParent[p] = append(byParent[p], s)
	}

	out := make([]*Commit, 0, len(commits)+len(stashes))
	for _, c := range commits {
		for _, s := range byParent[c.Hash] {
			s.Kind = KindStash
			s.Key = c.Key
			out = append(out, s)
		}
		delete(byParent, c.Hash)
		out = append(out, c)
	}
	return out
}

package graph

import "github.com/matzehuels/lanegraph/pkg/dag"

// AssignPositions places every commit of d on a (lane, row) grid and returns
// the positions together with the highest lane used.
//
// Rows follow the display order of d. Lanes are assigned top to bottom while
// tracking which commit currently occupies each lane:
//
//   - A commit without owning children (children whose first parent it is)
//     starts a new line in the lowest vacant lane, appending a lane if none
//     is vacant.
//   - Otherwise the lanes of all owning children are vacated and the commit
//     takes the lowest of them. The other vacated lanes stay free for later
//     commits.
func AssignPositions(d *dag.DAG) (map[string]Position, int) {
	positions := make(map[string]Position, d.Len())
	var lanes []string // "" marks a vacant lane
	maxLane := 0

	for row, c := range d.Commits() {
		var lane int
		if owning := d.OwningChildren(c.Hash); len(owning) == 0 {
			lane = firstVacantLane(lanes)
			if lane == len(lanes) {
				lanes = append(lanes, c.Hash)
			} else {
				lanes[lane] = c.Hash
			}
		} else {
			lane = inheritLane(lanes, c.Hash, owning)
		}
		positions[c.Hash] = Position{Lane: lane, Row: row}
		maxLane = max(maxLane, lane)
	}
	return positions, maxLane
}

func firstVacantLane(lanes []string) int {
	for i, h := range lanes {
		if h == "" {
			return i
		}
	}
	return len(lanes)
}

// inheritLane vacates the lanes held by the owning children and gives the
// lowest one to hash. The starting candidate is the last lane, so a child
// that is not found in any lane leaves that lane to be overwritten.
func inheritLane(lanes []string, hash string, owning []string) int {
	if len(lanes) == 0 {
		return 0
	}
	lowest := len(lanes) - 1
	for _, child := range owning {
		for i, h := range lanes {
			if h == child {
				lanes[i] = ""
				lowest = min(lowest, i)
				break
			}
		}
	}
	lanes[lowest] = hash
	return lowest
}

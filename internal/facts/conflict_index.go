package facts

import (
	"slices"

	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

// ConflictIndex is a read-only lookup from an association to the
// associations it cannot coexist with, and to its group mates.
//
// All returned slices are sorted ascending and shared; callers must not
// modify them.
type ConflictIndex struct {
	groupOf   []int   // association id -> dense group index
	groupID   []int   // dense group index -> canonical group id
	members   [][]int // dense group index -> association ids
	conflicts [][]int // dense group index -> conflicting association ids
	blocked   []bool  // dense group index -> group conflicts with itself
}

func newConflictIndex(associations []types.Association, edges []types.ConflictEdge) *ConflictIndex {
	idx := &ConflictIndex{groupOf: make([]int, len(associations))}

	dense := make(map[int]int)
	for i, a := range associations {
		g, ok := dense[a.GroupID]
		if !ok {
			g = len(idx.groupID)
			dense[a.GroupID] = g
			idx.groupID = append(idx.groupID, a.GroupID)
			idx.members = append(idx.members, nil)
		}
		idx.groupOf[i] = g
		idx.members[g] = append(idx.members[g], i)
	}

	idx.conflicts = make([][]int, len(idx.groupID))
	idx.blocked = make([]bool, len(idx.groupID))
	neighbours := make([][]int, len(idx.groupID))
	for _, e := range edges {
		ga, okA := dense[e.GroupA]
		gb, okB := dense[e.GroupB]
		if !okA || !okB {
			continue
		}
		if ga == gb {
			idx.blocked[ga] = true
			continue
		}
		neighbours[ga] = append(neighbours[ga], gb)
		neighbours[gb] = append(neighbours[gb], ga)
	}

	for g, ns := range neighbours {
		var ids []int
		for _, n := range ns {
			ids = append(ids, idx.members[n]...)
		}
		slices.Sort(ids)
		idx.conflicts[g] = slices.Compact(ids)
	}

	return idx
}

// Conflicts returns the ids of associations that conflict with association id.
//
// Self-conflicts of a blocked group are not listed; use Blocked.
func (c *ConflictIndex) Conflicts(id int) []int {
	return c.conflicts[c.groupOf[id]]
}

// GroupMates returns the ids of all associations in id's group, id included.
func (c *ConflictIndex) GroupMates(id int) []int {
	return c.members[c.groupOf[id]]
}

// Blocked reports whether id's group conflicts with itself and can never be confirmed.
func (c *ConflictIndex) Blocked(id int) bool {
	return c.blocked[c.groupOf[id]]
}

// SameGroup reports whether two associations share a group.
func (c *ConflictIndex) SameGroup(a, b int) bool {
	return c.groupOf[a] == c.groupOf[b]
}

// Representatives returns the first association of every group, ascending.
func (c *ConflictIndex) Representatives() []int {
	reps := make([]int, len(c.members))
	for g, m := range c.members {
		reps[g] = m[0]
	}
	slices.Sort(reps)

	return reps
}

// GroupCount returns the number of groups.
func (c *ConflictIndex) GroupCount() int {
	return len(c.members)
}

// ConflictsWithConfirmed reports whether any association conflicting with id
// is confirmed in v.
func (c *ConflictIndex) ConflictsWithConfirmed(v *types.Vector, id int) bool {
	for _, other := range c.Conflicts(id) {
		if v.Value(other).IsTrue() {
			return true
		}
	}

	return false
}

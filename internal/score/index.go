package score

import (
	"fmt"
	"slices"

	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

// index is the static structure the ledger derives from a vector: dense
// positions of every entity an association contributes to.
type index struct {
	subOf       []int   // association -> subscription slot
	pairOf      []int   // association -> (system, product) slot
	pinOf       []int   // association -> pin slot, -1 if none
	groupOf     []int   // association -> group slot
	penaltiesOf [][]int // association -> penalty slots it can trigger

	capacity  []int  // subscription slot -> capacity in cents
	unlimited []bool // subscription slot -> no capacity fact or unlimited

	edges       [][2]int // conflict edge -> group slots
	edgesOfGrp  [][]int  // group slot -> incident edges
	pinsOfGrp   [][]int  // group slot -> pins its free associations satisfy
	penaltySub  []int    // penalty slot -> subscription slot
	penaltyCost []int    // penalty slot -> cents

	pairs int
	pins  int
}

type pairKey struct {
	system  int64
	product int64
}

func newIndex(v *types.Vector) (*index, error) {
	n := v.Len()
	facts := v.Facts()
	idx := &index{
		subOf:       make([]int, n),
		pairOf:      make([]int, n),
		pinOf:       make([]int, n),
		groupOf:     make([]int, n),
		penaltiesOf: make([][]int, n),
	}

	subSlot := make(map[int64]int)
	addSub := func(id int64, capacity int, unlimited bool) int {
		if s, ok := subSlot[id]; ok {
			return s
		}
		s := len(idx.capacity)
		subSlot[id] = s
		idx.capacity = append(idx.capacity, capacity)
		idx.unlimited = append(idx.unlimited, unlimited)

		return s
	}
	for _, s := range facts.Subscriptions {
		if s.CapacityCents < 0 {
			return nil, fmt.Errorf("%w: subscription %d has negative capacity %d", types.ErrOracleFailure, s.ID, s.CapacityCents)
		}
		if _, dup := subSlot[s.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate capacity fact for subscription %d", types.ErrOracleFailure, s.ID)
		}
		addSub(s.ID, s.CapacityCents, s.Unlimited)
	}

	pinSlot := make(map[types.Pin]int, len(facts.Pins))
	for _, p := range facts.Pins {
		if _, ok := pinSlot[p]; !ok {
			pinSlot[p] = len(pinSlot)
		}
	}
	idx.pins = len(pinSlot)

	groupSlot := make(map[int]int)
	pairSlot := make(map[pairKey]int)
	bySub := make(map[int64][]int)
	for i := range n {
		a := v.At(i)
		if a.Cents < 0 {
			return nil, fmt.Errorf("%w: association %d has negative cents %d", types.ErrOracleFailure, i, a.Cents)
		}
		idx.subOf[i] = addSub(a.SubscriptionID, 0, true)
		bySub[a.SubscriptionID] = append(bySub[a.SubscriptionID], i)

		pk := pairKey{system: a.SystemID, product: a.ProductID}
		p, ok := pairSlot[pk]
		if !ok {
			p = len(pairSlot)
			pairSlot[pk] = p
		}
		idx.pairOf[i] = p

		if ps, ok := pinSlot[types.Pin{SystemID: a.SystemID, SubscriptionID: a.SubscriptionID}]; ok {
			idx.pinOf[i] = ps
		} else {
			idx.pinOf[i] = -1
		}

		g, ok := groupSlot[a.GroupID]
		if !ok {
			g = len(groupSlot)
			groupSlot[a.GroupID] = g
		}
		idx.groupOf[i] = g
	}
	idx.pairs = len(pairSlot)

	idx.edgesOfGrp = make([][]int, len(groupSlot))
	for _, e := range facts.Conflicts {
		ga, okA := groupSlot[e.GroupA]
		gb, okB := groupSlot[e.GroupB]
		if !okA || !okB {
			continue
		}
		id := len(idx.edges)
		idx.edges = append(idx.edges, [2]int{ga, gb})
		idx.edgesOfGrp[ga] = append(idx.edgesOfGrp[ga], id)
		if gb != ga {
			idx.edgesOfGrp[gb] = append(idx.edgesOfGrp[gb], id)
		}
	}

	idx.pinsOfGrp = make([][]int, len(groupSlot))
	for _, f := range facts.Free {
		g, okG := groupSlot[f.RequiredGroupID]
		ps, okP := pinSlot[types.Pin{SystemID: f.SystemID, SubscriptionID: f.SubscriptionID}]
		if okG && okP && !slices.Contains(idx.pinsOfGrp[g], ps) {
			idx.pinsOfGrp[g] = append(idx.pinsOfGrp[g], ps)
		}
	}

	for _, p := range facts.Penalties {
		if p.Cents < 0 {
			return nil, fmt.Errorf("%w: penalty on subscription %d has negative cents %d", types.ErrOracleFailure, p.SubscriptionID, p.Cents)
		}
		s, ok := subSlot[p.SubscriptionID]
		if !ok {
			continue // no association can trigger it
		}
		slot := len(idx.penaltySub)
		idx.penaltySub = append(idx.penaltySub, s)
		idx.penaltyCost = append(idx.penaltyCost, p.Cents)
		for _, i := range bySub[p.SubscriptionID] {
			if slices.Contains(p.SystemIDs, v.At(i).SystemID) {
				idx.penaltiesOf[i] = append(idx.penaltiesOf[i], slot)
			}
		}
	}

	return idx, nil
}

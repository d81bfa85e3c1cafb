package types

import "slices"

// SideFacts holds the immutable facts the score oracle needs besides the
// decision values. All slices are in canonical order.
type SideFacts struct {
	// Conflicts lists canonical group pairs that must not both be confirmed.
	// GroupA <= GroupB; GroupA == GroupB marks a group that conflicts with itself.
	Conflicts []ConflictEdge

	// Subscriptions lists capacity facts sorted by subscription id.
	Subscriptions []Subscription

	// Penalties lists one-off consumption charges sorted by subscription id.
	Penalties []Penalty

	// Pins lists user pins sorted by (system, subscription).
	Pins []Pin

	// Free lists free associations whose required group is canonical. A
	// free association is confirmed whenever any member of that group is.
	Free []FreeAssociation
}

// Change sets one association to a new value.
type Change struct {
	Index int
	Value Confirmed
}

// Move is an atomic set of value changes applied and scored together.
type Move struct {
	Changes []Change
}

// Touched returns the sorted indices of all associations the move changes.
//
// Two moves with the same touched set are the same move for tabu purposes,
// regardless of their target values.
func (m Move) Touched() []int {
	ids := make([]int, len(m.Changes))
	for i, c := range m.Changes {
		ids[i] = c.Index
	}
	slices.Sort(ids)

	return ids
}

// Diff records a value change actually performed on a vector.
type Diff struct {
	Index int
	From  Confirmed
	To    Confirmed
}

// Inverse returns diffs that undo the given diffs, in reverse order.
func Inverse(diffs []Diff) []Diff {
	out := make([]Diff, len(diffs))
	for i, d := range diffs {
		out[len(diffs)-1-i] = Diff{Index: d.Index, From: d.To, To: d.From}
	}

	return out
}

// Vector is the decision vector: every association with its current value
// plus the side facts. Values change only through Apply and Revert.
type Vector struct {
	associations []Association
	facts        *SideFacts
}

// NewVector creates a vector over associations in canonical order.
//
// The associations slice is owned by the vector after the call.
//
// Parameters:
//   - associations: Associations whose ID equals their index
//   - facts: Immutable side facts (nil means none)
//
// Returns:
//   - *Vector: A new decision vector
func NewVector(associations []Association, facts *SideFacts) *Vector {
	if facts == nil {
		facts = &SideFacts{}
	}

	return &Vector{associations: associations, facts: facts}
}

// Len returns the number of associations.
func (v *Vector) Len() int {
	return len(v.associations)
}

// At returns a copy of the association at index i.
func (v *Vector) At(i int) Association {
	return v.associations[i]
}

// Value returns the current value of association i.
func (v *Vector) Value(i int) Confirmed {
	return v.associations[i].Confirmed
}

// Facts returns the immutable side facts.
func (v *Vector) Facts() *SideFacts {
	return v.facts
}

// Associations returns a copy of all associations in canonical order.
func (v *Vector) Associations() []Association {
	return slices.Clone(v.associations)
}

// Apply performs every change of the move and returns the diffs of the
// changes that actually altered a value.
func (v *Vector) Apply(m Move) []Diff {
	diffs := make([]Diff, 0, len(m.Changes))
	for _, c := range m.Changes {
		from := v.associations[c.Index].Confirmed
		if from == c.Value {
			continue
		}
		v.associations[c.Index].Confirmed = c.Value
		diffs = append(diffs, Diff{Index: c.Index, From: from, To: c.Value})
	}

	return diffs
}

// Revert undoes diffs previously returned by Apply.
func (v *Vector) Revert(diffs []Diff) {
	for i := len(diffs) - 1; i >= 0; i-- {
		v.associations[diffs[i].Index].Confirmed = diffs[i].From
	}
}

// Clone returns a deep copy of the decision values. Side facts are shared.
func (v *Vector) Clone() *Vector {
	return &Vector{associations: slices.Clone(v.associations), facts: v.facts}
}

// ConfirmedCount returns the number of confirmed associations.
func (v *Vector) ConfirmedCount() int {
	n := 0
	for i := range v.associations {
		if v.associations[i].Confirmed.IsTrue() {
			n++
		}
	}

	return n
}

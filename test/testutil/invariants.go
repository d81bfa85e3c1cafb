package testutil

import (
	"slices"
	"testing"

	"github.com/uyuni-project/subscription-matcher-sub000/internal/facts"
	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

// AssertConflictFree verifies that no two conflicting associations are both
// confirmed and that no blocked association is confirmed.
//
// Parameters:
//   - t: testing handle
//   - idx: conflict index of the model v was built from
//   - v: decision vector to check
func AssertConflictFree(t *testing.T, idx *facts.ConflictIndex, v *types.Vector) {
	t.Helper()

	for i := range v.Len() {
		if !v.Value(i).IsTrue() {
			continue
		}
		if idx.Blocked(i) {
			t.Fatalf("association %d of a self-conflicting group is confirmed", i)
		}
		for _, other := range idx.Conflicts(i) {
			if v.Value(other).IsTrue() {
				t.Fatalf("conflicting associations %d and %d are both confirmed", i, other)
			}
		}
	}
}

// AssertGroupsConsistent verifies that all members of a group hold the same value.
func AssertGroupsConsistent(t *testing.T, idx *facts.ConflictIndex, v *types.Vector) {
	t.Helper()

	for i := range v.Len() {
		for _, mate := range idx.GroupMates(i) {
			if v.Value(mate) != v.Value(i) {
				t.Fatalf("group mates %d (%s) and %d (%s) disagree", i, v.Value(i), mate, v.Value(mate))
			}
		}
	}
}

// AssertCapacityRespected verifies that no capped subscription consumes more
// than its capacity, penalties included.
func AssertCapacityRespected(t *testing.T, v *types.Vector) {
	t.Helper()

	consumed := make(map[int64]int)
	hit := make(map[int]bool)
	penalties := v.Facts().Penalties
	for i := range v.Len() {
		a := v.At(i)
		if !a.Confirmed.IsTrue() {
			continue
		}
		consumed[a.SubscriptionID] += a.Cents
		for p, pen := range penalties {
			if !hit[p] && pen.SubscriptionID == a.SubscriptionID && slices.Contains(pen.SystemIDs, a.SystemID) {
				hit[p] = true
				consumed[a.SubscriptionID] += pen.Cents
			}
		}
	}

	for _, sub := range v.Facts().Subscriptions {
		if sub.Unlimited {
			continue
		}
		if consumed[sub.ID] > sub.CapacityCents {
			t.Fatalf("subscription %d consumes %d cents over capacity %d", sub.ID, consumed[sub.ID], sub.CapacityCents)
		}
	}
}

// AssertDecided verifies that no association is left Unset.
func AssertDecided(t *testing.T, v *types.Vector) {
	t.Helper()

	for i := range v.Len() {
		if v.Value(i) == types.Unset {
			t.Fatalf("association %d is still unset", i)
		}
	}
}

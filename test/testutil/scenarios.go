package testutil

import (
	"time"

	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

// Timestamp is the timestamp used by all scenario inputs.
var Timestamp = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

// SingleMatchInput returns one system with one product and one subscription
// with ample capacity and no conflicts.
func SingleMatchInput() *types.Input {
	return &types.Input{
		Timestamp: Timestamp,
		Candidates: []types.Candidate{
			{SystemID: 1, ProductID: 10, SubscriptionID: 100, Cents: 100, GroupID: 1},
		},
		Subscriptions: []types.Subscription{{ID: 100, PartNumber: "SUB-100", CapacityCents: 1000}},
		Installed:     []types.InstalledProduct{{SystemID: 1, ProductID: 10}},
	}
}

// ConflictingPairInput returns two equally attractive associations whose
// groups conflict: one system, one product, two subscriptions.
func ConflictingPairInput() *types.Input {
	return &types.Input{
		Timestamp: Timestamp,
		Candidates: []types.Candidate{
			{SystemID: 1, ProductID: 10, SubscriptionID: 100, Cents: 100, GroupID: 1},
			{SystemID: 1, ProductID: 10, SubscriptionID: 200, Cents: 100, GroupID: 2},
		},
		Conflicts: []types.ConflictEdge{{GroupA: 1, GroupB: 2}},
		Subscriptions: []types.Subscription{
			{ID: 100, CapacityCents: 500},
			{ID: 200, CapacityCents: 500},
		},
	}
}

// UnsatisfiablePinInput returns one valid association plus a pin for a
// (system, subscription) pair that has no association at all.
func UnsatisfiablePinInput() *types.Input {
	in := SingleMatchInput()
	in.Pins = []types.Pin{{SystemID: 2, SubscriptionID: 100}}

	return in
}

// CapacityBoundInput returns three systems competing for a subscription that
// fits only two of them.
func CapacityBoundInput() *types.Input {
	return &types.Input{
		Timestamp: Timestamp,
		Candidates: []types.Candidate{
			{SystemID: 1, ProductID: 10, SubscriptionID: 100, Cents: 100, GroupID: 1},
			{SystemID: 2, ProductID: 10, SubscriptionID: 100, Cents: 100, GroupID: 2},
			{SystemID: 3, ProductID: 10, SubscriptionID: 100, Cents: 100, GroupID: 3},
		},
		Subscriptions: []types.Subscription{{ID: 100, CapacityCents: 200}},
	}
}

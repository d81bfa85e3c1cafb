// Package assemble turns the best decision vector of a run into the
// externally visible result.
package assemble

import (
	"slices"
	"strconv"

	"github.com/uyuni-project/subscription-matcher-sub000/internal/facts"
	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

// Assemble builds the result of a run.
//
// It is a pure function: the same arguments always produce an equal result
// and none of them is modified.
//
// The confirmed set holds every confirmed association of best plus, with
// zero cents, every free association whose required group is confirmed,
// deduplicated and sorted canonically. Every pin without a confirmed tuple on
// its (system, subscription) yields one unsatisfied_pinned_match message.
//
// Parameters:
//   - model: Fact model of the run
//   - best: Best-ever vector over model's associations
//   - sc: Score of best
//   - stats: Run statistics copied into the result
//
// Returns:
//   - *types.Result: The assembled result
func Assemble(model *facts.Model, best *types.Vector, sc types.Score, stats types.RunStats) *types.Result {
	confirmed := confirmedTuples(model, best)
	side := best.Facts()

	return &types.Result{
		Timestamp: model.Timestamp,
		Confirmed: confirmed,
		Messages:  pinMessages(side.Pins, confirmed),
		Score:     sc,
		Remaining: balances(side, best),
		Systems:   compliance(model.Installed, confirmed),
		Stats:     stats,
	}
}

func confirmedTuples(model *facts.Model, best *types.Vector) []types.ConfirmedTuple {
	out := make([]types.ConfirmedTuple, 0, best.Len())
	groups := make(map[int]struct{})
	for i := range best.Len() {
		a := best.At(i)
		if !a.Confirmed.IsTrue() {
			continue
		}
		out = append(out, a.Key())
		groups[a.GroupID] = struct{}{}
	}

	for _, f := range model.Free {
		if _, ok := groups[f.RequiredGroupID]; !ok {
			continue
		}
		out = append(out, types.ConfirmedTuple{
			SystemID:       f.SystemID,
			ProductID:      f.ProductID,
			SubscriptionID: f.SubscriptionID,
		})
	}

	slices.SortFunc(out, types.AssociationKey.Compare)

	return slices.Compact(out)
}

type systemSubscription struct {
	system, subscription int64
}

func pinMessages(pins []types.Pin, confirmed []types.ConfirmedTuple) []types.Message {
	matched := make(map[systemSubscription]struct{}, len(confirmed))
	for _, c := range confirmed {
		matched[systemSubscription{c.SystemID, c.SubscriptionID}] = struct{}{}
	}

	out := make([]types.Message, 0)
	for _, p := range pins {
		if _, ok := matched[systemSubscription{p.SystemID, p.SubscriptionID}]; ok {
			continue
		}
		out = append(out, types.Message{
			Severity: types.SeverityInfo,
			Type:     types.MessageUnsatisfiedPinnedMatch,
			Data: map[string]string{
				"system_id":       strconv.FormatInt(p.SystemID, 10),
				"subscription_id": strconv.FormatInt(p.SubscriptionID, 10),
			},
		})
	}
	slices.SortFunc(out, types.Message.Compare)

	return slices.CompactFunc(out, func(a, b types.Message) bool { return a.Compare(b) == 0 })
}

// balances reports the capacity left on every capped subscription with
// capacity to spare. Consumption includes active penalties.
func balances(side *types.SideFacts, best *types.Vector) []types.SubscriptionBalance {
	consumed := make(map[int64]int)
	active := make([]bool, len(side.Penalties))
	for i := range best.Len() {
		a := best.At(i)
		if !a.Confirmed.IsTrue() {
			continue
		}
		consumed[a.SubscriptionID] += a.Cents
		for p, pen := range side.Penalties {
			if !active[p] && pen.SubscriptionID == a.SubscriptionID && slices.Contains(pen.SystemIDs, a.SystemID) {
				active[p] = true
				consumed[pen.SubscriptionID] += pen.Cents
			}
		}
	}

	out := make([]types.SubscriptionBalance, 0, len(side.Subscriptions))
	for _, sub := range side.Subscriptions {
		if sub.Unlimited {
			continue
		}
		left := sub.CapacityCents - consumed[sub.ID]
		if left <= 0 {
			continue
		}
		out = append(out, types.SubscriptionBalance{
			SubscriptionID: sub.ID,
			PartNumber:     sub.PartNumber,
			CapacityCents:  sub.CapacityCents,
			RemainingCents: left,
		})
	}

	return out
}

// compliance classifies every system with installed products. installed is
// sorted by (system, product).
func compliance(installed []types.InstalledProduct, confirmed []types.ConfirmedTuple) []types.SystemStatus {
	type systemProduct struct{ system, product int64 }
	covered := make(map[systemProduct]struct{}, len(confirmed))
	for _, c := range confirmed {
		covered[systemProduct{c.SystemID, c.ProductID}] = struct{}{}
	}

	out := make([]types.SystemStatus, 0)
	for _, ip := range installed {
		if len(out) == 0 || out[len(out)-1].SystemID != ip.SystemID {
			out = append(out, types.SystemStatus{SystemID: ip.SystemID, Covered: []int64{}, Uncovered: []int64{}})
		}
		st := &out[len(out)-1]
		if _, ok := covered[systemProduct{ip.SystemID, ip.ProductID}]; ok {
			st.Covered = append(st.Covered, ip.ProductID)
		} else {
			st.Uncovered = append(st.Uncovered, ip.ProductID)
		}
	}

	for i := range out {
		switch {
		case len(out[i].Uncovered) == 0:
			out[i].Status = types.StatusCompliant
		case len(out[i].Covered) == 0:
			out[i].Status = types.StatusNonCompliant
		default:
			out[i].Status = types.StatusPartiallyCompliant
		}
	}

	return out
}

package testutil

import (
	"math/rand/v2"
	"time"

	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

// GenConfig configures RandomInput.
//
// Defines the shape of a generated fact set: fleet size, portfolio size and
// how densely candidates, conflicts and pins are generated.
type GenConfig struct {
	Systems       int     // number of systems
	Products      int     // products installed per system
	Subscriptions int     // number of subscriptions
	CandidateRate float64 // probability a (system, product, subscription) becomes a candidate
	ConflictRate  float64 // probability two groups on the same system conflict
	PinRate       float64 // probability a system gets a pin
	CapacityUnits int     // max capacity per subscription in whole units (0 = unlimited)
	WithPenalties bool    // generate one penalty per subscription
}

// DefaultGenConfig returns a small but non-trivial fact set shape.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Systems:       12,
		Products:      3,
		Subscriptions: 5,
		CandidateRate: 0.5,
		ConflictRate:  0.3,
		PinRate:       0.2,
		CapacityUnits: 6,
		WithPenalties: true,
	}
}

// RandomInput generates a reproducible fact set.
//
// Each candidate gets its own group, except that a product on one system is
// occasionally split across two candidates sharing a group (fate-sharing
// representatives) and duplicates of existing candidates are injected so the
// merge path is exercised. Conflicts connect groups of the same system and
// product on different subscriptions.
//
// Parameters:
//   - rng: Seeded random source
//   - cfg: Shape of the fact set
//
// Returns:
//   - *types.Input: Generated input
func RandomInput(rng *rand.Rand, cfg GenConfig) *types.Input {
	in := &types.Input{Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	for s := range cfg.Subscriptions {
		sub := types.Subscription{ID: int64(1000 + s), PartNumber: "PN-" + string(rune('A'+s%26))}
		if cfg.CapacityUnits > 0 {
			sub.CapacityCents = (1 + rng.IntN(cfg.CapacityUnits)) * 100
		} else {
			sub.Unlimited = true
		}
		in.Subscriptions = append(in.Subscriptions, sub)
	}

	group := 0
	for sys := range cfg.Systems {
		systemID := int64(1 + sys)
		var systemGroups []int
		for p := range cfg.Products {
			productID := int64(100 + p)
			in.Installed = append(in.Installed, types.InstalledProduct{SystemID: systemID, ProductID: productID})

			var productGroups []int
			for s := range cfg.Subscriptions {
				if rng.Float64() >= cfg.CandidateRate {
					continue
				}
				group++
				c := types.Candidate{
					SystemID:       systemID,
					ProductID:      productID,
					SubscriptionID: int64(1000 + s),
					Cents:          50 * (1 + rng.IntN(4)),
					GroupID:        group,
				}
				in.Candidates = append(in.Candidates, c)
				productGroups = append(productGroups, group)

				if rng.IntN(8) == 0 {
					dup := c
					group++
					dup.GroupID = group
					in.Candidates = append(in.Candidates, dup)
				}
				if p+1 < cfg.Products && rng.IntN(6) == 0 {
					in.Free = append(in.Free, types.FreeAssociation{
						SystemID:        systemID,
						ProductID:       productID + 1,
						SubscriptionID:  c.SubscriptionID,
						RequiredGroupID: c.GroupID,
					})
				}
			}

			for i := range productGroups {
				for j := i + 1; j < len(productGroups); j++ {
					if rng.Float64() < cfg.ConflictRate {
						in.Conflicts = append(in.Conflicts, types.ConflictEdge{GroupA: productGroups[i], GroupB: productGroups[j]})
					}
				}
			}
			systemGroups = append(systemGroups, productGroups...)
		}

		if len(systemGroups) > 1 && rng.IntN(10) == 0 {
			in.Conflicts = append(in.Conflicts, types.ConflictEdge{GroupA: systemGroups[0], GroupB: systemGroups[len(systemGroups)-1]})
		}
		if rng.Float64() < cfg.PinRate {
			in.Pins = append(in.Pins, types.Pin{SystemID: systemID, SubscriptionID: int64(1000 + rng.IntN(cfg.Subscriptions+1))})
		}
	}

	if cfg.WithPenalties {
		for _, sub := range in.Subscriptions {
			if cfg.Systems == 0 {
				break
			}
			in.Penalties = append(in.Penalties, types.Penalty{
				SubscriptionID: sub.ID,
				SystemIDs:      []int64{int64(1 + rng.IntN(cfg.Systems))},
				Cents:          100,
			})
		}
	}

	return in
}

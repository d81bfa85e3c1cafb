// Package facts builds the immutable fact model of a run: canonical
// associations, their groups, and the conflict index.
package facts

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/uyuni-project/subscription-matcher-sub000/internal/logging"
	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

// Model is the fact model of one run.
//
// The model is built once and never modified; only the values held by
// Vector change during the run.
type Model struct {
	// Vector holds every association in canonical order, all Unset.
	Vector *types.Vector

	// Conflicts is the conflict index over Vector's association ids.
	Conflicts *ConflictIndex

	// Free lists free associations whose required group exists, with
	// RequiredGroupID resolved to the canonical group id.
	Free []types.FreeAssociation

	// Installed lists installed products sorted by (system, product).
	Installed []types.InstalledProduct

	// Timestamp is the input timestamp.
	Timestamp time.Time
}

// Option configures Build.
type Option func(*builder)

// WithLogger sets the logger used to report dropped facts.
func WithLogger(logger types.Logger) Option {
	return func(b *builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

type builder struct {
	logger types.Logger
}

// Build creates the fact model from raw input.
//
// Candidates sharing a key are merged into one association and their groups
// are unified; a unified group takes the smallest member group id. Conflict
// edges and free associations naming unknown groups are dropped. The input
// is not modified.
//
// Parameters:
//   - in: Facts produced by the deduction stage
//   - opts: Optional configuration
//
// Returns:
//   - *Model: The fact model
//   - error: ErrNilInput when in is nil
func Build(in *types.Input, opts ...Option) (*Model, error) {
	if in == nil {
		return nil, types.ErrNilInput
	}

	b := &builder{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(b)
	}

	groups := newUnionFind()
	firstGroup := make(map[types.AssociationKey]int, len(in.Candidates))
	for _, c := range in.Candidates {
		groups.add(c.GroupID)
		if g, ok := firstGroup[c.Key()]; ok {
			groups.union(g, c.GroupID)
			continue
		}
		firstGroup[c.Key()] = c.GroupID
	}

	keys := make([]types.AssociationKey, 0, len(firstGroup))
	for k := range firstGroup {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, types.AssociationKey.Compare)

	associations := make([]types.Association, len(keys))
	for i, k := range keys {
		associations[i] = types.Association{
			ID:             i,
			SystemID:       k.SystemID,
			ProductID:      k.ProductID,
			SubscriptionID: k.SubscriptionID,
			Cents:          k.Cents,
			GroupID:        groups.find(firstGroup[k]),
		}
	}

	edges := b.resolveConflicts(in.Conflicts, groups)
	free := b.resolveFree(in.Free, groups)
	side := &types.SideFacts{
		Conflicts:     edges,
		Subscriptions: sortedSubscriptions(in.Subscriptions),
		Penalties:     sortedPenalties(in.Penalties),
		Pins:          sortedPins(in.Pins),
		Free:          free,
	}

	vector := types.NewVector(associations, side)
	model := &Model{
		Vector:    vector,
		Conflicts: newConflictIndex(associations, edges),
		Free:      free,
		Installed: sortedInstalled(in.Installed),
		Timestamp: in.Timestamp,
	}

	if merged := len(in.Candidates) - len(associations); merged > 0 {
		b.logger.Debug("merged duplicate candidates", "merged", merged, "associations", len(associations))
	}

	return model, nil
}

func (b *builder) resolveConflicts(raw []types.ConflictEdge, groups *unionFind) []types.ConflictEdge {
	seen := make(map[types.ConflictEdge]struct{}, len(raw))
	edges := make([]types.ConflictEdge, 0, len(raw))
	for _, e := range raw {
		if !groups.has(e.GroupA) || !groups.has(e.GroupB) {
			b.logger.Debug("dropping conflict with unknown group", "group_a", e.GroupA, "group_b", e.GroupB)
			continue
		}
		edge := types.ConflictEdge{GroupA: groups.find(e.GroupA), GroupB: groups.find(e.GroupB)}.Normalize()
		if _, ok := seen[edge]; ok {
			continue
		}
		seen[edge] = struct{}{}
		edges = append(edges, edge)
	}
	slices.SortFunc(edges, func(a, b types.ConflictEdge) int {
		if c := cmp.Compare(a.GroupA, b.GroupA); c != 0 {
			return c
		}

		return cmp.Compare(a.GroupB, b.GroupB)
	})

	return edges
}

func (b *builder) resolveFree(raw []types.FreeAssociation, groups *unionFind) []types.FreeAssociation {
	free := make([]types.FreeAssociation, 0, len(raw))
	for _, f := range raw {
		if !groups.has(f.RequiredGroupID) {
			b.logger.Debug("dropping free association with unknown group",
				"system_id", f.SystemID, "subscription_id", f.SubscriptionID, "group", f.RequiredGroupID)
			continue
		}
		f.RequiredGroupID = groups.find(f.RequiredGroupID)
		free = append(free, f)
	}
	slices.SortFunc(free, func(a, b types.FreeAssociation) int {
		ka := types.AssociationKey{SystemID: a.SystemID, ProductID: a.ProductID, SubscriptionID: a.SubscriptionID}
		kb := types.AssociationKey{SystemID: b.SystemID, ProductID: b.ProductID, SubscriptionID: b.SubscriptionID}
		if c := ka.Compare(kb); c != 0 {
			return c
		}

		return cmp.Compare(a.RequiredGroupID, b.RequiredGroupID)
	})

	return free
}

func sortedSubscriptions(raw []types.Subscription) []types.Subscription {
	subs := slices.Clone(raw)
	slices.SortStableFunc(subs, func(a, b types.Subscription) int {
		return cmp.Compare(a.ID, b.ID)
	})

	return subs
}

func sortedPenalties(raw []types.Penalty) []types.Penalty {
	penalties := make([]types.Penalty, len(raw))
	for i, p := range raw {
		p.SystemIDs = slices.Clone(p.SystemIDs)
		slices.Sort(p.SystemIDs)
		penalties[i] = p
	}
	slices.SortStableFunc(penalties, func(a, b types.Penalty) int {
		if c := cmp.Compare(a.SubscriptionID, b.SubscriptionID); c != 0 {
			return c
		}
		if c := slices.Compare(a.SystemIDs, b.SystemIDs); c != 0 {
			return c
		}

		return cmp.Compare(a.Cents, b.Cents)
	})

	return penalties
}

func sortedPins(raw []types.Pin) []types.Pin {
	pins := slices.Clone(raw)
	slices.SortFunc(pins, comparePins)

	return slices.Compact(pins)
}

func comparePins(a, b types.Pin) int {
	if c := cmp.Compare(a.SystemID, b.SystemID); c != 0 {
		return c
	}

	return cmp.Compare(a.SubscriptionID, b.SubscriptionID)
}

func sortedInstalled(raw []types.InstalledProduct) []types.InstalledProduct {
	installed := slices.Clone(raw)
	slices.SortFunc(installed, func(a, b types.InstalledProduct) int {
		if c := cmp.Compare(a.SystemID, b.SystemID); c != 0 {
			return c
		}

		return cmp.Compare(a.ProductID, b.ProductID)
	})

	return slices.Compact(installed)
}

// String returns a short description of the model for logging.
func (m *Model) String() string {
	return fmt.Sprintf("associations=%d groups=%d conflicts=%d free=%d",
		m.Vector.Len(), m.Conflicts.GroupCount(), len(m.Vector.Facts().Conflicts), len(m.Free))
}

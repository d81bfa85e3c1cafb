package move

import (
	"cmp"
	"iter"
	"math/rand/v2"
	"slices"

	"github.com/uyuni-project/subscription-matcher-sub000/internal/facts"
	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

// Swap exchanges the values of a confirmed and an unconfirmed association
// sharing a subscription.
//
// Candidate pairs are built per subscription: associations are split into
// confirmed and unconfirmed buckets, each bucket is shuffled, and buckets are
// paired positionally, so a subscription contributes at most
// min(len(confirmed), len(unconfirmed)) pairs. The pooled pairs are shuffled
// once more before iteration.
type Swap struct {
	idx   *facts.ConflictIndex
	bySub [][]int // association ids per subscription, subscriptions ascending
}

// Compile-time assertion that Swap implements Generator.
var _ Generator = (*Swap)(nil)

// NewSwap creates a swap generator over the associations of v.
func NewSwap(idx *facts.ConflictIndex, v *types.Vector) *Swap {
	slot := make(map[int64]int)
	var subs []int64
	var bySub [][]int
	for i := range v.Len() {
		id := v.At(i).SubscriptionID
		s, ok := slot[id]
		if !ok {
			s = len(subs)
			slot[id] = s
			subs = append(subs, id)
			bySub = append(bySub, nil)
		}
		bySub[s] = append(bySub[s], i)
	}

	order := make([]int, len(subs))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int { return cmp.Compare(subs[a], subs[b]) })

	sorted := make([][]int, len(order))
	for i, s := range order {
		sorted[i] = bySub[s]
	}

	return &Swap{idx: idx, bySub: sorted}
}

// Name returns "swap".
func (s *Swap) Name() string {
	return "swap"
}

// Size returns the number of positional pairs for the current values of v.
func (s *Swap) Size(v *types.Vector) int {
	n := 0
	for _, ids := range s.bySub {
		confirmed := 0
		for _, id := range ids {
			if v.Value(id).IsTrue() {
				confirmed++
			}
		}
		n += min(confirmed, len(ids)-confirmed)
	}

	return n
}

type pair struct {
	confirmed   int
	unconfirmed int
}

// Moves yields swaps over shuffled positional pairs. Pairs within one group
// and pairs whose unconfirmed side conflicts with itself are skipped.
func (s *Swap) Moves(v *types.Vector, rng *rand.Rand, limit int) iter.Seq[types.Move] {
	var pairs []pair
	for _, ids := range s.bySub {
		var on, off []int
		for _, id := range ids {
			if v.Value(id).IsTrue() {
				on = append(on, id)
			} else {
				off = append(off, id)
			}
		}
		shuffle(rng, on)
		shuffle(rng, off)
		for i := range min(len(on), len(off)) {
			pairs = append(pairs, pair{confirmed: on[i], unconfirmed: off[i]})
		}
	}
	rng.Shuffle(len(pairs), func(i, j int) { pairs[i], pairs[j] = pairs[j], pairs[i] })

	return func(yield func(types.Move) bool) {
		emitted := 0
		for _, p := range pairs {
			if emitted >= limit {
				return
			}
			if s.idx.SameGroup(p.confirmed, p.unconfirmed) || s.idx.Blocked(p.unconfirmed) {
				continue
			}

			b := newBuilder(s.idx, v)
			b.group(p.confirmed, types.False)
			b.group(p.unconfirmed, types.True)
			b.cascade(p.unconfirmed)

			emitted++
			if !yield(b.move()) {
				return
			}
		}
	}
}

func shuffle(rng *rand.Rand, ids []int) {
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
}

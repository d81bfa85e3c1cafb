// Package score provides the default score oracle and the trial/commit
// evaluator shared by construction and search.
package score

import (
	"fmt"

	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

// Weights of the quality terms.
const (
	// CoverageWeight rewards each distinct (system, product) pair covered by
	// at least one confirmed association.
	CoverageWeight = 1_000_000

	// PinWeight rewards each pin with a confirmed association on its
	// (system, subscription). Free associations of a confirmed group count.
	PinWeight = 100_000

	// ConflictWeight is the feasibility cost of one violated conflict edge.
	ConflictWeight = 100
)

var errUnbound = fmt.Errorf("%w: ledger is not bound to this vector", types.ErrOracleFailure)

// Ledger is the default score oracle.
//
// It keeps running totals for a bound vector:
//   - per-subscription consumption (confirmed cents plus active penalties)
//   - per-conflict-edge violation
//   - per-pair coverage and per-pin satisfaction counts
//
// and updates them from the diffs of every change. Score always recomputes
// from scratch and never touches the running totals.
//
// Feasibility = -(ConflictWeight * violated edges + overrun cents).
// Quality = CoverageWeight * covered pairs + PinWeight * satisfied pins
// - confirmed cents - active penalty cents.
type Ledger struct {
	bound *types.Vector
	t     *tally
}

// Compile-time assertion that Ledger implements IncrementalOracle.
var _ types.IncrementalOracle = (*Ledger)(nil)

// NewLedger creates an unbound ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Score evaluates v from scratch.
func (l *Ledger) Score(v *types.Vector) (types.Score, error) {
	t, err := newTally(v)
	if err != nil {
		return types.Score{}, err
	}

	return t.score(), nil
}

// Bind rebuilds the running totals from v.
func (l *Ledger) Bind(v *types.Vector) (types.Score, error) {
	t, err := newTally(v)
	if err != nil {
		return types.Score{}, err
	}
	l.bound = v
	l.t = t

	return t.score(), nil
}

// Update folds diffs already applied to the bound vector into the totals.
//
// Returns:
//   - types.Score: The new score
//   - error: ErrOracleFailure (wrapped) when v is not the bound vector
func (l *Ledger) Update(v *types.Vector, diffs []types.Diff) (types.Score, error) {
	if l.t == nil || v != l.bound {
		return types.Score{}, errUnbound
	}
	for _, d := range diffs {
		was, is := d.From.IsTrue(), d.To.IsTrue()
		switch {
		case !was && is:
			l.t.confirm(d.Index, v.At(d.Index).Cents, 1)
		case was && !is:
			l.t.confirm(d.Index, v.At(d.Index).Cents, -1)
		}
	}

	return l.t.score(), nil
}

// tally holds the running totals over one vector.
type tally struct {
	idx *index

	consumption   []int // subscription slot -> cents
	groupCount    []int // group slot -> confirmed members
	pairCount     []int
	pinCount      []int
	penaltyHits   []int
	edgeViolation []bool

	violated       int64
	overrun        int64
	covered        int64
	pinsSatisfied  int64
	confirmedCents int64
	penaltyCents   int64
}

func newTally(v *types.Vector) (*tally, error) {
	idx, err := newIndex(v)
	if err != nil {
		return nil, err
	}

	groups := len(idx.edgesOfGrp)
	t := &tally{
		idx:           idx,
		consumption:   make([]int, len(idx.capacity)),
		groupCount:    make([]int, groups),
		pairCount:     make([]int, idx.pairs),
		pinCount:      make([]int, idx.pins),
		penaltyHits:   make([]int, len(idx.penaltySub)),
		edgeViolation: make([]bool, len(idx.edges)),
	}
	for i := range v.Len() {
		if v.Value(i).IsTrue() {
			t.confirm(i, v.At(i).Cents, 1)
		}
	}

	return t, nil
}

// confirm adds (delta=1) or removes (delta=-1) association i.
func (t *tally) confirm(i, cents, delta int) {
	idx := t.idx

	t.consume(idx.subOf[i], delta*cents)
	t.confirmedCents += int64(delta * cents)

	for _, p := range idx.penaltiesOf[i] {
		before := t.penaltyHits[p]
		t.penaltyHits[p] += delta
		if (before == 0) != (t.penaltyHits[p] == 0) {
			t.consume(idx.penaltySub[p], delta*idx.penaltyCost[p])
			t.penaltyCents += int64(delta * idx.penaltyCost[p])
		}
	}

	pair := idx.pairOf[i]
	before := t.pairCount[pair]
	t.pairCount[pair] += delta
	if (before == 0) != (t.pairCount[pair] == 0) {
		t.covered += int64(delta)
	}

	if pin := idx.pinOf[i]; pin >= 0 {
		t.pin(pin, delta)
	}

	g := idx.groupOf[i]
	before = t.groupCount[g]
	t.groupCount[g] += delta
	if (before == 0) != (t.groupCount[g] == 0) {
		for _, e := range idx.edgesOfGrp[g] {
			t.refreshEdge(e)
		}
		for _, pin := range idx.pinsOfGrp[g] {
			t.pin(pin, delta)
		}
	}
}

// pin counts one more (delta=1) or one less (delta=-1) confirmed tuple
// satisfying pin slot p.
func (t *tally) pin(p, delta int) {
	before := t.pinCount[p]
	t.pinCount[p] += delta
	if (before == 0) != (t.pinCount[p] == 0) {
		t.pinsSatisfied += int64(delta)
	}
}

func (t *tally) consume(sub, cents int) {
	if cents == 0 {
		return
	}
	before := t.overrunOf(sub)
	t.consumption[sub] += cents
	t.overrun += int64(t.overrunOf(sub) - before)
}

func (t *tally) overrunOf(sub int) int {
	if t.idx.unlimited[sub] {
		return 0
	}

	return max(0, t.consumption[sub]-t.idx.capacity[sub])
}

func (t *tally) refreshEdge(e int) {
	pair := t.idx.edges[e]
	violated := t.groupCount[pair[0]] > 0 && t.groupCount[pair[1]] > 0
	if violated == t.edgeViolation[e] {
		return
	}
	t.edgeViolation[e] = violated
	if violated {
		t.violated++
	} else {
		t.violated--
	}
}

func (t *tally) score() types.Score {
	return types.Score{
		Feasibility: -(ConflictWeight*t.violated + t.overrun),
		Quality:     CoverageWeight*t.covered + PinWeight*t.pinsSatisfied - t.confirmedCents - t.penaltyCents,
	}
}

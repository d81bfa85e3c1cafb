package assemble

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/uyuni-project/subscription-matcher-sub000/internal/facts"
	"github.com/uyuni-project/subscription-matcher-sub000/test/testutil"
	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

func buildModel(t *testing.T, in *types.Input) *facts.Model {
	t.Helper()
	m, err := facts.Build(in)
	require.NoError(t, err)

	return m
}

func set(v *types.Vector, value types.Confirmed, ids ...int) {
	for _, id := range ids {
		v.Apply(types.Move{Changes: []types.Change{{Index: id, Value: value}}})
	}
}

func TestAssemble_SingleMatch(t *testing.T) {
	m := buildModel(t, testutil.SingleMatchInput())
	set(m.Vector, types.True, 0)
	sc := types.Score{Quality: 999_900}

	res := Assemble(m, m.Vector, sc, types.RunStats{Steps: 3})

	require.Equal(t, testutil.Timestamp, res.Timestamp)
	require.Equal(t, []types.ConfirmedTuple{{SystemID: 1, ProductID: 10, SubscriptionID: 100, Cents: 100}}, res.Confirmed)
	require.Empty(t, res.Messages)
	require.Equal(t, sc, res.Score)
	require.Equal(t, 3, res.Stats.Steps)
	require.Equal(t, []types.SubscriptionBalance{
		{SubscriptionID: 100, PartNumber: "SUB-100", CapacityCents: 1000, RemainingCents: 900},
	}, res.Remaining)
	require.Equal(t, []types.SystemStatus{
		{SystemID: 1, Status: types.StatusCompliant, Covered: []int64{10}, Uncovered: []int64{}},
	}, res.Systems)
}

// A pin without a valid association yields exactly one message.
func TestAssemble_UnsatisfiedPin(t *testing.T) {
	m := buildModel(t, testutil.UnsatisfiablePinInput())
	set(m.Vector, types.True, 0)

	res := Assemble(m, m.Vector, types.Score{}, types.RunStats{})

	require.Len(t, res.Confirmed, 1)
	require.Equal(t, []types.Message{{
		Severity: types.SeverityInfo,
		Type:     types.MessageUnsatisfiedPinnedMatch,
		Data:     map[string]string{"system_id": "2", "subscription_id": "100"},
	}}, res.Messages)
}

func TestAssemble_SatisfiedPin(t *testing.T) {
	in := testutil.SingleMatchInput()
	in.Pins = []types.Pin{{SystemID: 1, SubscriptionID: 100}, {SystemID: 1, SubscriptionID: 100}}
	m := buildModel(t, in)

	t.Run("confirmed", func(t *testing.T) {
		set(m.Vector, types.True, 0)
		require.Empty(t, Assemble(m, m.Vector, types.Score{}, types.RunStats{}).Messages)
	})

	t.Run("rejected", func(t *testing.T) {
		set(m.Vector, types.False, 0)
		res := Assemble(m, m.Vector, types.Score{}, types.RunStats{})
		require.Len(t, res.Messages, 1, "duplicate pins report once")
		require.Empty(t, res.Confirmed)
		require.Equal(t, types.StatusNonCompliant, res.Systems[0].Status)
	})
}

func TestAssemble_FreeAssociations(t *testing.T) {
	in := testutil.SingleMatchInput()
	in.Free = []types.FreeAssociation{
		{SystemID: 1, ProductID: 11, SubscriptionID: 100, RequiredGroupID: 1},
		{SystemID: 1, ProductID: 11, SubscriptionID: 100, RequiredGroupID: 1},
	}
	in.Installed = append(in.Installed, types.InstalledProduct{SystemID: 1, ProductID: 11})
	m := buildModel(t, in)

	t.Run("synthesized when group is confirmed", func(t *testing.T) {
		set(m.Vector, types.True, 0)
		res := Assemble(m, m.Vector, types.Score{}, types.RunStats{})

		require.Equal(t, []types.ConfirmedTuple{
			{SystemID: 1, ProductID: 10, SubscriptionID: 100, Cents: 100},
			{SystemID: 1, ProductID: 11, SubscriptionID: 100, Cents: 0},
		}, res.Confirmed)
		require.Equal(t, types.StatusCompliant, res.Systems[0].Status)
		require.Equal(t, 900, res.Remaining[0].RemainingCents, "free associations consume nothing")
	})

	t.Run("absent when group is rejected", func(t *testing.T) {
		set(m.Vector, types.False, 0)
		res := Assemble(m, m.Vector, types.Score{}, types.RunStats{})

		require.Empty(t, res.Confirmed)
	})
}

func TestAssemble_Balances(t *testing.T) {
	in := testutil.CapacityBoundInput()
	in.Subscriptions = append(in.Subscriptions,
		types.Subscription{ID: 200, Unlimited: true},
		types.Subscription{ID: 300, CapacityCents: 50},
	)
	in.Penalties = []types.Penalty{{SubscriptionID: 100, SystemIDs: []int64{2}, Cents: 50}}
	m := buildModel(t, in)

	set(m.Vector, types.True, 0)
	res := Assemble(m, m.Vector, types.Score{}, types.RunStats{})
	require.Equal(t, []types.SubscriptionBalance{
		{SubscriptionID: 100, CapacityCents: 200, RemainingCents: 100},
		{SubscriptionID: 300, CapacityCents: 50, RemainingCents: 50},
	}, res.Remaining)

	// Penalty on system 2 activates; subscription 100 is exhausted.
	set(m.Vector, types.True, 1)
	res = Assemble(m, m.Vector, types.Score{}, types.RunStats{})
	require.Equal(t, []types.SubscriptionBalance{
		{SubscriptionID: 300, CapacityCents: 50, RemainingCents: 50},
	}, res.Remaining)
}

func TestAssemble_Compliance(t *testing.T) {
	in := &types.Input{
		Candidates: []types.Candidate{
			{SystemID: 1, ProductID: 10, SubscriptionID: 100, Cents: 100, GroupID: 1},
			{SystemID: 2, ProductID: 10, SubscriptionID: 100, Cents: 100, GroupID: 2},
		},
		Installed: []types.InstalledProduct{
			{SystemID: 2, ProductID: 20},
			{SystemID: 1, ProductID: 10},
			{SystemID: 2, ProductID: 10},
			{SystemID: 3, ProductID: 10},
		},
	}
	m := buildModel(t, in)
	set(m.Vector, types.True, 0, 1)

	res := Assemble(m, m.Vector, types.Score{}, types.RunStats{})
	require.Equal(t, []types.SystemStatus{
		{SystemID: 1, Status: types.StatusCompliant, Covered: []int64{10}, Uncovered: []int64{}},
		{SystemID: 2, Status: types.StatusPartiallyCompliant, Covered: []int64{10}, Uncovered: []int64{20}},
		{SystemID: 3, Status: types.StatusNonCompliant, Covered: []int64{}, Uncovered: []int64{10}},
	}, res.Systems)
}

func TestAssemble_PureAndIdempotent(t *testing.T) {
	in := testutil.UnsatisfiablePinInput()
	in.Pins = append(in.Pins, types.Pin{SystemID: 9, SubscriptionID: 1})
	m := buildModel(t, in)
	set(m.Vector, types.True, 0)
	before := m.Vector.Associations()

	a := Assemble(m, m.Vector, types.Score{Quality: 1}, types.RunStats{Seed: 4})
	b := Assemble(m, m.Vector, types.Score{Quality: 1}, types.RunStats{Seed: 4})

	require.Equal(t, a, b)
	require.Equal(t, before, m.Vector.Associations())
	require.Len(t, a.Messages, 2)
	require.Equal(t, "1", a.Messages[0].Data["subscription_id"])
}

func TestAssemble_Empty(t *testing.T) {
	m := buildModel(t, &types.Input{})
	res := Assemble(m, m.Vector, types.Score{}, types.RunStats{Termination: types.TerminationEmpty})

	require.NotNil(t, res.Confirmed)
	require.NotNil(t, res.Messages)
	require.Empty(t, res.Confirmed)
	require.Empty(t, res.Messages)
	require.Empty(t, res.Systems)
}

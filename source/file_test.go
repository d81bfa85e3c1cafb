package source

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/uyuni-project/subscription-matcher-sub000/types"
)

const factsYAML = `
timestamp: "2024-03-15T09:30:00Z"
candidates:
  - {systemId: 1, productId: 10, subscriptionId: 100, cents: 100, groupId: 1}
  - {systemId: 1, productId: 10, subscriptionId: 200, cents: 100, groupId: 2}
conflicts:
  - {groupA: 1, groupB: 2}
free:
  - {systemId: 1, productId: 11, subscriptionId: 100, requiredGroupId: 1}
pins:
  - {systemId: 1, subscriptionId: 200}
subscriptions:
  - {id: 100, partNumber: "SUB-100", capacityCents: 500}
  - {id: 200, unlimited: true}
penalties:
  - {subscriptionId: 100, systemIds: [1], cents: 25}
installed:
  - {systemId: 1, productId: 10}
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "facts.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestFile_Load(t *testing.T) {
	in, err := NewFile(writeFile(t, factsYAML)).Load(context.Background())
	require.NoError(t, err)

	require.Equal(t, time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC), in.Timestamp)
	require.Equal(t, []types.Candidate{
		{SystemID: 1, ProductID: 10, SubscriptionID: 100, Cents: 100, GroupID: 1},
		{SystemID: 1, ProductID: 10, SubscriptionID: 200, Cents: 100, GroupID: 2},
	}, in.Candidates)
	require.Equal(t, []types.ConflictEdge{{GroupA: 1, GroupB: 2}}, in.Conflicts)
	require.Equal(t, []types.FreeAssociation{{SystemID: 1, ProductID: 11, SubscriptionID: 100, RequiredGroupID: 1}}, in.Free)
	require.Equal(t, []types.Pin{{SystemID: 1, SubscriptionID: 200}}, in.Pins)
	require.Equal(t, []types.Subscription{
		{ID: 100, PartNumber: "SUB-100", CapacityCents: 500},
		{ID: 200, Unlimited: true},
	}, in.Subscriptions)
	require.Equal(t, []types.Penalty{{SubscriptionID: 100, SystemIDs: []int64{1}, Cents: 25}}, in.Penalties)
	require.Equal(t, []types.InstalledProduct{{SystemID: 1, ProductID: 10}}, in.Installed)
}

func TestFile_LoadJSON(t *testing.T) {
	doc := `{"timestamp": "2024-01-01T00:00:00Z", "candidates": [{"systemId": 3, "productId": 4, "subscriptionId": 5, "cents": 6, "groupId": 7}]}`

	in, err := NewFile(writeFile(t, doc)).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, []types.Candidate{{SystemID: 3, ProductID: 4, SubscriptionID: 5, Cents: 6, GroupID: 7}}, in.Candidates)
}

func TestFile_LoadMarshaledInput(t *testing.T) {
	want := types.Input{
		Timestamp:     time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC),
		Candidates:    []types.Candidate{{SystemID: 1, ProductID: 10, SubscriptionID: 100, Cents: 100, GroupID: 1}},
		Conflicts:     []types.ConflictEdge{{GroupA: 1, GroupB: 2}},
		Free:          []types.FreeAssociation{{SystemID: 1, ProductID: 11, SubscriptionID: 100, RequiredGroupID: 1}},
		Pins:          []types.Pin{{SystemID: 1, SubscriptionID: 100}},
		Subscriptions: []types.Subscription{{ID: 100, PartNumber: "SUB-100", CapacityCents: 500}},
		Penalties:     []types.Penalty{{SubscriptionID: 100, SystemIDs: []int64{1}, Cents: 25}},
		Installed:     []types.InstalledProduct{{SystemID: 1, ProductID: 10}},
	}
	data, err := json.Marshal(want)
	require.NoError(t, err)

	in, err := NewFile(writeFile(t, string(data))).Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, want, *in)
}

func TestDecode_UnknownKey(t *testing.T) {
	_, err := Decode([]byte(`{"candidates": [{"system_id": 1, "product_id": 10, "subscription_id": 100, "cents": 100}]}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "system_id")

	_, err = Decode([]byte("pinz: []\n"))
	require.Error(t, err)
}

func TestDecode_Empty(t *testing.T) {
	in, err := Decode(nil)
	require.NoError(t, err)
	require.Equal(t, &types.Input{}, in)
}

func TestFile_Errors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.yaml") }},
		{"malformed yaml", func(t *testing.T) string { return writeFile(t, "candidates: [1, 2") }},
		{"bad timestamp", func(t *testing.T) string { return writeFile(t, "timestamp: yesterday\n") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFile(tt.path(t)).Load(context.Background())
			require.Error(t, err)
		})
	}
}

func TestFile_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFile(writeFile(t, factsYAML)).Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDecode_NoTimestamp(t *testing.T) {
	in, err := Decode([]byte("pins: [{systemId: 1, subscriptionId: 2}]"))
	require.NoError(t, err)
	require.True(t, in.Timestamp.IsZero())
	require.Len(t, in.Pins, 1)
}

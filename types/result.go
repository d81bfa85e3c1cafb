package types

import (
	"cmp"
	"maps"
	"slices"
	"time"
)

// Severity classifies a diagnostic message.
type Severity string

// Message severities.
const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Message type tags.
const (
	// MessageUnsatisfiedPinnedMatch reports a pin absent from the confirmed set.
	// Data keys: system_id, subscription_id.
	MessageUnsatisfiedPinnedMatch = "unsatisfied_pinned_match"
)

// Message is a diagnostic attached to a result.
type Message struct {
	Severity Severity          `json:"severity"`
	Type     string            `json:"type"`
	Data     map[string]string `json:"data"`
}

// Compare orders messages by type tag, then by their data maps compared as
// sorted key/value sequences.
func (m Message) Compare(o Message) int {
	if c := cmp.Compare(m.Type, o.Type); c != 0 {
		return c
	}

	mk := slices.Sorted(maps.Keys(m.Data))
	ok := slices.Sorted(maps.Keys(o.Data))
	n := min(len(mk), len(ok))
	for i := range n {
		if c := cmp.Compare(mk[i], ok[i]); c != 0 {
			return c
		}
		if c := cmp.Compare(m.Data[mk[i]], o.Data[ok[i]]); c != 0 {
			return c
		}
	}

	return cmp.Compare(len(mk), len(ok))
}

// ConfirmedTuple is one confirmed association in the output.
type ConfirmedTuple = AssociationKey

// SubscriptionBalance is the capacity left on a capped subscription.
type SubscriptionBalance struct {
	SubscriptionID int64  `json:"subscription_id"`
	PartNumber     string `json:"part_number,omitempty"`
	CapacityCents  int    `json:"capacity_cents"`
	RemainingCents int    `json:"remaining_cents"`
}

// ComplianceStatus classifies a system by how many of its installed
// products are covered by a confirmed association.
type ComplianceStatus string

// Compliance statuses.
const (
	StatusCompliant          ComplianceStatus = "compliant"
	StatusPartiallyCompliant ComplianceStatus = "partially_compliant"
	StatusNonCompliant       ComplianceStatus = "non_compliant"
)

// SystemStatus is the compliance report of one system.
type SystemStatus struct {
	SystemID  int64            `json:"system_id"`
	Status    ComplianceStatus `json:"status"`
	Covered   []int64          `json:"covered_product_ids"`
	Uncovered []int64          `json:"uncovered_product_ids"`
}

// Termination names the reason a search stopped.
type Termination string

// Termination reasons.
const (
	TerminationEmpty         Termination = "no_associations"
	TerminationUnimproved    Termination = "unimproved_step_limit"
	TerminationStepLimit     Termination = "step_limit"
	TerminationTimeLimit     Termination = "time_limit"
	TerminationNotTerminated Termination = ""
)

// RunStats summarizes one run.
type RunStats struct {
	Seed              int64       `json:"seed"`
	Associations      int         `json:"associations"`
	Steps             int         `json:"steps"`
	ConstructionScore Score       `json:"construction_score"`
	Termination       Termination `json:"termination"`
	ElapsedMillis     int64       `json:"elapsed_ms"`
}

// Result is the externally visible output of a run.
type Result struct {
	// Timestamp is copied unchanged from the input.
	Timestamp time.Time `json:"timestamp"`

	// Confirmed lists confirmed tuples in canonical order, free associations included.
	Confirmed []ConfirmedTuple `json:"confirmed"`

	// Messages lists diagnostics sorted by (type, data).
	Messages []Message `json:"messages"`

	// Score is the score of the best vector found.
	Score Score `json:"score"`

	// Remaining lists capacity left on capped subscriptions, sorted by id.
	Remaining []SubscriptionBalance `json:"remaining"`

	// Systems lists compliance per system with installed products, sorted by id.
	Systems []SystemStatus `json:"systems"`

	Stats RunStats `json:"stats"`
}

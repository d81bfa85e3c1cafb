package types

import "time"

// Candidate is one association record produced by the deduction stage.
//
// Several candidates may share one key; they are merged into a single
// association and their groups are unified.
type Candidate struct {
	SystemID       int64 `json:"systemId" yaml:"systemId"`
	ProductID      int64 `json:"productId" yaml:"productId"`
	SubscriptionID int64 `json:"subscriptionId" yaml:"subscriptionId"`
	Cents          int   `json:"cents" yaml:"cents"`
	GroupID        int   `json:"groupId" yaml:"groupId"`
}

// Key returns the identity of the candidate.
func (c Candidate) Key() AssociationKey {
	return AssociationKey{
		SystemID:       c.SystemID,
		ProductID:      c.ProductID,
		SubscriptionID: c.SubscriptionID,
		Cents:          c.Cents,
	}
}

// ConflictEdge is an unordered pair of groups that must not both be confirmed.
type ConflictEdge struct {
	GroupA int `json:"groupA" yaml:"groupA"`
	GroupB int `json:"groupB" yaml:"groupB"`
}

// Normalize returns the edge with GroupA <= GroupB.
func (e ConflictEdge) Normalize() ConflictEdge {
	if e.GroupA > e.GroupB {
		return ConflictEdge{GroupA: e.GroupB, GroupB: e.GroupA}
	}

	return e
}

// FreeAssociation consumes no capacity and is confirmed implicitly once its
// required group is confirmed. It is never a decision variable.
type FreeAssociation struct {
	SystemID        int64 `json:"systemId" yaml:"systemId"`
	ProductID       int64 `json:"productId" yaml:"productId"`
	SubscriptionID  int64 `json:"subscriptionId" yaml:"subscriptionId"`
	RequiredGroupID int   `json:"requiredGroupId" yaml:"requiredGroupId"`
}

// Pin is a user request to match a system to a subscription.
type Pin struct {
	SystemID       int64 `json:"systemId" yaml:"systemId"`
	SubscriptionID int64 `json:"subscriptionId" yaml:"subscriptionId"`
}

// Subscription is the capacity fact of one subscription.
//
// Subscriptions referenced by candidates without a fact are unlimited.
type Subscription struct {
	ID            int64  `json:"id" yaml:"id"`
	PartNumber    string `json:"partNumber,omitempty" yaml:"partNumber"`
	CapacityCents int    `json:"capacityCents" yaml:"capacityCents"`
	Unlimited     bool   `json:"unlimited,omitempty" yaml:"unlimited"`
}

// Penalty is a one-off consumption charged to a subscription once any
// confirmed association on it lands on one of the listed systems.
type Penalty struct {
	SubscriptionID int64   `json:"subscriptionId" yaml:"subscriptionId"`
	SystemIDs      []int64 `json:"systemIds" yaml:"systemIds"`
	Cents          int     `json:"cents" yaml:"cents"`
}

// InstalledProduct records a product installed on a system. It is used only
// for compliance reporting.
type InstalledProduct struct {
	SystemID  int64 `json:"systemId" yaml:"systemId"`
	ProductID int64 `json:"productId" yaml:"productId"`
}

// Input is the complete fact set of one run.
type Input struct {
	// Timestamp is passed through to the result unchanged.
	Timestamp time.Time `json:"timestamp" yaml:"-"`

	Candidates    []Candidate        `json:"candidates" yaml:"candidates"`
	Conflicts     []ConflictEdge     `json:"conflicts" yaml:"conflicts"`
	Free          []FreeAssociation  `json:"free" yaml:"free"`
	Pins          []Pin              `json:"pins" yaml:"pins"`
	Subscriptions []Subscription     `json:"subscriptions" yaml:"subscriptions"`
	Penalties     []Penalty          `json:"penalties" yaml:"penalties"`
	Installed     []InstalledProduct `json:"installed" yaml:"installed"`
}

package types

import "cmp"

// Confirmed is the tri-state decision value of an association.
//
// The zero value is Unset. Only Construction assigns Unset associations;
// after construction every association is either True or False.
type Confirmed int8

const (
	// Unset means the association has not been decided yet.
	Unset Confirmed = iota

	// True means the association is confirmed.
	True

	// False means the association is explicitly rejected.
	False
)

// String returns the string representation of the value.
func (c Confirmed) String() string {
	switch c {
	case Unset:
		return "unset"
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// IsTrue reports whether the association is confirmed.
func (c Confirmed) IsTrue() bool {
	return c == True
}

// Negate returns the opposite decided value. Unset negates to True.
func (c Confirmed) Negate() Confirmed {
	if c == True {
		return False
	}

	return True
}

// AssociationKey is the identity of an association.
//
// Two candidates with the same key are the same decision variable, no matter
// how many derivation paths produced them.
type AssociationKey struct {
	SystemID       int64 `json:"system_id" yaml:"systemId"`
	ProductID      int64 `json:"product_id" yaml:"productId"`
	SubscriptionID int64 `json:"subscription_id" yaml:"subscriptionId"`
	Cents          int   `json:"cents" yaml:"cents"`
}

// Compare performs a lexicographic comparison over (system, product, subscription, cents).
//
// Returns:
//   - int: -1 if k < o, 0 if equal, +1 if k > o
func (k AssociationKey) Compare(o AssociationKey) int {
	if c := cmp.Compare(k.SystemID, o.SystemID); c != 0 {
		return c
	}
	if c := cmp.Compare(k.ProductID, o.ProductID); c != 0 {
		return c
	}
	if c := cmp.Compare(k.SubscriptionID, o.SubscriptionID); c != 0 {
		return c
	}

	return cmp.Compare(k.Cents, o.Cents)
}

// Association is a candidate (system, product, subscription) decision variable.
//
// ID equals the association's position in canonical order. GroupID is the
// canonical fate-sharing group. Neither ID, GroupID nor Confirmed takes part
// in identity or ordering.
type Association struct {
	ID             int
	SystemID       int64
	ProductID      int64
	SubscriptionID int64
	Cents          int
	GroupID        int
	Confirmed      Confirmed
}

// Key returns the identity of the association.
func (a Association) Key() AssociationKey {
	return AssociationKey{
		SystemID:       a.SystemID,
		ProductID:      a.ProductID,
		SubscriptionID: a.SubscriptionID,
		Cents:          a.Cents,
	}
}

// Compare orders associations canonically by key.
func (a Association) Compare(b Association) int {
	return a.Key().Compare(b.Key())
}

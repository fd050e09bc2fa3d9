package repository

// OwnerScope selects which part of the vocabulary a query reads.
type OwnerScope int

const (
	// ScopeShared covers words without an owner (the general pool).
	ScopeShared OwnerScope = iota
	// ScopeOwned covers words added by the querying user.
	ScopeOwned
)

func (s OwnerScope) String() string {
	switch s {
	case ScopeOwned:
		return "owned"
	default:
		return "shared"
	}
}

package tax

// SupplyScope enumerates whether buyer and seller share a tax jurisdiction.
type SupplyScope string

const (
	ScopeIntrastate SupplyScope = "INTRASTATE"
	ScopeInterstate SupplyScope = "INTERSTATE"
)

// Intrastate reports whether the scope keeps tax within one state.
func (s SupplyScope) Intrastate() bool {
	return s == ScopeIntrastate
}

// Valid reports whether the scope is a known value.
func (s SupplyScope) Valid() bool {
	return s == ScopeIntrastate || s == ScopeInterstate
}

// ResolveScope compares seller and buyer state codes. When either code is
// unknown the configured fallback applies; the second return value reports
// whether the fallback was used so callers can log the substitution instead
// of defaulting silently.
func ResolveScope(sellerState, buyerState string, fallback SupplyScope) (SupplyScope, bool) {
	if sellerState == "" || buyerState == "" {
		return fallback, true
	}
	if sellerState == buyerState {
		return ScopeIntrastate, false
	}
	return ScopeInterstate, false
}

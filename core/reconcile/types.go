package reconcile

import "time"

// Source names one of the three stores taking part in a reconciliation.
type Source string

const (
	// SourceLibrary is the BibTeX entry store.
	SourceLibrary Source = "library"
	// SourceIdentifiers is the identifier collection.
	SourceIdentifiers Source = "identifiers"
	// SourceOrder is the add-order list.
	SourceOrder Source = "order"
)

// ReconcileResult represents the reconciliation output for a single key.
// It contains presence flags for each source.
type ReconcileResult struct {
	// ID is the citation key.
	ID string `json:"id"`

	// LibraryPresent indicates whether an entry with this key exists.
	LibraryPresent bool `json:"library_present"`

	// IdentifiersPresent indicates whether an identifier record exists.
	IdentifiersPresent bool `json:"identifiers_present"`

	// OrderPresent indicates whether the key is listed in the add order.
	OrderPresent bool `json:"order_present"`
}

// Complete reports whether the key is present in all three sources.
func (r ReconcileResult) Complete() bool {
	return r.LibraryPresent && r.IdentifiersPresent && r.OrderPresent
}

// SourceReport holds the discrepancies of one source against the other two.
type SourceReport struct {
	Source Source `json:"source"`

	// Total is the number of keys read from the source, duplicates included.
	Total int `json:"total"`

	// MissingFrom lists keys present in another source but not in this one.
	MissingFrom []string `json:"missing_from"`

	// OnlyIn lists keys present in this source and neither of the others.
	OnlyIn []string `json:"only_in"`

	// Duplicates lists keys appearing more than once in this source.
	Duplicates []string `json:"duplicates"`
}

// Clean reports whether the source has no discrepancy.
func (s SourceReport) Clean() bool {
	return len(s.MissingFrom) == 0 && len(s.OnlyIn) == 0 && len(s.Duplicates) == 0
}

// Report is the result of a three-way consistency check.
type Report struct {
	// Results contains one entry per key of the union, sorted by key.
	Results []ReconcileResult `json:"results"`

	Library     SourceReport `json:"library"`
	Identifiers SourceReport `json:"identifiers"`
	Order       SourceReport `json:"order"`
}

// Sources returns the per-source reports in a fixed order.
func (r Report) Sources() []SourceReport {
	return []SourceReport{r.Library, r.Identifiers, r.Order}
}

// Consistent reports whether all three sources hold the same keys exactly once.
func (r Report) Consistent() bool {
	return r.Library.Clean() && r.Identifiers.Clean() && r.Order.Clean()
}

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionRename moves a key to its canonical label in every store.
	ActionRename ActionType = "rename"
)

// Action represents a planned mutation operation.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Key is the current key.
	Key string `json:"key"`

	// NewKey is the key after the action.
	NewKey string `json:"new_key"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`
}

// Candidate pairs a current key with the key it should have.
type Candidate struct {
	Key    string
	Target string
}

// Collision describes a target key that more than one key would end up with.
type Collision struct {
	Target string   `json:"target"`
	Keys   []string `json:"keys"`
}

// ReconcilePlan contains planned actions.
type ReconcilePlan struct {
	// Actions contains planned mutation operations, in candidate order.
	Actions []Action `json:"actions"`

	// Collisions lists targets claimed twice. A plan with collisions is never applied.
	Collisions []Collision `json:"collisions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// Renames returns the plan as a current -> new key map.
func (p *ReconcilePlan) Renames() map[string]string {
	m := make(map[string]string, len(p.Actions))
	for _, a := range p.Actions {
		if a.Type == ActionRename {
			m[a.Key] = a.NewKey
		}
	}
	return m
}

// Empty reports whether the plan has nothing to do.
func (p *ReconcilePlan) Empty() bool {
	return len(p.Actions) == 0
}

// PlanSummary provides aggregate statistics for a reconcile plan.
type PlanSummary struct {
	// TotalItems is the number of candidates examined.
	TotalItems int `json:"total_items"`

	// Unchanged counts keys that already equal their target.
	Unchanged int `json:"unchanged"`

	// RenameActions counts planned renames.
	RenameActions int `json:"rename_actions"`

	// Collisions counts targets claimed by more than one key.
	Collisions int `json:"collisions"`
}

// ReconcileOptions controls whether a plan is executed.
type ReconcileOptions struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// Confirmed indicates user has confirmed destructive actions.
	// If false, mutations will not execute regardless of DryRun.
	Confirmed bool
}

// CacheEntry is a value built once and reused until its TTL expires.
type CacheEntry[T any] struct {
	Value T

	// Built is the timestamp when this entry was built.
	Built time.Time

	// TTL is the time-to-live for this entry.
	TTL time.Duration
}

// IsExpired returns true if this entry has expired based on its TTL.
func (c *CacheEntry[T]) IsExpired() bool {
	if c.TTL == 0 {
		return true // No caching
	}
	return time.Since(c.Built) > c.TTL
}

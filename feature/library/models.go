package library

import (
	"biblib/core/reconcile"
	"biblib/core/workspace"
	"biblib/feature/labels"
)

// ConsistencyReport is the body of GET /library/consistency.
type ConsistencyReport struct {
	Consistent bool             `json:"consistent"`
	Problems   []string         `json:"problems"`
	Report     reconcile.Report `json:"report"`
}

// LabelsReport is the body of GET /library/labels.
type LabelsReport struct {
	Total      int                `json:"total"`
	Mismatches labels.Assignments `json:"mismatches"`
}

// EntrySummary is one row of GET /library/entries.
type EntrySummary struct {
	Key       string `json:"key"`
	Type      string `json:"type"`
	Title     string `json:"title,omitempty"`
	Label     string `json:"label"`
	Canonical bool   `json:"canonical"`
}

// EntryDetail is the body of GET /library/entries/:key.
type EntryDetail struct {
	EntrySummary
	Fields      map[string]string           `json:"fields"`
	Identifiers *workspace.IdentifierRecord `json:"identifiers,omitempty"`
	Presence    reconcile.ReconcileResult   `json:"presence"`
}

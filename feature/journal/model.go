package journal

import (
	"strings"
	"time"
)

// Actions recorded by the mutating commands.
const (
	ActionAdd       = "add"
	ActionFix       = "fix"
	ActionSort      = "sort"
	ActionSync      = "sync"
	ActionNormalize = "normalize"
	ActionTemplate  = "template"
)

// Event is one recorded workspace mutation.
type Event struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	Action    string    `gorm:"size:32;index" json:"action"`
	EntryKeys string    `gorm:"type:text" json:"entry_keys"`
	Count     int       `json:"count"`
	Detail    string    `gorm:"type:text" json:"detail"`
}

// TableName pins the table name.
func (Event) TableName() string {
	return "journal_events"
}

// Keys splits the stored key list.
func (e Event) Keys() []string {
	if e.EntryKeys == "" {
		return nil
	}
	return strings.Split(e.EntryKeys, ",")
}

// columns lists what Record writes; Migrate verifies them.
var columns = []string{"id", "created_at", "action", "entry_keys", "count", "detail"}

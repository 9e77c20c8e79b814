package sorting

import (
	"context"
	"fmt"
	"sort"

	"biblib/core/backup"
	"biblib/core/bibtex"
	"biblib/core/workspace"
	"biblib/feature/journal"

	"go.uber.org/zap"
)

// Mode selects the target order.
type Mode string

const (
	// Alphabetical sorts by key.
	Alphabetical Mode = "alphabetical"
	// AddOrder follows the add-order list.
	AddOrder Mode = "add-order"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case Alphabetical, AddOrder:
		return m, nil
	default:
		return "", fmt.Errorf("unknown sort mode %q (want %s or %s)", s, Alphabetical, AddOrder)
	}
}

// Keys returns the target key sequence for the mode.
func (m Mode) Keys(order workspace.OrderList) []string {
	keys := make([]string, len(order))
	copy(keys, order)
	if m == Alphabetical {
		sort.Strings(keys)
	}
	return keys
}

// Result reports the keys that did not line up with the order list.
type Result struct {
	Mode Mode
	// Entries is the number of entries written.
	Entries int
	// AbsentFromLibrary are listed keys with no entry.
	AbsentFromLibrary []string
	// UnlistedEntries are entries appended after the listed ones.
	UnlistedEntries []string
	// AbsentFromIdentifiers are listed keys with no identifier record.
	AbsentFromIdentifiers []string
	// UnlistedIdentifiers are records appended after the listed ones.
	UnlistedIdentifiers []string
}

// Service sorts one workspace.
type Service struct {
	paths   workspace.Paths
	backups backup.Snapshotter
	journal journal.Recorder
	logger  *zap.Logger
}

// NewService creates a sorting service.
func NewService(paths workspace.Paths, backups backup.Snapshotter, rec journal.Recorder, logger *zap.Logger) *Service {
	return &Service{paths: paths, backups: backups, journal: rec, logger: logger}
}

// Sort rewrites the library and the identifier collection in the mode's order.
func (s *Service) Sort(ctx context.Context, mode Mode) (*Result, error) {
	snap, err := s.paths.Load()
	if err != nil {
		return nil, err
	}
	keys := mode.Keys(snap.Order)

	res := &Result{Mode: mode}
	res.AbsentFromLibrary, res.UnlistedEntries = ReorderLibrary(snap.Library, keys)
	res.AbsentFromIdentifiers, res.UnlistedIdentifiers = snap.Identifiers.Reorder(keys)
	res.Entries = len(snap.Library.Entries())

	for _, k := range res.AbsentFromLibrary {
		s.logger.Warn("Key not found in library", zap.String("key", k))
	}
	for _, k := range res.UnlistedEntries {
		s.logger.Warn("Entry not in order list", zap.String("key", k))
	}
	for _, k := range res.AbsentFromIdentifiers {
		s.logger.Warn("Key not found in identifier collection", zap.String("key", k))
	}
	for _, k := range res.UnlistedIdentifiers {
		s.logger.Warn("Identifier record not in order list", zap.String("key", k))
	}

	ids, err := workspace.EncodeJSON(snap.Identifiers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode identifier collection: %w", err)
	}
	if _, err := s.backups.Snapshot(ctx, s.paths.Library, s.paths.Identifiers); err != nil {
		return nil, err
	}
	if err := workspace.WriteFiles(
		workspace.File{Path: s.paths.Library, Data: bibtex.Format(snap.Library)},
		workspace.File{Path: s.paths.Identifiers, Data: ids},
	); err != nil {
		return nil, err
	}

	_ = s.journal.Record(ctx, journal.ActionSort, nil, string(mode))
	s.logger.Info("Sorted workspace", zap.String("mode", string(mode)), zap.Int("entries", res.Entries))
	return res, nil
}

// ReorderLibrary puts raw blocks first, then the entries in keys order, then the entries
// whose key is not listed in their current order. Entries sharing a key stay together. It
// returns the listed keys with no entry and the unlisted entry keys.
func ReorderLibrary(lib *bibtex.Library, keys []string) (absent, unlisted []string) {
	var raw []bibtex.Block
	byKey := make(map[string][]bibtex.Block)
	var seen []string
	for _, b := range lib.Blocks {
		if !b.IsEntry() {
			raw = append(raw, b)
			continue
		}
		if _, ok := byKey[b.Entry.Key]; !ok {
			seen = append(seen, b.Entry.Key)
		}
		byKey[b.Entry.Key] = append(byKey[b.Entry.Key], b)
	}

	blocks := raw
	listed := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := listed[k]; dup {
			continue
		}
		listed[k] = struct{}{}
		entries, ok := byKey[k]
		if !ok {
			absent = append(absent, k)
			continue
		}
		blocks = append(blocks, entries...)
	}
	for _, k := range seen {
		if _, ok := listed[k]; !ok {
			blocks = append(blocks, byKey[k]...)
			unlisted = append(unlisted, k)
		}
	}

	lib.Blocks = blocks
	return absent, unlisted
}

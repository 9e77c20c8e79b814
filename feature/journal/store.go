package journal

import (
	"context"
	"fmt"
	"strings"

	"biblib/core/database"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Recorder receives workspace mutations.
type Recorder interface {
	Record(ctx context.Context, action string, keys []string, detail string) error
}

// Nop discards every event. It is used when the journal is disabled.
type Nop struct{}

// Record does nothing.
func (Nop) Record(context.Context, string, []string, string) error { return nil }

// Store persists events through GORM.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore wraps an open database.
func NewStore(db *gorm.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Migrate creates or updates the events table and checks that every written column exists.
func (s *Store) Migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(&Event{}); err != nil {
		return fmt.Errorf("failed to migrate journal: %w", err)
	}
	missing, err := database.MissingColumns(db, Event{}.TableName(), columns)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("journal table lacks columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Record stores one event.
func (s *Store) Record(ctx context.Context, action string, keys []string, detail string) error {
	ev := Event{
		Action:    action,
		EntryKeys: strings.Join(keys, ","),
		Count:     len(keys),
		Detail:    detail,
	}
	if err := s.db.WithContext(ctx).Create(&ev).Error; err != nil {
		return fmt.Errorf("failed to record %s event: %w", action, err)
	}
	s.logger.Debug("Recorded journal event", zap.String("action", action), zap.Int("keys", len(keys)))
	return nil
}

// Recent returns the newest events first. A non-positive limit returns all of them.
func (s *Store) Recent(ctx context.Context, limit int) ([]Event, error) {
	var events []Event
	q := s.db.WithContext(ctx).Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	return events, nil
}

// Safe wraps a recorder so that failures are logged instead of returned. A journal
// outage never fails a workspace operation.
func Safe(r Recorder, logger *zap.Logger) Recorder {
	return safeRecorder{r: r, logger: logger}
}

type safeRecorder struct {
	r      Recorder
	logger *zap.Logger
}

func (s safeRecorder) Record(ctx context.Context, action string, keys []string, detail string) error {
	if err := s.r.Record(ctx, action, keys, detail); err != nil {
		s.logger.Warn("Failed to write journal", zap.String("action", action), zap.Error(err))
	}
	return nil
}

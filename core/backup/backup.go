package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"biblib/core/workspace"

	"go.uber.org/zap"
)

// TimeFormat is the layout of the timestamp in snapshot directory names.
const TimeFormat = "20060102-150405"

// Prefix starts every snapshot directory name.
const Prefix = "backup-"

// Service copies store files into timestamped snapshot directories and optionally
// mirrors them to object storage.
type Service struct {
	dir           string
	mirror        *Mirror
	requireMirror bool
	keep          int
	logger        *zap.Logger
	now           func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithMirror uploads every snapshot through m. When required is set a failed upload fails
// the snapshot. keep bounds the number of mirrored snapshots, zero keeps all.
func WithMirror(m *Mirror, required bool, keep int) Option {
	return func(s *Service) {
		s.mirror = m
		s.requireMirror = required
		s.keep = keep
	}
}

// WithClock replaces the time source used for snapshot names.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a backup service writing snapshots under dir.
func NewService(dir string, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{dir: dir, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// maxSameSecond bounds the snapshots created within one second.
const maxSameSecond = 99

// Snapshot copies the given files, those that exist, into a new directory named
// backup-YYYYMMDD-HHMMSS and returns its path. A second snapshot within the same second
// gets a -02, -03, ... suffix. Failures are of kind workspace.ErrBackup.
func (s *Service) Snapshot(ctx context.Context, files ...string) (string, error) {
	name, dest, err := s.createDir()
	if err != nil {
		return "", err
	}

	var copied []string
	for _, src := range files {
		target := filepath.Join(dest, filepath.Base(src))
		err := copyFile(src, target)
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("Store absent, not backed up", zap.String("path", src))
			continue
		}
		if err != nil {
			return "", workspace.NewError(workspace.ErrBackup, src, err)
		}
		copied = append(copied, target)
	}

	s.logger.Info("Created backup", zap.String("path", dest), zap.Int("files", len(copied)))

	if s.mirror != nil && len(copied) > 0 {
		if err := s.mirrorSnapshot(ctx, name, copied); err != nil {
			if s.requireMirror {
				return "", workspace.NewError(workspace.ErrBackup, name, err)
			}
			s.logger.Warn("Backup mirror failed", zap.String("snapshot", name), zap.Error(err))
		}
	}

	return dest, nil
}

// createDir makes a snapshot directory that did not exist before.
func (s *Service) createDir() (name, dest string, err error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", "", workspace.NewError(workspace.ErrBackup, s.dir, err)
	}

	base := Prefix + s.now().Format(TimeFormat)
	name = base
	for i := 2; ; i++ {
		dest = filepath.Join(s.dir, name)
		err := os.Mkdir(dest, 0o755)
		if err == nil {
			return name, dest, nil
		}
		if !errors.Is(err, fs.ErrExist) || i > maxSameSecond {
			return "", "", workspace.NewError(workspace.ErrBackup, dest, err)
		}
		name = fmt.Sprintf("%s-%02d", base, i)
	}
}

func (s *Service) mirrorSnapshot(ctx context.Context, name string, files []string) error {
	if err := s.mirror.Upload(ctx, name, files); err != nil {
		return err
	}
	s.logger.Info("Mirrored backup", zap.String("snapshot", name))

	if s.keep > 0 {
		removed, err := s.mirror.Prune(ctx, s.keep)
		if err != nil {
			s.logger.Warn("Failed to prune mirrored backups", zap.Error(err))
			return nil
		}
		if len(removed) > 0 {
			s.logger.Info("Pruned mirrored backups", zap.Strings("snapshots", removed))
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	return out.Close()
}

// Snapshotter takes a backup of store files before they are rewritten.
type Snapshotter interface {
	Snapshot(ctx context.Context, files ...string) (string, error)
}

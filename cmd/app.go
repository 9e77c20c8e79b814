package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"biblib/core/backup"
	"biblib/core/config"
	"biblib/core/database"
	"biblib/core/logger"
	"biblib/core/metrics"
	"biblib/core/storage"
	"biblib/core/workspace"
	"biblib/feature/journal"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app is the wiring shared by every command.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	paths   workspace.Paths
	backups *backup.Service
	journal journal.Recorder
	store   *journal.Store
	db      *gorm.DB
	metrics *metrics.Metrics
}

// newApp loads the configuration and builds the logger, backups, journal and metrics.
// Optional parts that fail to start are logged and left out.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if workspaceRoot != "" {
		cfg.Workspace.Root = workspaceRoot
	}
	cfg.Log.Level = logger.LevelForVerbosity(verbosity, cfg.Log.Level)

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{
		cfg:     cfg,
		logger:  logg,
		paths:   cfg.Workspace.Paths(),
		journal: journal.Nop{},
		metrics: metrics.New(),
	}
	a.backups = a.newBackups()

	if cfg.Database.Enabled {
		if err := a.openJournal(ctx); err != nil {
			logg.Warn("Journal database unavailable", zap.Error(err))
		}
	}
	return a, nil
}

func (a *app) newBackups() *backup.Service {
	dir := a.cfg.Backup.Dir
	switch {
	case dir == "":
		dir = a.paths.Staging
	case !filepath.IsAbs(dir):
		dir = filepath.Join(a.paths.Root, dir)
	}

	var opts []backup.Option
	if a.cfg.Storage.Enabled {
		client, err := storage.NewClient(a.cfg.Storage)
		if err != nil {
			a.logger.Warn("Backup mirror disabled", zap.Error(err))
		} else {
			m := backup.NewMirror(client, a.cfg.Storage.Bucket, a.cfg.Storage.Prefix, a.cfg.Storage.Region)
			opts = append(opts, backup.WithMirror(m, a.cfg.Backup.RequireMirror, a.cfg.Backup.Keep))
		}
	}
	return backup.NewService(dir, a.logger, opts...)
}

func (a *app) openJournal(ctx context.Context) error {
	dbCfg := a.cfg.JournalDatabase()
	if dbCfg.Driver != database.DriverMySQL && dbCfg.Name != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbCfg.Name), 0o755); err != nil {
			return err
		}
	}
	db, err := database.Connect(dbCfg)
	if err != nil {
		return err
	}
	store := journal.NewStore(db, a.logger)
	if err := store.Migrate(ctx); err != nil {
		return err
	}
	a.db = db
	a.store = store
	a.journal = journal.Safe(store, a.logger)
	return nil
}

// run executes one operation and records it in the metrics.
func (a *app) run(operation string, fn func() error) error {
	start := time.Now()
	err := fn()
	a.metrics.Observe(operation, start, err)
	return err
}

// close flushes the logger, writes the metrics textfile and closes the journal.
func (a *app) close() {
	if path := a.cfg.Metrics.Textfile; path != "" {
		if err := a.metrics.WriteTextfile(path); err != nil {
			a.logger.Warn("Failed to write metrics textfile", zap.String("path", path), zap.Error(err))
		}
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = a.logger.Sync()
}

// confirm asks for "yes" on in unless auto is set.
func confirm(out io.Writer, in io.Reader, auto bool, prompt string) bool {
	if auto {
		fmt.Fprintln(out, "Auto-confirmed via --yes flag")
		return true
	}

	fmt.Fprintf(out, "%s Type 'yes' to confirm: ", prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}

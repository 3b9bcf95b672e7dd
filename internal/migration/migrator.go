package migration

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/uptrace/bun"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/geosstore/internal/config"
	"github.com/Additional-Code/geosstore/internal/database"
)

//go:embed sql
var migrations embed.FS

// Module provides the migrator to Fx.
var Module = fx.Provide(New)

// Migrator wraps goose operations over the embedded schema files.
type Migrator struct {
	db     *bun.DB
	dir    string
	logger *zap.Logger
}

// New constructs a goose-backed migrator for the configured dialect.
func New(cfg config.Config, conns *database.Connections, logger *zap.Logger) (*Migrator, error) {
	dialect, dir, err := gooseDialect(cfg.Database.Driver)
	if err != nil {
		return nil, err
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return nil, err
	}

	return &Migrator{
		db:     conns.Writer,
		dir:    path.Join("sql", dir),
		logger: logger,
	}, nil
}

// Up applies all pending migrations.
func (m *Migrator) Up(ctx context.Context) error {
	if err := goose.UpContext(ctx, m.db.DB, m.dir); err != nil {
		if isNoMigrationErr(err) {
			m.logger.Info("no migrations to apply")

			return nil
		}
		return err
	}

	m.logger.Info("migrations applied", zap.String("dir", m.dir))

	return nil
}

// Down rolls back migrations. Steps <=0 defaults to 1; all=true rolls everything back.
func (m *Migrator) Down(ctx context.Context, steps int, all bool) error {
	if all {
		if err := goose.DownToContext(ctx, m.db.DB, m.dir, 0); err != nil {
			if isNoMigrationErr(err) {
				m.logger.Info("no migrations to rollback")

				return nil
			}
			return err
		}
		m.logger.Info("migrations rolled back", zap.String("mode", "all"))

		return nil
	}

	if steps <= 0 {
		steps = 1
	}

	for i := 0; i < steps; i++ {
		if err := goose.DownContext(ctx, m.db.DB, m.dir); err != nil {
			if isNoMigrationErr(err) {
				m.logger.Info("no migrations to rollback")

				return nil
			}
			return err
		}
	}

	m.logger.Info("migrations rolled back", zap.Int("steps", steps))

	return nil
}

// State describes one embedded migration.
type State struct {
	Version   int64
	Source    string
	Applied   bool
	AppliedAt time.Time
}

// Status lists every embedded migration in version order together with when
// it was applied. The goose version table is created when missing.
func (m *Migrator) Status(ctx context.Context) ([]State, error) {
	if _, err := goose.EnsureDBVersionContext(ctx, m.db.DB); err != nil {
		return nil, fmt.Errorf("ensure version table: %w", err)
	}

	migrations, err := goose.CollectMigrations(m.dir, 0, goose.MaxVersion)
	if err != nil && !isNoMigrationErr(err) {
		return nil, err
	}

	var rows []struct {
		Version int64     `bun:"version_id"`
		At      time.Time `bun:"tstamp"`
	}
	err = m.db.NewSelect().
		Table(goose.TableName()).
		Column("version_id", "tstamp").
		Where("is_applied = ?", true).
		Where("version_id > 0").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("read version table: %w", err)
	}
	applied := make(map[int64]time.Time, len(rows))
	for _, row := range rows {
		applied[row.Version] = row.At
	}

	states := make([]State, 0, len(migrations))
	for _, mig := range migrations {
		at, ok := applied[mig.Version]
		states = append(states, State{
			Version:   mig.Version,
			Source:    path.Base(mig.Source),
			Applied:   ok,
			AppliedAt: at,
		})
	}
	return states, nil
}

func gooseDialect(driver string) (dialect, dir string, err error) {
	switch driver {
	case "postgres", "pg":
		return "postgres", "postgres", nil
	case "mysql":
		return "mysql", "mysql", nil
	case "sqlite", "sqlite3":
		return "sqlite3", "sqlite", nil
	default:
		return "", "", fmt.Errorf("unsupported goose dialect for driver %s", driver)
	}
}

func isNoMigrationErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, goose.ErrNoNextVersion) || errors.Is(err, goose.ErrNoMigrationFiles) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "no migrations")
}

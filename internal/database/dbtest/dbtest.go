// Package dbtest opens migrated in-memory SQLite databases for package tests.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/geosstore/internal/config"
	"github.com/Additional-Code/geosstore/internal/database"
	"github.com/Additional-Code/geosstore/internal/migration"
)

var seq atomic.Int64

// Open returns connections to a fresh, fully migrated database that is
// closed when the test ends. A single pooled connection keeps the in-memory
// database and its foreign key pragma alive for the test's lifetime.
func Open(t testing.TB) *database.Connections {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	cfg := config.Config{Database: config.Database{
		Driver:       "sqlite",
		WriterDSN:    fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1)),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}}

	conns, err := database.Open(cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conns.Close() })

	ctx := context.Background()
	_, err = conns.Writer.ExecContext(ctx, "PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	mig, err := migration.New(cfg, conns, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, mig.Up(ctx))

	return conns
}

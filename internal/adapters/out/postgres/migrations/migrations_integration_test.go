package migrations_test

import (
	"context"
	"testing"

	"tiffin/internal/adapters/out/postgres/migrations"
	"tiffin/internal/adapters/out/postgres/pgtest"

	"github.com/stretchr/testify/require"
)

func TestMigrations_UpDownUp(t *testing.T) {
	ctx := context.Background()
	pg, err := pgtest.Start(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	db, err := migrations.Open(pg.DSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	version, err := migrations.Version(db)
	require.NoError(t, err)
	require.EqualValues(t, 1, version)

	require.NoError(t, migrations.Down(db))
	version, err = migrations.Version(db)
	require.NoError(t, err)
	require.EqualValues(t, 0, version)

	var tables int
	require.NoError(t, db.QueryRow(
		"SELECT count(*) FROM information_schema.tables WHERE table_name IN ('customers','orders','deliveries')",
	).Scan(&tables))
	require.Zero(t, tables)

	require.NoError(t, migrations.Up(db))
	version, err = migrations.Version(db)
	require.NoError(t, err)
	require.EqualValues(t, 1, version)
}

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCreatesSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "portfolio.db")

	db, err := Open(ctx, path)
	require.NoError(t, err)

	for _, table := range []string{"visitors", "contact_messages", "demo_launches"} {
		var n int
		err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&n)
		require.NoError(t, err)
		assert.Equal(t, 1, n, table)
	}

	_, err = db.ExecContext(ctx, `INSERT INTO visitors (hashed_ip, path) VALUES ('abc', '/')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// reopening keeps data and is idempotent
	db, err = Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM visitors`).Scan(&n))
	assert.Equal(t, 1, n)
}

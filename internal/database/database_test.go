package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareDSN(t *testing.T) {
	cases := []struct {
		name        string
		dsn         string
		development bool
		want        string
	}{
		{"dev url", "postgres://u:p@localhost:5432/db", true, "postgres://u:p@localhost:5432/db?sslmode=disable"},
		{"dev url with params", "postgres://u:p@localhost/db?x=1", true, "postgres://u:p@localhost/db?x=1&sslmode=disable"},
		{"dev keyword", "host=localhost dbname=db", true, "host=localhost dbname=db sslmode=disable"},
		{"dev keeps sslmode", "postgres://localhost/db?sslmode=require", true, "postgres://localhost/db?sslmode=require"},
		{"prod url", "postgres://u:p@db.supabase.co:6543/postgres", false, "postgres://u:p@db.supabase.co:6543/postgres?default_query_exec_mode=simple_protocol"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PrepareDSN(tc.dsn, tc.development))
		})
	}
}

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrations, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	for _, e := range entries {
		data, err := fs.ReadFile(migrations, "migrations/"+e.Name())
		require.NoError(t, err)
		assert.Contains(t, string(data), "-- +goose Up", e.Name())
		assert.True(t, strings.HasSuffix(e.Name(), ".sql"))
	}
}

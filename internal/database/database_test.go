package database

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	sub, err := fs.Sub(migrationFiles, "migrations")
	require.NoError(t, err)

	entries, err := fs.ReadDir(sub, ".")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "001_create_submissions.sql", entries[0].Name())

	b, err := fs.ReadFile(sub, entries[0].Name())
	require.NoError(t, err)
	sql := string(b)
	assert.Contains(t, sql, "create table submissions")
	assert.Contains(t, sql, "---- create above / drop below ----")
	for _, col := range []string{"id", "created_at", "fname", "lname", "email", "message", "source", "ip", "user_agent"} {
		assert.True(t, strings.Contains(sql, "    "+col+" "), "missing column %s", col)
	}
}

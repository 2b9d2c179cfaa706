package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationNames(t *testing.T) {
	names, err := migrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "001_init.sql", names[0])
}

func TestInitMigration_DeclaresOverlapExclusion(t *testing.T) {
	body, err := migrationFiles.ReadFile("migrations/001_init.sql")
	require.NoError(t, err)

	sql := string(body)
	assert.Contains(t, sql, "EXCLUDE USING gist")
	assert.Contains(t, sql, "daterange(start_date, end_date, '[]') WITH &&")
	assert.Contains(t, sql, "WHERE (status IN ('on_hold', 'sold', 'configuration'))")
}

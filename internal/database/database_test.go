package database

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"beautybook/internal/domain"
	"beautybook/internal/pkg/logger"
)

func TestWithSQLitePragmas(t *testing.T) {
	assert.Equal(t, "app.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", withSQLitePragmas("app.db"))
	assert.Equal(t, "file:app.db?cache=shared&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", withSQLitePragmas("file:app.db?cache=shared"))
	assert.Equal(t, "file:x?mode=memory&cache=shared", withSQLitePragmas("file:x?mode=memory&cache=shared"))
}

func TestConnectAndMigrate_SQLite(t *testing.T) {
	db, err := Connect("file:database_migrate?mode=memory&cache=shared", logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	require.NoError(t, Migrate(db))

	for _, m := range domain.All() {
		assert.True(t, db.Migrator().HasTable(m), "missing table for %T", m)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(nil))
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, IsUniqueViolation(errors.New("constraint failed: UNIQUE constraint failed: users.login (2067)")))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
}

func TestClose_DropsInMemoryDatabase(t *testing.T) {
	db, err := OpenInMemory("database_close")
	require.NoError(t, err)
	require.NoError(t, db.Exec("CREATE TABLE scratch (id integer)").Error)
	require.NoError(t, Close(db))

	db, err = OpenInMemory("database_close")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	assert.False(t, db.Migrator().HasTable("scratch"))
}

// Package dbtest opens throwaway in-memory databases for tests.
package dbtest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fitlog/internal/db"
	"fitlog/internal/model"
)

var seq atomic.Int64

// Open returns a migrated in-memory SQLite database private to the test.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared&_pragma=foreign_keys(1)", name, seq.Add(1))
	gormDB, err := db.Open(db.DriverSQLite, dsn)
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	// One connection keeps the in-memory database alive and serializes writers.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(gormDB))
	return gormDB
}

// User inserts an active user with the given username.
func User(t testing.TB, gormDB *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		IsActive:     true,
	}
	require.NoError(t, gormDB.Create(u).Error)
	return u
}

// Exercise inserts an active library exercise.
func Exercise(t testing.TB, gormDB *gorm.DB, name string) *model.Exercise {
	t.Helper()
	e := &model.Exercise{Name: name, IsActive: true}
	require.NoError(t, gormDB.Create(e).Error)
	return e
}

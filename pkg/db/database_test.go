package db

import (
	"context"
	"errors"
	"testing"

	"github.com/Skotchmaster/medimarket/pkg/db/dbtest"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type uniqueRow struct {
	ID   uint   `gorm:"primaryKey"`
	Code string `gorm:"uniqueIndex;not null"`
}

func TestIsUniqueViolation_SQLite(t *testing.T) {
	db := dbtest.Open(t, &uniqueRow{})

	require.NoError(t, db.Create(&uniqueRow{Code: "a"}).Error)
	err := db.Create(&uniqueRow{Code: "a"}).Error

	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
}

func TestOpen_SQLite(t *testing.T) {
	db, err := Open(context.Background(), "sqlite://file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	assert.Equal(t, "sqlite", db.Dialector.Name())
	assert.NoError(t, Ping(context.Background(), db))
}

func TestOpen_EmptyDSN(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)
}

func TestDialector(t *testing.T) {
	assert.Equal(t, "sqlite", Dialector("sqlite://data.db").Name())
	assert.Equal(t, "sqlite", Dialector("file:data.db?cache=shared").Name())
	assert.Equal(t, "postgres", Dialector("postgres://u:p@localhost:5432/db").Name())
}

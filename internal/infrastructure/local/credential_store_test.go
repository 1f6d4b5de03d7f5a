package local

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newStore(t *testing.T) (*CredentialStore, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	s, err := NewCredentialStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, db
}

func count(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&localCredential{}).Count(&n).Error)
	return n
}

func TestCredentialStore_Vacio(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()

	ok, err := s.HasCredential(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	match, err := s.MatchesCredential(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, match)
}

func TestCredentialStore_ReemplazoUnaFila(t *testing.T) {
	s, db := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.SetCredential(ctx, "a@x.com"))
	require.NoError(t, s.SetCredential(ctx, "b@x.com"))
	assert.EqualValues(t, 1, count(t, db))

	match, err := s.MatchesCredential(ctx, "b@x.com")
	require.NoError(t, err)
	assert.True(t, match)

	match, err = s.MatchesCredential(ctx, "a@x.com")
	require.NoError(t, err)
	assert.False(t, match)
}

func TestCredentialStore_SensibleAMayusculas(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.SetCredential(ctx, "a@x.com"))

	match, err := s.MatchesCredential(ctx, "A@x.com")
	require.NoError(t, err)
	assert.False(t, match)

	match, err = s.MatchesCredential(ctx, " a@x.com")
	require.NoError(t, err)
	assert.False(t, match)
}

func TestCredentialStore_LimpiaFilasAjenas(t *testing.T) {
	s, db := newStore(t)
	ctx := context.Background()
	require.NoError(t, db.Create(&localCredential{ID: 7, Email: "viejo@x.com"}).Error)

	require.NoError(t, s.SetCredential(ctx, "a@x.com"))
	assert.EqualValues(t, 1, count(t, db))

	ok, err := s.HasCredential(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCredentialStore_Clear(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.SetCredential(ctx, "a@x.com"))
	require.NoError(t, s.Clear(ctx))

	ok, err := s.HasCredential(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

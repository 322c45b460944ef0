package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deptportal/internal/platform/crypto"
	"deptportal/internal/platform/db"
)

func TestPostgresStoreRoundTrip(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, dbURL)
	require.NoError(t, err)
	defer pool.Close()
	require.NoError(t, db.Migrate(ctx, pool))

	sealer, err := crypto.NewSealer("test-secret")
	require.NoError(t, err)
	store := NewPostgresStore(pool, sealer)

	s := Session{
		ID:         uuid.NewString(),
		Token:      "api-token",
		EmployeeID: "emp-1",
		Role:       "manager",
		Flashes:    []Flash{{Kind: FlashInfo, Message: "hi"}},
		CreatedAt:  time.Now(),
		ExpiresAt:  time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Save(ctx, s))

	got, err := store.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "api-token", got.Token)
	assert.Equal(t, "emp-1", got.EmployeeID)
	assert.Equal(t, s.Flashes, got.Flashes)

	var raw []byte
	require.NoError(t, pool.QueryRow(ctx, "SELECT token_enc FROM portal_sessions WHERE id = $1", s.ID).Scan(&raw))
	assert.NotContains(t, string(raw), "api-token")

	require.NoError(t, store.Delete(ctx, s.ID))
	_, err = store.Load(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	expired := s
	expired.ID = uuid.NewString()
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, store.Save(ctx, expired))
	_, err = store.Load(ctx, expired.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	removed, err := store.Sweep(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, removed, int64(1))
}

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// setupPostgresStore spins up a throwaway postgres container and returns a
// schema-initialized store backed by it.
func setupPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container-backed test in short mode")
	}

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("medtrack_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := postgresContainer.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connString, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	store := NewPostgresStore(pool, zap.NewNop())
	require.NoError(t, store.EnsureSchema(ctx))
	return store
}

func TestPostgresStore_RoundTrip(t *testing.T) {
	store := setupPostgresStore(t)
	ctx := context.Background()

	absent, err := store.Get(ctx, KeyMedications)
	require.NoError(t, err)
	assert.Nil(t, absent)

	value := []byte(`[{"id":"med-1","name":"Lisinopril"}]`)
	require.NoError(t, store.Set(ctx, KeyMedications, value))

	got, err := store.Get(ctx, KeyMedications)
	require.NoError(t, err)
	assert.Equal(t, value, got)
}

func TestPostgresStore_UpsertReplacesValue(t *testing.T) {
	store := setupPostgresStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyLastReset, []byte("2024-03-04")))
	require.NoError(t, store.Set(ctx, KeyLastReset, []byte("2024-03-05")))

	got, err := store.Get(ctx, KeyLastReset)
	require.NoError(t, err)
	assert.Equal(t, []byte("2024-03-05"), got)
}

func TestPostgresStore_KeysAreIndependent(t *testing.T) {
	store := setupPostgresStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyMedications, []byte("[]")))
	require.NoError(t, store.Set(ctx, KeyHistory, []byte(`[{"id":"rec-1"}]`)))

	meds, err := store.Get(ctx, KeyMedications)
	require.NoError(t, err)
	history, err := store.Get(ctx, KeyHistory)
	require.NoError(t, err)

	assert.Equal(t, []byte("[]"), meds)
	assert.Equal(t, []byte(`[{"id":"rec-1"}]`), history)
}

func TestPostgresStore_EnsureSchemaIsIdempotent(t *testing.T) {
	store := setupPostgresStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyMedications, []byte("[]")))
	require.NoError(t, store.EnsureSchema(ctx))

	got, err := store.Get(ctx, KeyMedications)
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), got)
}

//go:build integration

package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"example.com/ipaq/internal/domain"
	"example.com/ipaq/internal/scoring"
)

func TestRepositoryPersistsBatchesWithTenantIsolation(t *testing.T) {
	ctx := context.Background()

	pg, err := postgrescontainer.RunContainer(ctx,
		postgrescontainer.WithDatabase("surveys"),
		postgrescontainer.WithUsername("platform"),
		postgrescontainer.WithPassword("platform"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, waitForDatabase(ctx, connStr))

	runMigrations(t, ctx, connStr)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	repo := NewRepository(pool)

	tenantID := uuid.NewString()
	category := scoring.CategoryModerate
	acsm := 1
	walkTime := 210.0
	walkMET := 693.0

	batch := domain.SurveyBatch{
		ID:            uuid.NewString(),
		TenantID:      tenantID,
		Source:        "integration-test",
		OutputMode:    scoring.ModeTotals,
		SubjectCount:  2,
		OutlierCount:  1,
		ModerateCount: 1,
		CreatedAt:     time.Now().UTC(),
	}
	summaries := []scoring.Summary{
		{
			SubjectID: "subj-1",
			Category:  &category,
			ACSM:      &acsm,
			WalkTime:  &walkTime,
			WalkMET:   &walkMET,
		},
		{SubjectID: "subj-2", Outlier: 1},
	}

	require.NoError(t, repo.CreateBatch(ctx, batch, summaries))

	stored, err := repo.GetBatch(ctx, tenantID, batch.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Equal(t, batch.ID, stored.ID)
	require.Equal(t, 2, stored.SubjectCount)
	require.Equal(t, 1, stored.OutlierCount)

	otherTenant := uuid.NewString()
	storedOther, err := repo.GetBatch(ctx, otherTenant, batch.ID)
	require.NoError(t, err)
	require.Nil(t, storedOther, "RLS should prevent cross-tenant access")

	listed, next, err := repo.ListSummaries(ctx, tenantID, batch.ID, nil, 1)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.NotNil(t, next)
	require.Equal(t, "subj-1", listed[0].SubjectID)
	require.NotNil(t, listed[0].Category)
	require.Equal(t, scoring.CategoryModerate, *listed[0].Category)
	require.NotNil(t, listed[0].WalkTime)
	require.InDelta(t, 210.0, *listed[0].WalkTime, 1e-9)

	rest, next, err := repo.ListSummaries(ctx, tenantID, batch.ID, next, 10)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	require.Nil(t, next)
	require.Equal(t, "subj-2", rest[0].SubjectID)
	require.Equal(t, 1, rest[0].Outlier)
	require.Nil(t, rest[0].Category)
	require.Nil(t, rest[0].WalkTime)

	var outboxEvents int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM outbox WHERE aggregate_id = $1`, batch.ID,
	).Scan(&outboxEvents))
	require.Equal(t, 2, outboxEvents, "batch_scored plus outliers_flagged")
}

func runMigrations(t *testing.T, ctx context.Context, connStr string) {
	files := []string{
		"../../../db/postgres/migrations/0001_init.up.sql",
		"../../../db/postgres/migrations/0002_outbox_dlq_retry.up.sql",
	}

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	defer pool.Close()

	for _, rel := range files {
		path := resolvePath(t, rel)
		contents, readErr := os.ReadFile(path)
		require.NoError(t, readErr)

		_, execErr := pool.Exec(ctx, string(contents))
		require.NoError(t, execErr)
	}
}

func resolvePath(t *testing.T, rel string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), rel)
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}

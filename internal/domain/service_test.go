package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/ipaq/internal/scoring"
)

func columnsFor(subjects ...string) map[string][]any {
	columns := make(map[string][]any, 42)
	for _, key := range scoring.CanonicalKeys() {
		values := make([]any, len(subjects))
		for i, id := range subjects {
			if key == "subject_id" {
				values[i] = id
			} else {
				values[i] = 0
			}
		}
		columns[key] = values
	}
	return columns
}

func TestScoreBatchTalliesCategories(t *testing.T) {
	repo := &recordingRepo{}
	service := NewService(repo)

	columns := columnsFor("s1", "s2", "")
	// s2 does three vigorous work sessions of 90 minutes, enough for the top
	// tier on the MET criterion alone.
	columns["work_vig_days"] = []any{0, 3, 0}
	columns["work_vig_hours"] = []any{0, 1, 0}
	columns["work_vig_minutes"] = []any{0, 30, 0}

	batch, summaries, err := service.ScoreBatch(context.Background(), ScoreBatchInput{
		TenantID:   "tenant-1",
		Source:     "api",
		OutputMode: scoring.ModeTotals,
		Columns:    columns,
	})
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	require.NotEmpty(t, batch.ID)
	require.Equal(t, "tenant-1", batch.TenantID)
	require.Equal(t, 3, batch.SubjectCount)
	require.Equal(t, 1, batch.LowCount)
	require.Equal(t, 1, batch.HighCount)
	require.Equal(t, 1, batch.InvalidCount)
	require.Zero(t, batch.OutlierCount)

	require.NotNil(t, repo.batch)
	require.Equal(t, batch.ID, repo.batch.ID)
	require.Len(t, repo.summaries, 3)
}

func TestScoreBatchCountsOutliers(t *testing.T) {
	service := NewService(&recordingRepo{})

	columns := columnsFor("s1")
	// Five daily 200-minute sessions: 1000 summed minutes, past the
	// plausibility ceiling.
	for _, prefix := range []string{"work_mod", "transport_cycle", "domestic_inside_mod", "leisure_mod", "work_walk"} {
		columns[prefix+"_days"] = []any{7}
		columns[prefix+"_hours"] = []any{3}
		columns[prefix+"_minutes"] = []any{20}
	}

	batch, summaries, err := service.ScoreBatch(context.Background(), ScoreBatchInput{
		TenantID: "tenant-1",
		Source:   "api",
		Columns:  columns,
	})
	require.NoError(t, err)
	require.Equal(t, 1, batch.OutlierCount)
	require.Equal(t, 1, summaries[0].Outlier)
	require.Zero(t, batch.LowCount+batch.ModerateCount+batch.HighCount)
}

func TestScoreBatchPropagatesValidationError(t *testing.T) {
	repo := &recordingRepo{}
	service := NewService(repo)

	_, _, err := service.ScoreBatch(context.Background(), ScoreBatchInput{
		TenantID: "tenant-1",
		Source:   "api",
		Columns:  map[string][]any{"subject_id": {"s1"}},
	})
	require.ErrorIs(t, err, scoring.ErrQuestionMap)
	require.Nil(t, repo.batch, "nothing should be persisted on validation failure")
}

func TestScoreBatchPropagatesRepositoryError(t *testing.T) {
	boom := errors.New("insert failed")
	service := NewService(&recordingRepo{createErr: boom})

	_, _, err := service.ScoreBatch(context.Background(), ScoreBatchInput{
		TenantID: "tenant-1",
		Source:   "api",
		Columns:  columnsFor("s1"),
	})
	require.ErrorIs(t, err, boom)
}

func TestGetBatchMapsMissingToNotFound(t *testing.T) {
	service := NewService(&recordingRepo{})

	_, err := service.GetBatch(context.Background(), "tenant-1", "missing")
	require.ErrorIs(t, err, ErrBatchNotFound)
}

type recordingRepo struct {
	createErr error
	batch     *SurveyBatch
	summaries []scoring.Summary
}

func (r *recordingRepo) CreateBatch(ctx context.Context, batch SurveyBatch, summaries []scoring.Summary) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.batch = &batch
	r.summaries = summaries
	return nil
}

func (r *recordingRepo) GetBatch(ctx context.Context, tenantID, batchID string) (*SurveyBatch, error) {
	return r.batch, nil
}

func (r *recordingRepo) ListSummaries(ctx context.Context, tenantID, batchID string, cursor *Cursor, limit int) ([]scoring.Summary, *Cursor, error) {
	return r.summaries, nil, nil
}

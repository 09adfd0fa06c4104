// Package domain defines the business logic for the survey scoring service.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"example.com/ipaq/internal/scoring"
)

// ErrBatchNotFound is returned when a survey batch cannot be located.
var ErrBatchNotFound = errors.New("survey batch not found")

// SurveyBatch is the aggregate stored in Postgres for one scored submission.
type SurveyBatch struct {
	ID            string
	TenantID      string
	Source        string
	OutputMode    scoring.Mode
	SubjectCount  int
	OutlierCount  int
	InvalidCount  int
	LowCount      int
	ModerateCount int
	HighCount     int
	CreatedAt     time.Time
}

// Cursor models the pagination token for summary listings. Position is the
// zero-based input row index, which also fixes the presentation order.
type Cursor struct {
	Position int
}

// BatchRepository captures persistence operations.
type BatchRepository interface {
	CreateBatch(ctx context.Context, batch SurveyBatch, summaries []scoring.Summary) error
	GetBatch(ctx context.Context, tenantID, batchID string) (*SurveyBatch, error)
	ListSummaries(ctx context.Context, tenantID, batchID string, cursor *Cursor, limit int) ([]scoring.Summary, *Cursor, error)
}

// Service orchestrates survey scoring workflows.
type Service struct {
	repo BatchRepository
}

// NewService constructs a Service.
func NewService(repo BatchRepository) *Service {
	return &Service{repo: repo}
}

// ScoreBatchInput captures a submission from the API or consumer layer.
type ScoreBatchInput struct {
	TenantID   string
	Source     string
	OutputMode scoring.Mode
	Columns    map[string][]any
}

// ScoreBatch validates the question map, scores every subject, and persists
// the batch together with its summaries and outbox events. Validation
// failures surface scoring.ErrQuestionMap to the caller.
func (s *Service) ScoreBatch(ctx context.Context, input ScoreBatchInput) (*SurveyBatch, []scoring.Summary, error) {
	survey, err := scoring.NewSurvey(input.Columns)
	if err != nil {
		return nil, nil, err
	}

	summaries := scoring.Score(survey, input.OutputMode)

	batch := SurveyBatch{
		ID:           uuid.NewString(),
		TenantID:     input.TenantID,
		Source:       input.Source,
		OutputMode:   input.OutputMode,
		SubjectCount: len(summaries),
		CreatedAt:    time.Now().UTC(),
	}
	for _, summary := range summaries {
		switch {
		case summary.Invalid:
			batch.InvalidCount++
		case summary.Outlier == 1:
			batch.OutlierCount++
		default:
			switch *summary.Category {
			case scoring.CategoryLow:
				batch.LowCount++
			case scoring.CategoryModerate:
				batch.ModerateCount++
			case scoring.CategoryHigh:
				batch.HighCount++
			}
		}
	}

	if err := s.repo.CreateBatch(ctx, batch, summaries); err != nil {
		return nil, nil, err
	}
	return &batch, summaries, nil
}

// GetBatch fetches batch metadata by ID.
func (s *Service) GetBatch(ctx context.Context, tenantID, batchID string) (*SurveyBatch, error) {
	batch, err := s.repo.GetBatch(ctx, tenantID, batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, ErrBatchNotFound
	}
	return batch, nil
}

// ListSummaries fetches summaries for a batch with cursor pagination.
func (s *Service) ListSummaries(ctx context.Context, tenantID, batchID string, cursor *Cursor, limit int) ([]scoring.Summary, *Cursor, error) {
	return s.repo.ListSummaries(ctx, tenantID, batchID, cursor, limit)
}

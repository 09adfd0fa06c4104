package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ipaq/internal/domain"
	"example.com/ipaq/internal/events"
	"example.com/ipaq/internal/observability"
	"example.com/ipaq/internal/scoring"
)

// Repository provides Postgres-backed persistence for survey batches,
// per-subject summaries, and outbox events.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const summaryColumns = `position, subject_id, invalid, outlier, category, acsm_flag,
        walk_time, walk_met, moderate_time, moderate_met, vigorous_time, vigorous_met,
        total_time, total_met, sitting_time,
        work_time, work_met, transport_time, transport_met,
        domestic_time, domestic_met, leisure_time, leisure_met`

// CreateBatch persists the batch, its summaries, and the outbox events in a
// single transaction.
func (r *Repository) CreateBatch(ctx context.Context, batch domain.SurveyBatch, summaries []scoring.Summary) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, "SELECT set_config('app.tenant_id', $1, true)", batch.TenantID); err != nil {
		return err
	}

	const insertBatch = `INSERT INTO survey_batches (batch_id, tenant_id, source, output_mode, subject_count, outlier_count, invalid_count, low_count, moderate_count, high_count, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`

	_, err = tx.Exec(ctx, insertBatch,
		batch.ID,
		batch.TenantID,
		batch.Source,
		batch.OutputMode.String(),
		batch.SubjectCount,
		batch.OutlierCount,
		batch.InvalidCount,
		batch.LowCount,
		batch.ModerateCount,
		batch.HighCount,
		batch.CreatedAt,
	)
	if err != nil {
		return err
	}

	for position, summary := range summaries {
		if err = r.insertSummary(ctx, tx, batch, position, summary); err != nil {
			return err
		}
	}

	if err = r.insertOutbox(ctx, tx, batch, "survey.batch_scored", events.SurveyBatchScored{
		BatchID:       batch.ID,
		TenantID:      batch.TenantID,
		Source:        batch.Source,
		OutputMode:    batch.OutputMode.String(),
		SubjectCount:  batch.SubjectCount,
		OutlierCount:  batch.OutlierCount,
		InvalidCount:  batch.InvalidCount,
		LowCount:      batch.LowCount,
		ModerateCount: batch.ModerateCount,
		HighCount:     batch.HighCount,
		ScoredAt:      batch.CreatedAt,
	}); err != nil {
		return err
	}

	if batch.OutlierCount > 0 {
		outlierIDs := make([]string, 0, batch.OutlierCount)
		for _, summary := range summaries {
			if summary.Outlier == 1 {
				outlierIDs = append(outlierIDs, summary.SubjectID)
			}
		}
		if err = r.insertOutbox(ctx, tx, batch, "survey.outliers_flagged", events.SurveyOutliersFlagged{
			BatchID:      batch.ID,
			TenantID:     batch.TenantID,
			SubjectIDs:   outlierIDs,
			OutlierCount: batch.OutlierCount,
			ScoredAt:     batch.CreatedAt,
		}); err != nil {
			return err
		}
	}

	err = tx.Commit(ctx)
	if err != nil {
		return err
	}
	observability.RecordBatchPersisted(batch.CreatedAt)
	observability.RecordSubjectsScored(batch.SubjectCount, batch.OutlierCount)
	observability.RecordCategoryAssignments(batch.LowCount, batch.ModerateCount, batch.HighCount)
	return nil
}

func (r *Repository) insertSummary(ctx context.Context, tx pgx.Tx, batch domain.SurveyBatch, position int, s scoring.Summary) error {
	stmt := fmt.Sprintf(`INSERT INTO survey_summaries (batch_id, tenant_id, %s)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25)`, summaryColumns)

	var category *int
	if s.Category != nil {
		c := int(*s.Category)
		category = &c
	}

	var breakdown scoring.DomainBreakdown
	if s.Domains != nil {
		breakdown = *s.Domains
	}

	_, err := tx.Exec(ctx, stmt,
		batch.ID,
		batch.TenantID,
		position,
		nullIfEmpty(s.SubjectID),
		s.Invalid,
		s.Outlier,
		category,
		s.ACSM,
		s.WalkTime, s.WalkMET,
		s.ModerateTime, s.ModerateMET,
		s.VigorousTime, s.VigorousMET,
		s.TotalTime, s.TotalMET,
		s.SittingTime,
		breakdown.WorkTime, breakdown.WorkMET,
		breakdown.TransportTime, breakdown.TransportMET,
		breakdown.DomesticTime, breakdown.DomesticMET,
		breakdown.LeisureTime, breakdown.LeisureMET,
	)
	return err
}

func (r *Repository) insertOutbox(ctx context.Context, tx pgx.Tx, batch domain.SurveyBatch, eventType string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	meta := eventCatalog[eventType]
	if meta.Topic == "" {
		return fmt.Errorf("unknown event type: %s", eventType)
	}

	partitionKey := meta.PartitionKeyFn(batch)
	dedupeKey := fmt.Sprintf("%s:%s", batch.ID, eventType)

	const stmt = `INSERT INTO outbox (tenant_id, aggregate_type, aggregate_id, event_type, topic, schema_subject, partition_key, payload, dedupe_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	_, err = tx.Exec(ctx, stmt,
		batch.TenantID,
		"survey_batch",
		batch.ID,
		eventType,
		meta.Topic,
		meta.SchemaSubject,
		partitionKey,
		body,
		dedupeKey,
	)
	return err
}

// GetBatch retrieves batch metadata by ID.
func (r *Repository) GetBatch(ctx context.Context, tenantID, batchID string) (*domain.SurveyBatch, error) {
	const query = `SELECT batch_id, tenant_id, source, output_mode, subject_count, outlier_count, invalid_count, low_count, moderate_count, high_count, created_at
        FROM survey_batches WHERE tenant_id=$1 AND batch_id=$2`

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "SELECT set_config('app.tenant_id', $1, true)", tenantID); err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, query, tenantID, batchID)
	var batch domain.SurveyBatch
	var mode string
	if err := row.Scan(&batch.ID, &batch.TenantID, &batch.Source, &mode, &batch.SubjectCount, &batch.OutlierCount, &batch.InvalidCount, &batch.LowCount, &batch.ModerateCount, &batch.HighCount, &batch.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if err := tx.Commit(ctx); err != nil {
				return nil, err
			}
			return nil, nil
		}
		return nil, err
	}
	batch.OutputMode = scoring.ParseMode(mode)
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &batch, nil
}

// ListSummaries returns summaries for a batch in input-row order.
func (r *Repository) ListSummaries(ctx context.Context, tenantID, batchID string, cursor *domain.Cursor, limit int) ([]scoring.Summary, *domain.Cursor, error) {
	args := []interface{}{tenantID, batchID, limit}
	query := fmt.Sprintf(`SELECT %s FROM survey_summaries WHERE tenant_id=$1 AND batch_id=$2`, summaryColumns)

	if cursor != nil {
		query += ` AND position > $4`
		args = append(args, cursor.Position)
	}
	query += ` ORDER BY position LIMIT $3`

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "SELECT set_config('app.tenant_id', $1, true)", tenantID); err != nil {
		return nil, nil, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	results := make([]scoring.Summary, 0, limit)
	lastPosition := -1
	for rows.Next() {
		summary, position, scanErr := scanSummary(rows)
		if scanErr != nil {
			return nil, nil, scanErr
		}
		results = append(results, summary)
		lastPosition = position
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	var next *domain.Cursor
	if len(results) == limit && lastPosition >= 0 {
		next = &domain.Cursor{Position: lastPosition}
	}
	return results, next, nil
}

func scanSummary(rows pgx.Rows) (scoring.Summary, int, error) {
	var (
		s         scoring.Summary
		position  int
		subjectID *string
		category  *int
		breakdown scoring.DomainBreakdown
	)

	if err := rows.Scan(
		&position,
		&subjectID,
		&s.Invalid,
		&s.Outlier,
		&category,
		&s.ACSM,
		&s.WalkTime, &s.WalkMET,
		&s.ModerateTime, &s.ModerateMET,
		&s.VigorousTime, &s.VigorousMET,
		&s.TotalTime, &s.TotalMET,
		&s.SittingTime,
		&breakdown.WorkTime, &breakdown.WorkMET,
		&breakdown.TransportTime, &breakdown.TransportMET,
		&breakdown.DomesticTime, &breakdown.DomesticMET,
		&breakdown.LeisureTime, &breakdown.LeisureMET,
	); err != nil {
		return scoring.Summary{}, 0, err
	}

	if subjectID != nil {
		s.SubjectID = *subjectID
	}
	if category != nil {
		c := scoring.Category(*category)
		s.Category = &c
	}
	if breakdown != (scoring.DomainBreakdown{}) {
		s.Domains = &breakdown
	}
	return s, position, nil
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

// EventMetadata describes how to route an outbox event.
type EventMetadata struct {
	Topic          string
	SchemaSubject  string
	PartitionKeyFn func(domain.SurveyBatch) string
}

var eventCatalog = map[string]EventMetadata{
	"survey.batch_scored": {
		Topic:         "survey_events",
		SchemaSubject: "survey_events-value",
		PartitionKeyFn: func(b domain.SurveyBatch) string {
			return fmt.Sprintf("%s:%s", b.TenantID, b.Source)
		},
	},
	"survey.outliers_flagged": {
		Topic:         "survey_outliers",
		SchemaSubject: "survey_outliers-value",
		PartitionKeyFn: func(b domain.SurveyBatch) string {
			return b.ID
		},
	},
}

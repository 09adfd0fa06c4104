package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/ipaq/internal/domain"
	"example.com/ipaq/internal/events"
	"example.com/ipaq/internal/scoring"
)

// ScoringHandler scores survey.submitted events and records every consumed
// event in the survey_event_log table for auditing.
type ScoringHandler struct {
	pool    *pgxpool.Pool
	service *domain.Service
}

// NewScoringHandler constructs a handler backed by the provided pool and service.
func NewScoringHandler(pool *pgxpool.Pool, service *domain.Service) *ScoringHandler {
	return &ScoringHandler{pool: pool, service: service}
}

// Handle logs the event and, for survey submissions, runs the scoring pipeline.
// Malformed submissions are logged but not retried; the event log keeps the
// raw payload for replay.
func (h *ScoringHandler) Handle(ctx context.Context, msg Message) error {
	if err := h.logEvent(ctx, msg); err != nil {
		return err
	}
	if msg.EventType != "survey.submitted" {
		return nil
	}

	var submitted events.SurveySubmitted
	if err := json.Unmarshal(msg.Payload, &submitted); err != nil {
		return fmt.Errorf("decode survey.submitted: %w", err)
	}

	tenantID := submitted.TenantID
	if tenantID == "" {
		tenantID = msg.TenantID
	}

	_, _, err := h.service.ScoreBatch(ctx, domain.ScoreBatchInput{
		TenantID:   tenantID,
		Source:     submitted.Source,
		OutputMode: scoring.ParseMode(submitted.OutputMode),
		Columns:    submitted.Columns,
	})
	if errors.Is(err, scoring.ErrQuestionMap) {
		// The submission is structurally broken. Retrying cannot fix it, so
		// treat it as handled; the payload stays in the event log.
		return nil
	}
	return err
}

func (h *ScoringHandler) logEvent(ctx context.Context, msg Message) error {
	conn, err := h.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	_, err = conn.Exec(ctx,
		`INSERT INTO survey_event_log (event_type, tenant_id, schema_id, schema_subject, topic, partition, record_offset, payload, received_at)
         VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		msg.EventType,
		msg.TenantID,
		msg.SchemaID,
		msg.SchemaSubject,
		msg.Topic,
		msg.Partition,
		msg.Offset,
		msg.Payload,
		msg.Timestamp,
	)
	return err
}

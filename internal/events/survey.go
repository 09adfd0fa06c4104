// Package events defines the event payloads exchanged over Kafka.
package events

import "time"

// SurveySubmitted is consumed from upstream intake services. Columns is the
// canonical column-oriented question map for a whole batch of subjects.
type SurveySubmitted struct {
	SubmissionID string           `json:"submission_id"`
	TenantID     string           `json:"tenant_id"`
	Source       string           `json:"source"`
	OutputMode   string           `json:"output_mode,omitempty"`
	Columns      map[string][]any `json:"columns"`
	SubmittedAt  time.Time        `json:"submitted_at"`
}

// SurveyBatchScored is emitted after a batch is scored and persisted.
type SurveyBatchScored struct {
	BatchID       string    `json:"batch_id"`
	TenantID      string    `json:"tenant_id"`
	Source        string    `json:"source"`
	OutputMode    string    `json:"output_mode"`
	SubjectCount  int       `json:"subject_count"`
	OutlierCount  int       `json:"outlier_count"`
	InvalidCount  int       `json:"invalid_count"`
	LowCount      int       `json:"low_count"`
	ModerateCount int       `json:"moderate_count"`
	HighCount     int       `json:"high_count"`
	ScoredAt      time.Time `json:"scored_at"`
}

// SurveyOutliersFlagged is emitted when a scored batch contains subjects
// whose results were discarded by the extreme-value rule.
type SurveyOutliersFlagged struct {
	BatchID      string    `json:"batch_id"`
	TenantID     string    `json:"tenant_id"`
	SubjectIDs   []string  `json:"subject_ids"`
	OutlierCount int       `json:"outlier_count"`
	ScoredAt     time.Time `json:"scored_at"`
}

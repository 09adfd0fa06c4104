package outbox

const surveyBatchScoredSchema = `{
  "type": "object",
  "title": "SurveyBatchScored",
  "properties": {
    "batch_id": {"type": "string"},
    "tenant_id": {"type": "string"},
    "source": {"type": "string"},
    "output_mode": {"type": "string", "enum": ["totals", "domains"]},
    "subject_count": {"type": "integer"},
    "outlier_count": {"type": "integer"},
    "invalid_count": {"type": "integer"},
    "low_count": {"type": "integer"},
    "moderate_count": {"type": "integer"},
    "high_count": {"type": "integer"},
    "scored_at": {"type": "string", "format": "date-time"}
  },
  "required": ["batch_id", "tenant_id", "source", "output_mode", "subject_count", "outlier_count", "invalid_count", "low_count", "moderate_count", "high_count", "scored_at"],
  "additionalProperties": false
}`

const surveyOutliersFlaggedSchema = `{
  "type": "object",
  "title": "SurveyOutliersFlagged",
  "properties": {
    "batch_id": {"type": "string"},
    "tenant_id": {"type": "string"},
    "subject_ids": {"type": "array", "items": {"type": "string"}},
    "outlier_count": {"type": "integer"},
    "scored_at": {"type": "string", "format": "date-time"}
  },
  "required": ["batch_id", "tenant_id", "subject_ids", "outlier_count", "scored_at"],
  "additionalProperties": false
}`

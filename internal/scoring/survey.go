// Package scoring implements the IPAQ long-form scoring protocol: time
// normalization, minimum-bout cleaning, per-domain MET computation,
// intensity aggregation, categorical classification, and extreme-value
// detection.
package scoring

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrQuestionMap indicates the input column map does not match the 42
// canonical IPAQ long-form keys. This is a configuration error on the
// caller's side and is never silently corrected.
var ErrQuestionMap = errors.New("question map must contain exactly the 42 canonical IPAQ long-form keys")

// KeySubjectID identifies the subject column. The remaining 41 keys cover
// the questionnaire items: 1 employment screener, 12 day counts, and 14
// durations split into hour/minute fields.
const KeySubjectID = "subject_id"

var canonicalKeys = []string{
	KeySubjectID,
	"work_has_job",
	"work_vig_days", "work_vig_hours", "work_vig_minutes",
	"work_mod_days", "work_mod_hours", "work_mod_minutes",
	"work_walk_days", "work_walk_hours", "work_walk_minutes",
	"transport_vehicle_days", "transport_vehicle_hours", "transport_vehicle_minutes",
	"transport_cycle_days", "transport_cycle_hours", "transport_cycle_minutes",
	"transport_walk_days", "transport_walk_hours", "transport_walk_minutes",
	"domestic_yard_vig_days", "domestic_yard_vig_hours", "domestic_yard_vig_minutes",
	"domestic_yard_mod_days", "domestic_yard_mod_hours", "domestic_yard_mod_minutes",
	"domestic_inside_mod_days", "domestic_inside_mod_hours", "domestic_inside_mod_minutes",
	"leisure_walk_days", "leisure_walk_hours", "leisure_walk_minutes",
	"leisure_vig_days", "leisure_vig_hours", "leisure_vig_minutes",
	"leisure_mod_days", "leisure_mod_hours", "leisure_mod_minutes",
	"sit_weekday_hours", "sit_weekday_minutes",
	"sit_weekend_hours", "sit_weekend_minutes",
}

// CanonicalKeys returns the required column identifiers in a stable order.
func CanonicalKeys() []string {
	out := make([]string, len(canonicalKeys))
	copy(out, canonicalKeys)
	return out
}

// Response holds one subject's raw answers, one field per canonical
// question id. Values are coerced numerics; producing the column map from
// arbitrary source-survey headers is the caller's responsibility.
type Response struct {
	SubjectID string

	HasJob float64

	WorkVigDays, WorkVigHours, WorkVigMinutes    float64
	WorkModDays, WorkModHours, WorkModMinutes    float64
	WorkWalkDays, WorkWalkHours, WorkWalkMinutes float64

	VehicleDays, VehicleHours, VehicleMinutes                      float64
	CycleDays, CycleHours, CycleMinutes                            float64
	TransportWalkDays, TransportWalkHours, TransportWalkMinutes    float64

	YardVigDays, YardVigHours, YardVigMinutes       float64
	YardModDays, YardModHours, YardModMinutes       float64
	InsideModDays, InsideModHours, InsideModMinutes float64

	LeisureWalkDays, LeisureWalkHours, LeisureWalkMinutes float64
	LeisureVigDays, LeisureVigHours, LeisureVigMinutes    float64
	LeisureModDays, LeisureModHours, LeisureModMinutes    float64

	SitWeekdayHours, SitWeekdayMinutes float64
	SitWeekendHours, SitWeekendMinutes float64
}

// Survey is a validated batch of responses ready for scoring.
type Survey struct {
	rows []Response
}

// NewSurvey validates a column-oriented question map and pivots it into
// per-subject rows. The map must hold exactly the 42 canonical keys with
// equal-length columns; anything else fails with ErrQuestionMap. Missing
// or non-numeric cell values soft-default to zero.
func NewSurvey(columns map[string][]any) (*Survey, error) {
	if len(columns) != len(canonicalKeys) {
		return nil, fmt.Errorf("%w: got %d keys", ErrQuestionMap, len(columns))
	}
	for _, key := range canonicalKeys {
		if _, ok := columns[key]; !ok {
			return nil, fmt.Errorf("%w: missing %q", ErrQuestionMap, key)
		}
	}

	length := len(columns[KeySubjectID])
	for _, key := range canonicalKeys {
		if len(columns[key]) != length {
			return nil, fmt.Errorf("%w: column %q has %d values, want %d", ErrQuestionMap, key, len(columns[key]), length)
		}
	}

	rows := make([]Response, length)
	for i := range rows {
		rows[i] = buildResponse(columns, i)
	}
	return &Survey{rows: rows}, nil
}

// Len reports the number of subjects in the batch.
func (s *Survey) Len() int { return len(s.rows) }

// Rows returns the validated per-subject responses.
func (s *Survey) Rows() []Response { return s.rows }

func buildResponse(columns map[string][]any, i int) Response {
	num := func(key string) float64 { return coerceNumeric(columns[key][i]) }

	return Response{
		SubjectID: coerceSubjectID(columns[KeySubjectID][i]),

		HasJob: num("work_has_job"),

		WorkVigDays: num("work_vig_days"), WorkVigHours: num("work_vig_hours"), WorkVigMinutes: num("work_vig_minutes"),
		WorkModDays: num("work_mod_days"), WorkModHours: num("work_mod_hours"), WorkModMinutes: num("work_mod_minutes"),
		WorkWalkDays: num("work_walk_days"), WorkWalkHours: num("work_walk_hours"), WorkWalkMinutes: num("work_walk_minutes"),

		VehicleDays: num("transport_vehicle_days"), VehicleHours: num("transport_vehicle_hours"), VehicleMinutes: num("transport_vehicle_minutes"),
		CycleDays: num("transport_cycle_days"), CycleHours: num("transport_cycle_hours"), CycleMinutes: num("transport_cycle_minutes"),
		TransportWalkDays: num("transport_walk_days"), TransportWalkHours: num("transport_walk_hours"), TransportWalkMinutes: num("transport_walk_minutes"),

		YardVigDays: num("domestic_yard_vig_days"), YardVigHours: num("domestic_yard_vig_hours"), YardVigMinutes: num("domestic_yard_vig_minutes"),
		YardModDays: num("domestic_yard_mod_days"), YardModHours: num("domestic_yard_mod_hours"), YardModMinutes: num("domestic_yard_mod_minutes"),
		InsideModDays: num("domestic_inside_mod_days"), InsideModHours: num("domestic_inside_mod_hours"), InsideModMinutes: num("domestic_inside_mod_minutes"),

		LeisureWalkDays: num("leisure_walk_days"), LeisureWalkHours: num("leisure_walk_hours"), LeisureWalkMinutes: num("leisure_walk_minutes"),
		LeisureVigDays: num("leisure_vig_days"), LeisureVigHours: num("leisure_vig_hours"), LeisureVigMinutes: num("leisure_vig_minutes"),
		LeisureModDays: num("leisure_mod_days"), LeisureModHours: num("leisure_mod_hours"), LeisureModMinutes: num("leisure_mod_minutes"),

		SitWeekdayHours: num("sit_weekday_hours"), SitWeekdayMinutes: num("sit_weekday_minutes"),
		SitWeekendHours: num("sit_weekend_hours"), SitWeekendMinutes: num("sit_weekend_minutes"),
	}
}

// coerceNumeric converts a raw cell value to float64. Missing and
// non-numeric values default to zero; the protocol treats them as
// unanswered rather than raising.
func coerceNumeric(v any) float64 {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0
		}
		return t
	case float32:
		return coerceNumeric(float64(t))
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		if f, err := t.Float64(); err == nil {
			return coerceNumeric(f)
		}
		return 0
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return coerceNumeric(f)
		}
		return 0
	case bool:
		if t {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func coerceSubjectID(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}

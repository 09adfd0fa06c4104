package scoring

import (
	"math"
	"runtime"
	"sync"
)

// Mode selects the output shape.
type Mode int

const (
	// ModeTotals emits intensity totals, grand totals, and the sedentary
	// estimate only.
	ModeTotals Mode = iota
	// ModeDomains additionally emits the four per-domain time/MET pairs.
	ModeDomains
)

// ParseMode maps the wire representation to a Mode, defaulting to totals.
func ParseMode(s string) Mode {
	if s == "domains" {
		return ModeDomains
	}
	return ModeTotals
}

func (m Mode) String() string {
	if m == ModeDomains {
		return "domains"
	}
	return "totals"
}

// DomainBreakdown carries per-domain totals in domains mode. Fields are nil
// when the underlying value is missing.
type DomainBreakdown struct {
	WorkTime      *float64 `json:"work_time"`
	WorkMET       *float64 `json:"work_met"`
	TransportTime *float64 `json:"transport_time"`
	TransportMET  *float64 `json:"transport_met"`
	DomesticTime  *float64 `json:"domestic_time"`
	DomesticMET   *float64 `json:"domestic_met"`
	LeisureTime   *float64 `json:"leisure_time"`
	LeisureMET    *float64 `json:"leisure_met"`
}

// Summary is the final immutable record for one subject. Nil fields are
// missing: either the item normalized to an invalid value, or the subject
// was an outlier and everything but the id and the flag was discarded.
type Summary struct {
	SubjectID string `json:"subject_id"`
	Invalid   bool   `json:"invalid,omitempty"`
	Outlier   int    `json:"outlier"`

	Category *Category `json:"category"`
	ACSM     *int      `json:"acsm_flag"`

	WalkTime     *float64 `json:"walk_time"`
	WalkMET      *float64 `json:"walk_met"`
	ModerateTime *float64 `json:"moderate_time"`
	ModerateMET  *float64 `json:"moderate_met"`
	VigorousTime *float64 `json:"vigorous_time"`
	VigorousMET  *float64 `json:"vigorous_met"`
	TotalTime    *float64 `json:"total_time"`
	TotalMET     *float64 `json:"total_met"`
	SittingTime  *float64 `json:"sitting_time"`

	Domains *DomainBreakdown `json:"domains,omitempty"`
}

// optional converts an engine value to its output form: NaN becomes nil.
func optional(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}

// ScoreSubject runs the full per-subject pipeline: normalize, clean,
// domain metrics, totals, classification, outlier check, assembly. It is
// pure and safe to call concurrently.
func ScoreSubject(r Response, mode Mode) Summary {
	if r.SubjectID == "" {
		// Malformed row: isolate it instead of failing the batch.
		return Summary{Invalid: true}
	}

	row := Clean(Normalize(r))
	domains := ComputeDomains(row)
	totals := Aggregate(row, domains)
	category := Classify(row, totals)
	acsm := 0
	if MeetsACSMMinimum(r) {
		acsm = 1
	}

	// The outlier check runs last: classification and aggregation still
	// execute for outlier subjects and their results are discarded.
	if IsOutlier(row) {
		return Summary{SubjectID: r.SubjectID, Outlier: 1}
	}

	s := Summary{
		SubjectID: r.SubjectID,
		Category:  &category,
		ACSM:      &acsm,

		WalkTime:     optional(totals.Walk.Time),
		WalkMET:      optional(totals.Walk.MET),
		ModerateTime: optional(totals.Moderate.Time),
		ModerateMET:  optional(totals.Moderate.MET),
		VigorousTime: optional(totals.Vigorous.Time),
		VigorousMET:  optional(totals.Vigorous.MET),
		TotalTime:    optional(totals.Overall.Time),
		TotalMET:     optional(totals.Overall.MET),
		SittingTime:  optional(totals.SittingTime),
	}

	if mode == ModeDomains {
		s.Domains = &DomainBreakdown{
			WorkTime:      optional(totals.Work.Time),
			WorkMET:       optional(totals.Work.MET),
			TransportTime: optional(totals.Transport.Time),
			TransportMET:  optional(totals.Transport.MET),
			DomesticTime:  optional(totals.Domestic.Time),
			DomesticMET:   optional(totals.Domestic.MET),
			LeisureTime:   optional(totals.Leisure.Time),
			LeisureMET:    optional(totals.Leisure.MET),
		}
	}
	return s
}

// Score computes one Summary per subject, preserving input order. Rows are
// independent, so the batch is striped across a bounded set of workers with
// results written by index.
func Score(s *Survey, mode Mode) []Summary {
	rows := s.Rows()
	out := make([]Summary, len(rows))

	workers := runtime.GOMAXPROCS(0)
	if workers > len(rows) {
		workers = len(rows)
	}
	if workers <= 1 {
		for i, r := range rows {
			out[i] = ScoreSubject(r, mode)
		}
		return out
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			for i := start; i < len(rows); i += workers {
				out[i] = ScoreSubject(rows[i], mode)
			}
		}(w)
	}
	wg.Wait()
	return out
}

// Package api exposes HTTP handlers for the survey scoring service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"example.com/ipaq/internal/auth"
	"example.com/ipaq/internal/domain"
	"example.com/ipaq/internal/persistence"
	"example.com/ipaq/internal/scoring"
)

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
}

// NewHandler builds a Handler.
func NewHandler(service *domain.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/surveys", h.surveys)
	mux.HandleFunc("/v1/surveys/", h.surveySubtree)
	mux.HandleFunc("/v1/surveys/questions", h.questionKeys)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) surveys(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.scoreBatch(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) surveySubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/surveys/")
	if rest == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing batch id")
		return
	}

	id, tail, _ := strings.Cut(rest, "/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing batch id")
		return
	}

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	switch tail {
	case "":
		h.getBatch(w, r, id)
	case "summaries":
		h.listSummaries(w, r, id)
	default:
		writeError(w, http.StatusNotFound, "not_found", "unknown resource")
	}
}

// questionKeys returns the canonical question identifiers a submission must
// cover, in presentation order.
func (h *Handler) questionKeys(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	writeJSON(w, http.StatusOK, QuestionKeysResponse{Keys: scoring.CanonicalKeys()})
}

func (h *Handler) scoreBatch(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeSurveysWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope surveys:write required")
		return
	}

	var req ScoreBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	batch, summaries, err := h.service.ScoreBatch(r.Context(), domain.ScoreBatchInput{
		TenantID:   claims.TenantID,
		Source:     req.Source,
		OutputMode: scoring.ParseMode(req.OutputMode),
		Columns:    req.Columns,
	})
	if err != nil {
		if errors.Is(err, scoring.ErrQuestionMap) {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	resp := ScoreBatchResponse{
		Batch:     toBatchView(*batch),
		Summaries: summaries,
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) getBatch(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeSurveysRead) && !claims.HasScope(auth.ScopeSurveysWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope surveys:read required")
		return
	}

	batch, err := h.service.GetBatch(r.Context(), claims.TenantID, id)
	if err != nil {
		if errors.Is(err, domain.ErrBatchNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "batch not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toBatchView(*batch))
}

func (h *Handler) listSummaries(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeSurveysRead) && !claims.HasScope(auth.ScopeSurveysWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope surveys:read required")
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			if parsed > 500 {
				parsed = 500
			}
			limit = parsed
		}
	}

	cursorToken := r.URL.Query().Get("cursor")
	cursor, err := persistence.DecodeCursor(cursorToken)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid cursor")
		return
	}

	summaries, next, err := h.service.ListSummaries(r.Context(), claims.TenantID, id, cursor, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	resp := ListSummariesResponse{
		Items:      summaries,
		NextCursor: persistence.EncodeCursor(next),
	}
	writeJSON(w, http.StatusOK, resp)
}

// ScoreBatchRequest is the payload for POST /v1/surveys. Columns maps each
// canonical question id to one value per subject.
type ScoreBatchRequest struct {
	Source     string           `json:"source"`
	OutputMode string           `json:"output_mode"`
	Columns    map[string][]any `json:"columns"`
}

// Validate ensures request correctness.
func (r ScoreBatchRequest) Validate() error {
	if strings.TrimSpace(r.Source) == "" {
		return errors.New("source is required")
	}
	if len(r.Columns) == 0 {
		return errors.New("columns is required")
	}
	if r.OutputMode != "" && r.OutputMode != "totals" && r.OutputMode != "domains" {
		return errors.New("output_mode must be totals or domains")
	}
	return nil
}

// BatchView exposes batch metadata and category tallies.
type BatchView struct {
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
	CreatedAt     time.Time `json:"created_at"`
}

// ScoreBatchResponse returns the stored batch and every subject summary in
// input order.
type ScoreBatchResponse struct {
	Batch     BatchView         `json:"batch"`
	Summaries []scoring.Summary `json:"summaries"`
}

// ListSummariesResponse packages paginated summaries.
type ListSummariesResponse struct {
	Items      []scoring.Summary `json:"items"`
	NextCursor string            `json:"next_cursor,omitempty"`
}

// QuestionKeysResponse lists the canonical question identifiers.
type QuestionKeysResponse struct {
	Keys []string `json:"keys"`
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toBatchView(batch domain.SurveyBatch) BatchView {
	return BatchView{
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
		CreatedAt:     batch.CreatedAt,
	}
}

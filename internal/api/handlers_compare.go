// Vigia - Epidemiological Surveillance Comparison Service
// Copyright 2026 Nicolás Moralejo (nmoralejo)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nmoralejo/vigia

package api

import (
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/nmoralejo/vigia/internal/coordinator"
	"github.com/nmoralejo/vigia/internal/epiweek"
	"github.com/nmoralejo/vigia/internal/middleware"
	"github.com/nmoralejo/vigia/internal/models"
)

// maxCompareBody caps the request body; comparison queries are small.
const maxCompareBody = 1 << 20 // 1 MiB

// CompareResponse is the data payload of POST /api/v1/compare.
type CompareResponse struct {
	Measure        string                      `json:"measure"`
	CurrentPeriod  epiweek.Period              `json:"current_period"`
	PreviousPeriod *epiweek.Period             `json:"previous_period,omitempty"`
	Comparison     epiweek.Mode                `json:"comparison"`
	Rows           []coordinator.ComparisonRow `json:"rows"`
	Totals         coordinator.Totals          `json:"totals"`
	Partial        bool                        `json:"partial,omitempty"`
	CurrentError   string                      `json:"current_error,omitempty"`
	PreviousError  string                      `json:"previous_error,omitempty"`
}

// PeriodsResponse is the data payload of GET /api/v1/compare/periods.
type PeriodsResponse struct {
	CurrentPeriod    epiweek.Period  `json:"current_period"`
	ComparisonPeriod *epiweek.Period `json:"comparison_period,omitempty"`
	Comparison       epiweek.Mode    `json:"comparison"`
	Weeks            int             `json:"weeks"`
}

// Compare handles POST /api/v1/compare: it resolves the comparison period,
// fetches both row sets concurrently and returns the joined rows with deltas.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var query models.MetricQuery
	if err := json.NewDecoder(io.LimitReader(r.Body, maxCompareBody)).Decode(&query); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "Request body is not valid JSON", err)
		return
	}

	h.applyFieldDefaults(&query)

	mode, err := epiweek.ParseMode(string(query.Comparison))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_MODE", err.Error(), nil)
		return
	}
	query.Comparison = mode

	if apiErr := validateRequest(&query); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}
	if err := query.Period.Validate(); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_PERIOD", err.Error(), nil)
		return
	}

	result := h.coordinator.Compare(r.Context(), query)

	if result.Failed() {
		respondError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR",
			"The aggregation service could not be reached", result.CurrentErr)
		return
	}

	payload := &CompareResponse{
		Measure:        query.Measure,
		CurrentPeriod:  result.CurrentPeriod,
		PreviousPeriod: result.PreviousPeriod,
		Comparison:     query.Comparison,
		Rows:           result.Rows(),
		Totals:         result.SumTotals(),
		Partial:        result.PartialFailure(),
	}
	if result.CurrentErr != nil {
		payload.CurrentError = result.CurrentErr.Error()
	}
	if result.PreviousErr != nil {
		payload.PreviousError = result.PreviousErr.Error()
	}

	cached := result.CurrentCached && (result.PreviousPeriod == nil || result.PreviousCached)

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   payload,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			RequestID:   middleware.GetRequestID(r.Context()),
			QueryTimeMS: time.Since(start).Milliseconds(),
			Cached:      cached,
		},
	})
}

// ComparePeriods handles GET /api/v1/compare/periods: it derives the
// comparison period for a primary period without fetching any data, so the
// dashboard can label its period picker. Without explicit period parameters
// it seeds a trailing window ending at the current epidemiological week.
func (h *Handler) ComparePeriods(w http.ResponseWriter, r *http.Request) {
	mode, err := epiweek.ParseMode(r.URL.Query().Get("mode"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_MODE", err.Error(), nil)
		return
	}

	var period epiweek.Period
	if r.URL.Query().Get("year_from") == "" {
		period = epiweek.CurrentPeriod(h.clock, h.cfg.Defaults.PeriodWeeks)
	} else {
		period = epiweek.Period{
			YearFrom: getIntParam(r, "year_from", 0),
			WeekFrom: getIntParam(r, "week_from", 0),
			YearTo:   getIntParam(r, "year_to", 0),
			WeekTo:   getIntParam(r, "week_to", 0),
		}
		if err := period.Validate(); err != nil {
			respondError(w, r, http.StatusBadRequest, "INVALID_PERIOD", err.Error(), nil)
			return
		}
	}

	payload := &PeriodsResponse{
		CurrentPeriod: period,
		Comparison:    mode,
		Weeks:         epiweek.WeekSpan(period),
	}
	if prev, ok := epiweek.DeriveComparison(period, mode); ok {
		payload.ComparisonPeriod = &prev
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   payload,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
			RequestID: middleware.GetRequestID(r.Context()),
		},
	})
}

// applyFieldDefaults fills unset aggregation field names from deployment
// configuration. Per-query overrides always win.
func (h *Handler) applyFieldDefaults(query *models.MetricQuery) {
	if query.MeasureField == "" {
		query.MeasureField = h.cfg.Defaults.MeasureField
	}
	if query.YearField == "" {
		query.YearField = h.cfg.Defaults.YearField
	}
	if query.WeekField == "" {
		query.WeekField = h.cfg.Defaults.WeekField
	}
}

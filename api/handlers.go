/*
handlers.go - HTTP handlers for the dashboard API

All endpoints are read-only queries over the stats store. Date windows
come from start/end query params (Y-M-D, both required, inclusive).
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/citydot/towstat/logging"
	"github.com/citydot/towstat/towing"
)

// Handler serves the dashboard endpoints.
type Handler struct {
	store towing.StatsStore
	log   *logging.Logger
}

func NewHandler(store towing.StatsStore, log *logging.Logger) *Handler {
	return &Handler{store: store, log: log}
}

// Health is the liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetDailyStats returns summary rows for a date window.
// GET /api/stats/daily?start=2020-01-01&end=2020-01-31
func (h *Handler) GetDailyStats(w http.ResponseWriter, r *http.Request) {
	window, err := windowParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date window", err)
		return
	}

	rows, err := h.store.SummariesBetween(r.Context(), window.Start, window.End)
	if err != nil {
		h.log.WithError(err).Error("daily stats query failed")
		writeError(w, http.StatusInternalServerError, "stats store query failed", nil)
		return
	}

	dtos := make([]SummaryDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toSummaryDTO(row))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetVehicleAges returns per-vehicle rows for a date window.
// GET /api/stats/ages?start=2020-01-01&end=2020-01-31
func (h *Handler) GetVehicleAges(w http.ResponseWriter, r *http.Request) {
	window, err := windowParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date window", err)
		return
	}

	rows, err := h.store.AgesBetween(r.Context(), window.Start, window.End)
	if err != nil {
		h.log.WithError(err).Error("vehicle ages query failed")
		writeError(w, http.StatusInternalServerError, "stats store query failed", nil)
		return
	}

	dtos := make([]AgeDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, toAgeDTO(row))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListCategories returns the normalized category set, total included.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats := []string{string(towing.CategoryTotal)}
	for _, cat := range towing.Categories() {
		cats = append(cats, string(cat))
	}
	writeJSON(w, http.StatusOK, cats)
}

// =============================================================================
// HELPERS
// =============================================================================

func windowParams(r *http.Request) (towing.Period, error) {
	startRaw := r.URL.Query().Get("start")
	endRaw := r.URL.Query().Get("end")
	if startRaw == "" || endRaw == "" {
		return towing.Period{}, fmt.Errorf("start and end are required (Y-M-D)")
	}
	start, err := towing.ParseDate(startRaw)
	if err != nil {
		return towing.Period{}, fmt.Errorf("bad start date: %w", err)
	}
	end, err := towing.ParseDate(endRaw)
	if err != nil {
		return towing.Period{}, fmt.Errorf("bad end date: %w", err)
	}
	if end.Before(start) {
		return towing.Period{}, fmt.Errorf("end %s precedes start %s", end, start)
	}
	return towing.Period{Start: start, End: end}, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

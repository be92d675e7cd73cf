package api

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dugun/hediye/internal/domain"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GetSummary handles GET /api/v1/weddings/{id}/summary[?date=YYYY-MM-DD].
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	asOf, ok := queryDate(w, r)
	if !ok {
		return
	}
	summary, err := h.portfolio.Summarize(r.Context(), id, asOf)
	if err != nil {
		writeServiceError(w, "summarize wedding", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// GetHistory handles GET /api/v1/weddings/{id}/history[?limit=N].
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	points, err := h.snapshots.History(r.Context(), id, queryLimit(r, 30, 365))
	if err != nil {
		writeServiceError(w, "snapshot history", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(points))
}

// ListSnapshots handles GET /api/v1/weddings/{id}/snapshots[?limit=N].
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	snapshots, err := h.snapshots.List(r.Context(), id, queryLimit(r, 30, 365))
	if err != nil {
		writeServiceError(w, "list snapshots", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(snapshots))
}

// GetLatestSnapshot handles GET /api/v1/weddings/{id}/snapshots/latest.
func (h *Handler) GetLatestSnapshot(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	snap, err := h.snapshots.GetLatest(r.Context(), id)
	if err != nil {
		writeServiceError(w, "latest snapshot", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// GetSnapshotByDate handles GET /api/v1/weddings/{id}/snapshots/{date}.
func (h *Handler) GetSnapshotByDate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	date, err := domain.ParseDate(r.PathValue("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
		return
	}
	snap, err := h.snapshots.GetByDate(r.Context(), id, date)
	if err != nil {
		writeServiceError(w, "snapshot by date", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// GenerateSnapshot handles POST /api/v1/weddings/{id}/snapshots/generate[?date=YYYY-MM-DD].
func (h *Handler) GenerateSnapshot(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	date, ok := queryDate(w, r)
	if !ok {
		return
	}
	if _, err := h.ledger.GetWedding(r.Context(), id); err != nil {
		writeServiceError(w, "generate snapshot", err)
		return
	}

	summary, err := h.snapshots.Generate(r.Context(), id, date)
	if err != nil {
		writeServiceError(w, "generate snapshot", err)
		return
	}
	slog.Info("snapshot generated", "wedding", id, "date", date.Format(domain.DateLayout))
	writeJSON(w, http.StatusCreated, summary)
}

// ExportXLSX handles GET /api/v1/weddings/{id}/export.xlsx[?date=YYYY-MM-DD].
func (h *Handler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	asOf, ok := queryDate(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.exports.WriteXLSX(r.Context(), &buf, id, asOf); err != nil {
		writeServiceError(w, "export xlsx", err)
		return
	}

	filename := fmt.Sprintf("wedding-%s-%s.xlsx", id.String()[:8], asOf.Format(domain.DateLayout))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Warn("failed to write xlsx response", "error", err)
	}
}

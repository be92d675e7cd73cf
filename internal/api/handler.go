package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dugun/hediye/internal/domain"
	"github.com/dugun/hediye/internal/export"
	"github.com/dugun/hediye/internal/ledger"
	"github.com/dugun/hediye/internal/portfolio"
	"github.com/dugun/hediye/internal/price"
	"github.com/dugun/hediye/internal/snapshot"
	"github.com/dugun/hediye/internal/valuation"
)

const maxBodyBytes = 1 << 20

// Handler provides HTTP endpoints for the gift ledger API.
type Handler struct {
	ledger    *ledger.Service
	portfolio *portfolio.Service
	snapshots *snapshot.Service
	exports   *export.Service
	engine    *valuation.Engine
	prices    *price.Service
}

// Services bundles the dependencies of a Handler.
type Services struct {
	Ledger    *ledger.Service
	Portfolio *portfolio.Service
	Snapshots *snapshot.Service
	Exports   *export.Service
	Engine    *valuation.Engine
	Prices    *price.Service
}

// NewHandler creates a new API handler.
func NewHandler(s Services) *Handler {
	return &Handler{
		ledger:    s.Ledger,
		portfolio: s.Portfolio,
		snapshots: s.Snapshots,
		exports:   s.Exports,
		engine:    s.Engine,
		prices:    s.Prices,
	}
}

type weddingRequest struct {
	Name string `json:"name"`
}

// giftRequest is the wire form of a gift. dateReceived is YYYY-MM-DD or RFC 3339.
type giftRequest struct {
	DonorID      uuid.UUID        `json:"donorId"`
	Type         domain.AssetType `json:"type"`
	Quantity     *decimal.Decimal `json:"quantity"`
	Grams        *decimal.Decimal `json:"grams"`
	Carat        *int             `json:"carat"`
	DateReceived string           `json:"dateReceived"`
}

func (g giftRequest) date() (*time.Time, error) {
	if g.DateReceived == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(g.DateReceived)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListWeddings handles GET /api/v1/weddings.
func (h *Handler) ListWeddings(w http.ResponseWriter, r *http.Request) {
	weddings, err := h.ledger.ListWeddings(r.Context())
	if err != nil {
		writeServiceError(w, "list weddings", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(weddings))
}

// CreateWedding handles POST /api/v1/weddings.
func (h *Handler) CreateWedding(w http.ResponseWriter, r *http.Request) {
	var req weddingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	wedding, err := h.ledger.CreateWedding(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, "create wedding", err)
		return
	}
	writeJSON(w, http.StatusCreated, wedding)
}

// GetWedding handles GET /api/v1/weddings/{id}.
func (h *Handler) GetWedding(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	wedding, err := h.ledger.GetWedding(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get wedding", err)
		return
	}
	writeJSON(w, http.StatusOK, wedding)
}

// ListDonors handles GET /api/v1/weddings/{id}/donors.
func (h *Handler) ListDonors(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	donors, err := h.ledger.ListDonors(r.Context(), id)
	if err != nil {
		writeServiceError(w, "list donors", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(donors))
}

// CreateDonor handles POST /api/v1/weddings/{id}/donors.
func (h *Handler) CreateDonor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req ledger.CreateDonorInput
	if !decodeBody(w, r, &req) {
		return
	}
	donor, err := h.ledger.CreateDonor(r.Context(), id, req)
	if err != nil {
		writeServiceError(w, "create donor", err)
		return
	}
	writeJSON(w, http.StatusCreated, donor)
}

// GetDonor handles GET /api/v1/donors/{id}.
func (h *Handler) GetDonor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	donor, err := h.ledger.GetDonor(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get donor", err)
		return
	}
	writeJSON(w, http.StatusOK, donor)
}

// DeleteDonor handles DELETE /api/v1/donors/{id}.
func (h *Handler) DeleteDonor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.ledger.DeleteDonor(r.Context(), id); err != nil {
		writeServiceError(w, "delete donor", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListAssets handles GET /api/v1/weddings/{id}/assets[?donorId=].
func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var donorID *uuid.UUID
	if s := r.URL.Query().Get("donorId"); s != "" {
		d, err := uuid.Parse(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid donorId")
			return
		}
		donorID = &d
	}

	assets, err := h.ledger.ListAssets(r.Context(), id, donorID)
	if err != nil {
		writeServiceError(w, "list assets", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(assets))
}

// CreateAsset handles POST /api/v1/weddings/{id}/assets.
// A gift whose price cannot be found is rejected with 422.
func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req giftRequest
	if !decodeBody(w, r, &req) {
		return
	}
	date, err := req.date()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	asset, err := h.ledger.CreateAsset(r.Context(), id, ledger.CreateAssetInput{
		DonorID:      req.DonorID,
		Type:         req.Type,
		Quantity:     req.Quantity,
		Grams:        req.Grams,
		Carat:        req.Carat,
		DateReceived: date,
	})
	if err != nil {
		writeServiceError(w, "create asset", err)
		return
	}
	writeJSON(w, http.StatusCreated, asset)
}

// GetAsset handles GET /api/v1/assets/{id}.
func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	asset, err := h.ledger.GetAsset(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get asset", err)
		return
	}
	writeJSON(w, http.StatusOK, asset)
}

// DeleteAsset handles DELETE /api/v1/assets/{id}.
func (h *Handler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.ledger.DeleteAsset(r.Context(), id); err != nil {
		writeServiceError(w, "delete asset", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// queryDate parses ?date=, defaulting to today.
func queryDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	s := r.URL.Query().Get("date")
	if s == "" {
		return domain.Today(), true
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return d, true
}

func queryLimit(r *http.Request, def, max int) int {
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			return min(n, max)
		}
	}
	return def
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

// writeServiceError maps sentinel errors to HTTP statuses and logs everything else.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound), errors.Is(err, snapshot.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ledger.ErrInvalidInput), errors.Is(err, valuation.ErrMissingDate):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, price.ErrPriceNotFound):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.Error("request failed", "op", op, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

package api

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/dugun/hediye/internal/domain"
	"github.com/dugun/hediye/internal/ledger"
	"github.com/dugun/hediye/internal/price"
)

const defaultHistoryDays = 30

type assetTypeResponse struct {
	Type         domain.AssetType    `json:"type"`
	Name         string              `json:"name"`
	Family       domain.AssetFamily  `json:"family"`
	Requirements domain.Requirements `json:"requirements"`
}

type assetFamilyResponse struct {
	Family domain.AssetFamily  `json:"family"`
	Types  []assetTypeResponse `json:"types"`
}

type valuationResponse struct {
	Type         domain.AssetType `json:"type"`
	DateReceived string           `json:"dateReceived"`
	Value        decimal.Decimal  `json:"value"`
}

// ListAssetTypes handles GET /api/v1/asset-types. Types are grouped by pricing family.
func (h *Handler) ListAssetTypes(w http.ResponseWriter, _ *http.Request) {
	families := domain.AssetFamilies()
	resp := make([]assetFamilyResponse, 0, len(families))
	for _, f := range families {
		group := assetFamilyResponse{Family: f}
		for _, t := range domain.TypesInFamily(f) {
			group.Types = append(group.Types, assetTypeResponse{
				Type:         t,
				Name:         t.DisplayName(),
				Family:       f,
				Requirements: t.Requirements(),
			})
		}
		resp = append(resp, group)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Valuate handles POST /api/v1/valuations. It prices a gift without recording it.
func (h *Handler) Valuate(w http.ResponseWriter, r *http.Request) {
	var req giftRequest
	if !decodeBody(w, r, &req) {
		return
	}
	date, err := req.date()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	in := domain.ValuationInput{
		Type:     req.Type,
		Quantity: req.Quantity,
		Grams:    req.Grams,
		Carat:    req.Carat,
		Date:     domain.Today(),
	}
	if date != nil {
		in.Date = *date
	}
	if err := ledger.Validate(in); err != nil {
		writeServiceError(w, "valuate", err)
		return
	}

	value, err := h.engine.Compute(r.Context(), in)
	if err != nil {
		writeServiceError(w, "valuate", err)
		return
	}
	writeJSON(w, http.StatusOK, valuationResponse{
		Type:         in.Type,
		DateReceived: in.Date.Format(domain.DateLayout),
		Value:        value,
	})
}

// GetLatestPrice handles GET /api/v1/prices/{series}/latest.
func (h *Handler) GetLatestPrice(w http.ResponseWriter, r *http.Request) {
	series, err := domain.ParseSeries(r.PathValue("series"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	quote, err := h.prices.Latest(r.Context(), series)
	if errors.Is(err, price.ErrPriceNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeServiceError(w, "latest price", err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// GetPriceHistory handles GET /api/v1/prices/{series}?from=YYYY-MM-DD&to=YYYY-MM-DD.
// to defaults to today and from to thirty days before to.
func (h *Handler) GetPriceHistory(w http.ResponseWriter, r *http.Request) {
	series, err := domain.ParseSeries(r.PathValue("series"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	to := domain.Today()
	if s := r.URL.Query().Get("to"); s != "" {
		if to, err = domain.ParseDate(s); err != nil {
			writeError(w, http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD")
			return
		}
	}
	from := to.AddDate(0, 0, -defaultHistoryDays)
	if s := r.URL.Query().Get("from"); s != "" {
		if from, err = domain.ParseDate(s); err != nil {
			writeError(w, http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
			return
		}
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "to is before from")
		return
	}

	quotes, err := h.prices.History(r.Context(), series, from, to)
	if err != nil {
		writeServiceError(w, "price history", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(quotes))
}

// GetPrice handles GET /api/v1/prices/{series}/{date}.
// The quote returned may be dated before the requested day.
func (h *Handler) GetPrice(w http.ResponseWriter, r *http.Request) {
	series, err := domain.ParseSeries(r.PathValue("series"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	date, err := domain.ParseDate(r.PathValue("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
		return
	}

	quote, err := h.prices.FindPrice(r.Context(), series, date)
	if errors.Is(err, price.ErrPriceNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeServiceError(w, "find price", err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

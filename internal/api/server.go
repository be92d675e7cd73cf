package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"
)

// NewServer creates an HTTP server with all routes configured.
// Mutating routes require the admin API key when one is set.
func NewServer(port string, handler *Handler, adminAPIKey string) *http.Server {
	return &http.Server{
		Addr:         ":" + port,
		Handler:      NewRouter(handler, adminAPIKey),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewRouter registers every API route on a ServeMux.
func NewRouter(h *Handler, adminAPIKey string) *http.ServeMux {
	protect := func(fn http.HandlerFunc) http.Handler {
		if adminAPIKey == "" {
			return fn
		}
		return requireAuth(adminAPIKey, fn)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/weddings", h.ListWeddings)
	mux.Handle("POST /api/v1/weddings", protect(h.CreateWedding))
	mux.HandleFunc("GET /api/v1/weddings/{id}", h.GetWedding)

	mux.HandleFunc("GET /api/v1/weddings/{id}/donors", h.ListDonors)
	mux.Handle("POST /api/v1/weddings/{id}/donors", protect(h.CreateDonor))
	mux.HandleFunc("GET /api/v1/donors/{id}", h.GetDonor)
	mux.Handle("DELETE /api/v1/donors/{id}", protect(h.DeleteDonor))

	mux.HandleFunc("GET /api/v1/weddings/{id}/assets", h.ListAssets)
	mux.Handle("POST /api/v1/weddings/{id}/assets", protect(h.CreateAsset))
	mux.HandleFunc("GET /api/v1/assets/{id}", h.GetAsset)
	mux.Handle("DELETE /api/v1/assets/{id}", protect(h.DeleteAsset))

	mux.HandleFunc("GET /api/v1/weddings/{id}/summary", h.GetSummary)
	mux.HandleFunc("GET /api/v1/weddings/{id}/history", h.GetHistory)
	mux.HandleFunc("GET /api/v1/weddings/{id}/snapshots", h.ListSnapshots)
	mux.HandleFunc("GET /api/v1/weddings/{id}/snapshots/latest", h.GetLatestSnapshot)
	mux.HandleFunc("GET /api/v1/weddings/{id}/snapshots/{date}", h.GetSnapshotByDate)
	mux.Handle("POST /api/v1/weddings/{id}/snapshots/generate", protect(h.GenerateSnapshot))
	mux.HandleFunc("GET /api/v1/weddings/{id}/export.xlsx", h.ExportXLSX)

	mux.HandleFunc("GET /api/v1/asset-types", h.ListAssetTypes)
	mux.HandleFunc("POST /api/v1/valuations", h.Valuate)
	mux.HandleFunc("GET /api/v1/prices/{series}", h.GetPriceHistory)
	mux.HandleFunc("GET /api/v1/prices/{series}/latest", h.GetLatestPrice)
	mux.HandleFunc("GET /api/v1/prices/{series}/{date}", h.GetPrice)

	return mux
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// internal/server/router.go
//
// JSON API router over the dataset store.
//
// Context
// -------
// The static site is built offline; this API exists for the search box,
// sitemap generation, and ad-hoc dataset inspection.  Every endpoint is a
// read against the memoized Store, so handlers stay thin: resolve params,
// query, encode.
//
// An unknown location is a normal outcome for speculative URLs and maps to
// 404; a dataset that fails to load is a 500 and is logged once per
// request.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/quiethoursguide/bylawdata/internal/dataset"
	"github.com/quiethoursguide/bylawdata/internal/search"
)

// defaultSearchLimit caps /api/search results when neither the request nor
// the configuration says otherwise.
const defaultSearchLimit = 10

// API serves the bylaw datasets over HTTP.
type API struct {
	store       *dataset.Store
	searchLimit int
}

// NewAPI wires an API around store.  maxResults of zero means the default
// search result cap.
func NewAPI(store *dataset.Store, maxResults int) *API {
	if maxResults <= 0 {
		maxResults = defaultSearchLimit
	}
	return &API{store: store, searchLimit: maxResults}
}

// Router mounts every endpoint.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", a.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", a.handleSearch)
		r.Get("/sitemap", a.handleSitemap)

		r.Route("/quiet-hours", func(r chi.Router) {
			r.Get("/", a.handleQuietHoursCountries)
			r.Get("/{country}", a.handleQuietHoursRegions)
			r.Get("/{country}/{region}", a.handleQuietHoursCities)
			r.Get("/{country}/{region}/{city}", a.handleQuietHoursRecord)
		})
		r.Route("/parking-rules", func(r chi.Router) {
			r.Get("/", a.handleParkingCountries)
			r.Get("/{country}", a.handleParkingRegions)
			r.Get("/{country}/{region}", a.handleParkingCities)
			r.Get("/{country}/{region}/{city}", a.handleParkingRecord)
		})
		r.Route("/bulk-trash", func(r chi.Router) {
			r.Get("/", a.handleBulkTrashCountries)
			r.Get("/{country}", a.handleBulkTrashRegions)
			r.Get("/{country}/{region}", a.handleBulkTrashCities)
			r.Get("/{country}/{region}/{city}", a.handleBulkTrashRecord)
		})
		r.Route("/fireworks", func(r chi.Router) {
			r.Get("/", a.handleFireworksCountries)
			r.Get("/{country}", a.handleFireworksRegions)
			r.Get("/{country}/{region}", a.handleFireworksRegionRecord)
			r.Get("/{country}/{region}/{city}", a.handleFireworksCityRecord)
		})
	})

	return r
}

//
// response helpers
//

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Errorw("response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (a *API) datasetError(w http.ResponseWriter, op string, err error) {
	zap.S().Errorw("dataset query failed", "op", op, "err", err)
	writeError(w, http.StatusInternalServerError, "dataset unavailable")
}

//
// service endpoints
//

func (a *API) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	entries, err := a.store.SearchIndex(r.Context())
	if err != nil {
		a.datasetError(w, "search", err)
		return
	}
	results := search.Rank(entries, q, a.searchLimit)
	if results == nil {
		results = []search.Entry{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (a *API) handleSitemap(w http.ResponseWriter, r *http.Request) {
	paths, err := a.store.SitemapPaths(r.Context())
	if err != nil {
		a.datasetError(w, "sitemap", err)
		return
	}
	writeJSON(w, http.StatusOK, paths)
}

// internal/server/handlers.go
//
// Topic endpoint handlers.
//
// Notes
// -----
// City-topic handlers share the listing shapes (country, region, city
// summaries); fireworks has its own region summary and a region-level
// record endpoint, matching how the data is actually published.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

//
// quiet hours
//

func (a *API) handleQuietHoursCountries(w http.ResponseWriter, r *http.Request) {
	out, err := a.store.QuietHoursCountries(r.Context())
	if err != nil {
		a.datasetError(w, "quiet-hours countries", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleQuietHoursRegions(w http.ResponseWriter, r *http.Request) {
	out, err := a.store.QuietHoursRegions(r.Context(), chi.URLParam(r, "country"))
	if err != nil {
		a.datasetError(w, "quiet-hours regions", err)
		return
	}
	if len(out) == 0 {
		writeError(w, http.StatusNotFound, "country not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleQuietHoursCities(w http.ResponseWriter, r *http.Request) {
	out, err := a.store.QuietHoursCities(r.Context(), chi.URLParam(r, "country"), chi.URLParam(r, "region"))
	if err != nil {
		a.datasetError(w, "quiet-hours cities", err)
		return
	}
	if len(out) == 0 {
		writeError(w, http.StatusNotFound, "region not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleQuietHoursRecord(w http.ResponseWriter, r *http.Request) {
	country, region, city := chi.URLParam(r, "country"), chi.URLParam(r, "region"), chi.URLParam(r, "city")
	rec, ok, err := a.store.QuietHoursBySlug(r.Context(), country, region, city)
	if err != nil {
		a.datasetError(w, "quiet-hours record", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	hero := a.store.HeroImage(r.Context(), country, region, city)
	writeJSON(w, http.StatusOK, map[string]any{"record": rec, "hero_image_url": hero})
}

//
// parking rules
//

func (a *API) handleParkingCountries(w http.ResponseWriter, r *http.Request) {
	out, err := a.store.ParkingCountries(r.Context())
	if err != nil {
		a.datasetError(w, "parking countries", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleParkingRegions(w http.ResponseWriter, r *http.Request) {
	out, err := a.store.ParkingRegions(r.Context(), chi.URLParam(r, "country"))
	if err != nil {
		a.datasetError(w, "parking regions", err)
		return
	}
	if len(out) == 0 {
		writeError(w, http.StatusNotFound, "country not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleParkingCities(w http.ResponseWriter, r *http.Request) {
	out, err := a.store.ParkingCities(r.Context(), chi.URLParam(r, "country"), chi.URLParam(r, "region"))
	if err != nil {
		a.datasetError(w, "parking cities", err)
		return
	}
	if len(out) == 0 {
		writeError(w, http.StatusNotFound, "region not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleParkingRecord(w http.ResponseWriter, r *http.Request) {
	rec, ok, err := a.store.ParkingBySlug(r.Context(), chi.URLParam(r, "country"), chi.URLParam(r, "region"), chi.URLParam(r, "city"))
	if err != nil {
		a.datasetError(w, "parking record", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

//
// bulk trash
//

func (a *API) handleBulkTrashCountries(w http.ResponseWriter, r *http.Request) {
	out, err := a.store.BulkTrashCountries(r.Context())
	if err != nil {
		a.datasetError(w, "bulk-trash countries", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleBulkTrashRegions(w http.ResponseWriter, r *http.Request) {
	out, err := a.store.BulkTrashRegions(r.Context(), chi.URLParam(r, "country"))
	if err != nil {
		a.datasetError(w, "bulk-trash regions", err)
		return
	}
	if len(out) == 0 {
		writeError(w, http.StatusNotFound, "country not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleBulkTrashCities(w http.ResponseWriter, r *http.Request) {
	out, err := a.store.BulkTrashCities(r.Context(), chi.URLParam(r, "country"), chi.URLParam(r, "region"))
	if err != nil {
		a.datasetError(w, "bulk-trash cities", err)
		return
	}
	if len(out) == 0 {
		writeError(w, http.StatusNotFound, "region not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleBulkTrashRecord(w http.ResponseWriter, r *http.Request) {
	rec, ok, err := a.store.BulkTrashBySlug(r.Context(), chi.URLParam(r, "country"), chi.URLParam(r, "region"), chi.URLParam(r, "city"))
	if err != nil {
		a.datasetError(w, "bulk-trash record", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

//
// fireworks
//

func (a *API) handleFireworksCountries(w http.ResponseWriter, r *http.Request) {
	out, err := a.store.FireworksCountries(r.Context())
	if err != nil {
		a.datasetError(w, "fireworks countries", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) handleFireworksRegions(w http.ResponseWriter, r *http.Request) {
	out, err := a.store.FireworksRegions(r.Context(), chi.URLParam(r, "country"))
	if err != nil {
		a.datasetError(w, "fireworks regions", err)
		return
	}
	if len(out) == 0 {
		writeError(w, http.StatusNotFound, "country not found")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleFireworksRegionRecord serves the region page payload: the
// region-level record when one exists, plus the region's city listing.
func (a *API) handleFireworksRegionRecord(w http.ResponseWriter, r *http.Request) {
	country, region := chi.URLParam(r, "country"), chi.URLParam(r, "region")
	rec, ok, err := a.store.FireworksBySlug(r.Context(), country, region, "")
	if err != nil {
		a.datasetError(w, "fireworks region record", err)
		return
	}
	cities, err := a.store.FireworksCities(r.Context(), country, region)
	if err != nil {
		a.datasetError(w, "fireworks cities", err)
		return
	}
	if !ok && len(cities) == 0 {
		writeError(w, http.StatusNotFound, "region not found")
		return
	}
	payload := map[string]any{"cities": cities}
	if ok {
		payload["record"] = rec
	}
	writeJSON(w, http.StatusOK, payload)
}

func (a *API) handleFireworksCityRecord(w http.ResponseWriter, r *http.Request) {
	rec, ok, err := a.store.FireworksBySlug(r.Context(), chi.URLParam(r, "country"), chi.URLParam(r, "region"), chi.URLParam(r, "city"))
	if err != nil {
		a.datasetError(w, "fireworks city record", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

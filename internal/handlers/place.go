package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/TanasubRat/travel-match-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// PlaceHandler handles the public place browse endpoints
type PlaceHandler struct {
	placeService *services.PlaceService
}

// NewPlaceHandler creates a new place handler
func NewPlaceHandler(placeService *services.PlaceService) *PlaceHandler {
	return &PlaceHandler{placeService: placeService}
}

// Browse handles GET /api/v1/places
// ?location=Bangkok&type=Food+%26+Drink,Attraction&minRating=3&priceLevel=2&openNow=true
// With a type parameter, categories match with OR logic and results are
// ordered by overlap; without one, plain field filters apply, best rated
// first. All other filters are AND.
func (h *PlaceHandler) Browse(w http.ResponseWriter, r *http.Request) {
	q := services.BrowseQuery{
		City:    r.URL.Query().Get("location"),
		OpenNow: r.URL.Query().Get("openNow") == "true",
	}

	if v := r.URL.Query().Get("minRating"); v != "" {
		if rating, err := strconv.ParseFloat(v, 64); err == nil {
			q.MinRating = &rating
		}
	}
	if v := r.URL.Query().Get("priceLevel"); v != "" {
		if lvl, err := strconv.Atoi(v); err == nil {
			q.PriceLevel = &lvl
		}
	}

	if typeParam := r.URL.Query().Get("type"); typeParam != "" {
		for _, t := range strings.Split(typeParam, ",") {
			if t = strings.TrimSpace(t); t != "" {
				q.Categories = append(q.Categories, t)
			}
		}
	}

	if len(q.Categories) > 0 {
		ranked, err := h.placeService.BrowseByCategory(r.Context(), q)
		if err != nil {
			log.Error().Err(err).Str("city", q.City).Msg("Failed to browse places by category")
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, ranked)
		return
	}

	places, err := h.placeService.Browse(r.Context(), q)
	if err != nil {
		log.Error().Err(err).Str("city", q.City).Msg("Failed to browse places")
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, places)
}

// Get handles GET /api/v1/places/{place_id}
func (h *PlaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	placeID := chi.URLParam(r, "place_id")

	place, err := h.placeService.GetByID(r.Context(), placeID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, place)
}

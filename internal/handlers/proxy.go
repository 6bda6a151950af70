package handlers

import (
	"net/http"

	"github.com/TanasubRat/travel-match-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// ProxyHandler serves external place images through the S3-backed cache
type ProxyHandler struct {
	imageCache *services.ImageCacheService
}

// NewProxyHandler creates a new proxy handler
func NewProxyHandler(imageCache *services.ImageCacheService) *ProxyHandler {
	return &ProxyHandler{imageCache: imageCache}
}

// Image handles GET /api/v1/proxy/image?url=ENCODED_URL
func (h *ProxyHandler) Image(w http.ResponseWriter, r *http.Request) {
	imageURL := r.URL.Query().Get("url")
	if imageURL == "" {
		respondError(w, "Missing url parameter", http.StatusBadRequest)
		return
	}

	body, contentType, err := h.imageCache.Get(r.Context(), imageURL)
	if err != nil {
		log.Error().Err(err).Str("url", imageURL).Msg("Image proxy failed")
		respondError(w, "Proxy error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

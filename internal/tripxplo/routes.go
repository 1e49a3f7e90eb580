package tripxplo

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RegisterRoutes mounts the package API proxy under /api/tripxplo.
func RegisterRoutes(r chi.Router, c *Client, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r.Route("/api/tripxplo", func(r chi.Router) {
		r.Get("/packages", handlePackages(c, logger))
		r.Get("/package/{packageID}", handlePackage(c, logger))
		r.Post("/package/{packageID}/pricing", handlePricing(c, logger))
		r.Get("/package/{packageID}/hotels", handlePackageList(logger, "hotels", c.Hotels))
		r.Get("/package/{packageID}/vehicles", handlePackageList(logger, "vehicles", c.Vehicles))
		r.Get("/package/{packageID}/activities", handlePackageList(logger, "activities", c.Activities))
		r.Get("/interests", handleInterests(c, logger))
		r.Get("/destinations/search", handleDestinations(c, logger))
	})
}

func handlePackages(c *Client, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit, _ := strconv.Atoi(q.Get("limit"))
		offset, _ := strconv.Atoi(q.Get("offset"))

		packages, err := c.Packages(r.Context(), q.Get("search"), limit, offset)
		if err != nil {
			upstreamError(w, logger, err, "Failed to fetch packages")
			return
		}
		if packages == nil {
			packages = []map[string]any{}
		}
		writeJSON(w, map[string]any{"packages": packages})
	}
}

func handlePackage(c *Client, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		details, err := c.Package(r.Context(), chi.URLParam(r, "packageID"))
		if err != nil {
			upstreamError(w, logger, err, "Failed to fetch package details")
			return
		}
		writeJSON(w, map[string]any{"details": details})
	}
}

func handlePricing(c *Client, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var params map[string]any
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		pricing, err := c.Pricing(r.Context(), chi.URLParam(r, "packageID"), params)
		if err != nil {
			upstreamError(w, logger, err, "Failed to fetch package pricing")
			return
		}
		writeJSON(w, map[string]any{"pricing": pricing})
	}
}

func handlePackageList(logger *zap.Logger, key string, fetch func(ctx context.Context, id string) ([]any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := fetch(r.Context(), chi.URLParam(r, "packageID"))
		if err != nil {
			upstreamError(w, logger, err, "Failed to fetch "+key)
			return
		}
		writeJSON(w, map[string]any{key: items})
	}
}

func handleInterests(c *Client, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		interests, err := c.Interests(r.Context())
		if err != nil {
			upstreamError(w, logger, err, "Failed to fetch interests")
			return
		}
		if interests == nil {
			interests = []any{}
		}
		writeJSON(w, map[string]any{"interests": interests})
	}
}

func handleDestinations(c *Client, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		destinations, err := c.SearchDestinations(r.Context(), r.URL.Query().Get("search"))
		if err != nil {
			upstreamError(w, logger, err, "Failed to search destinations")
			return
		}
		if destinations == nil {
			destinations = []any{}
		}
		writeJSON(w, map[string]any{"destinations": destinations})
	}
}

func upstreamError(w http.ResponseWriter, logger *zap.Logger, err error, msg string) {
	logger.Error(msg, zap.Error(err))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadGateway)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

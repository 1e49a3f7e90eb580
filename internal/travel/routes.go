package travel

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RegisterRoutes mounts the direct search and booking endpoints.
func RegisterRoutes(r chi.Router, svc Service, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r.Post("/api/search-flight", handleSearchFlights(svc, logger))
	r.Post("/api/search-hotel", handleSearchHotels(svc, logger))
	r.Post("/api/book-trip", handleBookTrip(svc, logger))
	r.Get("/api/flights/{flightID}", handleFlightDetails(svc))
	r.Get("/api/hotels/{hotelID}", handleHotelDetails(svc))
}

func handleSearchFlights(svc Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := FlightSearchRequest{Passengers: 1, ClassType: DefaultClassType}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Origin == "" || req.Destination == "" || req.DepartureDate == "" {
			writeError(w, http.StatusBadRequest, "origin, destination and departure_date are required")
			return
		}

		flights, err := svc.SearchFlights(r.Context(), req)
		if err != nil {
			writeServiceError(w, logger, err, "Flight search failed")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"flights":       flights,
			"total_results": len(flights),
			"search_params": req,
		})
	}
}

func handleSearchHotels(svc Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := HotelSearchRequest{Guests: 1, Rooms: 1}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Location == "" || req.CheckIn == "" || req.CheckOut == "" {
			writeError(w, http.StatusBadRequest, "location, check_in and check_out are required")
			return
		}

		hotels, err := svc.SearchHotels(r.Context(), req)
		if err != nil {
			writeServiceError(w, logger, err, "Hotel search failed")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"hotels":        hotels,
			"total_results": len(hotels),
			"search_params": req,
		})
	}
}

func handleBookTrip(svc Service, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := req.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		booking, err := svc.CreateBooking(r.Context(), req.BookingType, req.BookingID, req.Details())
		if err != nil {
			writeServiceError(w, logger, err, "Booking failed")
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"booking": booking,
			"status":  "success",
			"message": fmt.Sprintf("Your %s has been booked successfully!", req.BookingType),
		})
	}
}

func handleFlightDetails(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		details, err := svc.FlightDetails(r.Context(), chi.URLParam(r, "flightID"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to fetch flight details")
			return
		}
		writeJSON(w, http.StatusOK, details)
	}
}

func handleHotelDetails(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		details, err := svc.HotelDetails(r.Context(), chi.URLParam(r, "hotelID"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to fetch hotel details")
			return
		}
		writeJSON(w, http.StatusOK, details)
	}
}

func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error, msg string) {
	if errors.Is(err, ErrInvalidRequest) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	logger.Error(msg, zap.Error(err))
	writeError(w, http.StatusInternalServerError, msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

package travel

import "context"

// Service is the flight, hotel and booking backend the assistant dispatches to.
type Service interface {
	SearchFlights(ctx context.Context, req FlightSearchRequest) ([]FlightResult, error)
	SearchHotels(ctx context.Context, req HotelSearchRequest) ([]HotelResult, error)
	CreateBooking(ctx context.Context, bookingType, itemID string, details map[string]any) (*BookingResult, error)
	FlightDetails(ctx context.Context, flightID string) (map[string]any, error)
	HotelDetails(ctx context.Context, hotelID string) (map[string]any, error)
}

package travel

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest is wrapped by every request validation failure.
var ErrInvalidRequest = errors.New("invalid request")

// Cabin classes accepted by flight search.
var ClassTypes = []string{"economy", "premium_economy", "business", "first"}

const (
	DefaultClassType   = "economy"
	DefaultBookingType = "flight"
)

type FlightSearchRequest struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departure_date"`
	ReturnDate    string `json:"return_date,omitempty"`
	Passengers    int    `json:"passengers"`
	ClassType     string `json:"class_type"`
}

// Validate checks counts and cabin class.
func (r FlightSearchRequest) Validate() error {
	if r.Passengers < 1 || r.Passengers > 9 {
		return fmt.Errorf("%w: passengers must be between 1 and 9, got %d", ErrInvalidRequest, r.Passengers)
	}
	for _, c := range ClassTypes {
		if r.ClassType == c {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown class_type %q", ErrInvalidRequest, r.ClassType)
}

type HotelSearchRequest struct {
	Location string `json:"location"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Guests   int    `json:"guests"`
	Rooms    int    `json:"rooms"`
}

// Validate checks guest and room counts.
func (r HotelSearchRequest) Validate() error {
	if r.Guests < 1 || r.Guests > 10 {
		return fmt.Errorf("%w: guests must be between 1 and 10, got %d", ErrInvalidRequest, r.Guests)
	}
	if r.Rooms < 1 || r.Rooms > 5 {
		return fmt.Errorf("%w: rooms must be between 1 and 5, got %d", ErrInvalidRequest, r.Rooms)
	}
	return nil
}

type BookingRequest struct {
	BookingType      string         `json:"booking_type"`
	BookingID        string         `json:"booking_id"`
	PassengerDetails map[string]any `json:"passenger_details,omitempty"`
	PaymentInfo      map[string]any `json:"payment_info,omitempty"`
}

// Validate requires the booking type and the item being booked.
func (r BookingRequest) Validate() error {
	if r.BookingType == "" {
		return fmt.Errorf("%w: booking_type is required", ErrInvalidRequest)
	}
	if r.BookingID == "" {
		return fmt.Errorf("%w: booking_id is required", ErrInvalidRequest)
	}
	return nil
}

// Details flattens the request into the free-form record kept on the booking.
func (r BookingRequest) Details() map[string]any {
	d := map[string]any{
		"booking_type": r.BookingType,
		"booking_id":   r.BookingID,
	}
	if r.PassengerDetails != nil {
		d["passenger_details"] = r.PassengerDetails
	}
	if r.PaymentInfo != nil {
		d["payment_info"] = r.PaymentInfo
	}
	return d
}

type FlightResult struct {
	FlightID       string  `json:"flight_id"`
	Airline        string  `json:"airline"`
	FlightNumber   string  `json:"flight_number"`
	Origin         string  `json:"origin"`
	Destination    string  `json:"destination"`
	DepartureTime  string  `json:"departure_time"`
	ArrivalTime    string  `json:"arrival_time"`
	Duration       string  `json:"duration"`
	Price          float64 `json:"price"`
	Currency       string  `json:"currency"`
	AvailableSeats int     `json:"available_seats"`
}

type HotelResult struct {
	HotelID        string   `json:"hotel_id"`
	Name           string   `json:"name"`
	Location       string   `json:"location"`
	Rating         float64  `json:"rating"`
	PricePerNight  float64  `json:"price_per_night"`
	Currency       string   `json:"currency"`
	Amenities      []string `json:"amenities"`
	AvailableRooms int      `json:"available_rooms"`
}

type BookingResult struct {
	BookingID          string         `json:"booking_id"`
	BookingType        string         `json:"booking_type"`
	Status             string         `json:"status"`
	ConfirmationNumber string         `json:"confirmation_number"`
	TotalPrice         float64        `json:"total_price"`
	Currency           string         `json:"currency"`
	BookingDetails     map[string]any `json:"booking_details"`
}

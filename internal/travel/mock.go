package travel

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	airlines = []string{"American Airlines", "Delta", "United", "Southwest", "JetBlue"}

	hotelNames = []string{
		"Grand Plaza Hotel", "Comfort Inn & Suites", "Luxury Resort & Spa",
		"Business Center Hotel", "Boutique Downtown", "Seaside Resort",
		"Mountain View Lodge", "City Center Hotel", "Airport Inn",
	}
	hotelSuffixes = []string{"Downtown", "Airport", "Beach", "Center"}

	amenities = []string{
		"Free WiFi", "Pool", "Gym", "Spa", "Restaurant", "Bar",
		"Room Service", "Parking", "Pet Friendly", "Business Center",
	}
)

// MockService generates plausible flight, hotel and booking data.
type MockService struct {
	mu      sync.Mutex
	rng     *rand.Rand
	latency bool
	logger  *zap.Logger
}

// MockOption configures a MockService.
type MockOption func(*MockService)

// WithSeed makes results reproducible.
func WithSeed(seed int64) MockOption {
	return func(m *MockService) { m.rng = rand.New(rand.NewSource(seed)) }
}

// WithLatency makes every call wait like a remote API would.
func WithLatency(enabled bool) MockOption {
	return func(m *MockService) { m.latency = enabled }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) MockOption {
	return func(m *MockService) { m.logger = l }
}

// NewMockService creates a mock backend. Latency is off unless requested.
func NewMockService(opts ...MockOption) *MockService {
	m := &MockService{
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger: zap.NewNop(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *MockService) SearchFlights(ctx context.Context, req FlightSearchRequest) ([]FlightResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m.logger.Info("searching flights", zap.String("origin", req.Origin), zap.String("destination", req.Destination))
	if err := m.wait(ctx, 500*time.Millisecond, 1500*time.Millisecond); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.between(3, 8)
	flights := make([]FlightResult, 0, n)
	for i := 0; i < n; i++ {
		airline := airlines[m.rng.Intn(len(airlines))]
		departure := m.between(6, 22)
		duration := m.between(2, 8)
		flights = append(flights, FlightResult{
			FlightID:       fmt.Sprintf("flight_%d_%d", i+1, m.between(1000, 9999)),
			Airline:        airline,
			FlightNumber:   fmt.Sprintf("%s%d", strings.ToUpper(airline[:2]), m.between(100, 999)),
			Origin:         req.Origin,
			Destination:    req.Destination,
			DepartureTime:  fmt.Sprintf("%02d:%02d", departure, m.rng.Intn(60)),
			ArrivalTime:    fmt.Sprintf("%02d:%02d", (departure+duration)%24, m.rng.Intn(60)),
			Duration:       fmt.Sprintf("%dh %dm", duration, m.rng.Intn(60)),
			Price:          m.price(200, 1200),
			Currency:       "USD",
			AvailableSeats: m.between(5, 50),
		})
	}
	sort.SliceStable(flights, func(i, j int) bool { return flights[i].Price < flights[j].Price })
	return flights, nil
}

func (m *MockService) SearchHotels(ctx context.Context, req HotelSearchRequest) ([]HotelResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	m.logger.Info("searching hotels", zap.String("location", req.Location))
	if err := m.wait(ctx, 500*time.Millisecond, 1500*time.Millisecond); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	n := m.between(4, 10)
	hotels := make([]HotelResult, 0, n)
	for i := 0; i < n; i++ {
		name := hotelNames[m.rng.Intn(len(hotelNames))]
		suffix := hotelSuffixes[m.rng.Intn(len(hotelSuffixes))]
		hotels = append(hotels, HotelResult{
			HotelID:        fmt.Sprintf("hotel_%d_%d", i+1, m.between(1000, 9999)),
			Name:           name + " " + suffix,
			Location:       req.Location,
			Rating:         math.Round((3.0+m.rng.Float64()*2.0)*10) / 10,
			PricePerNight:  m.price(80, 500),
			Currency:       "USD",
			Amenities:      m.sample(amenities, m.between(3, 7)),
			AvailableRooms: m.between(1, 20),
		})
	}
	sort.SliceStable(hotels, func(i, j int) bool { return hotels[i].Rating > hotels[j].Rating })
	return hotels, nil
}

func (m *MockService) CreateBooking(ctx context.Context, bookingType, itemID string, details map[string]any) (*BookingResult, error) {
	if bookingType == "" {
		return nil, fmt.Errorf("%w: booking_type is required", ErrInvalidRequest)
	}
	m.logger.Info("creating booking", zap.String("type", bookingType), zap.String("item", itemID))
	if err := m.wait(ctx, time.Second, 2*time.Second); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	prefix := strings.ToUpper(bookingType)
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}

	var total float64
	switch bookingType {
	case "flight":
		total = m.price(200, 1200)
	case "hotel":
		total = m.price(80, 500)
	default:
		total = m.price(500, 2000)
	}

	if details == nil {
		details = map[string]any{}
	}
	return &BookingResult{
		BookingID:          "booking_" + uuid.New().String()[:8],
		BookingType:        bookingType,
		Status:             "confirmed",
		ConfirmationNumber: fmt.Sprintf("%s%06d", prefix, m.between(100000, 999999)),
		TotalPrice:         total,
		Currency:           "USD",
		BookingDetails:     details,
	}, nil
}

func (m *MockService) FlightDetails(ctx context.Context, flightID string) (map[string]any, error) {
	if err := m.wait(ctx, 500*time.Millisecond, 500*time.Millisecond); err != nil {
		return nil, err
	}
	return map[string]any{
		"flight_id":           flightID,
		"baggage_policy":      "1 carry-on, 1 checked bag included",
		"cancellation_policy": "Free cancellation within 24 hours",
		"seat_map":            "Available for selection",
		"meal_service":        "Complimentary snacks and beverages",
	}, nil
}

func (m *MockService) HotelDetails(ctx context.Context, hotelID string) (map[string]any, error) {
	if err := m.wait(ctx, 500*time.Millisecond, 500*time.Millisecond); err != nil {
		return nil, err
	}
	return map[string]any{
		"hotel_id":            hotelID,
		"check_in_time":       "3:00 PM",
		"check_out_time":      "11:00 AM",
		"cancellation_policy": "Free cancellation up to 24 hours before check-in",
		"policies":            []string{"No smoking", "Pet policy varies", "Valid ID required"},
		"contact":             "+1-555-0123",
	}, nil
}

// wait sleeps for a random duration in [lo, hi] when latency is enabled.
func (m *MockService) wait(ctx context.Context, lo, hi time.Duration) error {
	if !m.latency {
		return ctx.Err()
	}
	d := lo
	if hi > lo {
		m.mu.Lock()
		d += time.Duration(m.rng.Int63n(int64(hi - lo)))
		m.mu.Unlock()
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// between returns an int in [lo, hi]. Callers hold m.mu.
func (m *MockService) between(lo, hi int) int {
	return lo + m.rng.Intn(hi-lo+1)
}

// price returns a value in [lo, hi) rounded to cents. Callers hold m.mu.
func (m *MockService) price(lo, hi float64) float64 {
	return math.Round((lo+m.rng.Float64()*(hi-lo))*100) / 100
}

// sample picks n distinct items. Callers hold m.mu.
func (m *MockService) sample(pool []string, n int) []string {
	idx := m.rng.Perm(len(pool))[:n]
	out := make([]string, n)
	for i, j := range idx {
		out[i] = pool[j]
	}
	return out
}

package assistant

// Intent is the coarse classification of what the user wants.
type Intent string

const (
	IntentSearchFlight   Intent = "search_flight"
	IntentSearchHotel    Intent = "search_hotel"
	IntentBookTrip       Intent = "book_trip"
	IntentGeneralInquiry Intent = "general_inquiry"
	IntentGreeting       Intent = "greeting"
)

// Intents lists every intent the extractor may return.
var Intents = []Intent{
	IntentSearchFlight,
	IntentSearchHotel,
	IntentBookTrip,
	IntentGeneralInquiry,
	IntentGreeting,
}

// Valid reports whether i is one of Intents.
func (i Intent) Valid() bool {
	for _, known := range Intents {
		if i == known {
			return true
		}
	}
	return false
}

// Branch names a dispatch path.
type Branch string

const (
	BranchFlights Branch = "flights"
	BranchHotels  Branch = "hotels"
	BranchBooking Branch = "booking"
	BranchGeneral Branch = "general"
)

// Route maps an intent to its dispatch branch. Greetings and any value it
// does not recognise go to BranchGeneral.
func Route(i Intent) Branch {
	switch i {
	case IntentSearchFlight:
		return BranchFlights
	case IntentSearchHotel:
		return BranchHotels
	case IntentBookTrip:
		return BranchBooking
	default:
		return BranchGeneral
	}
}

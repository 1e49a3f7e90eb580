package assistant

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityDefaults(t *testing.T) {
	e := Entities{}
	assert.Equal(t, 1, e.Count(EntityPassengers))
	assert.Equal(t, 1, e.Count(EntityGuests))
	assert.Equal(t, 1, e.Count(EntityRooms))
	assert.Equal(t, "economy", e.Text(EntityClassType))
	assert.Equal(t, "flight", e.Text(EntityBookingType))
	assert.Equal(t, "", e.Text(EntityOrigin))
	assert.Equal(t, "", e.Text(EntityCheckIn))
}

func TestEntityCountCoercion(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want int
	}{
		{"number", float64(3), 3},
		{"numeric string", " 4 ", 4},
		{"word", "two", 1},
		{"zero", float64(0), 1},
		{"negative", float64(-2), 1},
		{"fraction", 2.5, 1},
		{"null", nil, 1},
		{"bool", true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := ParseEntities(map[string]any{EntityGuests: tt.raw})
			assert.Equal(t, tt.want, e.Count(EntityGuests))
		})
	}
}

func TestEntityTextBlankUsesDefault(t *testing.T) {
	e := ParseEntities(map[string]any{EntityClassType: "  ", EntityOrigin: "NYC", "flex": float64(2)})
	assert.Equal(t, "economy", e.Text(EntityClassType))
	assert.Equal(t, "NYC", e.Text(EntityOrigin))
	assert.Equal(t, "2", e.Text("flex"))
}

func TestFlightRequestFromEntities(t *testing.T) {
	e := ParseEntities(map[string]any{
		"origin":         "NYC",
		"destination":    "LA",
		"departure_date": "2024-01-19",
		"passengers":     "2",
		"class_type":     "Business",
	})
	req := e.FlightRequest()
	assert.Equal(t, "NYC", req.Origin)
	assert.Equal(t, "LA", req.Destination)
	assert.Equal(t, "2024-01-19", req.DepartureDate)
	assert.Equal(t, 2, req.Passengers)
	assert.Equal(t, "business", req.ClassType)
}

func TestHotelRequestFromEntities(t *testing.T) {
	req := ParseEntities(map[string]any{"location": "Paris", "rooms": float64(2)}).HotelRequest()
	assert.Equal(t, "Paris", req.Location)
	assert.Equal(t, 1, req.Guests)
	assert.Equal(t, 2, req.Rooms)
}

func TestEntitiesJSON(t *testing.T) {
	raw := map[string]any{
		"origin":  "NYC",
		"count":   float64(2),
		"prefs":   map[string]any{"window": true},
		"stops":   []any{"DEN", "ORD"},
		"nothing": nil,
	}
	e := ParseEntities(raw)
	assert.Equal(t, KindMap, e["prefs"].Kind())
	assert.Equal(t, KindList, e["stops"].Kind())
	assert.Equal(t, KindNull, e["nothing"].Kind())
	assert.Equal(t, raw, e.Map())
	assert.Equal(t, []string{"count", "nothing", "origin", "prefs", "stops"}, e.Keys())

	data, err := json.Marshal(e)
	require.NoError(t, err)
	var back Entities
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, raw, back.Map())
}

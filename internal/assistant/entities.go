package assistant

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ziadkadry99/travel-assistant/internal/travel"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindMap
	KindList
)

// Value is one loosely-typed entity slot as the model produced it.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	m    map[string]Value
	list []Value
}

func StringValue(s string) Value  { return Value{kind: KindString, str: s} }
func NumberValue(n float64) Value { return Value{kind: KindNumber, num: n} }

// ValueOf converts a decoded JSON value. Unsupported Go types become null.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case string:
		return StringValue(x)
	case float64:
		return NumberValue(x)
	case int:
		return NumberValue(float64(x))
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return StringValue(x.String())
		}
		return NumberValue(f)
	case bool:
		return Value{kind: KindBool, b: x}
	case map[string]any:
		m := make(map[string]Value, len(x))
		for k, e := range x {
			m[k] = ValueOf(e)
		}
		return Value{kind: KindMap, m: m}
	case []any:
		list := make([]Value, len(x))
		for i, e := range x {
			list[i] = ValueOf(e)
		}
		return Value{kind: KindList, list: list}
	default:
		return Value{}
	}
}

func (v Value) Kind() Kind { return v.kind }

// Text renders scalars as text. Null, maps and lists render empty.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return strings.TrimSpace(v.str)
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Int reads whole numbers from numbers or numeric strings.
func (v Value) Int() (int, bool) {
	switch v.kind {
	case KindNumber:
		if v.num != math.Trunc(v.num) || math.IsInf(v.num, 0) {
			return 0, false
		}
		return int(v.num), true
	case KindString:
		n, err := strconv.Atoi(strings.TrimSpace(v.str))
		return n, err == nil
	default:
		return 0, false
	}
}

// Interface returns the plain Go form of v.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	case KindMap:
		m := make(map[string]any, len(v.m))
		for k, e := range v.m {
			m[k] = e.Interface()
		}
		return m
	case KindList:
		list := make([]any, len(v.list))
		for i, e := range v.list {
			list[i] = e.Interface()
		}
		return list
	default:
		return nil
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = ValueOf(raw)
	return nil
}

// Entities maps slot names to the values extracted from one utterance.
type Entities map[string]Value

// Entity slot names the prompts ask the model for.
const (
	EntityOrigin        = "origin"
	EntityDestination   = "destination"
	EntityDepartureDate = "departure_date"
	EntityReturnDate    = "return_date"
	EntityCheckIn       = "check_in"
	EntityCheckOut      = "check_out"
	EntityPassengers    = "passengers"
	EntityGuests        = "guests"
	EntityRooms         = "rooms"
	EntityLocation      = "location"
	EntityClassType     = "class_type"
	EntityBookingID     = "booking_id"
	EntityBookingType   = "booking_type"
)

var (
	textDefaults = map[string]string{
		EntityClassType:   travel.DefaultClassType,
		EntityBookingType: travel.DefaultBookingType,
	}
	countDefaults = map[string]int{
		EntityPassengers: 1,
		EntityGuests:     1,
		EntityRooms:      1,
	}
)

// ParseEntities converts a decoded JSON object. The result is never nil.
func ParseEntities(raw map[string]any) Entities {
	e := make(Entities, len(raw))
	for k, v := range raw {
		e[k] = ValueOf(v)
	}
	return e
}

// Text resolves a text slot: the extracted value when present and
// non-blank, otherwise the slot's default ("" for slots without one).
func (e Entities) Text(key string) string {
	if s := e[key].Text(); s != "" {
		return s
	}
	return textDefaults[key]
}

// Count resolves a count slot. Missing, unparsable and non-positive values
// resolve to the slot default, which is 1 for slots without one.
func (e Entities) Count(key string) int {
	def, ok := countDefaults[key]
	if !ok {
		def = 1
	}
	n, ok := e[key].Int()
	if !ok || n < 1 {
		return def
	}
	return n
}

// Map returns the plain Go form, suitable for metadata and JSON.
func (e Entities) Map() map[string]any {
	m := make(map[string]any, len(e))
	for k, v := range e {
		m[k] = v.Interface()
	}
	return m
}

// Keys returns the slot names in sorted order.
func (e Entities) Keys() []string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FlightRequest builds a flight search from the resolved slots.
func (e Entities) FlightRequest() travel.FlightSearchRequest {
	return travel.FlightSearchRequest{
		Origin:        e.Text(EntityOrigin),
		Destination:   e.Text(EntityDestination),
		DepartureDate: e.Text(EntityDepartureDate),
		ReturnDate:    e.Text(EntityReturnDate),
		Passengers:    e.Count(EntityPassengers),
		ClassType:     strings.ToLower(e.Text(EntityClassType)),
	}
}

// HotelRequest builds a hotel search from the resolved slots.
func (e Entities) HotelRequest() travel.HotelSearchRequest {
	return travel.HotelSearchRequest{
		Location: e.Text(EntityLocation),
		CheckIn:  e.Text(EntityCheckIn),
		CheckOut: e.Text(EntityCheckOut),
		Guests:   e.Count(EntityGuests),
		Rooms:    e.Count(EntityRooms),
	}
}

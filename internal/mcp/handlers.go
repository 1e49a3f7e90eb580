package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/travel-assistant/internal/assistant"
	"github.com/ziadkadry99/travel-assistant/internal/travel"
)

// handleChat runs one assistant turn and returns its reply.
func (s *Server) handleChat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: message"), nil
	}
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: session_id"), nil
	}

	resp, err := s.chat.HandleMessage(ctx, assistant.Request{
		Input:     message,
		SessionID: sessionID,
		UserID:    request.GetString("user_id", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("chat failed: %v", err)), nil
	}

	return mcp.NewToolResultText(formatChatResponse(resp)), nil
}

// handleSearchFlights searches flights directly, bypassing the assistant.
func (s *Server) handleSearchFlights(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := travel.FlightSearchRequest{
		ReturnDate: request.GetString("return_date", ""),
		Passengers: request.GetInt("passengers", 1),
		ClassType:  request.GetString("class_type", travel.DefaultClassType),
	}
	var err error
	if req.Origin, err = request.RequireString("origin"); err != nil {
		return mcp.NewToolResultError("missing required parameter: origin"), nil
	}
	if req.Destination, err = request.RequireString("destination"); err != nil {
		return mcp.NewToolResultError("missing required parameter: destination"), nil
	}
	if req.DepartureDate, err = request.RequireString("departure_date"); err != nil {
		return mcp.NewToolResultError("missing required parameter: departure_date"), nil
	}

	flights, err := s.travel.SearchFlights(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("flight search failed: %v", err)), nil
	}
	if len(flights) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No flights found from %s to %s.", req.Origin, req.Destination)), nil
	}

	return mcp.NewToolResultText(formatFlights(flights)), nil
}

// handleSearchHotels searches hotels directly, bypassing the assistant.
func (s *Server) handleSearchHotels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := travel.HotelSearchRequest{
		Guests: request.GetInt("guests", 1),
		Rooms:  request.GetInt("rooms", 1),
	}
	var err error
	if req.Location, err = request.RequireString("location"); err != nil {
		return mcp.NewToolResultError("missing required parameter: location"), nil
	}
	if req.CheckIn, err = request.RequireString("check_in"); err != nil {
		return mcp.NewToolResultError("missing required parameter: check_in"), nil
	}
	if req.CheckOut, err = request.RequireString("check_out"); err != nil {
		return mcp.NewToolResultError("missing required parameter: check_out"), nil
	}

	hotels, err := s.travel.SearchHotels(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("hotel search failed: %v", err)), nil
	}
	if len(hotels) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No hotels found in %s.", req.Location)), nil
	}

	return mcp.NewToolResultText(formatHotels(hotels)), nil
}

// handleCreateBooking books an item from an earlier search.
func (s *Server) handleCreateBooking(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := travel.BookingRequest{
		BookingType: request.GetString("booking_type", ""),
		BookingID:   request.GetString("booking_id", ""),
	}
	if err := req.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	booking, err := s.travel.CreateBooking(ctx, req.BookingType, req.BookingID, req.Details())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("booking failed: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Your %s has been booked successfully!\nBooking: %s\nConfirmation: %s\nStatus: %s\nTotal: %.2f %s\n",
		booking.BookingType, booking.BookingID, booking.ConfirmationNumber,
		booking.Status, booking.TotalPrice, booking.Currency,
	)), nil
}

// handleSearchPackages lists holiday packages from the package catalogue.
func (s *Server) handleSearchPackages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	search := request.GetString("search", "")
	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	packages, err := s.packages.Packages(ctx, search, limit, 0)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("package search failed: %v", err)), nil
	}
	if len(packages) == 0 {
		return mcp.NewToolResultText("No packages found."), nil
	}

	return mcp.NewToolResultText(formatPackages(packages)), nil
}

func formatChatResponse(resp *assistant.Response) string {
	var sb strings.Builder
	sb.WriteString(resp.Message)
	sb.WriteString("\n")

	if resp.Intent != "" {
		sb.WriteString(fmt.Sprintf("\nIntent: %s\n", resp.Intent))
	}
	if len(resp.Results) > 0 {
		sb.WriteString(fmt.Sprintf("Results: %d\n", len(resp.Results)))
	}
	if len(resp.UIElements) > 0 {
		sb.WriteString("\nSuggested actions:\n")
		for _, el := range resp.UIElements {
			sb.WriteString(fmt.Sprintf("- [%s] %s", el.Type, el.Text))
			if el.Action != "" {
				sb.WriteString(fmt.Sprintf(" (%s)", el.Action))
			}
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func formatFlights(flights []travel.FlightResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d flight(s):\n", len(flights)))

	for i, f := range flights {
		sb.WriteString(fmt.Sprintf("\n--- Flight %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("ID: %s\n", f.FlightID))
		sb.WriteString(fmt.Sprintf("%s %s: %s -> %s\n", f.Airline, f.FlightNumber, f.Origin, f.Destination))
		sb.WriteString(fmt.Sprintf("Departs %s, arrives %s (%s)\n", f.DepartureTime, f.ArrivalTime, f.Duration))
		sb.WriteString(fmt.Sprintf("Price: %.2f %s, %d seat(s) left\n", f.Price, f.Currency, f.AvailableSeats))
	}

	return sb.String()
}

func formatHotels(hotels []travel.HotelResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d hotel(s):\n", len(hotels)))

	for i, h := range hotels {
		sb.WriteString(fmt.Sprintf("\n--- Hotel %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("ID: %s\n", h.HotelID))
		sb.WriteString(fmt.Sprintf("%s, %s\n", h.Name, h.Location))
		sb.WriteString(fmt.Sprintf("Rating: %.1f\n", h.Rating))
		sb.WriteString(fmt.Sprintf("Price: %.2f %s per night, %d room(s) left\n", h.PricePerNight, h.Currency, h.AvailableRooms))
		if len(h.Amenities) > 0 {
			sb.WriteString(fmt.Sprintf("Amenities: %s\n", strings.Join(h.Amenities, ", ")))
		}
	}

	return sb.String()
}

func formatPackages(packages []map[string]any) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d package(s):\n", len(packages)))

	for i, p := range packages {
		sb.WriteString(fmt.Sprintf("\n--- Package %d ---\n", i+1))
		if id := firstString(p, "packageId", "_id", "id"); id != "" {
			sb.WriteString(fmt.Sprintf("ID: %s\n", id))
		}
		if name := firstString(p, "packageName", "name", "title"); name != "" {
			sb.WriteString(fmt.Sprintf("Name: %s\n", name))
		}
		if dest := firstString(p, "destinationName", "destination"); dest != "" {
			sb.WriteString(fmt.Sprintf("Destination: %s\n", dest))
		}
	}

	return sb.String()
}

// firstString returns the first non-empty string value among keys.
func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

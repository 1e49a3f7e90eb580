package mcp

import "github.com/mark3labs/mcp-go/mcp"

// chatTool defines the chat MCP tool.
var chatTool = mcp.NewTool("chat",
	mcp.WithDescription("Send a message to the travel assistant. The assistant remembers earlier turns of the same session."),
	mcp.WithString("message",
		mcp.Required(),
		mcp.Description("What the traveller says"),
	),
	mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("Conversation identifier; reuse it to continue a conversation"),
	),
	mcp.WithString("user_id",
		mcp.Description("Optional user identifier"),
	),
)

// searchFlightsTool defines the search_flights MCP tool.
var searchFlightsTool = mcp.NewTool("search_flights",
	mcp.WithDescription("Search flights between two cities or airports, cheapest first."),
	mcp.WithString("origin", mcp.Required(), mcp.Description("Departure city or airport code")),
	mcp.WithString("destination", mcp.Required(), mcp.Description("Arrival city or airport code")),
	mcp.WithString("departure_date", mcp.Required(), mcp.Description("Departure date (YYYY-MM-DD)")),
	mcp.WithString("return_date", mcp.Description("Return date for a round trip (YYYY-MM-DD)")),
	mcp.WithNumber("passengers", mcp.Description("Number of passengers, 1-9 (default 1)")),
	mcp.WithString("class_type",
		mcp.Description("Cabin class (default economy)"),
		mcp.Enum("economy", "premium_economy", "business", "first"),
	),
)

// searchHotelsTool defines the search_hotels MCP tool.
var searchHotelsTool = mcp.NewTool("search_hotels",
	mcp.WithDescription("Search hotels in a location, best rated first."),
	mcp.WithString("location", mcp.Required(), mcp.Description("City or address")),
	mcp.WithString("check_in", mcp.Required(), mcp.Description("Check-in date (YYYY-MM-DD)")),
	mcp.WithString("check_out", mcp.Required(), mcp.Description("Check-out date (YYYY-MM-DD)")),
	mcp.WithNumber("guests", mcp.Description("Number of guests, 1-10 (default 1)")),
	mcp.WithNumber("rooms", mcp.Description("Number of rooms, 1-5 (default 1)")),
)

// createBookingTool defines the create_booking MCP tool.
var createBookingTool = mcp.NewTool("create_booking",
	mcp.WithDescription("Book a flight, hotel or package found by a previous search."),
	mcp.WithString("booking_type",
		mcp.Required(),
		mcp.Description("What is being booked"),
		mcp.Enum("flight", "hotel", "package"),
	),
	mcp.WithString("booking_id", mcp.Required(), mcp.Description("flight_id, hotel_id or package id to book")),
)

// searchPackagesTool defines the search_packages MCP tool.
var searchPackagesTool = mcp.NewTool("search_packages",
	mcp.WithDescription("Search curated holiday packages by destination or name."),
	mcp.WithString("search", mcp.Description("Destination or package name")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of packages (default 10)")),
)

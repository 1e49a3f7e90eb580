package assistant

import (
	"context"
	"errors"
	"sync"

	"github.com/ziadkadry99/travel-assistant/internal/conversation"
	"github.com/ziadkadry99/travel-assistant/internal/llm"
	"github.com/ziadkadry99/travel-assistant/internal/travel"
)

func fenced(body string) string {
	return "Here you go:\n```json\n" + body + "\n```\n"
}

// scriptedProvider answers extraction and response prompts with canned
// completions, keyed on the system prompt.
type scriptedProvider struct {
	mu         sync.Mutex
	extraction string
	reply      string
	extractErr error
	replyErr   error
	calls      []llm.CompletionRequest
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Complete(_ context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, req)

	if len(req.Messages) > 0 && req.Messages[0].Content == extractionPrompt {
		if p.extractErr != nil {
			return nil, p.extractErr
		}
		return &llm.CompletionResponse{Content: p.extraction}, nil
	}
	if p.replyErr != nil {
		return nil, p.replyErr
	}
	return &llm.CompletionResponse{Content: p.reply}, nil
}

func (p *scriptedProvider) requests() []llm.CompletionRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]llm.CompletionRequest(nil), p.calls...)
}

var errUnreachable = errors.New("completion failed: connection refused")

// fakeStore keeps the log in memory, newest last.
type fakeStore struct {
	mu        sync.Mutex
	entries   []conversation.Entry
	sessions  map[string]map[string]any
	appendErr error
	recentErr error
	upsertErr error
	writes    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{sessions: map[string]map[string]any{}}
}

func (s *fakeStore) AppendTurn(_ context.Context, entries ...conversation.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.appendErr != nil {
		return s.appendErr
	}
	s.entries = append(s.entries, entries...)
	return nil
}

func (s *fakeStore) RecentTurns(_ context.Context, sessionID string, limit int) ([]conversation.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recentErr != nil {
		return nil, s.recentErr
	}
	var out []conversation.Entry
	for i := len(s.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if s.entries[i].SessionID == sessionID {
			out = append(out, s.entries[i])
		}
	}
	return out, nil
}

func (s *fakeStore) UpsertSession(_ context.Context, sessionID, _ string, sc map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.sessions[sessionID] = sc
	return nil
}

func (s *fakeStore) seed(sessionID string, lines ...string) {
	for i, l := range lines {
		role := conversation.RoleUser
		if i%2 == 1 {
			role = conversation.RoleAssistant
		}
		s.entries = append(s.entries, conversation.Entry{SessionID: sessionID, Role: role, Content: l})
	}
}

// spyService records requests and can be told to fail or panic.
type spyService struct {
	*travel.MockService
	mu       sync.Mutex
	flights  []travel.FlightSearchRequest
	hotels   []travel.HotelSearchRequest
	bookings []string
	err      error
	panics   bool
}

func newSpyService() *spyService {
	return &spyService{MockService: travel.NewMockService(travel.WithSeed(99))}
}

func (s *spyService) SearchFlights(ctx context.Context, req travel.FlightSearchRequest) ([]travel.FlightResult, error) {
	s.mu.Lock()
	s.flights = append(s.flights, req)
	s.mu.Unlock()
	if s.panics {
		panic("flight backend exploded")
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.MockService.SearchFlights(ctx, req)
}

func (s *spyService) SearchHotels(ctx context.Context, req travel.HotelSearchRequest) ([]travel.HotelResult, error) {
	s.mu.Lock()
	s.hotels = append(s.hotels, req)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.MockService.SearchHotels(ctx, req)
}

func (s *spyService) CreateBooking(ctx context.Context, bookingType, itemID string, details map[string]any) (*travel.BookingResult, error) {
	s.mu.Lock()
	s.bookings = append(s.bookings, bookingType+":"+itemID)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.MockService.CreateBooking(ctx, bookingType, itemID, details)
}

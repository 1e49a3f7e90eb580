package cmd

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/ziadkadry99/travel-assistant/internal/assistant"
	"github.com/ziadkadry99/travel-assistant/internal/conversation"
	"github.com/ziadkadry99/travel-assistant/internal/db"
	"github.com/ziadkadry99/travel-assistant/internal/server"
	"github.com/ziadkadry99/travel-assistant/internal/travel"
)

func TestRegisterAllRoutes(t *testing.T) {
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store := conversation.NewStore(database)
	svc := travel.NewMockService(travel.WithSeed(1), travel.WithLatency(false))
	a := &app{
		logger:       zap.NewNop(),
		db:           database,
		store:        store,
		travel:       svc,
		orchestrator: assistant.New(nil, svc, store),
	}

	srv := server.New(server.Config{Port: 0}, zap.NewNop())
	janitor := conversation.NewJanitor(store, 0, 0, zap.NewNop())
	registerAllRoutes(srv, a, janitor)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/health", http.StatusOK},
		{http.MethodGet, "/api/sessions", http.StatusOK},
		{http.MethodGet, "/api/conversation/s1", http.StatusOK},
		{http.MethodGet, "/api/flights/flight_1", http.StatusOK},
		{http.MethodPost, "/api/admin/cleanup", http.StatusAccepted},
		{http.MethodGet, "/api/tripxplo/packages", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			srv.Router().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

package conversation

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

const (
	defaultHistoryLimit  = 50
	defaultSessionsLimit = 100
)

// RegisterRoutes mounts the conversation history, session and housekeeping routes.
func RegisterRoutes(r chi.Router, store *Store, janitor *Janitor) {
	r.Get("/api/conversation/{sessionID}", handleGetConversation(store))
	r.Delete("/api/conversation/{sessionID}", handleClearConversation(store))
	r.Get("/api/conversation/{sessionID}/transcript", handleTranscript(store))
	r.Get("/api/sessions", handleListSessions(store))
	r.Post("/api/session/new", handleNewSession(store))
	r.Post("/api/admin/cleanup", handleTriggerCleanup(janitor))
}

type historyResponse struct {
	SessionID     string  `json:"session_id"`
	Messages      []Entry `json:"messages"`
	TotalMessages int     `json:"total_messages"`
}

func handleGetConversation(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")
		limit := queryInt(r, "limit", defaultHistoryLimit)

		entries, err := store.History(r.Context(), sessionID, limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to retrieve conversation history")
			return
		}
		if entries == nil {
			entries = []Entry{}
		}

		writeJSON(w, http.StatusOK, historyResponse{
			SessionID:     sessionID,
			Messages:      entries,
			TotalMessages: len(entries),
		})
	}
}

func handleClearConversation(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		deleted, err := store.ClearSession(r.Context(), sessionID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to clear conversation")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"message": fmt.Sprintf("Cleared %d messages for session %s", deleted, sessionID),
			"status":  "success",
		})
	}
}

func handleTranscript(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		entries, err := store.History(r.Context(), sessionID, queryInt(r, "limit", defaultHistoryLimit))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to retrieve conversation history")
			return
		}

		if r.URL.Query().Get("format") == "markdown" {
			w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
			w.Write([]byte(TranscriptMarkdown(sessionID, entries)))
			return
		}

		body, err := RenderTranscript(sessionID, entries)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to render transcript")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(body))
	}
}

type sessionsResponse struct {
	Sessions      []Session `json:"sessions"`
	TotalSessions int       `json:"total_sessions"`
}

func handleListSessions(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions, err := store.ListSessions(r.Context(), queryInt(r, "limit", defaultSessionsLimit))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to list sessions")
			return
		}
		if sessions == nil {
			sessions = []Session{}
		}
		writeJSON(w, http.StatusOK, sessionsResponse{Sessions: sessions, TotalSessions: len(sessions)})
	}
}

type newSessionResponse struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Status    string    `json:"status"`
}

func handleNewSession(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Query().Get("user_id")

		sess, err := store.CreateSession(r.Context(), userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to create session")
			return
		}

		writeJSON(w, http.StatusOK, newSessionResponse{
			SessionID: sess.SessionID,
			UserID:    sess.UserID,
			CreatedAt: sess.CreatedAt,
			Status:    "created",
		})
	}
}

func handleTriggerCleanup(janitor *Janitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		janitor.Trigger()
		writeJSON(w, http.StatusAccepted, map[string]string{
			"message": "Cleanup task scheduled",
			"status":  "success",
		})
	}
}

func queryInt(r *http.Request, key string, def int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(key)); err == nil && v > 0 {
		return v
	}
	return def
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

package assistant

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatRequest is the body of POST /api/chat.
type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type      string `json:"type"` // "message"
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Content   string `json:"content"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type      string    `json:"type"` // "response" or "error"
	SessionID string    `json:"session_id"`
	Content   string    `json:"content,omitempty"`
	Response  *Response `json:"response,omitempty"`
}

// RegisterRoutes mounts the chat endpoint and its WebSocket variant.
func RegisterRoutes(r chi.Router, o *Orchestrator, logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	r.Post("/api/chat", handleChat(o))
	r.Get("/ws/chat", handleWebSocket(o, logger))
}

func handleChat(o *Orchestrator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}

		resp, err := o.HandleMessage(r.Context(), Request{
			Input:     req.Message,
			SessionID: req.SessionID,
			UserID:    req.UserID,
		})
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"error": verr.Error()})
				return
			}
			http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func handleWebSocket(o *Orchestrator, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade", zap.Error(err))
			return
		}
		defer conn.Close()

		send := func(resp wsResponse) {
			if err := conn.WriteJSON(resp); err != nil {
				logger.Warn("websocket write", zap.Error(err))
			}
		}

		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Warn("websocket read", zap.Error(err))
				}
				return
			}

			var req wsRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				send(wsResponse{Type: "error", Content: "invalid message format"})
				continue
			}
			if req.Type != "message" {
				send(wsResponse{Type: "error", SessionID: req.SessionID, Content: "unknown message type: " + req.Type})
				continue
			}

			resp, err := o.HandleMessage(r.Context(), Request{
				Input:     req.Content,
				SessionID: req.SessionID,
				UserID:    req.UserID,
			})
			if err != nil {
				send(wsResponse{Type: "error", SessionID: req.SessionID, Content: err.Error()})
				continue
			}
			send(wsResponse{Type: "response", SessionID: resp.SessionID, Content: resp.Message, Response: resp})
		}
	}
}

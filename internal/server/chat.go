package server

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/rcliao/workspace-assistant/internal/chat"
	"github.com/rcliao/workspace-assistant/internal/model"
	"github.com/rcliao/workspace-assistant/internal/session"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply  model.ChatMessage `json:"reply"`
	Intent chat.Intent       `json:"intent"`
	Window chat.Window       `json:"window,omitempty"`
}

// WSMessage is the websocket frame in both directions. Clients send type
// "message"; the server answers with "reply" or "error".
type WSMessage struct {
	Type    string      `json:"type"`
	Content string      `json:"content"`
	Intent  chat.Intent `json:"intent,omitempty"`
}

const emptyMessageText = "Type a message to chat."

func (s *Server) chatHistoryHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	writeJSON(w, http.StatusOK, sess.History())
}

func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	var req chatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	reply, c, err := sess.Ask(r.Context(), s.responder, req.Message)
	if errors.Is(err, session.ErrEmptyMessage) {
		writeError(w, http.StatusUnprocessableEntity, kindValidation, emptyMessageText)
		return
	}
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply, Intent: c.Intent, Window: c.Window})
}

// chatWSHandler answers chat messages over a websocket until the client disconnects.
func (s *Server) chatWSHandler(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	logger := s.logger.With().Str("session", sess.ID).Logger()
	logger.Debug().Msg("chat websocket connected")

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug().Err(err).Msg("websocket read")
			}
			return
		}
		if msg.Type != "message" {
			continue
		}

		out := WSMessage{Type: "reply"}
		reply, c, err := sess.Ask(r.Context(), s.responder, msg.Content)
		switch {
		case errors.Is(err, session.ErrEmptyMessage):
			out = WSMessage{Type: "error", Content: emptyMessageText}
		case err != nil:
			logger.Error().Err(err).Msg("chat failed")
			out = WSMessage{Type: "error", Content: "Something went wrong. Please try again."}
		default:
			out.Content = reply.Content
			out.Intent = c.Intent
		}

		if err := conn.WriteJSON(out); err != nil {
			logger.Debug().Err(err).Msg("websocket write")
			return
		}
	}
}

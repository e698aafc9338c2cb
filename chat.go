package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/mdnooraj14/portfolio/internal/assistant"
	"github.com/mdnooraj14/portfolio/internal/storage"
)

// maxQuestionLen is counted in characters after trimming.
const maxQuestionLen = 500

var (
	errEmptyQuestion   = errors.New("text is required")
	errQuestionTooLong = errors.New("message too long")
)

// question trims raw and checks it against the length limit. Every channel
// goes through here.
func question(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	switch {
	case text == "":
		return "", errEmptyQuestion
	case utf8.RuneCountInString(text) > maxQuestionLen:
		return "", errQuestionTooLong
	}
	return text, nil
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

type chatReply struct {
	SessionID string           `json:"session_id"`
	Reply     string           `json:"reply"`
	Intent    assistant.Intent `json:"intent"`
	DelayMS   int64            `json:"delay_ms"`
}

type wsIncoming struct {
	Text string `json:"text"`
}

type wsResponse struct {
	Type      string           `json:"type"`
	Text      string           `json:"text,omitempty"`
	Intent    assistant.Intent `json:"intent,omitempty"`
	SessionID string           `json:"session_id,omitempty"`
	DelayMS   int64            `json:"delay_ms,omitempty"`
}

// answer runs one question through the responder and logs both turns to the
// session. text must already be trimmed and non-empty.
func (s *server) answer(ctx context.Context, sessionID, text, channel, clientIP string) (string, assistant.Intent, string) {
	id, conv := s.sessions.Get(sessionID)
	intent, reply := s.responder.Match(text)
	conv.Append(
		assistant.Turn{Role: assistant.RoleUser, Text: text},
		assistant.Turn{Role: assistant.RoleBot, Text: reply},
	)

	s.metrics.AssistantReplies.WithLabelValues(string(intent), channel).Inc()
	s.metrics.ActiveSessions.Set(float64(s.sessions.Len()))

	if err := s.store.RecordQuery(ctx, storage.Query{
		HashedIP: s.hashIP(clientIP),
		Intent:   string(intent),
		Channel:  channel,
	}); err != nil {
		s.log.Errorf("Error recording assistant query: %v", err)
	}
	return id, intent, reply
}

func (s *server) delayMS() int64 {
	return s.cfg.Assistant.ReplyDelay.Milliseconds()
}

func (s *server) setupAssistantRoutes(r *gin.Engine) {
	api := r.Group("/api/assistant")

	// Widget bootstrap: greeting, chips and a session to talk in
	api.GET("", func(c *gin.Context) {
		id, conv := s.sessions.Get(c.Query("session_id"))
		c.JSON(http.StatusOK, gin.H{
			"session_id":    id,
			"name":          s.kb.AssistantName,
			"greeting":      assistant.Greeting(s.kb),
			"quick_replies": assistant.QuickReplies,
			"delay_ms":      s.delayMS(),
			"messages":      conv.Turns(),
		})
	})

	api.GET("/messages", func(c *gin.Context) {
		id := c.Query("session_id")
		conv, ok := s.sessions.Lookup(id)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"session_id": id, "messages": conv.Turns()})
	})

	api.POST("/messages", func(c *gin.Context) {
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		text, err := question(req.Text)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id, intent, reply := s.answer(c.Request.Context(), req.SessionID, text, "http", c.ClientIP())
		c.JSON(http.StatusOK, chatReply{
			SessionID: id,
			Reply:     reply,
			Intent:    intent,
			DelayMS:   s.delayMS(),
		})
	})

	api.POST("/reset", func(c *gin.Context) {
		var req struct {
			SessionID string `json:"session_id"`
		}
		// An empty body just starts a new session.
		_ = c.ShouldBindJSON(&req)

		id, conv := s.sessions.Reset(req.SessionID)
		c.JSON(http.StatusOK, gin.H{"session_id": id, "messages": conv.Turns()})
	})

	r.GET("/ws/assistant", s.handleAssistantWS)
}

func (s *server) checkOrigin(r *http.Request) bool {
	if len(s.cfg.Server.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true // allow non-browser clients
	}
	for _, o := range s.cfg.Server.AllowedOrigins {
		if o == origin {
			return true
		}
	}
	return false
}

func (s *server) handleAssistantWS(c *gin.Context) {
	upgrader := websocket.Upgrader{CheckOrigin: s.checkOrigin}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warnf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(4096)

	sessionID, _ := s.sessions.Get(c.Query("session_id"))
	clientIP := c.ClientIP()

	if err := conn.WriteJSON(wsResponse{Type: "connected", SessionID: sessionID, Text: assistant.Greeting(s.kb)}); err != nil {
		s.log.Warnf("Failed to send connected message: %v", err)
		return
	}

	ctx := c.Request.Context()
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warnf("WebSocket closed unexpectedly: %v", err)
			}
			return
		}

		var incoming wsIncoming
		if err := json.Unmarshal(message, &incoming); err != nil {
			if err := conn.WriteJSON(wsResponse{
				Type: "error",
				Text: "Invalid message format. Send JSON with a 'text' field.",
			}); err != nil {
				s.log.Warnf("Failed to write to WebSocket: %v", err)
				return
			}
			continue
		}

		text, err := question(incoming.Text)
		if errors.Is(err, errEmptyQuestion) {
			continue
		}
		if err != nil {
			if err := conn.WriteJSON(wsResponse{Type: "error", Text: "Message too long."}); err != nil {
				s.log.Warnf("Failed to write to WebSocket: %v", err)
				return
			}
			continue
		}

		// The session may have been evicted since the last frame.
		id, intent, reply := s.answer(ctx, sessionID, text, "ws", clientIP)
		sessionID = id
		if err := conn.WriteJSON(wsResponse{
			Type:      "message",
			Text:      reply,
			Intent:    intent,
			SessionID: sessionID,
			DelayMS:   s.delayMS(),
		}); err != nil {
			s.log.Warnf("Failed to write to WebSocket: %v", err)
			return
		}
	}
}

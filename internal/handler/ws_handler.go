package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/prepquest/prepquest-backend/internal/middleware"
	"github.com/prepquest/prepquest-backend/internal/model"
	"github.com/prepquest/prepquest-backend/internal/session"
	ws "github.com/prepquest/prepquest-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams a live exam session: countdown ticks out, answer and
// submit actions in, and a graded event when the session finishes. The graded
// push covers forced submission on timer expiry, which the client cannot
// otherwise observe promptly.
type WSHandler struct {
	mgr      *session.Manager
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(mgr *session.Manager, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		mgr:      mgr,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// SessionStream godoc
// WS /ws/v1/sessions/:id/stream
func (h *WSHandler) SessionStream(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}

	s, err := h.mgr.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	if s.Owner() != middleware.GetSubject(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}

	rawConn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	conn := ws.NewConn(rawConn)
	defer conn.Close()

	wsLog := h.log.With().Str("session_id", s.ID.String()).Logger()
	wsLog.Info().Msg("Client connected")

	// Push countdown ticks and the terminal graded event until the client
	// disconnects or the session finishes.
	stop := make(chan struct{})
	defer close(stop)
	go h.pushLoop(conn, s, stop, wsLog)

	for {
		var msg ws.RequestPayload
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			return
		}

		switch msg.Action {
		case ws.ActionAnswer:
			s.SelectAnswer(msg.Subject, msg.Ordinal, msg.Option)
			conn.WriteTyped(ws.SavedEvent{Event: ws.EventSaved, Subject: msg.Subject, Ordinal: msg.Ordinal})
		case ws.ActionSubmit:
			if s.Mode != model.ModeExam {
				conn.WriteError("study sessions are not submitted")
				continue
			}
			rs := s.Submit()
			conn.WriteTyped(ws.GradedEvent{Event: ws.EventGraded, Forced: false, Results: rs})
		case ws.ActionPing:
			conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			conn.WriteError("unknown action: " + string(msg.Action))
		}
	}
}

// pushLoop writes one tick per second while a countdown runs and the graded
// event when the session completes (covering forced submission at expiry).
func (h *WSHandler) pushLoop(conn *ws.Conn, s *session.Session, stop <-chan struct{}, log zerolog.Logger) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-s.Done():
			rs := s.Result()
			if rs != nil {
				conn.WriteTyped(ws.GradedEvent{Event: ws.EventGraded, Forced: true, Results: rs})
			}
			log.Info().Msg("Session finished, closing stream")
			return
		case <-ticker.C:
			remaining, ok := s.Remaining()
			if !ok {
				continue
			}
			if err := conn.WriteTyped(ws.TickEvent{
				Event:     ws.EventTick,
				Remaining: remaining,
				Clock:     session.FormatClock(remaining),
			}); err != nil {
				return
			}
		}
	}
}

package handlers

import (
	"net/http"
	"time"

	"github.com/SAP-F-2025/exam-session-service/internal/services"
	"github.com/SAP-F-2025/exam-session-service/internal/timer"
	"github.com/SAP-F-2025/exam-session-service/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// TimerStream pushes the countdown of the user's running attempt over a
// websocket, one message per tick.
type TimerStream struct {
	BaseHandler
	sessions *services.SessionService
}

func NewTimerStream(sessions *services.SessionService, logger utils.Logger) *TimerStream {
	return &TimerStream{
		BaseHandler: NewBaseHandler(logger),
		sessions:    sessions,
	}
}

// Serve handles GET /session/timer/ws
func (s *TimerStream) Serve(c *gin.Context) {
	ctrl := s.sessions.Controller(c.Request.Context(), CurrentUserID(c))

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.LogWarn(c, "WebSocket upgrade failed", "error", err)
		return
	}

	ticks, release := ctrl.Timer().Subscribe()
	defer release()

	view := ctrl.View()
	first := timer.Tick{Display: view.TimerDisplay, Warning: view.TimerWarning}
	if view.Session.TimeRemaining != nil {
		first.Remaining = *view.Session.TimeRemaining
	}

	s.LogDebug(c, "Timer stream opened")

	closed := make(chan struct{})
	go s.readPump(conn, closed)
	s.writePump(conn, first, ticks, closed)

	s.LogDebug(c, "Timer stream closed")
}

// readPump drains client frames so pongs and close frames are processed.
func (s *TimerStream) readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Warn("Timer stream read failed", "error", err)
			}
			return
		}
	}
}

func (s *TimerStream) writePump(conn *websocket.Conn, first timer.Tick, ticks <-chan timer.Tick, closed <-chan struct{}) {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		conn.Close()
	}()

	if err := writeTick(conn, first); err != nil {
		return
	}

	for {
		select {
		case tick, ok := <-ticks:
			if !ok {
				return
			}
			if err := writeTick(conn, tick); err != nil {
				return
			}
			if tick.Expired {
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "time expired"))
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

func writeTick(conn *websocket.Conn, tick timer.Tick) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(tick)
}

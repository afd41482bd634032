package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/aerial-tour-booking/internal/annotation"
	"github.com/iliyamo/aerial-tour-booking/internal/logger"
	"github.com/iliyamo/aerial-tour-booking/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

// DemoHandler serves the annotated flight viewer.  Catalog must already be
// validated; every websocket session builds its own engine over it.
type DemoHandler struct {
	Catalog []annotation.Annotation
	Metrics *metrics.Manager
	// CheckOrigin overrides the upgrader's same-origin check when set.
	CheckOrigin func(r *http.Request) bool
}

// CatalogEntry is one annotation as listed by GET /v1/demo/catalog.
type CatalogEntry struct {
	Index      int     `json:"index"`
	Title      string  `json:"title"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	StartLabel string  `json:"start_label"`
	EndLabel   string  `json:"end_label"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	DetailRef  string  `json:"detail_ref,omitempty"`
}

// ListCatalog handles GET /v1/demo/catalog.
func (h *DemoHandler) ListCatalog(c echo.Context) error {
	items := make([]CatalogEntry, 0, len(h.Catalog))
	for i, a := range h.Catalog {
		items = append(items, CatalogEntry{
			Index:      i,
			Title:      a.Title,
			Start:      a.Interval.Start,
			End:        a.Interval.End,
			StartLabel: annotation.FormatTimecode(a.Interval.Start),
			EndLabel:   annotation.FormatTimecode(a.Interval.End),
			X:          a.Position.X,
			Y:          a.Position.Y,
			DetailRef:  a.DetailRef,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items, "total": len(items), "modes": annotation.Modes})
}

// demoMessage is a client message.  Time is used by "tick", Index by
// "select" and Mode by "mode".
type demoMessage struct {
	Type  string   `json:"type"`
	Time  *float64 `json:"time,omitempty"`
	Index *int     `json:"index,omitempty"`
	Mode  string   `json:"mode,omitempty"`
}

// stateReply flattens the engine snapshot next to the message type.
type stateReply struct {
	Type string `json:"type"`
	annotation.State
}

type errorReply struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// demoSession is the per-connection state: one engine driven by one
// session clock.  It is only touched by the connection's read loop.
type demoSession struct {
	clock  *annotation.ManualClock
	engine *annotation.Engine
}

func newDemoSession(catalog []annotation.Annotation) (*demoSession, error) {
	clock := &annotation.ManualClock{}
	clock.Play()
	engine, err := annotation.NewEngine(catalog, annotation.WithPlayer(clock))
	if err != nil {
		return nil, err
	}
	return &demoSession{clock: clock, engine: engine}, nil
}

var errUnknownMessage = errors.New("unknown message type")

// apply executes one client message against the session.
func (s *demoSession) apply(msg demoMessage) error {
	switch msg.Type {
	case "tick":
		if msg.Time == nil || *msg.Time < 0 || math.IsNaN(*msg.Time) || math.IsInf(*msg.Time, 0) {
			return errors.New("tick needs a non-negative time")
		}
		s.clock.Set(*msg.Time)
		s.engine.Tick(s.clock.CurrentTime())
	case "select":
		if msg.Index == nil {
			return errors.New("select needs an index")
		}
		return s.engine.SelectAt(*msg.Index)
	case "clear":
		s.engine.ClearSelection()
	case "mode":
		return s.engine.SetMode(annotation.Mode(msg.Mode))
	case "restart":
		s.engine.Restart()
	case "state":
	default:
		return fmt.Errorf("%w: %q", errUnknownMessage, msg.Type)
	}
	return nil
}

// handle decodes a raw frame and returns the reply to send.  Errors become
// error replies; the session stays open.
func (s *demoSession) handle(raw []byte) (reply any, kind string) {
	var msg demoMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return errorReply{Type: "error", Error: "invalid message: " + err.Error()}, "invalid"
	}
	kind = msg.Type
	if err := s.apply(msg); err != nil {
		if errors.Is(err, errUnknownMessage) {
			kind = "unknown"
		}
		return errorReply{Type: "error", Error: err.Error()}, kind
	}
	return stateReply{Type: "state", State: s.engine.Snapshot()}, kind
}

func (h *DemoHandler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.CheckOrigin,
	}
}

// Session handles GET /v1/demo/session.  After the upgrade the server sends
// the initial state, then one reply per client message.
func (h *DemoHandler) Session(c echo.Context) error {
	log := logger.Named("demo")
	ctx := c.Request().Context()

	sess, err := newDemoSession(h.Catalog)
	if err != nil {
		log.Error(ctx, "demo catalog rejected", logger.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "demo unavailable"})
	}
	up := h.upgrader()
	conn, err := up.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader has already written the HTTP error
		log.Warn(ctx, "websocket upgrade failed", logger.Error(err))
		return nil
	}
	h.Metrics.DemoSessionOpened()
	defer h.Metrics.DemoSessionClosed()

	send := make(chan any, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		writePump(ctx, conn, send, log)
	}()

	send <- stateReply{Type: "state", State: sess.engine.Snapshot()}
	readPump(ctx, conn, func(raw []byte) {
		reply, kind := sess.handle(raw)
		h.Metrics.RecordDemoMessage(kind)
		send <- reply
	}, log)
	close(send)
	<-done
	return nil
}

// readPump reads frames until the peer goes away or stops answering pings.
func readPump(ctx context.Context, conn *websocket.Conn, onMessage func([]byte), log logger.Logger) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn(ctx, "demo session read failed", logger.Error(err))
			}
			return
		}
		onMessage(raw)
	}
}

// writePump serialises replies and keeps the connection alive with pings.
// It closes the connection when send is closed or a write fails.
func writePump(ctx context.Context, conn *websocket.Conn, send <-chan any, log logger.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()
	for {
		select {
		case msg, ok := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				log.Warn(ctx, "demo session write failed", logger.Error(err))
				drain(send)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				drain(send)
				return
			}
		}
	}
}

// drain keeps the read loop from blocking on a dead writer.
func drain(send <-chan any) {
	go func() {
		for range send {
		}
	}()
}

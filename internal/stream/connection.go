package stream

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zanzhit/camera_dashboard/internal/domain/models"
	"github.com/zanzhit/camera_dashboard/internal/lib/sl"
)

type State string

const (
	StateClosed     State = "closed"
	StateConnecting State = "connecting"
	StateOpen       State = "open"
)

const (
	closeGracePeriod = time.Second
	dataURLPrefix    = "data:image/jpeg;base64,"
)

type connection struct {
	cam    models.Camera
	m      *Manager
	log    *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	state State
}

func newConnection(m *Manager, cam models.Camera) *connection {
	ctx, cancel := context.WithCancel(m.ctx)

	return &connection{
		cam:    cam,
		m:      m,
		log:    m.log.With(slog.String("camera_id", cam.ID), slog.String("camera_name", cam.Name)),
		ctx:    ctx,
		cancel: cancel,
		state:  StateConnecting,
	}
}

func (c *connection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

func (c *connection) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *connection) close() {
	c.cancel()
}

func (c *connection) emit(ev Event) {
	c.m.events <- ev
}

// run owns the connection until it is cancelled or gives up reconnecting.
func (c *connection) run() {
	defer c.m.wg.Done()
	defer func() {
		c.setState(StateClosed)
		c.emit(Closed{base{c}})
	}()

	policy := c.m.cfg.Reconnect
	attempt := 0

	for {
		opened, err := c.session()
		if c.ctx.Err() != nil || err == nil {
			return
		}

		c.emit(Errored{base: base{c}, Err: err})

		if opened {
			attempt = 0
		}
		attempt++

		if !policy.Enabled() || attempt > policy.MaxRetries {
			return
		}

		delay := backoff(attempt, policy)
		c.emit(Reconnecting{base: base{c}, Attempt: attempt, Delay: delay})

		select {
		case <-time.After(delay):
		case <-c.ctx.Done():
			return
		}
	}
}

// session dials once, sends the handshake and reads until the socket
// fails or the connection is cancelled. opened reports whether the socket
// was established; a nil error means the gateway closed it on purpose.
func (c *connection) session() (opened bool, err error) {
	const op = "stream.connection.session"

	c.setState(StateConnecting)

	ws, _, err := c.m.dialer.DialContext(c.ctx, c.m.endpoint(c.cam.ID), nil)
	if err != nil {
		return false, fmt.Errorf("%s: dial: %w", op, err)
	}

	sessCtx, stop := context.WithCancel(c.ctx)
	defer stop()

	go func() {
		<-sessCtx.Done()

		if c.ctx.Err() != nil {
			_ = ws.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(closeGracePeriod),
			)
		}
		ws.Close()
	}()

	c.setState(StateOpen)
	c.emit(Opened{base{c}})

	token, err := c.m.tokens.Token()
	if err != nil {
		return true, fmt.Errorf("%s: auth token: %w", op, err)
	}

	if err := ws.WriteJSON(newHandshake(c.cam, token)); err != nil {
		return true, fmt.Errorf("%s: handshake: %w", op, err)
	}

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if c.ctx.Err() != nil {
				return true, nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return true, nil
			}

			return true, fmt.Errorf("%s: read: %w", op, err)
		}

		c.handle(data)
	}
}

func (c *connection) handle(data []byte) {
	var msg inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		c.log.Warn("malformed stream message", sl.Err(err))

		return
	}

	switch msg.Type {
	case typeVideoFrame:
		if msg.Frame == "" {
			return
		}

		frame, err := decodeFrame(msg.Frame)
		if err != nil {
			c.log.Warn("malformed video frame", sl.Err(err))

			return
		}

		c.emit(FrameReceived{base: base{c}, Frame: frame, At: time.Now()})
	case typeStatusUpdate:
		c.emit(StatusChanged{base: base{c}, Status: msg.Status})
	default:
		c.log.Debug("unknown stream message type", slog.String("type", msg.Type))
	}
}

var errEmptyFrame = errors.New("empty frame")

func decodeFrame(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, dataURLPrefix)

	frame, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(frame) == 0 {
		return nil, errEmptyFrame
	}

	return frame, nil
}

func endpoint(baseURL, cameraID string) string {
	return strings.TrimRight(baseURL, "/") + "/" + url.PathEscape(cameraID)
}

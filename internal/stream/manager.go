// Package stream keeps one live WebSocket per camera against the stream
// gateway and feeds what arrives on it into the camera registry.
//
// Every connection runs in its own goroutine and only emits events; a single
// reducer goroutine applies them, so the registry sees the events of one
// camera in the order they were received.
package stream

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zanzhit/camera_dashboard/internal/domain/models"
	"github.com/zanzhit/camera_dashboard/internal/lib/sl"
)

const defaultEventBuffer = 64

type Config struct {
	BaseURL          string          `yaml:"base_url" env-default:"ws://localhost:8080/stream"`
	HandshakeTimeout time.Duration   `yaml:"handshake_timeout" env-default:"5s"`
	EventBuffer      int             `yaml:"event_buffer" env-default:"64"`
	AuthToken        string          `yaml:"auth_token" env:"STREAM_AUTH_TOKEN"`
	Reconnect        ReconnectConfig `yaml:"reconnect"`
}

// Store is the part of the registry the reducer writes to.
type Store interface {
	SetStatus(id string, status models.Status) bool
	SetOffline(id string) bool
	SetReconnecting(id string) bool
	SetFrame(id string, data []byte, at time.Time) bool
}

type TokenSource interface {
	Token() (string, error)
}

type StaticToken string

func (t StaticToken) Token() (string, error) {
	return string(t), nil
}

type Manager struct {
	log    *slog.Logger
	cfg    Config
	store  Store
	tokens TokenSource
	dialer *websocket.Dialer

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	conns  map[string]*connection
	closed bool

	events  chan Event
	wg      sync.WaitGroup
	reduced chan struct{}
}

func New(log *slog.Logger, cfg Config, store Store, tokens TokenSource) *Manager {
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = defaultEventBuffer
	}

	ctx, cancel := context.WithCancel(context.Background())

	m := &Manager{
		log:    log,
		cfg:    cfg,
		store:  store,
		tokens: tokens,
		dialer: &websocket.Dialer{
			HandshakeTimeout: cfg.HandshakeTimeout,
		},
		ctx:     ctx,
		cancel:  cancel,
		conns:   make(map[string]*connection),
		events:  make(chan Event, cfg.EventBuffer),
		reduced: make(chan struct{}),
	}

	go m.reduce()

	return m
}

func (m *Manager) endpoint(cameraID string) string {
	return endpoint(m.cfg.BaseURL, cameraID)
}

// Start opens a stream for cam, closing the camera's previous stream first.
// It does not wait for the socket to open.
func (m *Manager) Start(cam models.Camera) {
	const op = "stream.Manager.Start"

	log := m.log.With(
		slog.String("op", op),
		slog.String("camera_id", cam.ID),
	)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		log.Warn("manager is torn down, stream not started")

		return
	}

	if old, ok := m.conns[cam.ID]; ok {
		log.Info("closing previous stream")

		old.close()
	}

	log.Info("starting stream", slog.String("camera_name", cam.Name))

	c := newConnection(m, cam)
	m.conns[cam.ID] = c

	m.wg.Add(1)
	go c.run()
}

// Stop closes the stream of one camera. The camera goes offline once the
// socket is closed.
func (m *Manager) Stop(cameraID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.conns[cameraID]
	if !ok {
		return false
	}

	c.close()

	return true
}

// Active returns the camera ids that currently have a stream in the table.
func (m *Manager) Active() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.conns))
	for id := range m.conns {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	return ids
}

// Connections reports the state of every stream in the table.
func (m *Manager) Connections() map[string]State {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]State, len(m.conns))
	for id, c := range m.conns {
		out[id] = c.State()
	}

	return out
}

// Teardown closes every stream, waits for them to finish and stops the
// reducer. The manager cannot be started again.
func (m *Manager) Teardown() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()

		return
	}
	m.closed = true
	m.mu.Unlock()

	m.log.Info("tearing down streams")

	m.cancel()
	m.wg.Wait()

	close(m.events)
	<-m.reduced

	m.mu.Lock()
	m.conns = make(map[string]*connection)
	m.mu.Unlock()
}

func (m *Manager) reduce() {
	defer close(m.reduced)

	for ev := range m.events {
		m.apply(ev)
	}
}

func (m *Manager) current(c *connection) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.conns[c.cam.ID] == c
}

func (m *Manager) apply(ev Event) {
	c := ev.source()
	id := ev.CameraID()

	switch e := ev.(type) {
	case Opened:
		c.log.Info("stream connected")
	case FrameReceived:
		if m.current(c) {
			m.store.SetFrame(id, e.Frame, e.At)
		}
	case StatusChanged:
		if !m.current(c) {
			return
		}
		if !m.store.SetStatus(id, e.Status) {
			c.log.Debug("status update ignored", slog.String("status", string(e.Status)))
		}
	case Reconnecting:
		c.log.Warn("stream dropped, reconnecting",
			slog.Int("attempt", e.Attempt),
			slog.Duration("delay", e.Delay),
		)

		if m.current(c) {
			m.store.SetReconnecting(id)
		}
	case Errored:
		c.log.Error("stream error", sl.Err(e.Err))
	case Closed:
		m.mu.Lock()
		cur := m.conns[id] == c
		if cur {
			delete(m.conns, id)
		}
		m.mu.Unlock()

		c.log.Info("stream closed", slog.Bool("superseded", !cur))

		if cur {
			m.store.SetOffline(id)
		}
	}
}

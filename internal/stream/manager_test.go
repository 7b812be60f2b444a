package stream

import (
	"encoding/base64"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zanzhit/camera_dashboard/internal/domain/models"
	"github.com/zanzhit/camera_dashboard/internal/lib/sl"
	"github.com/zanzhit/camera_dashboard/internal/registry"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

var frontEntrance = models.Camera{
	ID:        "1",
	Name:      "Front Entrance",
	Status:    models.StatusOnline,
	IPAddress: "192.168.1.100",
	Port:      "554",
	Username:  "admin",
}

func setup(t *testing.T, g *gateway, reconnect ReconnectConfig, cams ...models.Camera) (*Manager, *registry.Registry) {
	t.Helper()

	reg := registry.New()
	reg.Replace(cams)

	m := New(sl.Discard(), Config{
		BaseURL:          g.baseURL(),
		HandshakeTimeout: time.Second,
		Reconnect:        reconnect,
	}, reg, StaticToken("secret"))
	t.Cleanup(m.Teardown)

	return m, reg
}

func status(reg *registry.Registry, id string) models.Status {
	cam, _ := reg.Camera(id)

	return cam.Status
}

func TestStart_HandshakeAndStatusUpdate(t *testing.T) {
	g := newGateway(t, func(id string, ws *websocket.Conn) bool {
		send(ws, map[string]string{"type": "status_update", "status": "recording"})

		return false
	})
	m, reg := setup(t, g, ReconnectConfig{}, models.Camera{ID: "1", Status: models.StatusOnline})

	m.Start(frontEntrance)

	require.Eventually(t, func() bool {
		return status(reg, "1") == models.StatusRecording
	}, waitFor, tick)

	assert.Equal(t, []models.Camera{{ID: "1", Status: models.StatusRecording, LastActive: "Live"}}, reg.Cameras())

	g.mu.Lock()
	hs := g.handshakes[0]
	g.mu.Unlock()

	assert.Equal(t, handshake{
		Type:      "connect",
		CameraID:  "1",
		IPAddress: "192.168.1.100",
		Port:      "554",
		Username:  "admin",
		AuthToken: "secret",
	}, hs)
	assert.Equal(t, StateOpen, m.Connections()["1"])
}

func TestFrame_UpdatesSurfaceOnly(t *testing.T) {
	jpeg := []byte{0xff, 0xd8, 0xff, 0xe0}

	g := newGateway(t, func(id string, ws *websocket.Conn) bool {
		send(ws, map[string]string{"type": "video_frame", "frame": base64.StdEncoding.EncodeToString(jpeg)})

		return false
	})
	m, reg := setup(t, g, ReconnectConfig{}, frontEntrance)

	m.Start(frontEntrance)

	require.Eventually(t, func() bool {
		f, ok := reg.Frame("1")

		return ok && assert.ObjectsAreEqual(jpeg, f.Data)
	}, waitFor, tick)

	cam, _ := reg.Camera("1")
	assert.Equal(t, models.StatusOnline, cam.Status)
	assert.Empty(t, cam.LastActive)
}

func TestMalformedMessages_KeepConnection(t *testing.T) {
	g := newGateway(t, func(id string, ws *websocket.Conn) bool {
		_ = ws.WriteMessage(websocket.TextMessage, []byte("{not json"))
		send(ws, map[string]string{"type": "video_frame", "frame": "%%%"})
		send(ws, map[string]string{"type": "mystery"})
		send(ws, map[string]string{"type": "status_update", "status": "recording"})

		return false
	})
	m, reg := setup(t, g, ReconnectConfig{}, frontEntrance)

	m.Start(frontEntrance)

	require.Eventually(t, func() bool {
		return status(reg, "1") == models.StatusRecording
	}, waitFor, tick)

	assert.Equal(t, StateOpen, m.Connections()["1"])
	assert.Zero(t, g.closedCount("1"))
}

func TestStart_ClosesPreviousConnection(t *testing.T) {
	g := newGateway(t, nil)
	m, reg := setup(t, g, ReconnectConfig{}, frontEntrance)

	m.Start(frontEntrance)
	require.Eventually(t, func() bool { return g.handshakeCount() == 1 }, waitFor, tick)

	m.Start(frontEntrance)

	require.Eventually(t, func() bool {
		return g.handshakeCount() == 2 && g.closedCount("1") == 1
	}, waitFor, tick)

	conns := m.Connections()
	assert.Len(t, conns, 1)
	assert.Contains(t, conns, "1")

	// The superseded stream must not mark the live one offline.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, models.StatusOnline, status(reg, "1"))
}

func TestStatusUpdate_UnknownCameraIgnored(t *testing.T) {
	g := newGateway(t, func(id string, ws *websocket.Conn) bool {
		send(ws, map[string]string{"type": "status_update", "status": "recording"})

		return true
	})
	m, reg := setup(t, g, ReconnectConfig{}, frontEntrance)
	before := reg.Cameras()

	m.Start(models.Camera{ID: "ghost", Status: models.StatusOnline})

	require.Eventually(t, func() bool {
		return g.handshakeCount() == 1 && len(m.Connections()) == 0
	}, waitFor, tick)

	assert.Equal(t, before, reg.Cameras())
	_, ok := reg.Camera("ghost")
	assert.False(t, ok)
}

func TestClose_MarksOffline(t *testing.T) {
	g := newGateway(t, func(id string, ws *websocket.Conn) bool {
		send(ws, map[string]string{"type": "status_update", "status": "recording"})

		return true
	})
	m, reg := setup(t, g, ReconnectConfig{MaxRetries: 3, RetryDelay: time.Millisecond, MaxRetryDelay: time.Millisecond}, frontEntrance)

	m.Start(frontEntrance)

	require.Eventually(t, func() bool {
		return status(reg, "1") == models.StatusOffline && len(m.Connections()) == 0
	}, waitFor, tick)

	assert.Equal(t, 1, g.attemptCount("1"), "a deliberate close is not retried")
}

func TestUnreachableGateway_NoRetry(t *testing.T) {
	g := newGateway(t, nil)
	g.refuse = func(string) bool { return true }
	m, reg := setup(t, g, ReconnectConfig{}, frontEntrance)

	m.Start(frontEntrance)

	require.Eventually(t, func() bool {
		return status(reg, "1") == models.StatusOffline && len(m.Connections()) == 0
	}, waitFor, tick)

	assert.Equal(t, 1, g.attemptCount("1"))
}

type statusLog struct {
	*registry.Registry

	mu           sync.Mutex
	reconnecting int
}

func (s *statusLog) SetReconnecting(id string) bool {
	s.mu.Lock()
	s.reconnecting++
	s.mu.Unlock()

	return s.Registry.SetReconnecting(id)
}

func (s *statusLog) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.reconnecting
}

func TestReconnect_RecoversAfterFailures(t *testing.T) {
	g := newGateway(t, func(id string, ws *websocket.Conn) bool {
		send(ws, map[string]string{"type": "status_update", "status": "online"})

		return false
	})
	g.refuse = func(id string) bool { return g.attempts[id] <= 2 }

	reg := registry.New()
	reg.Replace([]models.Camera{{ID: "1", Status: models.StatusOffline}})
	store := &statusLog{Registry: reg}

	m := New(sl.Discard(), Config{
		BaseURL:   g.baseURL(),
		Reconnect: ReconnectConfig{MaxRetries: 3, RetryDelay: 5 * time.Millisecond, MaxRetryDelay: 20 * time.Millisecond},
	}, store, StaticToken("secret"))
	t.Cleanup(m.Teardown)

	m.Start(frontEntrance)

	require.Eventually(t, func() bool {
		cam, _ := reg.Camera("1")

		return cam.Status == models.StatusOnline && cam.LastActive == models.LiveLabel
	}, waitFor, tick)

	assert.Equal(t, 3, g.attemptCount("1"))
	assert.Equal(t, 2, store.count())
}

func TestReconnect_GivesUp(t *testing.T) {
	g := newGateway(t, nil)
	g.refuse = func(string) bool { return true }
	m, reg := setup(t, g, ReconnectConfig{MaxRetries: 2, RetryDelay: time.Millisecond, MaxRetryDelay: 2 * time.Millisecond}, frontEntrance)

	m.Start(frontEntrance)

	require.Eventually(t, func() bool {
		return status(reg, "1") == models.StatusOffline && len(m.Connections()) == 0
	}, waitFor, tick)

	assert.Equal(t, 3, g.attemptCount("1"))
}

func TestStop(t *testing.T) {
	g := newGateway(t, nil)
	m, reg := setup(t, g, ReconnectConfig{}, frontEntrance)

	assert.False(t, m.Stop("1"))

	m.Start(frontEntrance)
	require.Eventually(t, func() bool { return g.handshakeCount() == 1 }, waitFor, tick)

	assert.True(t, m.Stop("1"))

	require.Eventually(t, func() bool {
		return status(reg, "1") == models.StatusOffline && g.closedCount("1") == 1
	}, waitFor, tick)
	assert.Empty(t, m.Connections())
}

func TestTeardown_ClosesEverything(t *testing.T) {
	g := newGateway(t, nil)
	second := models.Camera{ID: "2", Name: "Parking Lot A", Status: models.StatusRecording}
	m, reg := setup(t, g, ReconnectConfig{}, frontEntrance, second)

	m.Start(frontEntrance)
	m.Start(second)
	require.Eventually(t, func() bool { return g.handshakeCount() == 2 }, waitFor, tick)

	m.Teardown()

	assert.Empty(t, m.Connections())
	assert.Equal(t, models.StatusOffline, status(reg, "1"))
	assert.Equal(t, models.StatusOffline, status(reg, "2"))
	require.Eventually(t, func() bool {
		return g.closedCount("1") == 1 && g.closedCount("2") == 1
	}, waitFor, tick)

	m.Start(frontEntrance)
	assert.Empty(t, m.Connections())

	m.Teardown()
}

func TestBackoff(t *testing.T) {
	cfg := ReconnectConfig{RetryDelay: time.Second, MaxRetryDelay: 30 * time.Second}

	assert.Equal(t, time.Second, backoff(1, cfg))
	assert.Equal(t, 2*time.Second, backoff(2, cfg))
	assert.Equal(t, 16*time.Second, backoff(5, cfg))
	assert.Equal(t, 30*time.Second, backoff(6, cfg))
	assert.Equal(t, 30*time.Second, backoff(64, cfg))
}

func TestDecodeFrame(t *testing.T) {
	raw := []byte("jpeg")
	enc := base64.StdEncoding.EncodeToString(raw)

	got, err := decodeFrame(enc)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	got, err = decodeFrame("data:image/jpeg;base64," + enc)
	require.NoError(t, err)
	assert.Equal(t, raw, got)

	_, err = decodeFrame("@@")
	assert.Error(t, err)
}

func TestEndpoint(t *testing.T) {
	assert.Equal(t, "ws://localhost:8080/stream/cam%201", endpoint("ws://localhost:8080/stream/", "cam 1"))
}

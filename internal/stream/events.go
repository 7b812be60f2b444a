package stream

import (
	"time"

	"github.com/zanzhit/camera_dashboard/internal/domain/models"
)

// Event is emitted by a connection and applied to the registry by the
// manager's reducer, one at a time.
type Event interface {
	CameraID() string
	source() *connection
}

type base struct {
	conn *connection
}

func (b base) CameraID() string    { return b.conn.cam.ID }
func (b base) source() *connection { return b.conn }

type Opened struct {
	base
}

type FrameReceived struct {
	base
	Frame []byte
	At    time.Time
}

type StatusChanged struct {
	base
	Status models.Status
}

type Reconnecting struct {
	base
	Attempt int
	Delay   time.Duration
}

type Errored struct {
	base
	Err error
}

type Closed struct {
	base
}

package models

type Status string

const (
	StatusOnline       Status = "online"
	StatusOffline      Status = "offline"
	StatusRecording    Status = "recording"
	StatusReconnecting Status = "reconnecting"
)

// LiveLabel is written to LastActive whenever a camera reports its status.
const LiveLabel = "Live"

func (s Status) Valid() bool {
	switch s {
	case StatusOnline, StatusOffline, StatusRecording, StatusReconnecting:
		return true
	}

	return false
}

// Reported reports whether the status is one a camera source or the stream
// gateway may assign. Reconnecting is only set by the dashboard itself.
func (s Status) Reported() bool {
	return s == StatusOnline || s == StatusOffline || s == StatusRecording
}

// Streaming reports whether a camera in this status should have a live stream.
func (s Status) Streaming() bool {
	return s == StatusOnline || s == StatusRecording
}

type Camera struct {
	ID         string `json:"id" db:"camera_id"`
	Name       string `json:"name" db:"name"`
	Location   string `json:"location" db:"location"`
	Status     Status `json:"status" db:"status"`
	Thumbnail  string `json:"thumbnail" db:"thumbnail"`
	Resolution string `json:"resolution" db:"resolution"`
	LastActive string `json:"lastActive" db:"last_active"`
	IPAddress  string `json:"ipAddress" db:"ip_address"`
	Port       string `json:"port" db:"port"`
	Username   string `json:"username" db:"username"`
	Password   string `json:"-" db:"password"`
	StreamURL  string `json:"streamUrl,omitempty" db:"stream_url"`
}

type NewCamera struct {
	Name      string `json:"name" validate:"required"`
	Location  string `json:"location" validate:"required"`
	IPAddress string `json:"ipAddress" validate:"required,ip"`
	Port      string `json:"port" validate:"required,numeric"`
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password"`
}

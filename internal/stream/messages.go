package stream

import "github.com/zanzhit/camera_dashboard/internal/domain/models"

const (
	typeConnect      = "connect"
	typeVideoFrame   = "video_frame"
	typeStatusUpdate = "status_update"
)

// handshake is the first message sent once the socket is open.
type handshake struct {
	Type      string `json:"type"`
	CameraID  string `json:"cameraId"`
	IPAddress string `json:"ipAddress"`
	Port      string `json:"port"`
	Username  string `json:"username"`
	AuthToken string `json:"authToken"`
}

func newHandshake(cam models.Camera, token string) handshake {
	return handshake{
		Type:      typeConnect,
		CameraID:  cam.ID,
		IPAddress: cam.IPAddress,
		Port:      cam.Port,
		Username:  cam.Username,
		AuthToken: token,
	}
}

type inbound struct {
	Type   string        `json:"type"`
	Frame  string        `json:"frame,omitempty"`
	Status models.Status `json:"status,omitempty"`
}

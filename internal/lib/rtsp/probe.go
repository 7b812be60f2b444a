package rtsp

import (
	"fmt"
	"net"

	"github.com/aler9/gortsplib"
	"github.com/aler9/gortsplib/pkg/url"
)

// Address builds the RTSP URL of a camera.
func Address(ip, port string) string {
	return fmt.Sprintf("rtsp://%s/", net.JoinHostPort(ip, port))
}

type Prober struct{}

// Available sends an OPTIONS request to the camera and reports whether it
// answered.
func (Prober) Available(rtspURL string) (bool, error) {
	u, err := url.Parse(rtspURL)
	if err != nil {
		return false, err
	}

	conn := gortsplib.Client{}

	err = conn.Start(u.Scheme, u.Host)
	if err != nil {
		return false, err
	}
	defer conn.Close()

	_, err = conn.Options(u)
	if err != nil {
		return false, err
	}

	return true, nil
}

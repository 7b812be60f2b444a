package rtsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddress(t *testing.T) {
	assert.Equal(t, "rtsp://192.168.1.100:554/", Address("192.168.1.100", "554"))
	assert.Equal(t, "rtsp://[fe80::1]:8554/", Address("fe80::1", "8554"))
}

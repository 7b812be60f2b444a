package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zanzhit/camera_dashboard/internal/registry"
	"github.com/zanzhit/camera_dashboard/internal/stream"
)

type stubStreams map[string]stream.State

func (s stubStreams) Connections() map[string]stream.State { return s }

func TestCollector(t *testing.T) {
	reg := registry.New()
	reg.Replace(registry.Fallback())

	c := NewCollector(reg, stubStreams{"1": stream.StateOpen, "2": stream.StateOpen, "3": stream.StateConnecting})

	assert.Equal(t, 6, testutil.CollectAndCount(c, "camera_dashboard_camera_up"))

	expected := `
# HELP camera_dashboard_cameras_total Cameras grouped by status.
# TYPE camera_dashboard_cameras_total gauge
camera_dashboard_cameras_total{status="offline"} 1
camera_dashboard_cameras_total{status="online"} 3
camera_dashboard_cameras_total{status="recording"} 2
# HELP camera_dashboard_streams_total Stream connections grouped by state.
# TYPE camera_dashboard_streams_total gauge
camera_dashboard_streams_total{state="connecting"} 1
camera_dashboard_streams_total{state="open"} 2
# HELP camera_dashboard_registry_loading 1 while the camera list is being loaded.
# TYPE camera_dashboard_registry_loading gauge
camera_dashboard_registry_loading 0
`

	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"camera_dashboard_cameras_total", "camera_dashboard_streams_total", "camera_dashboard_registry_loading")
	require.NoError(t, err)
}

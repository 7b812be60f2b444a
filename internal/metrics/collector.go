// Package metrics exposes the registry and the stream table as Prometheus
// gauges, computed fresh on every scrape.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zanzhit/camera_dashboard/internal/domain/models"
	"github.com/zanzhit/camera_dashboard/internal/stream"
)

var (
	cameraUpDesc = prometheus.NewDesc(
		"camera_dashboard_camera_up", "1 when the camera is online or recording.", []string{"id", "name"}, nil,
	)
	cameraCountDesc = prometheus.NewDesc(
		"camera_dashboard_cameras_total", "Cameras grouped by status.", []string{"status"}, nil,
	)
	streamCountDesc = prometheus.NewDesc(
		"camera_dashboard_streams_total", "Stream connections grouped by state.", []string{"state"}, nil,
	)
	loadingDesc = prometheus.NewDesc(
		"camera_dashboard_registry_loading", "1 while the camera list is being loaded.", nil, nil,
	)
)

type Cameras interface {
	Cameras() []models.Camera
	Loading() bool
}

type Streams interface {
	Connections() map[string]stream.State
}

type Collector struct {
	cameras Cameras
	streams Streams
}

func NewCollector(cameras Cameras, streams Streams) *Collector {
	return &Collector{cameras: cameras, streams: streams}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- cameraUpDesc
	ch <- cameraCountDesc
	ch <- streamCountDesc
	ch <- loadingDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	counts := make(map[models.Status]float64)

	for _, cam := range c.cameras.Cameras() {
		up := 0.0
		if cam.Status.Streaming() {
			up = 1.0
		}

		ch <- prometheus.MustNewConstMetric(cameraUpDesc, prometheus.GaugeValue, up, cam.ID, cam.Name)

		counts[cam.Status]++
	}

	for status, n := range counts {
		ch <- prometheus.MustNewConstMetric(cameraCountDesc, prometheus.GaugeValue, n, string(status))
	}

	states := make(map[stream.State]float64)
	for _, st := range c.streams.Connections() {
		states[st]++
	}

	for st, n := range states {
		ch <- prometheus.MustNewConstMetric(streamCountDesc, prometheus.GaugeValue, n, string(st))
	}

	loading := 0.0
	if c.cameras.Loading() {
		loading = 1.0
	}

	ch <- prometheus.MustNewConstMetric(loadingDesc, prometheus.GaugeValue, loading)
}

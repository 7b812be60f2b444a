// Package detections selects which detected defects and captured images the
// dashboard shows.
package detections

import (
	"strings"

	"github.com/zanzhit/camera_dashboard/internal/domain/models"
	"github.com/zanzhit/camera_dashboard/internal/layout"
)

// InFrame reports whether loc lies inside the reference frame, edges included.
func InFrame(loc models.Location) bool {
	return loc.X >= 0 && loc.X <= layout.FrameWidth &&
		loc.Y >= 0 && loc.Y <= layout.FrameHeight
}

func ErrorsInFrame(errs []models.DetectedError) []models.DetectedError {
	out := make([]models.DetectedError, 0, len(errs))
	for _, e := range errs {
		if InFrame(e.Location) {
			out = append(out, e)
		}
	}

	return out
}

func ImagesInFrame(images []models.CapturedImage) []models.CapturedImage {
	out := make([]models.CapturedImage, 0, len(images))
	for _, img := range images {
		if img.Location != nil && InFrame(*img.Location) {
			out = append(out, img)
		}
	}

	return out
}

// Search keeps the detections whose type or description contains query,
// ignoring case. An empty query keeps everything.
func Search(errs []models.DetectedError, query string) []models.DetectedError {
	q := strings.ToLower(strings.TrimSpace(query))

	out := make([]models.DetectedError, 0, len(errs))
	for _, e := range errs {
		if q == "" ||
			strings.Contains(strings.ToLower(e.Type), q) ||
			strings.Contains(strings.ToLower(e.Description), q) {
			out = append(out, e)
		}
	}

	return out
}

// Images converts detections into their captured-image form.
func Images(errs []models.DetectedError) []models.CapturedImage {
	out := make([]models.CapturedImage, 0, len(errs))
	for _, e := range errs {
		loc := e.Location
		out = append(out, models.CapturedImage{
			ID:        e.ID,
			Location:  &loc,
			ImageURL:  e.ImageURL,
			Type:      e.Type,
			Timestamp: e.Timestamp,
			Severity:  e.Severity,
		})
	}

	return out
}

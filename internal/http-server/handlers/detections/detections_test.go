package detectionshandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zanzhit/camera_dashboard/internal/domain/models"
	"github.com/zanzhit/camera_dashboard/internal/lib/sl"
)

type stubDetections struct {
	query   string
	inFrame bool
	err     error
}

func (s *stubDetections) Errors(_ context.Context, query string, inFrame bool) ([]models.DetectedError, error) {
	s.query, s.inFrame = query, inFrame

	return []models.DetectedError{{ID: "err-001", Type: "Surface Defect"}}, s.err
}

func (s *stubDetections) Images(context.Context) ([]models.CapturedImage, error) {
	return []models.CapturedImage{{ID: "err-001", Location: &models.Location{X: 1, Y: 2}}}, s.err
}

func get(h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func TestErrors(t *testing.T) {
	stub := &stubDetections{}
	h := New(sl.Discard(), stub)

	rec := get(h.Errors, "/api/detections?q=surface&in_frame=true")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "surface", stub.query)
	assert.True(t, stub.inFrame)
	assert.Contains(t, rec.Body.String(), `"type":"Surface Defect"`)

	rec = get(h.Errors, "/api/detections?in_frame=maybe")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestErrors_Failure(t *testing.T) {
	h := New(sl.Discard(), &stubDetections{err: assert.AnError})

	assert.Equal(t, http.StatusInternalServerError, get(h.Errors, "/api/detections").Code)
	assert.Equal(t, http.StatusInternalServerError, get(h.Images, "/api/detections/images").Code)
}

func TestImages(t *testing.T) {
	h := New(sl.Discard(), &stubDetections{})

	rec := get(h.Images, "/api/detections/images")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"location":{"x":1,"y":2}`)
}

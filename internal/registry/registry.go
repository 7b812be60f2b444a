// Package registry holds the dashboard's live view of every camera: the
// camera records themselves and the latest frame each stream delivered.
package registry

import (
	"sync"
	"time"

	"github.com/zanzhit/camera_dashboard/internal/domain/errs"
	"github.com/zanzhit/camera_dashboard/internal/domain/models"
)

type Frame struct {
	Data       []byte
	ReceivedAt time.Time
}

type Registry struct {
	mu      sync.RWMutex
	cameras []models.Camera
	index   map[string]int
	frames  map[string]Frame
	loading bool
}

func New() *Registry {
	return &Registry{
		index:  make(map[string]int),
		frames: make(map[string]Frame),
	}
}

// Replace swaps the whole camera list. Later duplicates of an identifier are
// dropped and unknown statuses become offline. It returns the cameras that
// were kept, in order.
func (r *Registry) Replace(cams []models.Camera) []models.Camera {
	kept := make([]models.Camera, 0, len(cams))
	index := make(map[string]int, len(cams))

	for _, cam := range cams {
		if cam.ID == "" {
			continue
		}
		if _, dup := index[cam.ID]; dup {
			continue
		}
		if !cam.Status.Reported() {
			cam.Status = models.StatusOffline
		}

		index[cam.ID] = len(kept)
		kept = append(kept, cam)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.cameras = kept
	r.index = index

	for id := range r.frames {
		if _, ok := index[id]; !ok {
			delete(r.frames, id)
		}
	}

	out := make([]models.Camera, len(kept))
	copy(out, kept)

	return out
}

func (r *Registry) Add(cam models.Camera) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[cam.ID]; ok {
		return errs.ErrCameraAlreadyExists
	}
	if !cam.Status.Reported() {
		cam.Status = models.StatusOffline
	}

	r.index[cam.ID] = len(r.cameras)
	r.cameras = append(r.cameras, cam)

	return nil
}

// Remove drops a camera and its last frame.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return false
	}

	r.cameras = append(r.cameras[:i], r.cameras[i+1:]...)
	delete(r.index, id)
	delete(r.frames, id)

	for j := i; j < len(r.cameras); j++ {
		r.index[r.cameras[j].ID] = j
	}

	return true
}

func (r *Registry) Cameras() []models.Camera {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Camera, len(r.cameras))
	copy(out, r.cameras)

	return out
}

func (r *Registry) Camera(id string) (models.Camera, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return models.Camera{}, false
	}

	return r.cameras[i], true
}

// SetStatus applies a status reported by the camera's stream and marks the
// camera live. Unknown identifiers and statuses leave the registry as is.
func (r *Registry) SetStatus(id string, status models.Status) bool {
	if !status.Reported() {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return false
	}

	r.cameras[i].Status = status
	r.cameras[i].LastActive = models.LiveLabel

	return true
}

// SetOffline marks a camera offline without touching LastActive.
func (r *Registry) SetOffline(id string) bool {
	return r.setStatus(id, models.StatusOffline)
}

// SetReconnecting is used while the stream is being re-established.
func (r *Registry) SetReconnecting(id string) bool {
	return r.setStatus(id, models.StatusReconnecting)
}

func (r *Registry) setStatus(id string, status models.Status) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return false
	}

	r.cameras[i].Status = status

	return true
}

func (r *Registry) SetFrame(id string, data []byte, at time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.index[id]; !ok {
		return false
	}

	r.frames[id] = Frame{Data: data, ReceivedAt: at}

	return true
}

func (r *Registry) Frame(id string) (Frame, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.frames[id]

	return f, ok
}

func (r *Registry) SetLoading(loading bool) {
	r.mu.Lock()
	r.loading = loading
	r.mu.Unlock()
}

func (r *Registry) Loading() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.loading
}

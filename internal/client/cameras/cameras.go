package cameras

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/zanzhit/camera_dashboard/internal/domain/errs"
	"github.com/zanzhit/camera_dashboard/internal/domain/models"
)

const camerasPath = "/api/cameras"

// Client fetches the camera list from a remote dashboard backend.
type Client struct {
	http *resty.Client
}

func New(baseURL, token string, timeout time.Duration) *Client {
	r := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	if token != "" {
		r.SetAuthToken(token)
	}

	return &Client{http: r}
}

func (c *Client) Cameras(ctx context.Context) ([]models.Camera, error) {
	const op = "client.cameras.Cameras"

	var cams []models.Camera

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&cams).
		ForceContentType("application/json").
		Get(camerasPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("%s: %w: status %d", op, errs.ErrUpstream, resp.StatusCode())
	}

	// A null or empty body is a broken upstream, not an empty camera list.
	if cams == nil {
		return nil, fmt.Errorf("%s: %w: empty camera list body", op, errs.ErrUpstream)
	}

	return cams, nil
}

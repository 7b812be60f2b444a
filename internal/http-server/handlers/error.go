package handlers

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/zanzhit/camera_dashboard/internal/lib/api/response"
)

func Error(w http.ResponseWriter, r *http.Request, statusCode int, err response.Response) {
	render.Status(r, statusCode)
	render.JSON(w, r, err)
}

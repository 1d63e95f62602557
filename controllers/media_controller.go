package controllers

import (
	"net/http"

	"puttpals_server/services"
)

// MediaController hands out presigned URLs for profile photos.
type MediaController struct {
	Media *services.MediaService
}

func NewMediaController(media *services.MediaService) *MediaController {
	return &MediaController{Media: media}
}

// HandleUploadURL returns a presigned PUT URL for a new photo.
func (c *MediaController) HandleUploadURL(w http.ResponseWriter, r *http.Request) {
	fileName := r.URL.Query().Get("fileName")
	fileType := r.URL.Query().Get("fileType")
	if fileName == "" || fileType == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "fileName and fileType are required"})
		return
	}

	url, key, err := c.Media.GenerateUploadURL(r.Context(), fileName, fileType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"uploadUrl": url, "key": key})
}

// HandleReadURL returns a presigned GET URL for an uploaded photo.
func (c *MediaController) HandleReadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "key is required"})
		return
	}

	url, err := c.Media.GenerateReadURL(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"readUrl": url})
}

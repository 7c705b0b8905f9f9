package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	respond "github.com/keepsakehq/keepsake/server/internal/api/respond"
	"github.com/keepsakehq/keepsake/server/internal/auth"
	"github.com/keepsakehq/keepsake/server/internal/mediastore"
)

// maxUploadBytes caps a single media upload at 32 MiB.
const maxUploadBytes = 32 << 20

type MediaHandler struct {
	media mediastore.MediaStore
}

func NewMediaHandler(media mediastore.MediaStore) *MediaHandler {
	return &MediaHandler{media: media}
}

// UploadMedia POST /api/media
// Accepts a multipart form with a "file" part and returns the storage key to
// reference from a memory's mediaUrl.
func (h *MediaHandler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		respond.WriteBadRequest(w, "multipart form with a 'file' part is required")
		return
	}
	defer func() { _ = file.Close() }()

	mimeType := header.Header.Get("Content-Type")
	key, err := h.media.Save(r.Context(), user.UserID, mimeType, file)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusCreated, map[string]string{
		"mediaUrl":  key,
		"mediaName": header.Filename,
	})
}

// PresignUpload POST /api/media/presign
// Hands out a direct-upload URL when the media backend supports it, so large
// files go straight to object storage instead of through the service.
func (h *MediaHandler) PresignUpload(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())

	presigner, ok := h.media.(mediastore.Presigner)
	if !ok {
		respond.WriteError(w, http.StatusNotImplemented, "direct uploads are not supported by this media backend")
		return
	}

	var req struct {
		MimeType string `json:"mimeType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	uploadURL, key, err := presigner.PresignPut(r.Context(), user.UserID, req.MimeType)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{
		"uploadUrl": uploadURL,
		"mediaUrl":  key,
	})
}

// GetMedia GET /api/media/{key}
func (h *MediaHandler) GetMedia(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	key := mux.Vars(r)["key"]

	rc, mimeType, err := h.media.Get(r.Context(), user.UserID, key)
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	defer func() { _ = rc.Close() }()

	w.Header().Set("Content-Type", mimeType)
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, rc)
}

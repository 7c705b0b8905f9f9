package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	respond "github.com/keepsakehq/keepsake/server/internal/api/respond"
	"github.com/keepsakehq/keepsake/server/internal/api/validate"
	"github.com/keepsakehq/keepsake/server/internal/auth"
	"github.com/keepsakehq/keepsake/server/internal/model"
	"github.com/keepsakehq/keepsake/server/internal/services"
)

type MemoryHandler struct {
	svc *services.MemoryService
}

func NewMemoryHandler(svc *services.MemoryService) *MemoryHandler {
	return &MemoryHandler{svc: svc}
}

// CreateMemory POST /api/memories
func (h *MemoryHandler) CreateMemory(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	var req struct {
		Title       string    `json:"title"`
		Description *string   `json:"description,omitempty"`
		MediaType   string    `json:"mediaType"`
		MediaURL    string    `json:"mediaUrl"`
		MediaName   string    `json:"mediaName"`
		Date        time.Time `json:"date"`
		DateType    string    `json:"dateType"`
		PeopleIDs   []string  `json:"peopleIds,omitempty"`
		PlaceID     *string   `json:"placeId,omitempty"`
		EventID     *string   `json:"eventId,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.Title(req.Title); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.MediaType(req.MediaType); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.DateType(req.DateType); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	m := &model.Memory{
		OwnerID:     user.UserID,
		Title:       req.Title,
		Description: req.Description,
		MediaType:   req.MediaType,
		MediaURL:    req.MediaURL,
		MediaName:   req.MediaName,
		Date:        req.Date,
		DateType:    req.DateType,
		PeopleIDs:   req.PeopleIDs,
		PlaceID:     req.PlaceID,
		EventID:     req.EventID,
	}
	out, err := h.svc.CreateMemory(r.Context(), m)
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	if len(req.PeopleIDs) > 0 {
		if out, err = h.svc.SetPeople(r.Context(), user.UserID, out.MemoryID, req.PeopleIDs); err != nil {
			respond.WriteStoreError(w, err)
			return
		}
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListMemories GET /api/memories
func (h *MemoryHandler) ListMemories(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	out, err := h.svc.ListMemories(r.Context(), user.UserID)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	if out == nil {
		out = []*model.Memory{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"memories": out, "count": len(out)})
}

// SearchMemories GET /api/memories/search?q=
func (h *MemoryHandler) SearchMemories(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	q := r.URL.Query().Get("q")
	if q == "" {
		respond.WriteBadRequest(w, "query parameter q is required")
		return
	}
	out, err := h.svc.SearchMemories(r.Context(), user.UserID, q)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	if out == nil {
		out = []*model.Memory{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"memories": out, "count": len(out)})
}

// GetMemory GET /api/memories/{memoryId}
func (h *MemoryHandler) GetMemory(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	out, err := h.svc.GetMemory(r.Context(), user.UserID, mux.Vars(r)["memoryId"])
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// UpdateMemory PATCH /api/memories/{memoryId}
func (h *MemoryHandler) UpdateMemory(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	var upd model.MemoryUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.svc.UpdateMemory(r.Context(), user.UserID, mux.Vars(r)["memoryId"], upd)
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteMemory DELETE /api/memories/{memoryId}
func (h *MemoryHandler) DeleteMemory(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	if err := h.svc.DeleteMemory(r.Context(), user.UserID, mux.Vars(r)["memoryId"]); err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetPeople PUT /api/memories/{memoryId}/people
func (h *MemoryHandler) SetPeople(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	var req struct {
		PersonIDs []string `json:"personIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.svc.SetPeople(r.Context(), user.UserID, mux.Vars(r)["memoryId"], req.PersonIDs)
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// SetEvent PUT /api/memories/{memoryId}/event
func (h *MemoryHandler) SetEvent(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	var req struct {
		EventID *string `json:"eventId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.svc.SetEvent(r.Context(), user.UserID, mux.Vars(r)["memoryId"], req.EventID)
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// SetPlace PUT /api/memories/{memoryId}/place
func (h *MemoryHandler) SetPlace(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	var req struct {
		PlaceID *string `json:"placeId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.svc.SetPlace(r.Context(), user.UserID, mux.Vars(r)["memoryId"], req.PlaceID)
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	respond "github.com/keepsakehq/keepsake/server/internal/api/respond"
	"github.com/keepsakehq/keepsake/server/internal/auth"
	"github.com/keepsakehq/keepsake/server/internal/model"
	"github.com/keepsakehq/keepsake/server/internal/services"
)

type ReflectionHandler struct {
	svc *services.ReflectionService
}

func NewReflectionHandler(svc *services.ReflectionService) *ReflectionHandler {
	return &ReflectionHandler{svc: svc}
}

// CreateReflection POST /api/memories/{memoryId}/reflections
func (h *ReflectionHandler) CreateReflection(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.svc.CreateReflection(r.Context(), &model.Reflection{
		OwnerID:  user.UserID,
		MemoryID: mux.Vars(r)["memoryId"],
		Title:    req.Title,
		Content:  req.Content,
	})
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListReflections GET /api/memories/{memoryId}/reflections
func (h *ReflectionHandler) ListReflections(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	out, err := h.svc.ListReflections(r.Context(), user.UserID, mux.Vars(r)["memoryId"])
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	if out == nil {
		out = []*model.Reflection{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"reflections": out, "count": len(out)})
}

// GetReflection GET /api/memories/{memoryId}/reflections/{reflectionId}
func (h *ReflectionHandler) GetReflection(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	v := mux.Vars(r)
	out, err := h.svc.GetReflection(r.Context(), user.UserID, v["memoryId"], v["reflectionId"])
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// UpdateReflection PATCH /api/memories/{memoryId}/reflections/{reflectionId}
func (h *ReflectionHandler) UpdateReflection(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	var upd model.ReflectionUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	v := mux.Vars(r)
	out, err := h.svc.UpdateReflection(r.Context(), user.UserID, v["memoryId"], v["reflectionId"], upd)
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteReflection DELETE /api/memories/{memoryId}/reflections/{reflectionId}
func (h *ReflectionHandler) DeleteReflection(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	v := mux.Vars(r)
	if err := h.svc.DeleteReflection(r.Context(), user.UserID, v["memoryId"], v["reflectionId"]); err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

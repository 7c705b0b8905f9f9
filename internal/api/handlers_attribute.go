package api

import (
	"encoding/json"
	"net/http"

	respond "github.com/keepsakehq/keepsake/server/internal/api/respond"
	"github.com/keepsakehq/keepsake/server/internal/api/validate"
	"github.com/keepsakehq/keepsake/server/internal/auth"
	"github.com/keepsakehq/keepsake/server/internal/model"
	"github.com/keepsakehq/keepsake/server/internal/services"
)

type AttributeHandler struct {
	svc *services.AttributeService
}

func NewAttributeHandler(svc *services.AttributeService) *AttributeHandler {
	return &AttributeHandler{svc: svc}
}

// CreateAttribute POST /api/attributes
// Resubmitting an existing name in the same scope returns the existing entry
// with 200 instead of 201.
func (h *AttributeHandler) CreateAttribute(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	var req struct {
		Name        string  `json:"name"`
		Category    *string `json:"category,omitempty"`
		Description *string `json:"description,omitempty"`
		EntityType  string  `json:"entityType,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.NonEmpty("name", req.Name); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.EntityType(req.EntityType); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	out, err := h.svc.CreateAttribute(r.Context(), &model.Attribute{
		OwnerID:     user.UserID,
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		EntityType:  req.EntityType,
	})
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListAttributes GET /api/attributes?entityType=
func (h *AttributeHandler) ListAttributes(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	entityType := r.URL.Query().Get("entityType")
	if err := validate.EntityType(entityType); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.ListAttributes(r.Context(), user.UserID, entityType)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	if out == nil {
		out = []*model.Attribute{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"attributes": out, "count": len(out)})
}

// SearchAttributes GET /api/attributes/search?entityType=&q=
func (h *AttributeHandler) SearchAttributes(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	q := r.URL.Query().Get("q")
	if q == "" {
		respond.WriteBadRequest(w, "query parameter q is required")
		return
	}
	entityType := r.URL.Query().Get("entityType")
	if err := validate.EntityType(entityType); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	out, err := h.svc.SearchAttributes(r.Context(), user.UserID, entityType, q)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	if out == nil {
		out = []*model.Attribute{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"attributes": out, "count": len(out)})
}

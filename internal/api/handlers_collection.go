package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	respond "github.com/keepsakehq/keepsake/server/internal/api/respond"
	"github.com/keepsakehq/keepsake/server/internal/api/validate"
	"github.com/keepsakehq/keepsake/server/internal/auth"
	"github.com/keepsakehq/keepsake/server/internal/model"
	"github.com/keepsakehq/keepsake/server/internal/services"
)

type CollectionHandler struct {
	svc *services.CollectionService
}

func NewCollectionHandler(svc *services.CollectionService) *CollectionHandler {
	return &CollectionHandler{svc: svc}
}

// CreateCollection POST /api/collections
func (h *CollectionHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	var req struct {
		Name      string   `json:"name"`
		Details   *string  `json:"details,omitempty"`
		MemberIDs []string `json:"memberIds,omitempty"`
		MemoryIDs []string `json:"memoryIds,omitempty"`
		EventIDs  []string `json:"eventIds,omitempty"`
		PlaceIDs  []string `json:"placeIds,omitempty"`
		PeopleIDs []string `json:"peopleIds,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.NonEmpty("name", req.Name); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	out, err := h.svc.CreateCollection(r.Context(), &model.Collection{
		OwnerID:   user.UserID,
		Name:      req.Name,
		Details:   req.Details,
		MemberIDs: req.MemberIDs,
		MemoryIDs: req.MemoryIDs,
		EventIDs:  req.EventIDs,
		PlaceIDs:  req.PlaceIDs,
		PeopleIDs: req.PeopleIDs,
	})
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListCollections GET /api/collections
func (h *CollectionHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	out, err := h.svc.ListCollections(r.Context(), user.UserID)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	if out == nil {
		out = []*model.Collection{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"collections": out, "count": len(out)})
}

// GetCollection GET /api/collections/{collectionId}
func (h *CollectionHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	out, err := h.svc.GetCollection(r.Context(), user.UserID, mux.Vars(r)["collectionId"])
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// UpdateCollection PATCH /api/collections/{collectionId}
func (h *CollectionHandler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	var upd model.CollectionUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.svc.UpdateCollection(r.Context(), user.UserID, mux.Vars(r)["collectionId"], upd)
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteCollection DELETE /api/collections/{collectionId}
func (h *CollectionHandler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	if err := h.svc.DeleteCollection(r.Context(), user.UserID, mux.Vars(r)["collectionId"]); err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

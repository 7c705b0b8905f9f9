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

type PlaceHandler struct {
	svc *services.PlaceService
}

func NewPlaceHandler(svc *services.PlaceService) *PlaceHandler {
	return &PlaceHandler{svc: svc}
}

// CreatePlace POST /api/places
func (h *PlaceHandler) CreatePlace(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	var req struct {
		Name       string                `json:"name"`
		City       string                `json:"city"`
		Country    string                `json:"country"`
		Address    *string               `json:"address,omitempty"`
		PlaceType  *string               `json:"placeType,omitempty"`
		Capacity   *int                  `json:"capacity,omitempty"`
		Rating     *float64              `json:"rating,omitempty"`
		Attributes []model.AttributePair `json:"attributes,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.NonEmpty("name", req.Name); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	p := &model.Place{
		OwnerID:    user.UserID,
		Name:       req.Name,
		City:       req.City,
		Country:    req.Country,
		Address:    req.Address,
		PlaceType:  req.PlaceType,
		Capacity:   req.Capacity,
		Rating:     req.Rating,
		Attributes: req.Attributes,
	}
	out, err := h.svc.CreatePlace(r.Context(), p)
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListPlaces GET /api/places
func (h *PlaceHandler) ListPlaces(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	out, err := h.svc.ListPlaces(r.Context(), user.UserID)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	if out == nil {
		out = []*model.Place{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"places": out, "count": len(out)})
}

// SearchPlaces GET /api/places/search?q=
func (h *PlaceHandler) SearchPlaces(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	q := r.URL.Query().Get("q")
	if q == "" {
		respond.WriteBadRequest(w, "query parameter q is required")
		return
	}
	out, err := h.svc.SearchPlaces(r.Context(), user.UserID, q)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	if out == nil {
		out = []*model.Place{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"places": out, "count": len(out)})
}

// GetPlace GET /api/places/{placeId}
func (h *PlaceHandler) GetPlace(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	out, err := h.svc.GetPlace(r.Context(), user.UserID, mux.Vars(r)["placeId"])
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// UpdatePlace PATCH /api/places/{placeId}
func (h *PlaceHandler) UpdatePlace(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	var upd model.PlaceUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	out, err := h.svc.UpdatePlace(r.Context(), user.UserID, mux.Vars(r)["placeId"], upd)
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeletePlace DELETE /api/places/{placeId}
func (h *PlaceHandler) DeletePlace(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	if err := h.svc.DeletePlace(r.Context(), user.UserID, mux.Vars(r)["placeId"]); err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

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

type EventHandler struct {
	svc *services.EventService
}

func NewEventHandler(svc *services.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

// CreateEvent POST /api/events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	var req struct {
		Title      string                `json:"title"`
		Date       time.Time             `json:"date"`
		DateType   string                `json:"dateType"`
		PlaceID    *string               `json:"placeId,omitempty"`
		Attributes []model.AttributePair `json:"attributes,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.Title(req.Title); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if err := validate.DateType(req.DateType); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}

	e := &model.Event{
		OwnerID:    user.UserID,
		Title:      req.Title,
		Date:       req.Date,
		DateType:   req.DateType,
		PlaceID:    req.PlaceID,
		Attributes: req.Attributes,
	}
	out, err := h.svc.CreateEvent(r.Context(), e)
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListEvents GET /api/events
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	out, err := h.svc.ListEvents(r.Context(), user.UserID)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	if out == nil {
		out = []*model.Event{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"events": out, "count": len(out)})
}

// SearchEvents GET /api/events/search?q=
func (h *EventHandler) SearchEvents(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	q := r.URL.Query().Get("q")
	if q == "" {
		respond.WriteBadRequest(w, "query parameter q is required")
		return
	}
	out, err := h.svc.SearchEvents(r.Context(), user.UserID, q)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	if out == nil {
		out = []*model.Event{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"events": out, "count": len(out)})
}

// GetEvent GET /api/events/{eventId}
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	out, err := h.svc.GetEvent(r.Context(), user.UserID, mux.Vars(r)["eventId"])
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// UpdateEvent PATCH /api/events/{eventId}
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	var upd model.EventUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if v, ok := upd.DateType.Value(); ok {
		if err := validate.DateType(v); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
	}
	out, err := h.svc.UpdateEvent(r.Context(), user.UserID, mux.Vars(r)["eventId"], upd)
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeleteEvent DELETE /api/events/{eventId}
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	if err := h.svc.DeleteEvent(r.Context(), user.UserID, mux.Vars(r)["eventId"]); err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

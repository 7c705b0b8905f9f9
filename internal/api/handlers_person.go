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

type PersonHandler struct {
	svc *services.PersonService
}

func NewPersonHandler(svc *services.PersonService) *PersonHandler {
	return &PersonHandler{svc: svc}
}

// CreatePerson POST /api/persons
func (h *PersonHandler) CreatePerson(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	var req struct {
		Name          string                `json:"name"`
		Email         *string               `json:"email,omitempty"`
		Role          *string               `json:"role,omitempty"`
		PhotoURL      *string               `json:"photoUrl,omitempty"`
		DateOfBirth   *time.Time            `json:"dateOfBirth,omitempty"`
		PlaceOfBirth  *string               `json:"placeOfBirth,omitempty"`
		MaritalStatus *string               `json:"maritalStatus,omitempty"`
		SpouseID      *string               `json:"spouseId,omitempty"`
		ChildrenIDs   []string              `json:"childrenIds,omitempty"`
		Attributes    []model.AttributePair `json:"attributes,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if err := validate.NonEmpty("name", req.Name); err != nil {
		respond.WriteBadRequest(w, err.Error())
		return
	}
	if req.Email != nil {
		if err := validate.Email(*req.Email); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
	}

	p := &model.Person{
		OwnerID:       user.UserID,
		Name:          req.Name,
		Email:         req.Email,
		Role:          req.Role,
		PhotoURL:      req.PhotoURL,
		DateOfBirth:   req.DateOfBirth,
		PlaceOfBirth:  req.PlaceOfBirth,
		MaritalStatus: req.MaritalStatus,
		SpouseID:      req.SpouseID,
		ChildrenIDs:   req.ChildrenIDs,
		Attributes:    req.Attributes,
	}
	out, err := h.svc.CreatePerson(r.Context(), p)
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, out)
}

// ListPersons GET /api/persons
func (h *PersonHandler) ListPersons(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	out, err := h.svc.ListPersons(r.Context(), user.UserID)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	if out == nil {
		out = []*model.Person{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"persons": out, "count": len(out)})
}

// SearchPersons GET /api/persons/search?q=
func (h *PersonHandler) SearchPersons(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	q := r.URL.Query().Get("q")
	if q == "" {
		respond.WriteBadRequest(w, "query parameter q is required")
		return
	}
	out, err := h.svc.SearchPersons(r.Context(), user.UserID, q)
	if err != nil {
		respond.WriteInternalError(w, err.Error())
		return
	}
	if out == nil {
		out = []*model.Person{}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"persons": out, "count": len(out)})
}

// GetPerson GET /api/persons/{personId}
func (h *PersonHandler) GetPerson(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	out, err := h.svc.GetPerson(r.Context(), user.UserID, mux.Vars(r)["personId"])
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// UpdatePerson PATCH /api/persons/{personId}
func (h *PersonHandler) UpdatePerson(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	var upd model.PersonUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if v, ok := upd.Email.Value(); ok {
		if err := validate.Email(v); err != nil {
			respond.WriteBadRequest(w, err.Error())
			return
		}
	}
	out, err := h.svc.UpdatePerson(r.Context(), user.UserID, mux.Vars(r)["personId"], upd)
	if err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, out)
}

// DeletePerson DELETE /api/persons/{personId}
func (h *PersonHandler) DeletePerson(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	if err := h.svc.DeletePerson(r.Context(), user.UserID, mux.Vars(r)["personId"]); err != nil {
		respond.WriteStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

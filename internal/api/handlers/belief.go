package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Harshitk-cp/doxa/internal/domain"
	"github.com/Harshitk-cp/doxa/internal/logic"
	"github.com/Harshitk-cp/doxa/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type BeliefHandler struct {
	sessions *service.SessionService
	revision *service.RevisionService
}

func NewBeliefHandler(sessions *service.SessionService, revision *service.RevisionService) *BeliefHandler {
	return &BeliefHandler{sessions: sessions, revision: revision}
}

type expandRequest struct {
	Formula      string `json:"formula" validate:"required"`
	Entrenchment *int   `json:"entrenchment,omitempty" validate:"omitempty,gte=0,lte=100"`
}

type reviseRequest struct {
	Formula      string `json:"formula" validate:"required"`
	Entrenchment *int   `json:"entrenchment,omitempty" validate:"omitempty,gte=0,lte=100"`
}

type formulaRequest struct {
	Formula string `json:"formula" validate:"required"`
}

type beliefResponse struct {
	ID           string    `json:"id"`
	Formula      string    `json:"formula"`
	Clauses      []string  `json:"clauses"`
	Entrenchment int       `json:"entrenchment"`
	Position     int       `json:"position"`
	CreatedAt    time.Time `json:"created_at"`
}

type listBeliefsResponse struct {
	Beliefs []beliefResponse `json:"beliefs"`
	Count   int              `json:"count"`
}

type contractResponse struct {
	Removed []beliefResponse `json:"removed"`
	Count   int              `json:"count"`
}

type reviseResponse struct {
	Added   beliefResponse   `json:"added"`
	Removed []beliefResponse `json:"removed"`
}

type entailsResponse struct {
	Formula  string `json:"formula"`
	Entailed bool   `json:"entailed"`
}

func toBeliefResponse(b domain.Belief) beliefResponse {
	clauses := make([]string, len(b.Clauses))
	for i, c := range b.Clauses {
		clauses[i] = c.String()
	}
	return beliefResponse{
		ID:           b.ID.String(),
		Formula:      b.Formula.String(),
		Clauses:      clauses,
		Entrenchment: b.Entrenchment,
		Position:     b.Position,
		CreatedAt:    b.CreatedAt,
	}
}

func toBeliefResponses(beliefs []domain.Belief) []beliefResponse {
	out := make([]beliefResponse, len(beliefs))
	for i, b := range beliefs {
		out[i] = toBeliefResponse(b)
	}
	return out
}

// sessionIDParam parses the sessionID route parameter, writing a 400 on
// failure.
func sessionIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *BeliefHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	session, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get session")
		return
	}

	beliefs := session.Base.Beliefs()
	writeJSON(w, http.StatusOK, listBeliefsResponse{
		Beliefs: toBeliefResponses(beliefs),
		Count:   len(beliefs),
	})
}

func (h *BeliefHandler) Expand(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	var req expandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	f, err := logic.Parse(req.Formula)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entrenchment := domain.DefaultEntrenchment
	if req.Entrenchment != nil {
		entrenchment = *req.Entrenchment
	}

	var belief domain.Belief
	err = h.sessions.WithBase(r.Context(), id, func(base *domain.BeliefBase) error {
		var opErr error
		belief, opErr = h.revision.Expand(r.Context(), base, f, entrenchment)
		return opErr
	})
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to expand belief base")
		return
	}

	writeJSON(w, http.StatusCreated, toBeliefResponse(belief))
}

func (h *BeliefHandler) Contract(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	var req formulaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	f, err := logic.Parse(req.Formula)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var removed []domain.Belief
	err = h.sessions.WithBase(r.Context(), id, func(base *domain.BeliefBase) error {
		var opErr error
		removed, opErr = h.revision.Contract(r.Context(), base, f)
		return opErr
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrVacuousTarget):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to contract belief base")
		}
		return
	}

	writeJSON(w, http.StatusOK, contractResponse{
		Removed: toBeliefResponses(removed),
		Count:   len(removed),
	})
}

func (h *BeliefHandler) Revise(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	var req reviseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	f, err := logic.Parse(req.Formula)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entrenchment := domain.DefaultEntrenchment
	if req.Entrenchment != nil {
		entrenchment = *req.Entrenchment
	}

	var removed []domain.Belief
	var added domain.Belief
	err = h.sessions.WithBase(r.Context(), id, func(base *domain.BeliefBase) error {
		var opErr error
		removed, added, opErr = h.revision.Revise(r.Context(), base, f, entrenchment)
		return opErr
	})
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to revise belief base")
		return
	}

	writeJSON(w, http.StatusOK, reviseResponse{
		Added:   toBeliefResponse(added),
		Removed: toBeliefResponses(removed),
	})
}

func (h *BeliefHandler) Entails(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	var req formulaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	f, err := logic.Parse(req.Formula)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var entailed bool
	err = h.sessions.WithBase(r.Context(), id, func(base *domain.BeliefBase) error {
		var opErr error
		entailed, opErr = h.revision.Entails(r.Context(), base, f)
		return opErr
	})
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to check entailment")
		return
	}

	writeJSON(w, http.StatusOK, entailsResponse{
		Formula:  f.String(),
		Entailed: entailed,
	})
}

func (h *BeliefHandler) Remove(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	var req formulaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	f, err := logic.Parse(req.Formula)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.sessions.WithBase(r.Context(), id, func(base *domain.BeliefBase) error {
		_, opErr := h.revision.Remove(r.Context(), base, f)
		return opErr
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSessionNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrBeliefNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to remove belief")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

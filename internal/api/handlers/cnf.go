package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Harshitk-cp/doxa/internal/logic"
)

// CNFHandler answers stateless normalization queries: no session is touched.
type CNFHandler struct{}

func NewCNFHandler() *CNFHandler {
	return &CNFHandler{}
}

type cnfRequest struct {
	Formula  string `json:"formula" validate:"required"`
	Simplify bool   `json:"simplify,omitempty"`
}

type cnfResponse struct {
	Formula string   `json:"formula"`
	CNF     string   `json:"cnf"`
	Clauses []string `json:"clauses"`
	Atoms   []string `json:"atoms"`
}

func (h *CNFHandler) Normalize(w http.ResponseWriter, r *http.Request) {
	var req cnfRequest
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

	cnf, err := logic.ToCNF(f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to normalize formula")
		return
	}
	if req.Simplify {
		cnf = cnf.Simplify()
	}

	clauses := make([]string, len(cnf))
	for i, c := range cnf {
		clauses[i] = c.String()
	}

	writeJSON(w, http.StatusOK, cnfResponse{
		Formula: f.String(),
		CNF:     cnf.String(),
		Clauses: clauses,
		Atoms:   cnf.Atoms(),
	})
}

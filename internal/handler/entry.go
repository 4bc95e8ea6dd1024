package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dukerupert/starcoin/internal/auth"
	"github.com/dukerupert/starcoin/internal/engine"
	"github.com/dukerupert/starcoin/internal/model"
	"github.com/dukerupert/starcoin/internal/reward"
)

// EntryHandler covers the child's day list and the submit/review lifecycle.
type EntryHandler struct {
	eng    *engine.Engine
	logger *slog.Logger
}

func NewEntryHandler(eng *engine.Engine, logger *slog.Logger) *EntryHandler {
	return &EntryHandler{eng: eng, logger: logger}
}

// childParam returns the child named in the URL, writing 403 when the caller
// may not act for it.
func childParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	childID := chi.URLParam(r, "childID")
	if !auth.CanActFor(r.Context(), childID) {
		writeError(w, http.StatusForbidden, "not allowed for this child")
		return "", false
	}
	return childID, true
}

func (h *EntryHandler) Day(w http.ResponseWriter, r *http.Request) {
	childID, ok := childParam(w, r)
	if !ok {
		return
	}
	views, err := h.eng.DayView(auth.FamilyID(r.Context()), childID, r.URL.Query().Get("date"))
	if err != nil {
		writeEngineError(w, h.logger, err, "failed to load day")
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(views))
}

func (h *EntryHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	childID, ok := childParam(w, r)
	if !ok {
		return
	}
	d, err := h.eng.Dashboard(auth.FamilyID(r.Context()), childID)
	if err != nil {
		writeEngineError(w, h.logger, err, "failed to load dashboard")
		return
	}
	d.Tasks = emptyIfNil(d.Tasks)
	writeJSON(w, http.StatusOK, d)
}

type submitRequest struct {
	ChildID               string `json:"child_id"`
	ActualDurationMinutes *int   `json:"actual_duration_minutes"`
}

// Submit records a completion. Children submit for themselves; a parent must
// name the child.
func (h *EntryHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	ac, _ := auth.FromContext(r.Context())
	childID := req.ChildID
	if ac.Role == model.RoleChild {
		childID = ac.MemberID
	}
	if childID == "" {
		writeError(w, http.StatusBadRequest, "child_id is required")
		return
	}
	if !auth.CanActFor(r.Context(), childID) {
		writeError(w, http.StatusForbidden, "not allowed for this child")
		return
	}

	entry, err := h.eng.Submit(ac.FamilyID, childID, chi.URLParam(r, "taskID"), req.ActualDurationMinutes)
	if err != nil {
		writeEngineError(w, h.logger, err, "failed to submit task")
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (h *EntryHandler) Pending(w http.ResponseWriter, r *http.Request) {
	details, err := h.eng.PendingReviews(auth.FamilyID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list pending reviews")
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(details))
}

type reviewRequest struct {
	reward.Scores
	Punishment *reward.Punishment `json:"punishment"`
}

func (req reviewRequest) review() engine.Review {
	return engine.Review{Scores: req.Scores, Punishment: req.Punishment}
}

func (h *EntryHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	grant, err := h.eng.PreviewReward(auth.FamilyID(r.Context()), chi.URLParam(r, "entryID"), req.review())
	if err != nil {
		writeEngineError(w, h.logger, err, "failed to preview reward")
		return
	}
	writeJSON(w, http.StatusOK, grant)
}

func (h *EntryHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	award, err := h.eng.Approve(auth.FamilyID(r.Context()), chi.URLParam(r, "entryID"), req.review())
	if err != nil {
		writeEngineError(w, h.logger, err, "failed to approve entry")
		return
	}
	writeJSON(w, http.StatusOK, award)
}

func (h *EntryHandler) Reject(w http.ResponseWriter, r *http.Request) {
	if err := h.eng.Reject(auth.FamilyID(r.Context()), chi.URLParam(r, "entryID")); err != nil {
		writeEngineError(w, h.logger, err, "failed to reject entry")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EntryHandler) Sweep(w http.ResponseWriter, r *http.Request) {
	n, err := h.eng.Sweep(auth.FamilyID(r.Context()))
	if err != nil {
		writeEngineError(w, h.logger, err, "failed to sweep")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"resolved": n})
}

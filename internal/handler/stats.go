package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/starcoin/internal/auth"
	"github.com/dukerupert/starcoin/internal/engine"
)

type StatsHandler struct {
	eng    *engine.Engine
	logger *slog.Logger
}

func NewStatsHandler(eng *engine.Engine, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{eng: eng, logger: logger}
}

func (h *StatsHandler) Family(w http.ResponseWriter, r *http.Request) {
	st, err := h.eng.FamilyStats(auth.FamilyID(r.Context()))
	if err != nil {
		writeEngineError(w, h.logger, err, "failed to load stats")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (h *StatsHandler) Child(w http.ResponseWriter, r *http.Request) {
	childID, ok := childParam(w, r)
	if !ok {
		return
	}
	st, err := h.eng.ChildStats(auth.FamilyID(r.Context()), childID)
	if err != nil {
		writeEngineError(w, h.logger, err, "failed to load stats")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

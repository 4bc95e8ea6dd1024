package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/starcoin/internal/auth"
	"github.com/dukerupert/starcoin/internal/model"
	"github.com/dukerupert/starcoin/internal/store"
)

type PunishmentHandler struct {
	punishments *store.PunishmentStore
	logger      *slog.Logger
}

func NewPunishmentHandler(ps *store.PunishmentStore, logger *slog.Logger) *PunishmentHandler {
	return &PunishmentHandler{punishments: ps, logger: logger}
}

func (h *PunishmentHandler) Settings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.punishments.Settings(auth.FamilyID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load punishment settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func validTier(t model.PunishmentTier) bool {
	return t.Rate >= 0 && t.Extra >= 0 && t.Min >= 0 && t.Max >= 0 && (t.Max == 0 || t.Min <= t.Max)
}

func (h *PunishmentHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var settings model.PunishmentSettings
	if !decodeJSON(w, r, &settings) {
		return
	}
	for _, tier := range []model.PunishmentTier{settings.Mild, settings.Moderate, settings.Severe, settings.Custom} {
		if !validTier(tier) {
			writeError(w, http.StatusBadRequest, "tier values must be non-negative with min <= max")
			return
		}
	}

	settings.FamilyID = auth.FamilyID(r.Context())
	if err := h.punishments.Save(settings); err != nil {
		h.logger.Error("save punishment settings", "family_id", settings.FamilyID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save punishment settings")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *PunishmentHandler) Records(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, 500)
	}
	records, err := h.punishments.ListRecords(auth.FamilyID(r.Context()), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list punishment records")
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(records))
}

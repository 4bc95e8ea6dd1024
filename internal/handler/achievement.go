package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dukerupert/starcoin/internal/auth"
	"github.com/dukerupert/starcoin/internal/engine"
	"github.com/dukerupert/starcoin/internal/model"
	"github.com/dukerupert/starcoin/internal/store"
)

type AchievementHandler struct {
	eng          *engine.Engine
	achievements *store.AchievementStore
	logger       *slog.Logger
}

func NewAchievementHandler(eng *engine.Engine, as *store.AchievementStore, logger *slog.Logger) *AchievementHandler {
	return &AchievementHandler{eng: eng, achievements: as, logger: logger}
}

func (h *AchievementHandler) List(w http.ResponseWriter, r *http.Request) {
	defs, err := h.achievements.ListByFamily(auth.FamilyID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list achievements")
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(defs))
}

type achievementRequest struct {
	Title             string              `json:"title"`
	Description       string              `json:"description"`
	Icon              string              `json:"icon"`
	ConditionType     model.ConditionType `json:"condition_type"`
	ConditionValue    int                 `json:"condition_value"`
	ConditionCategory model.Category      `json:"condition_category"`
}

func (h *AchievementHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req achievementRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	switch {
	case req.Title == "":
		writeError(w, http.StatusBadRequest, "title is required")
		return
	case !req.ConditionType.Valid():
		writeError(w, http.StatusBadRequest, "invalid condition_type")
		return
	case req.ConditionType != model.ConditionManual && req.ConditionValue <= 0:
		writeError(w, http.StatusBadRequest, "condition_value must be positive")
		return
	case req.ConditionCategory != "" && !req.ConditionCategory.Valid():
		writeError(w, http.StatusBadRequest, "invalid condition_category")
		return
	case req.ConditionType == model.ConditionCategoryCount && req.ConditionCategory == "":
		writeError(w, http.StatusBadRequest, "condition_category is required for category_count")
		return
	}

	def, err := h.achievements.Create(model.AchievementDef{
		FamilyID:          auth.FamilyID(r.Context()),
		Title:             req.Title,
		Description:       req.Description,
		Icon:              req.Icon,
		ConditionType:     req.ConditionType,
		ConditionValue:    req.ConditionValue,
		ConditionCategory: req.ConditionCategory,
	})
	if err != nil {
		h.logger.Error("create achievement", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create achievement")
		return
	}
	writeJSON(w, http.StatusCreated, def)
}

func (h *AchievementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	def, err := h.achievements.GetByID(chi.URLParam(r, "achievementID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get achievement")
		return
	}
	if def == nil || def.FamilyID != auth.FamilyID(r.Context()) {
		writeError(w, http.StatusNotFound, "achievement not found")
		return
	}
	if err := h.achievements.Delete(def.ID); err != nil {
		h.logger.Error("delete achievement", "achievement_id", def.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete achievement")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AchievementHandler) Progress(w http.ResponseWriter, r *http.Request) {
	childID, ok := childParam(w, r)
	if !ok {
		return
	}
	progress, err := h.eng.AchievementProgress(auth.FamilyID(r.Context()), childID)
	if err != nil {
		writeEngineError(w, h.logger, err, "failed to load achievements")
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(progress))
}

func (h *AchievementHandler) Award(w http.ResponseWriter, r *http.Request) {
	isNew, err := h.eng.AwardAchievement(
		auth.FamilyID(r.Context()),
		chi.URLParam(r, "childID"),
		chi.URLParam(r, "achievementID"),
	)
	if err != nil {
		writeEngineError(w, h.logger, err, "failed to award achievement")
		return
	}
	status := http.StatusOK
	if isNew {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]bool{"unlocked": isNew})
}

package handler

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dukerupert/starcoin/internal/auth"
	"github.com/dukerupert/starcoin/internal/model"
	"github.com/dukerupert/starcoin/internal/recurrence"
	"github.com/dukerupert/starcoin/internal/store"
	"github.com/dukerupert/starcoin/internal/websocket"
)

type TaskHandler struct {
	tasks  *store.TaskStore
	hub    *websocket.Hub
	logger *slog.Logger
}

func NewTaskHandler(ts *store.TaskStore, hub *websocket.Hub, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{tasks: ts, hub: hub, logger: logger}
}

func (h *TaskHandler) broadcast(familyID string, msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(familyID, msg)
	}
}

type taskRequest struct {
	Title           string         `json:"title"`
	Icon            string         `json:"icon"`
	Category        model.Category `json:"category"`
	CoinReward      int            `json:"coin_reward"`
	XPReward        int            `json:"xp_reward"`
	DurationMinutes int            `json:"duration_minutes"`
	Schedule        model.Schedule `json:"schedule"`
	CustomDays      []int          `json:"custom_days"`
	ValidDate       string         `json:"valid_date"`
}

// apply validates req and copies it onto t. It returns a message for the
// client when req is invalid.
func (req taskRequest) apply(t *model.Task) string {
	t.Title = strings.TrimSpace(req.Title)
	if t.Title == "" {
		return "title is required"
	}
	if !req.Category.Valid() {
		return "invalid category"
	}
	if req.CoinReward < 0 || req.XPReward < 0 || req.DurationMinutes < 0 {
		return "rewards and duration must not be negative"
	}
	t.Icon = req.Icon
	t.Category = req.Category
	t.CoinReward = req.CoinReward
	t.XPReward = req.XPReward
	t.DurationMinutes = req.DurationMinutes
	t.Schedule = req.Schedule
	t.ValidDate = strings.TrimSpace(req.ValidDate)
	t.CustomDays = ""
	if req.Schedule == model.ScheduleCustom {
		days := make([]time.Weekday, 0, len(req.CustomDays))
		for _, d := range req.CustomDays {
			if d < 0 || d > 6 {
				return "custom_days must be weekdays 0-6"
			}
			days = append(days, time.Weekday(d))
		}
		t.CustomDays = recurrence.FormatDays(days)
	}
	if err := recurrence.Validate(*t); err != nil {
		return err.Error()
	}
	return ""
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	t := model.Task{FamilyID: auth.FamilyID(r.Context()), Enabled: true}
	if msg := req.apply(&t); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	task, err := h.tasks.Create(t)
	if err != nil {
		h.logger.Error("create task", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create task")
		return
	}

	h.broadcast(task.FamilyID, websocket.NewMessage("task", "created", task.ID, nil))
	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.ListEnabled(auth.FamilyID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(tasks))
}

func (h *TaskHandler) ListDeleted(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.ListDisabled(auth.FamilyID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list deleted tasks")
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(tasks))
}

// load fetches the task named in the URL and checks it belongs to the
// caller's family. It writes the error response itself.
func (h *TaskHandler) load(w http.ResponseWriter, r *http.Request) *model.Task {
	task, err := h.tasks.GetByID(chi.URLParam(r, "taskID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to get task")
		return nil
	}
	if task == nil || task.FamilyID != auth.FamilyID(r.Context()) {
		writeError(w, http.StatusNotFound, "task not found")
		return nil
	}
	return task
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	if task := h.load(w, r); task != nil {
		writeJSON(w, http.StatusOK, task)
	}
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing := h.load(w, r)
	if existing == nil {
		return
	}

	var req taskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.apply(existing); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	task, err := h.tasks.Update(*existing)
	if err != nil {
		h.logger.Error("update task", "task_id", existing.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update task")
		return
	}

	h.broadcast(task.FamilyID, websocket.NewMessage("task", "updated", task.ID, nil))
	writeJSON(w, http.StatusOK, task)
}

// Delete disables the task. Its entries and history are kept.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.setEnabled(w, r, false)
}

func (h *TaskHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.setEnabled(w, r, true)
}

func (h *TaskHandler) setEnabled(w http.ResponseWriter, r *http.Request, enabled bool) {
	task := h.load(w, r)
	if task == nil {
		return
	}
	if err := h.tasks.SetEnabled(task.ID, enabled); err != nil {
		h.logger.Error("set task enabled", "task_id", task.ID, "enabled", enabled, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update task")
		return
	}

	action := "deleted"
	if enabled {
		action = "restored"
	}
	h.broadcast(task.FamilyID, websocket.NewMessage("task", action, task.ID, nil))
	w.WriteHeader(http.StatusNoContent)
}

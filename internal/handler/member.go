package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dukerupert/starcoin/internal/auth"
	"github.com/dukerupert/starcoin/internal/engine"
	"github.com/dukerupert/starcoin/internal/model"
	"github.com/dukerupert/starcoin/internal/store"
)

type MemberHandler struct {
	eng     *engine.Engine
	members *store.MemberStore
	logger  *slog.Logger
}

func NewMemberHandler(eng *engine.Engine, ms *store.MemberStore, logger *slog.Logger) *MemberHandler {
	return &MemberHandler{eng: eng, members: ms, logger: logger}
}

func (h *MemberHandler) Me(w http.ResponseWriter, r *http.Request) {
	m, err := h.members.GetByID(auth.MemberID(r.Context()))
	if err != nil || m == nil {
		writeError(w, http.StatusInternalServerError, "failed to load member")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.members.ListByFamily(auth.FamilyID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list members")
		return
	}
	writeJSON(w, http.StatusOK, emptyIfNil(members))
}

type memberRequest struct {
	Name        string     `json:"name"`
	Role        model.Role `json:"role"`
	AvatarEmoji string     `json:"avatar_emoji"`
}

// Create adds a member. The response carries the member's token, which is
// not retrievable later.
func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Role == "" {
		req.Role = model.RoleChild
	}
	enr, err := h.eng.AddMember(auth.FamilyID(r.Context()), req.Name, req.Role, req.AvatarEmoji)
	if err != nil {
		writeEngineError(w, h.logger, err, "failed to create member")
		return
	}
	writeJSON(w, http.StatusCreated, enr)
}

func (h *MemberHandler) RotateToken(w http.ResponseWriter, r *http.Request) {
	m, err := h.members.GetByID(chi.URLParam(r, "memberID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load member")
		return
	}
	if m == nil || m.FamilyID != auth.FamilyID(r.Context()) {
		writeError(w, http.StatusNotFound, "member not found")
		return
	}
	token, err := h.eng.IssueToken(m.ID)
	if err != nil {
		h.logger.Error("rotate token", "member_id", m.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	m.HasToken = true
	writeJSON(w, http.StatusOK, engine.Enrollment{Member: m, Token: token})
}

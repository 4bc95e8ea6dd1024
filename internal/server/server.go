package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dukerupert/starcoin/internal/database"
	"github.com/dukerupert/starcoin/internal/engine"
	"github.com/dukerupert/starcoin/internal/handler"
	"github.com/dukerupert/starcoin/internal/middleware"
	"github.com/dukerupert/starcoin/internal/store"
	ws "github.com/dukerupert/starcoin/internal/websocket"
)

type Options struct {
	MetricsEnabled      bool
	MetricsPath         string
	SubmitRatePerMinute int
}

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	eng         *engine.Engine
	members     *store.MemberStore
	taskH       *handler.TaskHandler
	entryH      *handler.EntryHandler
	achieveH    *handler.AchievementHandler
	punishH     *handler.PunishmentHandler
	memberH     *handler.MemberHandler
	statsH      *handler.StatsHandler
	rateLimiter *middleware.RateLimiter
	opts        Options
	logger      *slog.Logger
}

func New(db *sql.DB, eng *engine.Engine, hub *ws.Hub, opts Options, logger *slog.Logger) *Server {
	memberStore := store.NewMemberStore(db)

	return &Server{
		db:          db,
		hub:         hub,
		eng:         eng,
		members:     memberStore,
		taskH:       handler.NewTaskHandler(store.NewTaskStore(db), hub, logger.With("component", "task")),
		entryH:      handler.NewEntryHandler(eng, logger.With("component", "entry")),
		achieveH:    handler.NewAchievementHandler(eng, store.NewAchievementStore(db), logger.With("component", "achievement")),
		punishH:     handler.NewPunishmentHandler(store.NewPunishmentStore(db), logger.With("component", "punishment")),
		memberH:     handler.NewMemberHandler(eng, memberStore, logger.With("component", "member")),
		statsH:      handler.NewStatsHandler(eng, logger.With("component", "stats")),
		rateLimiter: middleware.NewRateLimiter(nil),
		opts:        opts,
		logger:      logger,
	}
}

// RateLimiter returns the limiter so callers can prune it periodically.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(s.logger.With("component", "http")))
	r.Use(chimw.Recoverer)

	r.Get("/health", s.healthHandler)
	if s.opts.MetricsEnabled {
		r.Handle(s.opts.MetricsPath, promhttp.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(s.members))

		r.Get("/ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))
		r.Route("/api", s.apiRoutes)
	})

	return r
}

func (s *Server) apiRoutes(r chi.Router) {
	submitLimit := middleware.RateLimit(s.rateLimiter, middleware.MemberKey, s.opts.SubmitRatePerMinute, time.Minute)

	r.Get("/me", s.memberH.Me)
	r.Get("/members", s.memberH.List)
	r.Get("/tasks", s.taskH.List)
	r.Get("/tasks/{taskID}", s.taskH.Get)
	r.With(submitLimit).Post("/tasks/{taskID}/submit", s.entryH.Submit)
	r.Get("/achievements", s.achieveH.List)

	r.Route("/children/{childID}", func(r chi.Router) {
		r.Get("/day", s.entryH.Day)
		r.Get("/dashboard", s.entryH.Dashboard)
		r.Get("/achievements", s.achieveH.Progress)
		r.Get("/stats", s.statsH.Child)
		r.With(middleware.RequireParent).Post("/achievements/{achievementID}", s.achieveH.Award)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireParent)

		r.Post("/members", s.memberH.Create)
		r.Post("/members/{memberID}/token", s.memberH.RotateToken)

		r.Post("/tasks", s.taskH.Create)
		r.Get("/tasks/deleted", s.taskH.ListDeleted)
		r.Put("/tasks/{taskID}", s.taskH.Update)
		r.Delete("/tasks/{taskID}", s.taskH.Delete)
		r.Post("/tasks/{taskID}/restore", s.taskH.Restore)

		r.Get("/reviews", s.entryH.Pending)
		r.Post("/entries/{entryID}/preview", s.entryH.Preview)
		r.Post("/entries/{entryID}/approve", s.entryH.Approve)
		r.Post("/entries/{entryID}/reject", s.entryH.Reject)
		r.Post("/sweep", s.entryH.Sweep)

		r.Post("/achievements", s.achieveH.Create)
		r.Delete("/achievements/{achievementID}", s.achieveH.Delete)

		r.Get("/punishments/settings", s.punishH.Settings)
		r.Put("/punishments/settings", s.punishH.SaveSettings)
		r.Get("/punishments/records", s.punishH.Records)

		r.Get("/stats/family", s.statsH.Family)
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{"status": "ok"}
	code := http.StatusOK
	if err := s.db.PingContext(r.Context()); err != nil {
		status["status"] = "unavailable"
		code = http.StatusServiceUnavailable
	} else if v, err := database.Version(s.db); err == nil {
		status["schema_version"] = v
	}
	status["clients"] = s.hub.ClientCount()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status)
}

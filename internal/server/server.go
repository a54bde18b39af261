package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/navidakram1/splitduty/internal/archive"
	"github.com/navidakram1/splitduty/internal/assign"
	"github.com/navidakram1/splitduty/internal/handler"
	"github.com/navidakram1/splitduty/internal/middleware"
	"github.com/navidakram1/splitduty/internal/push"
	"github.com/navidakram1/splitduty/internal/store"
	ws "github.com/navidakram1/splitduty/internal/websocket"
)

// Assignments mutate per-household workload state; a runaway client retrying
// in a loop can skew every future score, so the assign route is rate-limited
// per household rather than per client IP.
const (
	assignLimit  = 30
	assignWindow = time.Minute
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	householdH  *handler.HouseholdHandler
	memberH     *handler.MemberHandler
	assignmentH *handler.AssignmentHandler
	settingsH   *handler.SettingsHandler
	pushH       *handler.PushHandler
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, archiveCfg archive.Config, pushCfg push.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	householdStore := store.NewHouseholdStore(db)
	memberStore := store.NewMemberStore(db)
	settingsStore := store.NewAssignmentSettingsStore(db)
	assignmentStore := store.NewAssignmentStore(db)
	pushStore := store.NewPushStore(db)

	engine := assign.NewEngine()
	service := assign.NewService(memberStore, settingsStore, assignmentStore, engine, logger.With("component", "assign"))

	exporter := archive.NewExporter(archiveCfg, memberStore, assignmentStore, logger.With("component", "archive"))

	var pushSvc *push.Service
	var notifier *push.Notifier
	var pushH *handler.PushHandler
	if pushCfg.VAPIDPublicKey != "" && pushCfg.VAPIDPrivateKey != "" {
		pushSvc = push.NewService(pushCfg.VAPIDPublicKey, pushCfg.VAPIDPrivateKey)
		notifier = push.NewNotifier(pushSvc, pushStore, logger.With("component", "push"))
		pushH = handler.NewPushHandler(pushStore, pushSvc, logger.With("component", "push_handler"))
	}

	return &Server{
		db:          db,
		hub:         hub,
		householdH:  handler.NewHouseholdHandler(householdStore, logger.With("component", "household")),
		memberH:     handler.NewMemberHandler(memberStore, householdStore, hub, logger.With("component", "member")),
		assignmentH: handler.NewAssignmentHandler(service, memberStore, assignmentStore, exporter, notifier, hub, logger.With("component", "assignment")),
		settingsH:   handler.NewSettingsHandler(settingsStore, hub, logger.With("component", "settings")),
		pushH:       pushH,
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter so callers can run periodic cleanup.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))

	// Household routes
	mux.HandleFunc("POST /api/households", s.householdH.Create)
	mux.HandleFunc("GET /api/households", s.householdH.List)
	mux.HandleFunc("GET /api/households/{id}", s.householdH.Get)
	mux.HandleFunc("DELETE /api/households/{id}", s.householdH.Delete)

	// Member routes
	mux.HandleFunc("GET /api/households/{id}/members", s.memberH.List)
	mux.HandleFunc("POST /api/households/{id}/members", s.memberH.Create)
	mux.HandleFunc("PUT /api/members/{id}", s.memberH.Update)
	mux.HandleFunc("DELETE /api/members/{id}", s.memberH.Delete)
	mux.HandleFunc("POST /api/members/{id}/complete", s.memberH.Complete)

	// Assignment settings
	mux.HandleFunc("GET /api/households/{id}/settings", s.settingsH.Get)
	mux.HandleFunc("PUT /api/households/{id}/settings", s.settingsH.Update)

	// Assignment routes
	mux.HandleFunc("POST /api/households/{id}/assignments", s.rateLimitedByHousehold(s.assignmentH.Assign))
	mux.HandleFunc("POST /api/households/{id}/assignments/preview", s.assignmentH.Preview)
	mux.HandleFunc("GET /api/households/{id}/assignments", s.assignmentH.ListHistory)
	mux.HandleFunc("GET /api/households/{id}/fairness", s.assignmentH.Fairness)
	mux.HandleFunc("POST /api/households/{id}/archive", s.assignmentH.Archive)

	// Push notification routes
	if s.pushH != nil {
		mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
		mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.GetVAPIDKey)
	}

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedByHousehold(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return "assign:" + r.PathValue("id")
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, assignLimit, assignWindow)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

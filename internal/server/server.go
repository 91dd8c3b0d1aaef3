package server

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/harroway/housemate/internal/auth"
	"github.com/harroway/housemate/internal/backup"
	"github.com/harroway/housemate/internal/email"
	"github.com/harroway/housemate/internal/handler"
	"github.com/harroway/housemate/internal/logging"
	"github.com/harroway/housemate/internal/metrics"
	"github.com/harroway/housemate/internal/middleware"
	"github.com/harroway/housemate/internal/push"
	"github.com/harroway/housemate/internal/store"
	ws "github.com/harroway/housemate/internal/websocket"
)

// Config holds the pieces the server wires together beyond its stores.
type Config struct {
	JWTSecret       string
	AvatarDir       string
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubscriber string
	Backup          backup.Config
}

type Server struct {
	db  *sql.DB
	hub *ws.Hub

	authH     *handler.AuthHandler
	taskH     *handler.TaskHandler
	houseH    *handler.HouseHandler
	billH     *handler.BillHandler
	scheduleH *handler.ScheduleHandler
	userH     *handler.UserHandler
	pushH     *handler.PushHandler
	backupH   *handler.BackupHandler

	issuer        *auth.TokenIssuer
	rateLimiter   *middleware.RateLimiter
	pushScheduler *push.Scheduler
	backupManager *backup.Manager
	avatarDir     string
	logger        *slog.Logger
}

func New(db *sql.DB, cfg Config, mailer *email.Client, logger *slog.Logger) *Server {
	hub := ws.NewHub(logging.Component(logger, "websocket"))
	issuer := auth.NewTokenIssuer(cfg.JWTSecret)

	userStore := store.NewUserStore(db)
	houseStore := store.NewHouseStore(db)
	taskStore := store.NewTaskStore(db, logging.Component(logger, "task_store"))
	billStore := store.NewBillStore(db)
	scheduleStore := store.NewScheduleStore(db)
	pushStore := store.NewPushStore(db)
	backupStore := store.NewBackupStore(db)

	backupMgr := backup.NewManager(cfg.Backup, db, backupStore, logging.Component(logger, "backup"))

	var pushSvc *push.Service
	var pushSched *push.Scheduler
	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		pushSvc = push.NewService(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.VAPIDSubscriber)
		pushSched = push.NewScheduler(pushSvc, pushStore, taskStore, billStore, logging.Component(logger, "push"))
	}

	return &Server{
		db:            db,
		hub:           hub,
		authH:         handler.NewAuthHandler(userStore, issuer, logging.Component(logger, "auth")),
		taskH:         handler.NewTaskHandler(taskStore, userStore, hub, logging.Component(logger, "task")),
		houseH:        handler.NewHouseHandler(houseStore, userStore, taskStore, mailer, hub, logging.Component(logger, "house")),
		billH:         handler.NewBillHandler(billStore, hub, logging.Component(logger, "bill")),
		scheduleH:     handler.NewScheduleHandler(scheduleStore, hub, logging.Component(logger, "schedule")),
		userH:         handler.NewUserHandler(userStore, cfg.AvatarDir, logging.Component(logger, "user")),
		pushH:         handler.NewPushHandler(pushStore, pushSvc, logging.Component(logger, "push_handler")),
		backupH:       handler.NewBackupHandler(backupMgr, backupStore, houseStore, logging.Component(logger, "backup_handler")),
		issuer:        issuer,
		rateLimiter:   middleware.NewRateLimiter(),
		pushScheduler: pushSched,
		backupManager: backupMgr,
		avatarDir:     cfg.AvatarDir,
		logger:        logger,
	}
}

// PushScheduler returns the reminder scheduler, nil when VAPID keys are not
// configured.
func (s *Server) PushScheduler() *push.Scheduler {
	return s.pushScheduler
}

// BackupManager returns the backup manager.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

// RateLimiter returns the login rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /login", s.rateLimited(s.authH.Login))
	mux.HandleFunc("POST /register", s.rateLimited(s.authH.Register))
	mux.HandleFunc("GET /health", s.health)
	mux.Handle("GET /metrics", metrics.Handler())
	mux.Handle("GET /avatars/", http.StripPrefix("/avatars/", http.FileServer(http.Dir(s.avatarDir))))

	protected := http.NewServeMux()
	s.registerAPIRoutes(protected)
	protected.HandleFunc("GET /ws", ws.Handler(s.hub, logging.Component(s.logger, "websocket")))

	requireAuth := middleware.RequireAuth(s.issuer)
	mux.Handle("/api/", requireAuth(protected))
	mux.Handle("/ws", requireAuth(protected))

	chain := middleware.RequestLogger(logging.Component(s.logger, "http"))(mux)
	return middleware.Metrics(mux)(chain)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) rateLimited(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.RealIP, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(h).ServeHTTP(w, r)
	}
}

func (s *Server) registerAPIRoutes(mux *http.ServeMux) {
	// Houses
	mux.HandleFunc("POST /api/houses", s.houseH.Create)
	mux.HandleFunc("GET /api/houses/{id}", s.houseH.Get)
	mux.HandleFunc("PUT /api/houses/{id}", s.houseH.Update)
	mux.HandleFunc("DELETE /api/houses/{id}", s.houseH.Delete)
	mux.HandleFunc("GET /api/houses/{id}/users", s.houseH.Users)
	mux.HandleFunc("GET /api/houses/{id}/activities", s.houseH.Activities)
	mux.HandleFunc("POST /api/houses/{id}/invite", s.houseH.Invite)

	// Tasks
	mux.HandleFunc("POST /api/tasks", s.taskH.Create)
	mux.HandleFunc("GET /api/tasks", s.taskH.List)
	mux.HandleFunc("GET /api/tasks/{id}", s.taskH.Get)
	mux.HandleFunc("PUT /api/tasks/{id}", s.taskH.Update)
	mux.HandleFunc("DELETE /api/tasks/{id}", s.taskH.Delete)
	mux.HandleFunc("GET /api/tasks/{id}/history", s.taskH.History)

	// Bills
	mux.HandleFunc("POST /api/bills", s.billH.Create)
	mux.HandleFunc("GET /api/bills", s.billH.List)
	mux.HandleFunc("GET /api/bills/{id}", s.billH.Get)
	mux.HandleFunc("PUT /api/bills/{id}", s.billH.Update)
	mux.HandleFunc("DELETE /api/bills/{id}", s.billH.Delete)
	mux.HandleFunc("POST /api/bills/{id}/payments", s.billH.RecordPayment)
	mux.HandleFunc("GET /api/bills/{id}/payments", s.billH.ListPayments)

	// Schedule
	mux.HandleFunc("POST /api/schedule", s.scheduleH.Create)
	mux.HandleFunc("GET /api/schedule", s.scheduleH.List)
	mux.HandleFunc("GET /api/schedule/{id}", s.scheduleH.Get)
	mux.HandleFunc("PUT /api/schedule/{id}", s.scheduleH.Update)
	mux.HandleFunc("DELETE /api/schedule/{id}", s.scheduleH.Delete)

	// User profiles, one endpoint per editable field
	mux.HandleFunc("GET /api/users/{id}", s.userH.Get)
	mux.HandleFunc("PUT /api/users/{id}/bio", s.userH.UpdateBio)
	mux.HandleFunc("PUT /api/users/{id}/name", s.userH.UpdateName)
	mux.HandleFunc("PUT /api/users/{id}/email", s.userH.UpdateEmail)
	mux.HandleFunc("PUT /api/users/{id}/phone", s.userH.UpdatePhone)
	mux.HandleFunc("PUT /api/users/{id}/preferred_contact", s.userH.UpdatePreferredContact)
	mux.HandleFunc("PUT /api/users/{id}/privacy", s.userH.UpdatePrivacy)
	mux.HandleFunc("PUT /api/users/{id}/avatar", s.userH.UpdateAvatar)

	// Push notifications
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)
	mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)

	// Backups
	mux.HandleFunc("POST /api/backup/run", s.backupH.Run)
	mux.HandleFunc("GET /api/backup/history", s.backupH.History)
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	gormstore "github.com/gin-contrib/sessions/gorm"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/yukikurage/staff-management-api/internal/config"
	"github.com/yukikurage/staff-management-api/internal/constants"
	"github.com/yukikurage/staff-management-api/internal/database"
	"github.com/yukikurage/staff-management-api/internal/live"
	"github.com/yukikurage/staff-management-api/internal/logging"
	"github.com/yukikurage/staff-management-api/internal/mailer"
	"github.com/yukikurage/staff-management-api/internal/outbox"
	"github.com/yukikurage/staff-management-api/internal/repository"
	"github.com/yukikurage/staff-management-api/internal/server"
	"github.com/yukikurage/staff-management-api/internal/services"
	"github.com/yukikurage/staff-management-api/internal/storage"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.Setup(cfg.App.LogLevel, cfg.App.LogFormat)
	gin.SetMode(cfg.App.GinMode)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if cfg.DBMigrateOnStart() {
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	uploader := storage.NewUploader(store, cfg.MaxUploadBytes(), constants.UploadsRoute)

	sessionStore, err := newSessionStore(cfg, db)
	if err != nil {
		log.Fatalf("Failed to create session store: %v", err)
	}

	// Post-commit side effects
	ob := outbox.New(cfg.Outbox.Workers, cfg.Outbox.QueueSize)
	ob.Start(ctx)
	broadcaster := live.NewBroadcaster()
	mail := mailer.New(mailer.Config{
		Host:       cfg.Smtp.Host,
		Port:       cfg.Smtp.Port,
		User:       cfg.Smtp.User,
		Password:   cfg.Smtp.Password,
		From:       cfg.Smtp.From,
		TLSEnabled: cfg.SmtpTLS(),
	})
	notifier := services.NewNotifier(ob, mail, broadcaster, cfg.App.PublicURL)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	requestRepo := repository.NewAccessRequestRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	reportRepo := repository.NewWorkReportRepository(db)

	// Initialize AI service
	var drafter services.TaskDrafter
	if cfg.OpenAI.APIKey != "" {
		drafter = services.NewAIService(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	} else {
		log.Warn("OPENAI_API_KEY is not set, task generation is disabled")
	}

	authService := services.NewAuthService(userRepo)
	if cfg.Admin.Username != "" {
		created, err := authService.EnsureAdmin(services.AdminSeed{
			Username: cfg.Admin.Username,
			Password: cfg.Admin.Password,
			Email:    cfg.Admin.Email,
			Name:     cfg.Admin.Name,
		})
		if err != nil {
			log.Fatalf("Failed to seed admin: %v", err)
		}
		if created {
			log.WithField("username", cfg.Admin.Username).Info("Created initial admin account")
		}
	}

	loc := cfg.Location()
	router := server.NewRouter(server.Deps{
		DB:           db,
		Logger:       logger,
		SessionName:  cfg.Session.Name,
		SessionStore: sessionStore,
		SessionAge:   cfg.SessionMaxAge(),
		WebRoot:      cfg.App.WebRoot,

		Store:       store,
		Uploader:    uploader,
		Broadcaster: broadcaster,

		Auth:           authService,
		AccessRequests: services.NewAccessRequestService(userRepo, requestRepo, notifier),
		Users:          services.NewUserService(userRepo, roleRepo, uploader),
		Roles:          services.NewRoleService(roleRepo),
		Messages:       services.NewMessageService(messageRepo, uploader, notifier),
		Tasks:          services.NewTaskService(taskRepo, userRepo, notifier, drafter),
		Attendance:     services.NewAttendanceService(attendanceRepo, loc),
		Reports:        services.NewReportService(reportRepo, userRepo, notifier, loc),
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}

	ob.Close()
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("Server stopped")
}

// newSessionStore picks the session backend named by Session.Store.
func newSessionStore(cfg *config.Config, db *gorm.DB) (sessions.Store, error) {
	secret := []byte(cfg.Session.Secret)

	var store sessions.Store
	switch cfg.Session.Store {
	case "redis":
		redisAddr := cfg.Session.RedisHost + ":" + cfg.Session.RedisPort
		rs, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // username (empty for default user)
			cfg.Session.RedisPassword,
			secret,
		)
		if err != nil {
			return nil, err
		}
		store = rs
	case "cookie":
		store = cookie.NewStore(secret)
	default:
		store = gormstore.NewStore(db, true, secret)
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.SessionMaxAge().Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure(),
		SameSite: http.SameSiteLaxMode,
	})
	log.WithField("store", cfg.Session.Store).Info("Session store ready")
	return store, nil
}

// newStore picks the media backend named by Storage.Driver.
func newStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.Storage.Driver == "s3" {
		return storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretKey,
			BucketName:      cfg.Storage.BucketName,
			UseSSL:          cfg.S3UseSSL(),
		})
	}
	return storage.NewLocalStore(cfg.Storage.UploadDir)
}

package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/yukikurage/staff-management-api/internal/constants"
	"github.com/yukikurage/staff-management-api/internal/database"
	apierrors "github.com/yukikurage/staff-management-api/internal/errors"
	"github.com/yukikurage/staff-management-api/internal/handlers"
	"github.com/yukikurage/staff-management-api/internal/live"
	"github.com/yukikurage/staff-management-api/internal/middleware"
	"github.com/yukikurage/staff-management-api/internal/services"
	"github.com/yukikurage/staff-management-api/internal/storage"
	"gorm.io/gorm"
)

// Deps holds everything the HTTP layer is built from.
type Deps struct {
	DB           *gorm.DB
	Logger       *log.Logger
	SessionName  string
	SessionStore sessions.Store
	SessionAge   time.Duration
	WebRoot      string

	Store       storage.Store
	Uploader    *storage.Uploader
	Broadcaster *live.Broadcaster

	Auth           *services.AuthService
	AccessRequests *services.AccessRequestService
	Users          *services.UserService
	Roles          *services.RoleService
	Messages       *services.MessageService
	Tasks          *services.TaskService
	Attendance     *services.AttendanceService
	Reports        *services.ReportService
}

// NewRouter wires every route of the API, the websocket and the web client.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if d.Logger != nil {
		r.Use(middleware.RequestLogger(d.Logger))
	}
	r.MaxMultipartMemory = d.Uploader.MaxBytes() + 1<<20

	sessionName := d.SessionName
	if sessionName == "" {
		sessionName = constants.SessionCookieName
	}
	r.Use(sessions.Sessions(sessionName, d.SessionStore))

	authHandler := handlers.NewAuthHandler(d.Auth)
	accessHandler := handlers.NewAccessRequestHandler(d.AccessRequests)
	userHandler := handlers.NewUserHandler(d.Users, d.Uploader)
	roleHandler := handlers.NewRoleHandler(d.Roles)
	messageHandler := handlers.NewMessageHandler(d.Messages, d.Uploader)
	taskHandler := handlers.NewTaskHandler(d.Tasks)
	attendanceHandler := handlers.NewAttendanceHandler(d.Attendance)
	reportHandler := handlers.NewReportHandler(d.Reports)
	uploadHandler := handlers.NewUploadHandler(d.Store)

	requireAuth := middleware.RequireAuth(d.Auth, d.SessionAge)
	requireAdmin := middleware.RequireAdmin()

	r.GET("/health", func(c *gin.Context) {
		if err := database.Ping(d.DB); err != nil {
			log.WithError(err).Error("Health check failed")
			apierrors.ServiceUnavailable(c, "Database is unreachable")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Staff Management API is running",
		})
	})

	r.GET(constants.UploadsRoute+"/:name", uploadHandler.Serve)
	r.GET("/ws", requireAuth, live.Handler(d.Broadcaster))

	api := r.Group("/api")
	{
		// Public routes
		api.POST("/login", authHandler.Login)
		api.POST("/access-requests", accessHandler.CreateAccessRequest)

		authed := api.Group("")
		authed.Use(requireAuth)
		{
			authed.POST("/logout", authHandler.Logout)
			authed.GET("/user", authHandler.GetCurrentUser)
			authed.PATCH("/user/profile", userHandler.UpdateProfile)
			authed.POST("/user/change-password", userHandler.ChangePassword)
			authed.GET("/users", userHandler.ListUsers)
			authed.PATCH("/users/:id/role", requireAdmin, userHandler.UpdateUserRole)

			accessRequests := authed.Group("/access-requests", requireAdmin)
			{
				accessRequests.GET("", accessHandler.ListAccessRequests)
				accessRequests.POST("/:id/approve", accessHandler.ApproveAccessRequest)
				accessRequests.POST("/:id/reject", accessHandler.RejectAccessRequest)
			}

			roles := authed.Group("/roles")
			{
				roles.GET("", roleHandler.ListRoles)
				roles.POST("", requireAdmin, roleHandler.CreateRole)
				roles.DELETE("/:id", requireAdmin, roleHandler.DeleteRole)
			}

			messages := authed.Group("/messages")
			{
				messages.GET("", messageHandler.ListMessages)
				messages.GET("/unread-count", messageHandler.UnreadCount)
				messages.POST("", messageHandler.CreateMessage)
				messages.DELETE("/:id", messageHandler.DeleteMessage)
			}

			tasks := authed.Group("/tasks")
			{
				tasks.GET("", taskHandler.ListTasks)
				tasks.GET("/my", taskHandler.ListMyTasks)
				tasks.POST("", requireAdmin, taskHandler.CreateTask)
				tasks.POST("/generate", requireAdmin, taskHandler.GenerateTasks)
				tasks.GET("/:id", middleware.RequireTaskAccess(d.Tasks), taskHandler.GetTask)
				tasks.PATCH("/:id", middleware.RequireTaskAccess(d.Tasks), taskHandler.UpdateTask)
			}

			attendance := authed.Group("/attendance")
			{
				attendance.GET("", attendanceHandler.ListAttendance)
				attendance.GET("/today", attendanceHandler.Today)
				attendance.POST("/clock-in", attendanceHandler.ClockIn)
				attendance.POST("/clock-out", attendanceHandler.ClockOut)
				attendance.GET("/export", requireAdmin, attendanceHandler.Export)
			}

			reports := authed.Group("/reports")
			{
				reports.GET("", reportHandler.ListReports)
				reports.POST("", reportHandler.CreateReport)
				reports.GET("/:id", reportHandler.GetReport)
				reports.GET("/:id/pdf", reportHandler.ReportPDF)
				reports.PATCH("/:id/status", requireAdmin, reportHandler.UpdateReportStatus)
			}
		}
	}

	r.NoRoute(spaFallback(d.WebRoot))

	return r
}

// spaFallback serves built web client files and falls back to index.html so
// client-side routes survive a reload. Unknown API paths stay JSON 404s.
func spaFallback(webRoot string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") || path == "/api" || webRoot == "" ||
			(c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			apierrors.NotFound(c, "Route not found")
			return
		}

		file := filepath.Join(webRoot, filepath.FromSlash(filepath.Clean("/"+path)))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}

		index := filepath.Join(webRoot, "index.html")
		if _, err := os.Stat(index); err != nil {
			apierrors.NotFound(c, "Route not found")
			return
		}
		c.File(index)
	}
}

package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobx/internal/auth"
	"github.com/justsurfingit/jobx/internal/middleware"
	"github.com/justsurfingit/jobx/internal/models"
	"github.com/justsurfingit/jobx/internal/ratelimit"
	"github.com/justsurfingit/jobx/internal/realtime"
	"github.com/justsurfingit/jobx/internal/services"
	"github.com/justsurfingit/jobx/internal/storage"
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	Auth          *services.AuthService
	Companies     *services.CompanyService
	Postings      *services.PostingService
	Drafts        *services.DraftExtractor
	Applications  *services.ApplicationService
	Chat          *services.ChatService
	CVs           *services.CVService
	Notifications *services.NotificationService
	Socket        *realtime.Server

	Tokens       *auth.TokenIssuer
	Files        *storage.Local
	LoginLimiter ratelimit.Limiter
	DB           Pinger
	CookieSecure bool
	Log          *slog.Logger
}

// Register mounts the API under /api and the uploads under /uploads.
func Register(r *gin.Engine, d Deps) {
	if d.LoginLimiter == nil {
		d.LoginLimiter = ratelimit.NoopLimiter{}
	}
	authH := NewAuthHandler(d.Auth, d.Files, d.CookieSecure, d.Log)
	companyH := NewCompanyHandler(d.Companies, d.Files, d.Log)
	postingH := NewPostingHandler(d.Postings, d.Drafts, d.Files, d.Log)
	applicationH := NewApplicationHandler(d.Applications, d.Files, d.Log)
	cvH := NewCVHandler(d.CVs, d.Files, d.Log)
	chatH := NewChatHandler(d.Chat, d.Socket, d.Log)
	noticeH := NewNotificationHandler(d.Notifications, d.Log)

	r.Static(storage.PublicPrefix, d.Files.Dir())

	api := r.Group("/api")
	api.GET("/health", HealthCheck(d.DB))

	authenticated := middleware.Authenticate(d.Tokens)
	admin := middleware.RequireRole(models.RoleAdmin)
	employer := middleware.RequireRole(models.RoleEmployer)
	seeker := middleware.RequireRole(models.RoleUser)

	a := api.Group("/auth")
	{
		a.POST("/register", authH.Register)
		a.POST("/verify-email", authH.VerifyEmail)
		a.POST("/login", middleware.RateLimit(d.LoginLimiter, middleware.ClientIP), authH.Login)
		a.POST("/logout", authH.Logout)
		a.GET("/profile", authenticated, authH.Profile)
		a.PUT("/profile", authenticated, authH.UpdateProfile)
		a.POST("/change-password", authenticated, authH.ChangePassword)
		a.GET("/users", authenticated, admin, authH.ListUsers)
		a.GET("/stats/users", authenticated, admin, authH.UserStats)
		a.PUT("/update-role", authenticated, admin, authH.UpdateRole)
	}

	c := api.Group("/companies")
	{
		c.GET("/all", companyH.ListApproved)
		c.POST("/create", authenticated, companyH.Create)
		c.GET("", authenticated, companyH.Mine)
		c.PUT("/edit", authenticated, companyH.Edit)
		c.DELETE("/delete", authenticated, companyH.Delete)
		c.POST("/approve", authenticated, admin, companyH.Approve)
		c.GET("/:id", companyH.Get)
	}

	w := api.Group("/works")
	{
		w.POST("/create", authenticated, employer, postingH.Create)
		w.POST("/extract", authenticated, employer, postingH.ExtractDraft)
		w.GET("", authenticated, postingH.List)
		w.GET("/company/:company_id", postingH.ListByCompany)
		w.GET("/:id", postingH.Get)
		w.PUT("/:id", authenticated, employer, postingH.Edit)
		w.DELETE("/:id", authenticated, employer, postingH.Delete)
	}

	ap := api.Group("/applications", authenticated)
	{
		ap.POST("", seeker, applicationH.Apply)
		ap.GET("", applicationH.Mine)
		ap.GET("/employer", employer, applicationH.ForEmployer)
		ap.PATCH("/status/:id", employer, applicationH.UpdateStatus)
		ap.PUT("/:id", applicationH.Edit)
		ap.DELETE("/:id", applicationH.Delete)
	}

	cv := api.Group("/cv", authenticated)
	{
		cv.GET("/my-cv", cvH.Mine)
		cv.POST("/create", cvH.Create)
		cv.PUT("/update", cvH.Update)
		cv.DELETE("/delete", cvH.Delete)
	}

	ch := api.Group("/chat", authenticated)
	{
		ch.GET("/history/:postingId", chatH.History)
		ch.GET("/employer", employer, chatH.Conversations)
		ch.GET("/user", seeker, chatH.Conversations)
		ch.DELETE("/message/:id", chatH.DeleteMessage)
	}

	api.GET("/notifications", authenticated, noticeH.List)
	api.POST("/notifications/read", authenticated, noticeH.MarkRead)
	api.GET("/socket", authenticated, chatH.Socket)
}

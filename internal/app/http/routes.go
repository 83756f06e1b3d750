package routes

import (
	"net/http"
	"strings"

	"thangka-gallery/config"
	adminapi "thangka-gallery/internal/api/admin"
	artistapi "thangka-gallery/internal/api/artist"
	authapi "thangka-gallery/internal/api/auth"
	contactapi "thangka-gallery/internal/api/contact"
	notificationsapi "thangka-gallery/internal/api/notifications"
	socialapi "thangka-gallery/internal/api/social"
	userapi "thangka-gallery/internal/api/users"
	worksapi "thangka-gallery/internal/api/works"
	"thangka-gallery/internal/app/http/middleware"
	"thangka-gallery/internal/domain/users"
	"thangka-gallery/internal/infra/storage"
	"thangka-gallery/internal/logging"
	"thangka-gallery/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Deps are the optional collaborators of the router. A nil Redis disables the
// submit quota; Store is only consulted to serve local media.
type Deps struct {
	Redis middleware.RateCounter
	Store storage.Store
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	r.Use(logging.Middleware(), metrics.GinMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	// ✅ uploaded files when they live on local disk
	if local, ok := deps.Store.(*storage.Local); ok {
		r.Static(mediaPrefix(config.App.Storage.MediaURL), local.Dir())
	}

	app := r.Group("/")
	app.Use(middleware.LoadSession(), middleware.SanitizeAndCleanInputMiddleware())

	submitQuota := func(scope string) gin.HandlerFunc {
		return middleware.RequireSubmitQuota(deps.Redis, scope, config.App.SubmitLimit, config.App.SubmitWindow)
	}

	// Public pages
	app.GET("/", worksapi.Home)
	app.GET("/gallery/", worksapi.Gallery)
	app.GET("/gallery/json/", worksapi.GalleryJSON)
	app.GET("/artwork/:id/", worksapi.ArtworkDetail)
	app.GET("/artist/artworks_json/", artistapi.ArtworksJSON)

	app.GET("/contact/", contactapi.Page)
	app.POST("/contact/", submitQuota("contact"), contactapi.Submit)

	app.GET("/register/", authapi.RegisterPage)
	app.POST("/register/", submitQuota("register"), authapi.Register)
	app.GET("/login/", authapi.LoginPage)
	app.POST("/login/", authapi.Login)
	app.GET("/logout/", authapi.Logout)

	app.POST("/password-reset/", submitQuota("password-reset"), authapi.RequestPasswordReset)
	app.POST("/password-reset/confirm/", authapi.ResetPassword)

	app.GET("/auth/google", authapi.GoogleStart)
	app.GET("/auth/google/callback", authapi.GoogleCallback)

	// Pages that send anonymous visitors to /login/
	pages := app.Group("/")
	pages.Use(middleware.LoginRequired())
	pages.GET("/upload/", artistapi.UploadPage)
	pages.POST("/upload/", artistapi.Upload)
	pages.GET("/profile/", artistapi.Profile)
	pages.GET("/artist/", artistapi.Dashboard)
	pages.POST("/artist/", artistapi.DashboardUpload)
	pages.GET("/chat/", socialapi.Chat)
	pages.POST("/chat/", socialapi.SendChat)
	pages.GET("/notifications/", notificationsapi.List)

	// Authenticated JSON endpoints
	auth := app.Group("/")
	auth.Use(middleware.AuthMiddleware())
	auth.POST("/notifications/:id/read/", notificationsapi.MarkRead)
	auth.POST("/notifications/clear/", notificationsapi.Clear)
	auth.POST("/artwork/:id/reviews/", worksapi.CreateReview)
	auth.DELETE("/artwork/:id/", worksapi.DeleteArtwork)
	auth.POST("/artwork/:id/feature/", middleware.RequireRole(users.RoleAdmin), adminapi.FeatureArtwork)

	limiter := middleware.NewToggleLimiter(config.App.ToggleRate, config.App.ToggleBurst)
	api := app.Group("/api")
	api.Use(middleware.AuthMiddleware())
	api.POST("/toggle_like/", limiter.Middleware(), socialapi.ToggleLike)
	api.POST("/toggle_bookmark/", limiter.Middleware(), socialapi.ToggleBookmark)
	api.POST("/toggle_follow/", limiter.Middleware(), socialapi.ToggleFollow)
	api.GET("/me/", userapi.GetCurrentUser)
	api.POST("/me/artist/", userapi.UpdateArtistProfile)
	api.GET("/notifications/unread_count/", notificationsapi.UnreadCount)

	// Admin routes
	admin := app.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.RequireRole(users.RoleAdmin))
	admin.GET("/dashboard", adminapi.AdminDashboard)
	admin.GET("/users", adminapi.ListAllUsers)
	admin.GET("/stats", adminapi.GetAdminStats)
	admin.GET("/contact", adminapi.ListContactMessages)
	admin.POST("/contact/:id/read", adminapi.MarkContactRead)
}

// mediaPrefix turns a media URL ("/media", "http://host/media/") into the
// path gin serves it under.
func mediaPrefix(mediaURL string) string {
	p := mediaURL
	if i := strings.Index(p, "://"); i >= 0 {
		p = p[i+3:]
		if j := strings.Index(p, "/"); j >= 0 {
			p = p[j:]
		} else {
			p = "/"
		}
	}
	p = "/" + strings.Trim(p, "/")
	if p == "/" {
		return "/media"
	}
	return p
}

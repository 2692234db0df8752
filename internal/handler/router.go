package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/passiton/backend/internal/ratelimit"
)

const (
	loginAttempts  = 5
	loginWindow    = 15 * time.Minute
	signupAttempts = 3
	signupWindow   = time.Hour
)

type Handlers struct {
	Auth          *AuthHandler
	Products      *ProductHandler
	Opportunities *OpportunityHandler
	Colleges      *CollegeHandler
	Admin         *AdminHandler
	Uploads       *UploadHandler
	Health        *HealthHandler
	Pages         *PageHandler
}

type RouterOptions struct {
	Resolver       IdentityResolver
	Counter        ratelimit.Counter
	AllowedOrigins []string
	// TrustedProxies are the only peers whose X-Forwarded-For is honoured.
	TrustedProxies []string
	Log            *slog.Logger
}

func NewRouter(h Handlers, opts RouterOptions) *gin.Engine {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	counter := opts.Counter
	if counter == nil {
		counter = ratelimit.Disabled{}
	}

	router := gin.New()
	if err := router.SetTrustedProxies(trustedProxies(opts.TrustedProxies)); err != nil {
		log.Error("invalid trusted proxies, using the socket address for client IP",
			slog.Any("proxies", opts.TrustedProxies),
			slog.Any("error", err),
		)
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))
	router.Use(CORSMiddleware(opts.AllowedOrigins, true))
	router.Use(Gate(opts.Resolver, log))

	router.GET("/ping", h.Health.Ping)
	router.GET("/readyz", h.Health.Ready)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.POST("/login",
			RateLimit(counter, loginAttempts, loginWindow, "Too many login attempts. Please try again later.", log),
			h.Auth.Login)
		auth.POST("/signup",
			RateLimit(counter, signupAttempts, signupWindow, "Too many signup attempts. Please try again later.", log),
			h.Auth.Signup)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", h.Auth.Me)

		api.POST("/products", h.Products.Create)
		api.GET("/products/category/:category", h.Products.ByCategory)
		api.GET("/products/:id", h.Products.Get)
		api.DELETE("/products/:id", h.Products.Delete)
		api.PATCH("/products/:id/sold", h.Products.SetSold)
		api.GET("/search", h.Products.Search)

		api.POST("/opportunities", h.Opportunities.Create)
		api.GET("/opportunities/public", h.Opportunities.Public)
		api.DELETE("/opportunities/:id", h.Opportunities.Delete)

		dashboard := api.Group("/dashboard")
		dashboard.GET("/products", h.Products.Mine)
		dashboard.GET("/opportunities", h.Opportunities.Mine)
		dashboard.POST("/toggle-opportunity-status", h.Opportunities.Toggle)

		api.GET("/colleges", h.Colleges.Search)
		api.POST("/colleges", h.Colleges.Add)

		api.POST("/uploads/presign", h.Uploads.Presign)

		admin := api.Group("/admin")
		admin.GET("/stats", h.Admin.Stats)
		admin.GET("/users", h.Admin.ListUsers)
		admin.PATCH("/users", h.Admin.UpdateUser)
		admin.GET("/users/:userId", h.Admin.UserDetail)
		admin.PATCH("/users/:userId", h.Admin.SetVerified)
		admin.DELETE("/users/:userId", h.Admin.DeleteUserContent)
		admin.GET("/opportunities", h.Admin.ListOpportunities)
		admin.PATCH("/opportunities", h.Admin.UpdateOpportunity)
		admin.DELETE("/opportunities/:id", h.Admin.DeleteOpportunity)
		admin.PATCH("/colleges/:id", h.Colleges.Verify)
	}

	router.Static("/static", h.Pages.StaticDir())
	for _, route := range PageRoutes {
		router.GET(route, h.Pages.Shell)
	}

	return router
}

func trustedProxies(proxies []string) []string {
	if len(proxies) == 0 {
		return nil
	}
	return proxies
}

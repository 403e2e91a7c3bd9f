package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/ridewise/ridewise/internal/api/auth"
	"github.com/ridewise/ridewise/internal/api/handler"
	"github.com/ridewise/ridewise/internal/config"
	"github.com/ridewise/ridewise/internal/database"
	"github.com/ridewise/ridewise/internal/engine"
	"github.com/ridewise/ridewise/internal/gravatar"
)

// SessionName is the name of the session cookie.
const SessionName = "ridewise_session"

type Server struct {
	cfg          *config.Config
	ginEngine    *gin.Engine
	engine       *engine.Engine
	db           database.DB
	authProvider *auth.MultiProvider
	httpServer   *http.Server
}

func New(ctx context.Context, cfg *config.Config, db database.DB, e *engine.Engine, debug bool) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	authProvider, err := auth.NewProvider(ctx, cfg, db, gravatar.New(cfg.Gravatar))
	if err != nil {
		return nil, fmt.Errorf("failed to create auth provider: %w", err)
	}

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	ginEngine := gin.New()
	ginEngine.Use(gin.Recovery(), requestLogger())

	s := &Server{
		cfg:          cfg,
		ginEngine:    ginEngine,
		engine:       e,
		db:           db,
		authProvider: authProvider,
	}
	s.setupSession()
	s.ginEngine.Use(gzip.Gzip(gzip.DefaultCompression))
	s.setupRoutes()
	s.setupAdminRoutes()

	s.httpServer = &http.Server{
		Addr:              cfg.Listen,
		Handler:           s.ginEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.ginEngine
}

func (s *Server) setupSession() {
	store := cookie.NewStore([]byte(s.cfg.SessionKey))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   s.cfg.SessionMaxAge,
		HttpOnly: true,
		Secure:   false, // Set to true in production
		SameSite: http.SameSiteLaxMode,
	})
	s.ginEngine.Use(sessions.Sessions(SessionName, store))
}

func (s *Server) setupRoutes() {
	h := handler.New(s.engine, s.db, s.cfg)
	wp := handler.NewWebPushHandler(s.engine.GetWebPush())
	local := s.authProvider.Local()

	s.ginEngine.GET("/healthz", h.Healthz)
	s.ginEngine.GET("/auth/oidc/login", s.authProvider.OIDCLogin)
	s.ginEngine.GET("/auth/oidc/callback", s.authProvider.OIDCCallback)

	public := s.ginEngine.Group("/api")
	public.GET("/auth/methods", s.authProvider.GetMethods)
	public.POST("/auth/logout", auth.Logout)
	if local != nil {
		public.POST("/auth/register", local.Register)
		public.POST("/auth/login", local.Login)
		public.POST("/auth/token", s.authProvider.OptionalAuth(), local.IssueToken)
		public.POST("/auth/password-strength", local.PasswordStrength)
	}
	public.POST("/parse/csv", s.authProvider.OptionalAuth(), h.ParseCSV)
	public.GET("/forecast/daily/sample.csv", h.SampleDailyCSV)
	public.GET("/chat/greeting", h.ChatGreeting)
	public.POST("/chat", h.Chat)

	protected := s.ginEngine.Group("/api")
	protected.Use(s.authProvider.RequireAuth())

	protected.GET("/me", h.Me)
	protected.PUT("/me/email", h.UpdateEmail)
	protected.GET("/dashboard", h.Dashboard)

	protected.GET("/fleet/stats", h.FleetStats)
	protected.GET("/fleet/stations", h.FleetStations)
	protected.GET("/fleet/bikes", h.FleetBikes)

	protected.GET("/forecast/defaults", h.ForecastDefaults)
	protected.POST("/forecast/hourly", h.HourlyForecast)
	protected.POST("/forecast/daily", h.DailyForecast)
	protected.POST("/forecast/daily/csv", h.DailyCSVForecast)

	protected.GET("/uploads", h.Uploads)
	protected.GET("/uploads/latest", h.LatestUpload)

	protected.GET("/rental/bikes", h.RentalBikes)
	protected.POST("/rental/bookings", h.CreateBooking)
	protected.GET("/rental/bookings", h.ListBookings)
	protected.GET("/rental/bookings/:id", h.GetBooking)

	protected.GET("/reviews", h.ListReviews)
	protected.POST("/reviews", h.CreateReview)
	protected.POST("/reviews/:id/helpful", h.MarkReviewHelpful)

	protected.GET("/push/vapid-key", wp.GetVAPIDKey)
	protected.POST("/push/subscribe", wp.Subscribe)
	protected.DELETE("/push/subscribe", wp.Unsubscribe)
}

func (s *Server) setupAdminRoutes() {
	h := handler.NewAdmin(s.engine, s.db)

	adminGroup := s.ginEngine.Group("/api/admin")
	adminGroup.Use(s.authProvider.RequireAuth(), s.authProvider.RequireAdmin())

	adminGroup.GET("/jobs", h.GetSchedulerJobs)
	adminGroup.POST("/jobs/:id/run", h.RunSchedulerJob)
	adminGroup.POST("/jobs/:id/enable", h.EnableSchedulerJob)
	adminGroup.POST("/jobs/:id/disable", h.DisableSchedulerJob)
	adminGroup.GET("/cache/stats", h.GetCacheStats)
	adminGroup.DELETE("/cache", h.ClearCache)
	adminGroup.GET("/users", h.GetUsers)
}

// Run serves HTTP until Shutdown is called.
func (s *Server) Run() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for active ones to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

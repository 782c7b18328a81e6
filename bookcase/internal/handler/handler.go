package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookcase/bookcase/config"
	"github.com/Astemirdum/bookcase/pkg/auth"
	md "github.com/Astemirdum/bookcase/pkg/middleware"
	"github.com/Astemirdum/bookcase/pkg/serializer"
	"github.com/Astemirdum/bookcase/pkg/validate"
	_ "github.com/Astemirdum/bookcase/swagger"
)

type Services struct {
	Catalog    CatalogService
	Library    LibraryService
	Rating     RatingService
	ReadingLog ReadingLogService
	Stats      StatsService
	Auth       AuthService
	Profile    ProfileService
}

type Handler struct {
	catalogSvc    CatalogService
	librarySvc    LibraryService
	ratingSvc     RatingService
	readingLogSvc ReadingLogService
	statsSvc      StatsService
	authSvc       AuthService
	profileSvc    ProfileService

	sessions *auth.Manager
	activity *Activity
	cfg      config.HTTPServer
	log      *zap.Logger
}

func New(svc Services, sessions *auth.Manager, activity *Activity, cfg config.HTTPServer, log *zap.Logger) *Handler {
	return &Handler{
		catalogSvc:    svc.Catalog,
		librarySvc:    svc.Library,
		ratingSvc:     svc.Rating,
		readingLogSvc: svc.ReadingLog,
		statsSvc:      svc.Stats,
		authSvc:       svc.Auth,
		profileSvc:    svc.Profile,
		sessions:      sessions,
		activity:      activity,
		cfg:           cfg,
		log:           log.Named("handler"),
	}
}

// @title       bookcase API
// @version     1.0
// @description Personal reading tracker.
// @BasePath    /
func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.HideBanner = true
	e.JSONSerializer = serializer.New()
	e.Validator = validate.NewCustomValidator()

	e.Pre(middleware.RemoveTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/swagger/")
		},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     h.cfg.AllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPost},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, md.CSRFHeaderName},
		AllowCredentials: true,
	}))
	e.Use(md.Metrics())

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		md.RequestID(),
		md.NewRateLimiter(apiRPS),
		md.CSRF(h.cfg.SecureCSRF),
	)

	users := api.Group("/users")
	users.POST("/auth/register", h.Register)
	users.POST("/auth/login", h.Login)
	users.GET("/auth/check", h.CheckAuth)

	users = users.Group("", h.sessions.Middleware)
	users.POST("/auth/logout", h.Logout)
	users.GET("/auth/profile", h.AuthProfile)
	users.GET("/profile", h.GetProfile)
	users.PUT("/profile", h.UpdateProfile)
	users.GET("/goals", h.GetGoals)
	users.PUT("/goals/:year", h.SetGoal)

	books := api.Group("/books", h.sessions.Middleware)
	books.GET("/search", h.SearchBooks)
	books.POST("/add", h.AddBook)
	books.GET("/my-books", h.MyBooks)
	books.PUT("/user-book/:id/update", h.UpdateBook)
	books.POST("/user-book/:id/rate", h.RateBook)
	books.PUT("/user-book/:id/rate", h.RateBook)
	books.GET("/user-book/:id/ratings", h.BookRatings)

	stats := api.Group("/stats", h.sessions.Middleware)
	stats.GET("/dashboard", h.Dashboard)
	stats.GET("/reading-timeline", h.ReadingTimeline)
	stats.GET("/genre-breakdown", h.GenreBreakdown)
	stats.GET("/reading-habits", h.ReadingHabits)
	stats.POST("/sessions", h.LogSession)
	stats.GET("/sessions", h.ListSessions)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func userID(c echo.Context) (int, error) {
	id, ok := auth.GetUserID(c.Request().Context())
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, auth.MsgUnauthenticated)
	}
	return id, nil
}

func bind(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return err
	}
	if err := c.Validate(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

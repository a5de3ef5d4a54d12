package router

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"hrms/internal/auth"
	"hrms/internal/config"
	apperrors "hrms/internal/errors"
	"hrms/internal/handler"
	"hrms/internal/logger"
	"hrms/internal/model"
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Auth        *handler.AuthHandler
	Users       *handler.UserHandler
	Invitations *handler.InvitationHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, log zerolog.Logger, jwtService *auth.JWTService, h Handlers) {
	e.Use(middleware.RequestID())
	e.Use(logger.Middleware(log))
	e.Use(logger.RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.Validator = NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/auth/logout", h.Auth.Logout)

	// Invitee-facing routes are unauthenticated, so they are throttled per client IP.
	limiter := invitationLimiter(cfg)
	api.GET("/invitations/:token", h.Invitations.GetInvitation, limiter)
	api.POST("/invitations/accept", h.Invitations.AcceptInvitation, limiter)

	// Secured routes (require JWT authentication)
	secured := api.Group("", auth.Middleware(jwtService))
	staff := auth.RequireRole(model.RoleAdmin, model.RoleHR)

	secured.GET("/me", h.Auth.Me)

	secured.GET("/users", h.Users.ListUsers, staff)
	secured.GET("/users/:id", h.Users.GetUser)

	secured.POST("/invitations", h.Invitations.CreateInvitation, staff)
	secured.GET("/invitations", h.Invitations.ListInvitations, staff)
	secured.DELETE("/invitations/:id", h.Invitations.DeleteInvitation, staff)
}

func invitationLimiter(cfg *config.Config) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.InvitationRateLimit),
			Burst:     cfg.InvitationRateBurst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, apperrors.ErrorResponse{
				Error: "too many requests",
				Code:  "RATE_LIMITED",
			})
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the request validator installed on the echo instance.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

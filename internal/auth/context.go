package auth

import (
	"errors"
	"net/http"
	"slices"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "hrms/internal/errors"
	"hrms/internal/model"
)

// contextKey is where echo-jwt stores the parsed token.
const contextKey = "user"

// ErrNoClaims is returned when a request carries no parsed bearer token.
var ErrNoClaims = errors.New("missing or invalid token")

// Middleware verifies the bearer token and stores *Claims on the echo context.
func Middleware(s *JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:  s.Secret(),
		ContextKey:  contextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
				Error: ErrNoClaims.Error(),
				Code:  "UNAUTHORIZED",
			})
		},
	})
}

// ClaimsFromContext returns the claims placed by Middleware.
func ClaimsFromContext(c echo.Context) (*Claims, error) {
	token, ok := c.Get(contextKey).(*jwt.Token)
	if !ok {
		return nil, ErrNoClaims
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrNoClaims
	}
	return claims, nil
}

// RequireRole rejects requests whose token role is not in roles.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := ClaimsFromContext(c)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
					Error: err.Error(),
					Code:  "UNAUTHORIZED",
				})
			}
			if !slices.Contains(roles, claims.Role) {
				return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
					Error: "insufficient role",
					Code:  "FORBIDDEN",
				})
			}
			return next(c)
		}
	}
}

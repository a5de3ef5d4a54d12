package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"hrms/internal/auth"
	apperrors "hrms/internal/errors"
	"hrms/internal/model"
	"hrms/internal/service"
)

// UserHandler bundles HTTP handlers.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// GetUser godoc
// @Summary Get user by id
// @Description Users may read their own profile; admin and hr may read any.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.PublicUser
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return errorResponse(c, apperrors.WithDetails(apperrors.ErrInvalidID, c.Param("id")))
	}

	claims, err := auth.ClaimsFromContext(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{
			Error: err.Error(),
			Code:  "UNAUTHORIZED",
		})
	}
	if claims.UserID != uint(id) && claims.Role != model.RoleAdmin && claims.Role != model.RoleHR {
		return echo.NewHTTPError(http.StatusForbidden, apperrors.ErrorResponse{
			Error: "insufficient role",
			Code:  "FORBIDDEN",
		})
	}

	user, err := h.svc.GetUser(c.Request().Context(), uint(id))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.PublicUser
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"hrms/internal/auth"
	apperrors "hrms/internal/errors"
	"hrms/internal/model"
	"hrms/internal/service"
)

// InvitationHandler handles invitation endpoints.
type InvitationHandler struct {
	invitationService service.InvitationService
}

// NewInvitationHandler creates a new invitation handler.
func NewInvitationHandler(invitationService service.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitationService: invitationService}
}

// CreateInvitationRequest represents an invitation issuance request.
// CreatedByUserID defaults to the authenticated caller when omitted.
type CreateInvitationRequest struct {
	Email           string     `json:"email" validate:"omitempty,email"`
	Name            string     `json:"name" validate:"omitempty,max=255"`
	Role            model.Role `json:"role" validate:"omitempty,oneof=admin hr manager employee"`
	CreatedByUserID uint       `json:"createdByUserId"`
}

// AcceptInvitationRequest represents an invitation redemption request.
type AcceptInvitationRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// AcceptInvitationResponse is returned after a successful redemption.
type AcceptInvitationResponse struct {
	Message string           `json:"message"`
	User    model.PublicUser `json:"user"`
}

// InvitationResponse wraps a single invitation.
type InvitationResponse struct {
	Invitation service.InvitationView `json:"invitation"`
}

// InvitationListResponse wraps the invitation list.
type InvitationListResponse struct {
	Invitations []service.InvitationView `json:"invitations"`
}

// GetInvitation godoc
// @Summary Validate an invitation token
// @Description Returns the invitee's name, email and role while the token is pending and unexpired.
// @Tags invitations
// @Produce json
// @Param token path string true "Invitation token"
// @Success 200 {object} service.InvitationDetails
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /invitations/{token} [get]
func (h *InvitationHandler) GetInvitation(c echo.Context) error {
	details, err := h.invitationService.Validate(c.Request().Context(), c.Param("token"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, details)
}

// AcceptInvitation godoc
// @Summary Accept an invitation
// @Description Sets the password for the invited account and consumes the token.
// @Tags invitations
// @Accept json
// @Produce json
// @Param request body AcceptInvitationRequest true "Token and new password"
// @Success 200 {object} AcceptInvitationResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /invitations/accept [post]
func (h *InvitationHandler) AcceptInvitation(c echo.Context) error {
	var req AcceptInvitationRequest
	if err := c.Bind(&req); err != nil {
		return invalidRequest(err)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(err)
	}

	user, err := h.invitationService.Accept(c.Request().Context(), req.Token, req.Password)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, AcceptInvitationResponse{
		Message: "invitation accepted",
		User:    *user,
	})
}

// CreateInvitation godoc
// @Summary Issue an invitation
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateInvitationRequest true "Invitation data"
// @Success 201 {object} InvitationResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /invitations [post]
func (h *InvitationHandler) CreateInvitation(c echo.Context) error {
	var req CreateInvitationRequest
	if err := c.Bind(&req); err != nil {
		return invalidRequest(err)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(err)
	}

	if req.CreatedByUserID == 0 {
		if claims, err := auth.ClaimsFromContext(c); err == nil {
			req.CreatedByUserID = claims.UserID
		}
	}

	invitation, err := h.invitationService.Issue(c.Request().Context(), service.IssueInvitationInput{
		Email:           req.Email,
		Name:            req.Name,
		Role:            req.Role,
		CreatedByUserID: req.CreatedByUserID,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, InvitationResponse{Invitation: *invitation})
}

// ListInvitations godoc
// @Summary List invitations
// @Description All invitations, newest first, with status derived at read time.
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} InvitationListResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /invitations [get]
func (h *InvitationHandler) ListInvitations(c echo.Context) error {
	invitations, err := h.invitationService.List(c.Request().Context())
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, InvitationListResponse{Invitations: invitations})
}

// DeleteInvitation godoc
// @Summary Delete an invitation
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invitation ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /invitations/{id} [delete]
func (h *InvitationHandler) DeleteInvitation(c echo.Context) error {
	raw := c.Param("id")
	if raw == "" {
		return errorResponse(c, apperrors.ErrMissingFields)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return errorResponse(c, apperrors.WithDetails(apperrors.ErrInvalidID, raw))
	}

	if err := h.invitationService.Delete(c.Request().Context(), id); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "invitation deleted"})
}

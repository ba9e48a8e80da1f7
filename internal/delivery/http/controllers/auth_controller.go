package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "marathonhub/internal/delivery/http/helpers"
	"marathonhub/internal/domain"
)

// RegisterUserRequest is the request body for POST /api/auth/register.
type RegisterUserRequest struct {
	FirebaseUID string  `json:"firebaseUid" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	DisplayName *string `json:"displayName"`
	PhotoURL    *string `json:"photoURL" validate:"omitempty,url"`
}

// Validate implements Validator.
func (req RegisterUserRequest) Validate() []string {
	return h.ValidateStruct(req)
}

// UserSuccessResponse is the success response envelope for user endpoints (200).
type UserSuccessResponse struct {
	Data  *domain.User `json:"data"`
	Error *h.APIError  `json:"error"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewAuthController(logger *slog.Logger, svc domain.UserService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// Register godoc
// @Summary Register the signed-in identity
// @Description Creates the local user for a Firebase identity. Calling it again for a known firebaseUid returns the existing user unchanged.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterUserRequest true "Identity details"
// @Success 200 {object} controllers.UserSuccessResponse "data contains the user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/auth/register [post]
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterUserRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	user := domain.NewUser(strings.TrimSpace(req.FirebaseUID), strings.TrimSpace(req.Email), req.DisplayName, req.PhotoURL, time.Time{})
	registered, created, err := c.Service.Register(r.Context(), user)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "user not found")
		return
	}
	if created {
		c.Logger.InfoContext(r.Context(), "user registered", "user_id", registered.ID)
	}
	h.WriteJSONSuccess(w, http.StatusOK, registered)
}

// Me godoc
// @Summary Get the current user
// @Description Returns the local user the bearer token resolves to.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.UserSuccessResponse "data contains the user"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/auth/me [get]
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	user, err := c.Service.GetByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "user not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, user)
}

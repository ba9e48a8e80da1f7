package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	h "marathonhub/internal/delivery/http/helpers"
	"marathonhub/internal/domain"
)

// CreateRegistrationRequest is the request body for POST /api/registrations.
// userId is accepted for client compatibility but ignored; the registrant is always the caller.
type CreateRegistrationRequest struct {
	UserID         *string `json:"userId" swaggerignore:"true"`
	MarathonID     string  `json:"marathonId" validate:"required"`
	FirstName      string  `json:"firstName" validate:"required,max=100"`
	LastName       string  `json:"lastName" validate:"required,max=100"`
	Email          string  `json:"email" validate:"omitempty,email"`
	Contact        string  `json:"contact" validate:"required,max=50"`
	AdditionalInfo *string `json:"additionalInfo" validate:"omitempty,max=1000"`
}

// Validate implements Validator.
func (req CreateRegistrationRequest) Validate() []string {
	return h.ValidateStruct(req)
}

// UpdateRegistrationRequest is the request body for PUT /api/registrations/{id}.
// userId and marathonId cannot change; they are accepted and discarded.
type UpdateRegistrationRequest struct {
	UserID         *string `json:"userId" swaggerignore:"true"`
	MarathonID     *string `json:"marathonId" swaggerignore:"true"`
	FirstName      *string `json:"firstName" validate:"omitempty,min=1,max=100"`
	LastName       *string `json:"lastName" validate:"omitempty,min=1,max=100"`
	Contact        *string `json:"contact" validate:"omitempty,min=1,max=50"`
	AdditionalInfo *string `json:"additionalInfo" validate:"omitempty,max=1000"`
}

// Validate implements Validator.
func (req UpdateRegistrationRequest) Validate() []string {
	errs := h.ValidateStruct(req)
	if req.toUpdate().IsEmpty() {
		errs = append(errs, "at least one field is required")
	}
	return errs
}

func (req UpdateRegistrationRequest) toUpdate() domain.RegistrationUpdate {
	return domain.RegistrationUpdate{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Contact:        req.Contact,
		AdditionalInfo: req.AdditionalInfo,
	}
}

// RegistrationSuccessResponse is the success response envelope for single-registration endpoints (200).
type RegistrationSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *h.APIError          `json:"error"`
}

// RegistrationListSuccessResponse is the success response envelope for a user's registrations (200).
type RegistrationListSuccessResponse struct {
	Data  []*domain.RegistrationWithMarathon `json:"data"`
	Error *h.APIError                        `json:"error"`
}

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateRegistration godoc
// @Summary Register for a marathon
// @Description Registers the caller. A second registration for the same marathon fails with error.code conflict. email defaults to the account email.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateRegistrationRequest true "Registrant details"
// @Success 200 {object} controllers.RegistrationSuccessResponse "data contains the registration"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or conflict"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/registrations [post]
func (c *RegistrationController) CreateRegistration(w http.ResponseWriter, r *http.Request) {
	var req CreateRegistrationRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	reg := &domain.Registration{
		UserID:         userID,
		MarathonID:     req.MarathonID,
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Email:          strings.TrimSpace(req.Email),
		Contact:        strings.TrimSpace(req.Contact),
		AdditionalInfo: req.AdditionalInfo,
	}
	created, err := c.Service.Register(r.Context(), reg)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "marathon not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, created)
}

// ListByUser godoc
// @Summary List a user's registrations
// @Description Returns the caller's registrations with their marathons, newest first. search filters by marathon title, ignoring case.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Registrant user ID"
// @Param search query string false "Marathon title substring"
// @Success 200 {object} controllers.RegistrationListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (user)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/registrations/user/{userId} [get]
func (c *RegistrationController) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	rows, err := c.Service.ListByUser(r.Context(), r.PathValue("userId"), userID, r.URL.Query().Get("search"))
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "registration not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, rows)
}

// GetRegistration godoc
// @Summary Get a registration
// @Description Only the registrant can read it.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Success 200 {object} controllers.RegistrationSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/registrations/{id} [get]
func (c *RegistrationController) GetRegistration(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	reg, err := c.Service.GetRegistration(r.Context(), r.PathValue("id"), userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "registration not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, reg)
}

// UpdateRegistration godoc
// @Summary Update a registration
// @Description Only the registrant can update. firstName, lastName, contact and additionalInfo may change.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Param body body UpdateRegistrationRequest true "Fields to update"
// @Success 200 {object} controllers.RegistrationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/registrations/{id} [put]
func (c *RegistrationController) UpdateRegistration(w http.ResponseWriter, r *http.Request) {
	var req UpdateRegistrationRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	reg, err := c.Service.UpdateRegistration(r.Context(), r.PathValue("id"), userID, req.toUpdate())
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "registration not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, reg)
}

// DeleteRegistration godoc
// @Summary Cancel a registration
// @Description Only the registrant can cancel. The marathon's participant count drops by one.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Success 200 {object} controllers.MessageSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/registrations/{id} [delete]
func (c *RegistrationController) DeleteRegistration(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteRegistration(r.Context(), r.PathValue("id"), userID); err != nil {
		writeServiceError(w, r, c.Logger, err, "registration not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, h.MessageResponse{Message: "Registration deleted successfully"})
}

package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "marathonhub/internal/delivery/http/helpers"
	"marathonhub/internal/domain"
)

// CreateMarathonRequest is the request body for POST /api/marathons.
// createdBy and totalRegistration are server-controlled and rejected if sent.
type CreateMarathonRequest struct {
	Title        string    `json:"title" validate:"required,max=200"`
	Description  string    `json:"description" validate:"required"`
	Location     string    `json:"location" validate:"required"`
	Distance     string    `json:"distance" validate:"required,oneof=3k 10k 25k 42k"`
	RegStartDate time.Time `json:"regStartDate" validate:"required"`
	RegEndDate   time.Time `json:"regEndDate" validate:"required"`
	StartDate    time.Time `json:"startDate" validate:"required"`
	ImageURL     string    `json:"imageURL" validate:"required,url"`
}

// Validate implements Validator.
func (req CreateMarathonRequest) Validate() []string {
	errs := h.ValidateStruct(req)
	for _, f := range []struct{ name, value string }{
		{"title", req.Title},
		{"description", req.Description},
		{"location", req.Location},
	} {
		if f.value != "" && strings.TrimSpace(f.value) == "" {
			errs = append(errs, f.name+" must not be blank")
		}
	}
	return errs
}

// UpdateMarathonRequest is the request body for PUT /api/marathons/{id}. Omitted fields are unchanged.
type UpdateMarathonRequest struct {
	Title        *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Description  *string    `json:"description" validate:"omitempty,min=1"`
	Location     *string    `json:"location" validate:"omitempty,min=1"`
	Distance     *string    `json:"distance" validate:"omitempty,oneof=3k 10k 25k 42k"`
	RegStartDate *time.Time `json:"regStartDate"`
	RegEndDate   *time.Time `json:"regEndDate"`
	StartDate    *time.Time `json:"startDate"`
	ImageURL     *string    `json:"imageURL" validate:"omitempty,url"`
}

// Validate implements Validator.
func (req UpdateMarathonRequest) Validate() []string {
	errs := h.ValidateStruct(req)
	if req.toUpdate().IsEmpty() {
		errs = append(errs, "at least one field is required")
	}
	return errs
}

func (req UpdateMarathonRequest) toUpdate() domain.MarathonUpdate {
	u := domain.MarathonUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		RegStartDate: req.RegStartDate,
		RegEndDate:   req.RegEndDate,
		StartDate:    req.StartDate,
		ImageURL:     req.ImageURL,
	}
	if req.Distance != nil {
		d := domain.Distance(*req.Distance)
		u.Distance = &d
	}
	return u
}

// MarathonSuccessResponse is the success response envelope for single-marathon endpoints (200).
type MarathonSuccessResponse struct {
	Data  *domain.Marathon `json:"data"`
	Error *h.APIError      `json:"error"`
}

// MarathonListSuccessResponse is the success response envelope for marathon listings (200).
type MarathonListSuccessResponse struct {
	Data  []*domain.Marathon `json:"data"`
	Error *h.APIError        `json:"error"`
}

// MessageSuccessResponse is the success response envelope for deletions (200).
type MessageSuccessResponse struct {
	Data  h.MessageResponse `json:"data"`
	Error *h.APIError       `json:"error"`
}

type MarathonController struct {
	Logger  *slog.Logger
	Service domain.MarathonService
}

func NewMarathonController(logger *slog.Logger, svc domain.MarathonService) *MarathonController {
	return &MarathonController{
		Logger:  logger,
		Service: svc,
	}
}

// ListMarathons godoc
// @Summary List marathons
// @Description Public listing ordered by creation time.
// @Tags marathons
// @Produce json
// @Param sort query string false "newest (default) or oldest"
// @Param limit query int false "Maximum number of marathons (1-100)"
// @Success 200 {object} controllers.MarathonListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/marathons [get]
func (c *MarathonController) ListMarathons(w http.ResponseWriter, r *http.Request) {
	params, err := h.ParseListParams(r)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "")
		return
	}
	marathons, err := c.Service.ListMarathons(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, marathons)
}

// GetMarathon godoc
// @Summary Get a marathon
// @Tags marathons
// @Produce json
// @Param id path string true "Marathon ID"
// @Success 200 {object} controllers.MarathonSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/marathons/{id} [get]
func (c *MarathonController) GetMarathon(w http.ResponseWriter, r *http.Request) {
	marathon, err := c.Service.GetMarathon(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "marathon not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, marathon)
}

// CreateMarathon godoc
// @Summary Create a marathon
// @Description The authenticated user becomes the owner. Registration must open before it closes, and close before the race starts.
// @Tags marathons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateMarathonRequest true "Marathon data"
// @Success 200 {object} controllers.MarathonSuccessResponse "data contains the created marathon"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (user)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/marathons [post]
func (c *MarathonController) CreateMarathon(w http.ResponseWriter, r *http.Request) {
	var req CreateMarathonRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	marathon := &domain.Marathon{
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Location:     strings.TrimSpace(req.Location),
		Distance:     domain.Distance(req.Distance),
		RegStartDate: req.RegStartDate,
		RegEndDate:   req.RegEndDate,
		StartDate:    req.StartDate,
		ImageURL:     req.ImageURL,
		CreatedBy:    userID,
	}
	if err := c.Service.CreateMarathon(r.Context(), marathon); err != nil {
		writeServiceError(w, r, c.Logger, err, "marathon not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, marathon)
}

// UpdateMarathon godoc
// @Summary Update a marathon
// @Description Only the owner can update. Omitted fields are unchanged; the resulting schedule must stay ordered.
// @Tags marathons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Marathon ID"
// @Param body body UpdateMarathonRequest true "Fields to update"
// @Success 200 {object} controllers.MarathonSuccessResponse "data contains the updated marathon"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/marathons/{id} [put]
func (c *MarathonController) UpdateMarathon(w http.ResponseWriter, r *http.Request) {
	var req UpdateMarathonRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	marathon, err := c.Service.UpdateMarathon(r.Context(), r.PathValue("id"), userID, req.toUpdate())
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "marathon not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, marathon)
}

// DeleteMarathon godoc
// @Summary Delete a marathon
// @Description Only the owner can delete. All registrations for the marathon are deleted with it.
// @Tags marathons
// @Produce json
// @Security BearerAuth
// @Param id path string true "Marathon ID"
// @Success 200 {object} controllers.MessageSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/marathons/{id} [delete]
func (c *MarathonController) DeleteMarathon(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteMarathon(r.Context(), r.PathValue("id"), userID); err != nil {
		writeServiceError(w, r, c.Logger, err, "marathon not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, h.MessageResponse{Message: "Marathon deleted successfully"})
}

// ListByOwner godoc
// @Summary List a user's marathons
// @Description Returns the marathons created by userId, newest first. Callers may only list their own.
// @Tags marathons
// @Produce json
// @Security BearerAuth
// @Param userId path string true "Owner user ID"
// @Success 200 {object} controllers.MarathonListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (user)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/marathons/user/{userId} [get]
func (c *MarathonController) ListByOwner(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	marathons, err := c.Service.ListByOwner(r.Context(), r.PathValue("userId"), userID)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "marathon not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, marathons)
}

package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/HosamGirgis55/Academix-sub001/internal/app/models"
	"github.com/HosamGirgis55/Academix-sub001/internal/app/models/dto"
	"github.com/HosamGirgis55/Academix-sub001/internal/app/services"
	"github.com/HosamGirgis55/Academix-sub001/internal/middleware"
	"github.com/HosamGirgis55/Academix-sub001/internal/pkg/i18n"
)

// SessionRequestController handles the request half of the booking flow
type SessionRequestController struct {
	requestService services.SessionRequestService
	translator     i18n.Translator
}

// NewSessionRequestController creates a new session request controller
func NewSessionRequestController(requestService services.SessionRequestService, translator i18n.Translator) *SessionRequestController {
	return &SessionRequestController{
		requestService: requestService,
		translator:     translator,
	}
}

// Create submits a new session request
// @Summary Create session request
// @Description Submits a student's proposal for a paid tutoring session
// @Tags session-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSessionRequestRequest true "Session request details"
// @Success 201 {object} dto.APIResponse{data=dto.SessionRequestResponse} "Request created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Teacher not found"
// @Router /session-requests [post]
func (c *SessionRequestController) Create(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.CreateSessionRequestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	request, err := c.requestService.Create(ctx.Request.Context(), services.CreateSessionRequestInput{
		StudentID:                userID,
		TeacherID:                req.TeacherID,
		Subject:                  req.Subject,
		Description:              req.Description,
		PointAmount:              req.PointAmount,
		EstimatedDurationMinutes: req.EstimatedDurationMinutes,
		RequestedStartTime:       req.RequestedStartTime,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(dto.NewSessionRequestResponse(request), c.translator.Translate("session_request.created")))
}

// GetByID retrieves a single session request
// @Summary Get session request
// @Description Retrieves a session request visible to its participants
// @Tags session-requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session request ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.SessionRequestResponse} "Request retrieved"
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Router /session-requests/{id} [get]
func (c *SessionRequestController) GetByID(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	requestID, err := parseIDParam(ctx, "id")
	if err != nil {
		return
	}

	request, err := c.requestService.GetByID(ctx.Request.Context(), requestID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewSessionRequestResponse(request), c.translator.Translate("session_request.retrieved")))
}

// List retrieves the caller's session requests. Students see the requests they
// created; teachers see the pending requests addressed to them.
// @Summary List session requests
// @Description Lists session requests relevant to the authenticated user
// @Tags session-requests
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.SessionRequestListResponse} "Requests retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /session-requests [get]
func (c *SessionRequestController) List(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	page, pageSize := parsePagination(ctx)

	var (
		requests []models.SessionRequest
		total    int64
		err      error
	)
	if role, _ := ctx.Get(middleware.ContextRoleType); role == string(models.RoleTeacher) {
		requests, total, err = c.requestService.ListPendingForTeacher(ctx.Request.Context(), userID, page, pageSize)
	} else {
		requests, total, err = c.requestService.ListForStudent(ctx.Request.Context(), userID, page, pageSize)
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]dto.SessionRequestResponse, 0, len(requests))
	for i := range requests {
		items = append(items, *dto.NewSessionRequestResponse(&requests[i]))
	}

	response := dto.SessionRequestListResponse{
		Requests:       items,
		PaginationInfo: dto.NewPaginationInfo(page, pageSize, total),
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(response, c.translator.Translate("session_request.listed")))
}

// Cancel withdraws a pending session request
// @Summary Cancel session request
// @Description Cancels a still-pending request created by the caller
// @Tags session-requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session request ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Request cancelled"
// @Failure 403 {object} dto.ErrorResponse "Not the requester"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 409 {object} dto.ErrorResponse "Request already processed"
// @Router /session-requests/{id}/cancel [post]
func (c *SessionRequestController) Cancel(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	requestID, err := parseIDParam(ctx, "id")
	if err != nil {
		return
	}

	if err := c.requestService.Cancel(ctx.Request.Context(), requestID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, c.translator.Translate("session_request.cancelled")))
}

// parseIDParam parses a positive int64 path parameter, writing the error
// response itself when the value is malformed
func parseIDParam(ctx *gin.Context, name string) (int64, error) {
	idParam := ctx.Param(name)
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil || id < 1 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid ID")
		errorDetail = errorDetail.WithDetails("ID must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		if err == nil {
			err = strconv.ErrRange
		}
		return 0, err
	}
	return id, nil
}

// parsePagination reads page/pageSize query parameters with sane bounds
func parsePagination(ctx *gin.Context) (int, int) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(ctx.DefaultQuery("pageSize", "20"))
	if err != nil || pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

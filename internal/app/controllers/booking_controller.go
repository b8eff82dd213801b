package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HosamGirgis55/Academix-sub001/internal/app/models/dto"
	"github.com/HosamGirgis55/Academix-sub001/internal/app/services"
	"github.com/HosamGirgis55/Academix-sub001/internal/middleware"
	"github.com/HosamGirgis55/Academix-sub001/internal/pkg/i18n"
)

// BookingController handles the accept/reject decisions and the session
// lifecycle endpoints
type BookingController struct {
	bookingService services.BookingService
	translator     i18n.Translator
}

// NewBookingController creates a new booking controller
func NewBookingController(bookingService services.BookingService, translator i18n.Translator) *BookingController {
	return &BookingController{
		bookingService: bookingService,
		translator:     translator,
	}
}

// Accept accepts a pending session request and schedules the session
// @Summary Accept session request
// @Description Accepts a pending request addressed to the authenticated teacher and creates the scheduled session
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session request ID" Format(int64) minimum(1)
// @Param request body dto.AcceptSessionRequestRequest true "Scheduling details"
// @Success 200 {object} dto.APIResponse{data=dto.AcceptSessionRequestResponse} "Request accepted"
// @Failure 403 {object} dto.ErrorResponse "Request addressed to another teacher"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 409 {object} dto.ErrorResponse "Request already processed"
// @Router /session-requests/{id}/accept [post]
func (c *BookingController) Accept(ctx *gin.Context) {
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

	var req dto.AcceptSessionRequestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	sessionID, err := c.bookingService.AcceptSessionRequest(ctx.Request.Context(), requestID, userID, req.ScheduledStartTime)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	response := dto.AcceptSessionRequestResponse{SessionID: sessionID}
	ctx.JSON(http.StatusOK, dto.NewAPIResponse(response, c.translator.Translate("session_request.accepted")))
}

// Reject rejects a pending session request
// @Summary Reject session request
// @Description Rejects a pending request addressed to the authenticated teacher
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session request ID" Format(int64) minimum(1)
// @Param request body dto.RejectSessionRequestRequest false "Optional rejection reason"
// @Success 200 {object} dto.APIResponse "Request rejected"
// @Failure 403 {object} dto.ErrorResponse "Request addressed to another teacher"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 409 {object} dto.ErrorResponse "Request already processed"
// @Router /session-requests/{id}/reject [post]
func (c *BookingController) Reject(ctx *gin.Context) {
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

	// The body is optional; an empty body means no reason given
	var req dto.RejectSessionRequestRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			errorDetail := dto.HandleValidationError(err)
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
	}

	if err := c.bookingService.RejectSessionRequest(ctx.Request.Context(), requestID, userID, req.Reason); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, c.translator.Translate("session_request.rejected")))
}

// GetSession retrieves a single session
// @Summary Get session
// @Description Retrieves a session visible to its participants
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse} "Session retrieved"
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{id} [get]
func (c *BookingController) GetSession(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	sessionID, err := parseIDParam(ctx, "id")
	if err != nil {
		return
	}

	session, err := c.bookingService.GetSession(ctx.Request.Context(), sessionID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewSessionResponse(session), c.translator.Translate("session.retrieved")))
}

// ListSessions retrieves the caller's sessions
// @Summary List sessions
// @Description Lists the sessions the authenticated user participates in
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.SessionListResponse} "Sessions retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /sessions [get]
func (c *BookingController) ListSessions(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	page, pageSize := parsePagination(ctx)

	sessions, total, err := c.bookingService.ListSessions(ctx.Request.Context(), userID, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]dto.SessionResponse, 0, len(sessions))
	for i := range sessions {
		items = append(items, *dto.NewSessionResponse(&sessions[i]))
	}

	response := dto.SessionListResponse{
		Sessions:       items,
		PaginationInfo: dto.NewPaginationInfo(page, pageSize, total),
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(response, c.translator.Translate("session.listed")))
}

// StartSession moves a scheduled session to IN_PROGRESS
// @Summary Start session
// @Description Marks the session as started; only the session's teacher may start it
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID" Format(int64) minimum(1)
// @Success 200 {object} dto.APIResponse "Session started"
// @Failure 403 {object} dto.ErrorResponse "Session belongs to another teacher"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session cannot be started"
// @Router /sessions/{id}/start [post]
func (c *BookingController) StartSession(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	sessionID, err := parseIDParam(ctx, "id")
	if err != nil {
		return
	}

	if err := c.bookingService.StartSession(ctx.Request.Context(), sessionID, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, c.translator.Translate("session.started")))
}

// EndSession completes a session and settles its points
// @Summary End session
// @Description Completes the session and transfers its points from student to teacher, exactly once
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID" Format(int64) minimum(1)
// @Param request body dto.EndSessionRequest false "Optional close-out details"
// @Success 200 {object} dto.APIResponse "Session ended"
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session cannot be ended or points already transferred"
// @Router /sessions/{id}/end [post]
func (c *BookingController) EndSession(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	sessionID, err := parseIDParam(ctx, "id")
	if err != nil {
		return
	}

	var req dto.EndSessionRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			errorDetail := dto.HandleValidationError(err)
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
	}

	input := services.EndSessionInput{
		CallerID:      userID,
		TeacherNotes:  req.TeacherNotes,
		StudentNotes:  req.StudentNotes,
		TeacherRating: req.TeacherRating,
		StudentRating: req.StudentRating,
	}

	if err := c.bookingService.EndSession(ctx.Request.Context(), sessionID, input); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(nil, c.translator.Translate("session.ended")))
}

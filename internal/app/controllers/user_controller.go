package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HosamGirgis55/Academix-sub001/internal/app/models/dto"
	"github.com/HosamGirgis55/Academix-sub001/internal/app/services"
	"github.com/HosamGirgis55/Academix-sub001/internal/middleware"
)

// UserController handles user profile and balance reads
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new user controller
func NewUserController(userService services.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// GetProfile retrieves the authenticated user's profile
// @Summary Get own profile
// @Description Retrieves the profile of the authenticated user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Profile retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /users/me [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	user, err := c.userService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.NewUserResponse(user), "Profile retrieved"))
}

// GetBalance retrieves the authenticated user's point balance
// @Summary Get own balance
// @Description Retrieves the current point balance of the authenticated user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.BalanceResponse} "Balance retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /users/me/balance [get]
func (c *UserController) GetBalance(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	balance, err := c.userService.GetBalance(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	response := dto.BalanceResponse{
		UserID:        userID,
		PointsBalance: balance,
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(response, "Balance retrieved"))
}

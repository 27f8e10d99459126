package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dailypizza/pizza-orders-api/internal/models"
	"github.com/dailypizza/pizza-orders-api/internal/services"
)

// ProfileController handles HTTP requests for profiles, favorites, theme and
// feedback
type ProfileController struct {
	profiles *services.ProfileService
}

// NewProfileController creates a new instance of ProfileController
func NewProfileController(profiles *services.ProfileService) *ProfileController {
	return &ProfileController{profiles: profiles}
}

// GetProfile godoc
// @Summary Get the active identity's profile
// @Tags profile
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/profile [get]
func (pc *ProfileController) GetProfile(ctx *gin.Context) {
	profile, err := pc.profiles.Get()
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Sign in to view your profile"})
		return
	}
	ctx.JSON(http.StatusOK, profile)
}

// UpdateProfile godoc
// @Summary Update profile fields
// @Description Merge the provided fields into the profile; omitted fields keep their value
// @Tags profile
// @Accept json
// @Produce json
// @Success 200 {object} models.User
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/profile [put]
func (pc *ProfileController) UpdateProfile(ctx *gin.Context) {
	var update services.ProfileUpdate
	if err := ctx.ShouldBindJSON(&update); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	profile, err := pc.profiles.Update(ctx.Request.Context(), update)
	if err != nil {
		if errors.Is(err, models.ErrAuthRequired) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Sign in to update your profile"})
			return
		}
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Profile store unavailable"})
		return
	}
	ctx.JSON(http.StatusOK, profile)
}

// GetFavorites godoc
// @Summary Get favorite pizza ids
// @Tags profile
// @Produce json
// @Success 200 {array} int
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/profile/favorites [get]
func (pc *ProfileController) GetFavorites(ctx *gin.Context) {
	favorites, err := pc.profiles.Favorites()
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Sign in to view favorites"})
		return
	}
	ctx.JSON(http.StatusOK, favorites)
}

// ToggleFavorite godoc
// @Summary Toggle a pizza in the favorites list
// @Tags profile
// @Produce json
// @Param id path int true "Pizza ID"
// @Success 200 {array} int
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Security BearerAuth
// @Router /api/v1/profile/favorites/{id} [post]
func (pc *ProfileController) ToggleFavorite(ctx *gin.Context) {
	pizzaID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pizza ID format"})
		return
	}

	favorites, err := pc.profiles.ToggleFavorite(ctx.Request.Context(), pizzaID)
	if err != nil {
		if errors.Is(err, models.ErrAuthRequired) {
			ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Sign in to manage favorites"})
			return
		}
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Profile store unavailable"})
		return
	}
	ctx.JSON(http.StatusOK, favorites)
}

// GetTheme godoc
// @Summary Get the theme preference
// @Tags profile
// @Produce json
// @Success 200 {object} map[string]string
// @Router /api/v1/public/theme [get]
func (pc *ProfileController) GetTheme(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"theme": pc.profiles.Theme()})
}

// SetTheme godoc
// @Summary Set the theme preference
// @Tags profile
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /api/v1/public/theme [put]
func (pc *ProfileController) SetTheme(ctx *gin.Context) {
	var req struct {
		Theme string `json:"theme" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := pc.profiles.SetTheme(req.Theme); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"theme": req.Theme})
}

// SubmitFeedback godoc
// @Summary Submit a rating and comment
// @Description Stored remotely when signed in, locally otherwise
// @Tags profile
// @Accept json
// @Produce json
// @Success 201 {object} models.Feedback
// @Failure 400 {object} map[string]string
// @Router /api/v1/public/feedback [post]
func (pc *ProfileController) SubmitFeedback(ctx *gin.Context) {
	var req struct {
		Rating  int    `json:"rating" binding:"required"`
		Comment string `json:"comment"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fb, err := pc.profiles.SubmitFeedback(ctx.Request.Context(), req.Rating, req.Comment)
	if err != nil {
		if errors.Is(err, models.ErrRemoteUnavailable) {
			ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Feedback store unavailable"})
			return
		}
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusCreated, fb)
}

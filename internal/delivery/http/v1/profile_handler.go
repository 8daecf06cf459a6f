package v1

import (
	"net/http"

	"go-profile-directory/internal/delivery/http/response"
	"go-profile-directory/internal/domain"
	"go-profile-directory/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	profileUC domain.ProfileUsecase
}

func NewProfileHandler(protected *gin.RouterGroup, profileUC domain.ProfileUsecase) {
	handler := &ProfileHandler{profileUC: profileUC}

	profiles := protected.Group("/profiles")
	{
		profiles.GET("", handler.List)
		profiles.GET("/:id", handler.Get)
		profiles.GET("/:id/detail", handler.Detail)
	}
}

// List godoc
// @Summary      List profiles
// @Description  Newest first. Search matches name, bio and expertise (case-sensitive) or skills (case-insensitive). Only admins may see inactive profiles.
// @Tags         profiles
// @Produce      json
// @Param        search  query     string  false  "Search term"
// @Param        status  query     string  false  "all, active or inactive (admin only)"
// @Success      200     {object}  response.Response{data=[]domain.Profile}
// @Failure      400     {object}  response.Response
// @Failure      401     {object}  response.Response
// @Router       /profiles [get]
// @Security     BearerAuth
func (h *ProfileHandler) List(c *gin.Context) {
	var filter domain.ProfileFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(apperror.BadRequest("Invalid status filter"))
		return
	}

	profiles, err := h.profileUC.List(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profiles retrieved", profiles)
}

// Get godoc
// @Summary      Get profile
// @Tags         profiles
// @Produce      json
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  response.Response{data=domain.Profile}
// @Failure      404  {object}  response.Response
// @Router       /profiles/{id} [get]
// @Security     BearerAuth
func (h *ProfileHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id", "profile")
	if !ok {
		return
	}

	profile, err := h.profileUC.Get(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile retrieved", profile)
}

// Detail godoc
// @Summary      Get profile with discussion
// @Description  Profile plus its comments and touch points, newest first
// @Tags         profiles
// @Produce      json
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  response.Response{data=domain.ProfileDetail}
// @Failure      404  {object}  response.Response
// @Router       /profiles/{id}/detail [get]
// @Security     BearerAuth
func (h *ProfileHandler) Detail(c *gin.Context) {
	id, ok := pathUUID(c, "id", "profile")
	if !ok {
		return
	}

	detail, err := h.profileUC.GetDetail(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile retrieved", detail)
}

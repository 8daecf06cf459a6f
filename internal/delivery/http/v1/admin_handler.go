package v1

import (
	"errors"
	"io"
	"net/http"

	"go-profile-directory/internal/delivery/http/response"
	"go-profile-directory/internal/domain"
	"go-profile-directory/pkg/apperror"
	"go-profile-directory/pkg/security"

	"github.com/gin-gonic/gin"
)

// multipart overhead allowed on top of the image itself
const uploadOverhead = 1 << 20

type AdminHandler struct {
	profileUC domain.ProfileUsecase
	authUC    domain.AuthUsecase
}

func NewAdminHandler(admin *gin.RouterGroup, profileUC domain.ProfileUsecase, authUC domain.AuthUsecase) {
	handler := &AdminHandler{profileUC: profileUC, authUC: authUC}

	profiles := admin.Group("/profiles")
	{
		profiles.POST("", handler.CreateProfile)
		profiles.GET("/export", handler.ExportProfiles)
		profiles.PUT("/:id", handler.UpdateProfile)
		profiles.DELETE("/:id", handler.DeleteProfile)
		profiles.PATCH("/:id/status", handler.SetStatus)
		profiles.POST("/:id/image", handler.UploadImage)
	}

	admin.PUT("/users/:id/admin", handler.SetAdmin)
}

type StatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type AdminFlagRequest struct {
	IsAdmin *bool `json:"is_admin" binding:"required"`
}

// CreateProfile godoc
// @Summary      Create profile
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      domain.ProfileInput  true  "Profile"
// @Success      201   {object}  response.Response{data=domain.Profile}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /admin/profiles [post]
// @Security     BearerAuth
func (h *AdminHandler) CreateProfile(c *gin.Context) {
	var input domain.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	profile, err := h.profileUC.Create(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Profile created", profile)
}

// UpdateProfile godoc
// @Summary      Update profile
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Profile ID"
// @Param        body  body      domain.ProfileInput  true  "Profile"
// @Success      200   {object}  response.Response{data=domain.Profile}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /admin/profiles/{id} [put]
// @Security     BearerAuth
func (h *AdminHandler) UpdateProfile(c *gin.Context) {
	id, ok := pathUUID(c, "id", "profile")
	if !ok {
		return
	}
	var input domain.ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	profile, err := h.profileUC.Update(c.Request.Context(), id, input)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated", profile)
}

// DeleteProfile godoc
// @Summary      Delete profile
// @Description  Removes the profile with its comments, touch points and stored image
// @Tags         admin
// @Produce      json
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /admin/profiles/{id} [delete]
// @Security     BearerAuth
func (h *AdminHandler) DeleteProfile(c *gin.Context) {
	id, ok := pathUUID(c, "id", "profile")
	if !ok {
		return
	}

	if err := h.profileUC.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile deleted", nil)
}

// SetStatus godoc
// @Summary      Toggle profile status
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string         true  "Profile ID"
// @Param        body  body      StatusRequest  true  "New status"
// @Success      200   {object}  response.Response{data=domain.Profile}
// @Failure      404   {object}  response.Response
// @Router       /admin/profiles/{id}/status [patch]
// @Security     BearerAuth
func (h *AdminHandler) SetStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id", "profile")
	if !ok {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("is_active is required"))
		return
	}

	profile, err := h.profileUC.SetStatus(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Profile status updated", profile)
}

// UploadImage godoc
// @Summary      Upload profile image
// @Description  JPEG, PNG, GIF or WebP up to 5 MB; stored resized as JPEG
// @Tags         admin
// @Accept       multipart/form-data
// @Produce      json
// @Param        id     path      string  true  "Profile ID"
// @Param        image  formData  file    true  "Image file"
// @Success      200    {object}  response.Response{data=domain.Profile}
// @Failure      400    {object}  response.Response
// @Failure      413    {object}  response.Response
// @Router       /admin/profiles/{id}/image [post]
// @Security     BearerAuth
func (h *AdminHandler) UploadImage(c *gin.Context) {
	id, ok := pathUUID(c, "id", "profile")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, security.MaxImageBytes+uploadOverhead)
	fileHeader, err := c.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.Error(apperror.TooLarge("Image must be at most 5 MB"))
			return
		}
		c.Error(apperror.BadRequest("Image file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.BadRequest("Could not read image"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, security.MaxImageBytes+1))
	if err != nil {
		c.Error(apperror.BadRequest("Could not read image"))
		return
	}

	profile, err := h.profileUC.UploadImage(c.Request.Context(), id, domain.ImageUpload{
		Filename: fileHeader.Filename,
		Data:     data,
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Image uploaded", profile)
}

// ExportProfiles godoc
// @Summary      Export profiles
// @Description  Every profile as an XLSX workbook
// @Tags         admin
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200  {file}    binary
// @Failure      403  {object}  response.Response
// @Router       /admin/profiles/export [get]
// @Security     BearerAuth
func (h *AdminHandler) ExportProfiles(c *gin.Context) {
	export, err := h.profileUC.Export(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+export.Filename)
	c.Data(http.StatusOK, export.ContentType, export.Data)
}

// SetAdmin godoc
// @Summary      Grant or revoke admin
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path      string            true  "User ID"
// @Param        body  body      AdminFlagRequest  true  "Admin flag"
// @Success      200   {object}  response.Response{data=domain.User}
// @Failure      400   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /admin/users/{id}/admin [put]
// @Security     BearerAuth
func (h *AdminHandler) SetAdmin(c *gin.Context) {
	id, ok := pathUUID(c, "id", "user")
	if !ok {
		return
	}
	var req AdminFlagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("is_admin is required"))
		return
	}

	user, err := h.authUC.SetAdmin(c.Request.Context(), id, *req.IsAdmin)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Admin flag updated", user)
}

package v1

import (
	"net/http"

	"go-profile-directory/internal/delivery/http/response"
	"go-profile-directory/internal/domain"
	"go-profile-directory/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// DiscussionHandler serves comments and touch points of a profile.
type DiscussionHandler struct {
	commentUC    domain.CommentUsecase
	touchPointUC domain.TouchPointUsecase
}

func NewDiscussionHandler(protected, user *gin.RouterGroup, commentUC domain.CommentUsecase, touchPointUC domain.TouchPointUsecase) {
	handler := &DiscussionHandler{commentUC: commentUC, touchPointUC: touchPointUC}

	profiles := protected.Group("/profiles/:id")
	{
		profiles.GET("/comments", handler.ListComments)
		profiles.GET("/touch-points", handler.ListTouchPoints)
		profiles.GET("/touch-points/latest", handler.LatestTouchPoint)
		profiles.POST("/touch-points", handler.AddTouchPoint)
	}

	user.POST("/profiles/:id/comments", handler.AddComment)
}

type ContentRequest struct {
	Content string `json:"content"`
}

// ListComments godoc
// @Summary      List comments
// @Tags         comments
// @Produce      json
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  response.Response{data=[]domain.Comment}
// @Failure      404  {object}  response.Response
// @Router       /profiles/{id}/comments [get]
// @Security     BearerAuth
func (h *DiscussionHandler) ListComments(c *gin.Context) {
	id, ok := pathUUID(c, "id", "profile")
	if !ok {
		return
	}

	comments, err := h.commentUC.List(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Comments retrieved", comments)
}

// AddComment godoc
// @Summary      Add comment
// @Description  Signed-in users only; mentors cannot comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Profile ID"
// @Param        body  body      ContentRequest  true  "Comment"
// @Success      201   {object}  response.Response{data=domain.Comment}
// @Failure      400   {object}  response.Response
// @Failure      403   {object}  response.Response
// @Router       /profiles/{id}/comments [post]
// @Security     BearerAuth
func (h *DiscussionHandler) AddComment(c *gin.Context) {
	id, ok := pathUUID(c, "id", "profile")
	if !ok {
		return
	}
	var req ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	comment, err := h.commentUC.Add(c.Request.Context(), id, domain.CommentInput{Content: req.Content})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Comment added", comment)
}

// ListTouchPoints godoc
// @Summary      List touch points
// @Tags         touch-points
// @Produce      json
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  response.Response{data=[]domain.TouchPoint}
// @Router       /profiles/{id}/touch-points [get]
// @Security     BearerAuth
func (h *DiscussionHandler) ListTouchPoints(c *gin.Context) {
	id, ok := pathUUID(c, "id", "profile")
	if !ok {
		return
	}

	tps, err := h.touchPointUC.List(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Touch points retrieved", tps)
}

// LatestTouchPoint godoc
// @Summary      Latest touch point
// @Description  data is null when the profile has none
// @Tags         touch-points
// @Produce      json
// @Param        id   path      string  true  "Profile ID"
// @Success      200  {object}  response.Response{data=domain.TouchPoint}
// @Router       /profiles/{id}/touch-points/latest [get]
// @Security     BearerAuth
func (h *DiscussionHandler) LatestTouchPoint(c *gin.Context) {
	id, ok := pathUUID(c, "id", "profile")
	if !ok {
		return
	}

	tp, err := h.touchPointUC.Latest(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Latest touch point retrieved", tp)
}

// AddTouchPoint godoc
// @Summary      Add touch point
// @Description  Users and mentors; mentor entries carry no author id
// @Tags         touch-points
// @Accept       json
// @Produce      json
// @Param        id    path      string          true  "Profile ID"
// @Param        body  body      ContentRequest  true  "Status note"
// @Success      201   {object}  response.Response{data=domain.TouchPoint}
// @Failure      400   {object}  response.Response
// @Router       /profiles/{id}/touch-points [post]
// @Security     BearerAuth
func (h *DiscussionHandler) AddTouchPoint(c *gin.Context) {
	id, ok := pathUUID(c, "id", "profile")
	if !ok {
		return
	}
	var req ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	tp, err := h.touchPointUC.Add(c.Request.Context(), id, domain.TouchPointInput{Content: req.Content})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Touch point added", tp)
}

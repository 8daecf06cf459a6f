package v1

import (
	"net/http"

	"go-profile-directory/internal/delivery/http/response"
	"go-profile-directory/internal/domain"

	"github.com/gin-gonic/gin"
)

type MentorHandler struct {
	mentorUC domain.MentorUsecase
}

func NewMentorHandler(public *gin.RouterGroup, mentorUC domain.MentorUsecase) {
	handler := &MentorHandler{mentorUC: mentorUC}
	public.GET("/mentors", handler.List)
}

// List godoc
// @Summary      List mentors
// @Description  The fixed roster selectable through the X-Mentor-ID header
// @Tags         mentors
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Mentor}
// @Router       /mentors [get]
func (h *MentorHandler) List(c *gin.Context) {
	mentors, err := h.mentorUC.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Mentors retrieved", mentors)
}

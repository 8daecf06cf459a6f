package v1

import (
	"net/http"

	"go-profile-directory/internal/delivery/http/response"
	"go-profile-directory/internal/domain"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	healthUC domain.HealthUsecase
}

func NewHealthHandler(public *gin.RouterGroup, healthUC domain.HealthUsecase) {
	handler := &HealthHandler{healthUC: healthUC}
	public.GET("/health", handler.Check)
}

// Check godoc
// @Summary      Health check
// @Description  Database, Redis and storage status; 503 when any is down
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.HealthReport}
// @Failure      503  {object}  response.Response{data=domain.HealthReport}
// @Router       /health [get]
func (h *HealthHandler) Check(c *gin.Context) {
	report := h.healthUC.Check(c.Request.Context())
	if report.Status != "ok" {
		c.JSON(http.StatusServiceUnavailable, response.Response{
			Success:   false,
			Message:   "System degraded",
			Data:      report,
			RequestID: c.GetString("RequestID"),
		})
		return
	}
	response.Success(c, http.StatusOK, "System operational", report)
}

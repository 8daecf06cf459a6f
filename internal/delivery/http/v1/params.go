package v1

import (
	"go-profile-directory/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// pathUUID reads a uuid path parameter, recording a 400 when it is malformed.
func pathUUID(c *gin.Context, name, label string) (string, bool) {
	raw := c.Param(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		c.Error(apperror.BadRequest("Invalid " + label + " id"))
		return "", false
	}
	return id.String(), true
}

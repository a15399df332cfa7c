package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/response"
)

// bindJSON decodes the body or writes a 400 envelope.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.BadRequest(c, "invalid payload")
		return false
	}
	return true
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

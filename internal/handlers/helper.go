package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const userIDKey = "user_id"

// UserIdentity reads the acting user from the X-User-ID header and falls
// back to defaultUserID when it is absent.
func UserIdentity(defaultUserID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader("X-User-ID"))
		if userID == "" {
			userID = defaultUserID
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// CurrentUserID returns the user set by UserIdentity, or "" outside it.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

func ParseStringIDParam(c *gin.Context, param string) string {
	idStr := c.Param(param)
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: "ID cannot be empty",
		})
		return ""
	}
	return idStr
}

func parseIntQuery(c *gin.Context, param string, defaultValue int) int {
	valueStr := c.Query(param)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

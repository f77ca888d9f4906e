package public

import (
	"github.com/freshcart-shop/freshcart/internal/http/response"

	"github.com/gin-gonic/gin"
)

// getUserID reads the authenticated user id placed by the JWT middleware.
// Writes a 401 and returns false when it is missing or malformed.
func getUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "Authentication required")
		return 0, false
	}
	userID, ok := value.(uint)
	if !ok || userID == 0 {
		response.Unauthorized(c, "Authentication required")
		return 0, false
	}
	return userID, true
}

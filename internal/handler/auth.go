package handler

import (
	"net/http"
	"strings"

	"go-gin-prize-draw/internal/model"
	"go-gin-prize-draw/internal/service"

	"github.com/gin-gonic/gin"
)

const contextUserKey = "currentUser"

// AuthRequired 解析 bearer token 並載入使用者；websocket 握手不能帶 header，
// 也接受 query string 的 token
func AuthRequired(users service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		} else {
			token = c.Query("token")
		}

		if token == "" {
			RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing credentials")
			c.Abort()
			return
		}

		user, err := users.FindByAPIToken(c, token)
		if err != nil {
			RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid credentials")
			c.Abort()
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// CurrentUser 取出 AuthRequired 放進 context 的使用者
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get(contextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}

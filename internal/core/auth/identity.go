package auth

import "github.com/gin-gonic/gin"

// ContextKey gin.Context 中保存当前身份的 key
const ContextKey = "identity"

// Identity 经过校验的调用者身份，由鉴权中间件写入请求上下文
type Identity struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (c *Claims) Identity() Identity {
	return Identity{ID: c.UID, Email: c.Email, Role: c.Role}
}

func SetIdentity(c *gin.Context, id Identity) { c.Set(ContextKey, id) }

func FromContext(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(ContextKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}

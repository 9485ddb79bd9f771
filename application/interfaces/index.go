package interfaces

import "github.com/gin-gonic/gin"

// ApplicationContext carries a parsed request body and the caller's identity
// into controllers, keeping them free of framework-specific extraction.
type ApplicationContext[T any] struct {
	Ctx       *gin.Context
	Body      *T
	BankerID  string
	DeviceID  string
	UserAgent string
}

func (ac *ApplicationContext[T]) GetHeader(key string) string {
	if ac.Ctx == nil {
		return ""
	}
	return ac.Ctx.GetHeader(key)
}

package middleware

import (
	"github.com/gin-gonic/gin"
	ua "github.com/mileusna/useragent"

	apperrors "verifid.io/application/appErrors"
)

// UserAgentMiddleware rejects requests with no parsable user agent and stores
// a short device description for the audit trail.
func UserAgentMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		rawUA := ctx.GetHeader("User-Agent")
		if rawUA == "" {
			apperrors.ClientError(ctx, "unsupported client", nil)
			ctx.Abort()
			return
		}
		parsed := ua.Parse(rawUA)
		deviceInfo := parsed.Name
		if parsed.OS != "" {
			deviceInfo = parsed.Name + " on " + parsed.OS
		}
		ctx.Set("DeviceInfo", deviceInfo)
		ctx.Set("ClientIP", ctx.ClientIP())
		ctx.Next()
	}
}

package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"

	apperrors "verifid.io/application/appErrors"
	"verifid.io/application/interfaces"
	"verifid.io/infrastructure/auth"
)

// BankerAuthenticationMiddleware verifies the bearer token and the live
// session behind it, then attaches an ApplicationContext for controllers.
func BankerAuthenticationMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.AuthenticationError(ctx, "provide an auth token")
			ctx.Abort()
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		token, err := auth.DecodeAuthToken(tokenString)
		if err != nil {
			apperrors.AuthenticationError(ctx, "this session has expired")
			ctx.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			apperrors.AuthenticationError(ctx, "this session has expired")
			ctx.Abort()
			return
		}
		bankerID, _ := claims["bankerID"].(string)
		if bankerID == "" || !auth.VerifySession(bankerID, tokenString) {
			apperrors.AuthenticationError(ctx, "this session has expired")
			ctx.Abort()
			return
		}

		appContext := interfaces.ApplicationContext[any]{
			Ctx:       ctx,
			BankerID:  bankerID,
			DeviceID:  ctx.GetHeader("X-Device-Id"),
			UserAgent: ctx.GetHeader("User-Agent"),
		}
		ctx.Set("AppContext", &appContext)
		ctx.Next()
	}
}

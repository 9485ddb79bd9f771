package routev1

import (
	"github.com/gin-gonic/gin"

	apperrors "verifid.io/application/appErrors"
	"verifid.io/application/controller"
	"verifid.io/application/controller/dto"
	"verifid.io/application/interfaces"
	middlewares "verifid.io/infrastructure/middleware"
)

func AuthRouter(router *gin.RouterGroup) {
	authRouter := router.Group("/auth")
	{
		authRouter.POST("/register", func(ctx *gin.Context) {
			var body dto.RegisterBankerDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.RegisterBanker(&interfaces.ApplicationContext[dto.RegisterBankerDTO]{
				Ctx:       ctx,
				Body:      &body,
				DeviceID:  ctx.GetHeader("X-Device-Id"),
				UserAgent: ctx.GetHeader("User-Agent"),
			})
		})

		authRouter.POST("/login", func(ctx *gin.Context) {
			var body dto.LoginDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.Login(&interfaces.ApplicationContext[dto.LoginDTO]{
				Ctx:       ctx,
				Body:      &body,
				DeviceID:  ctx.GetHeader("X-Device-Id"),
				UserAgent: ctx.GetHeader("User-Agent"),
			})
		})

		authRouter.POST("/logout", middlewares.BankerAuthenticationMiddleware(), func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			controller.Logout(appContext)
		})

		authRouter.GET("/me", middlewares.BankerAuthenticationMiddleware(), func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			controller.CurrentBanker(appContext)
		})
	}
}

package routev1

import (
	"io"

	"github.com/gin-gonic/gin"

	apperrors "verifid.io/application/appErrors"
	"verifid.io/application/controller"
	"verifid.io/application/controller/dto"
	"verifid.io/application/interfaces"
	middlewares "verifid.io/infrastructure/middleware"
)

func VerificationRouter(router *gin.RouterGroup) {
	router.POST("/verify", middlewares.BankerAuthenticationMiddleware(), func(ctx *gin.Context) {
		appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])

		liveImage, ok := readImagePart(ctx, "live_image")
		if !ok {
			return
		}
		referenceImage, ok := readImagePart(ctx, "reference_image")
		if !ok {
			return
		}

		controller.VerifyFaces(&interfaces.ApplicationContext[dto.VerifyFacesDTO]{
			Ctx: ctx,
			Body: &dto.VerifyFacesDTO{
				UserID:         ctx.PostForm("user_id"),
				LiveImage:      liveImage,
				ReferenceImage: referenceImage,
			},
			BankerID:  appContext.BankerID,
			DeviceID:  appContext.DeviceID,
			UserAgent: appContext.UserAgent,
		})
	})

	router.POST("/decide", middlewares.BankerAuthenticationMiddleware(), func(ctx *gin.Context) {
		appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
		var body dto.BankerDecideDTO
		if err := ctx.ShouldBindJSON(&body); err != nil {
			apperrors.ErrorProcessingPayload(ctx)
			return
		}
		controller.BankerDecide(&interfaces.ApplicationContext[dto.BankerDecideDTO]{
			Ctx:       ctx,
			Body:      &body,
			BankerID:  appContext.BankerID,
			DeviceID:  appContext.DeviceID,
			UserAgent: appContext.UserAgent,
		})
	})

	router.GET("/my-decisions", middlewares.BankerAuthenticationMiddleware(), func(ctx *gin.Context) {
		appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
		controller.MyDecisions(appContext)
	})

	router.GET("/cache-stats", middlewares.BankerAuthenticationMiddleware(), func(ctx *gin.Context) {
		appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
		controller.CacheStats(appContext)
	})
}

// readImagePart pulls one uploaded file out of the multipart form, rejecting
// parts that do not declare an image content type.
func readImagePart(ctx *gin.Context, name string) ([]byte, bool) {
	fileHeader, err := ctx.FormFile(name)
	if err != nil {
		apperrors.ClientError(ctx, name+" file is required", nil)
		return nil, false
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if len(contentType) < 6 || contentType[:6] != "image/" {
		apperrors.ClientError(ctx, name+" file must be an image", nil)
		return nil, false
	}
	file, err := fileHeader.Open()
	if err != nil {
		apperrors.ErrorProcessingPayload(ctx)
		return nil, false
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		apperrors.ErrorProcessingPayload(ctx)
		return nil, false
	}
	return data, true
}

package infrastructure

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	apperrors "verifid.io/application/appErrors"
	"verifid.io/application/controller"
	"verifid.io/application/interfaces"
	"verifid.io/infrastructure/logger"
	middlewares "verifid.io/infrastructure/middleware"
	ratelimit "verifid.io/infrastructure/ratelimit"
	webRoutev1 "verifid.io/infrastructure/routes/ginRouter/web/v1"
	startup "verifid.io/infrastructure/startUp"
)

type ginServer struct{}

func (s *ginServer) Start() {
	err := godotenv.Load()
	if err != nil {
		logger.Info("error loading env variables")
	}

	startup.StartServices()
	defer startup.CleanUpServices()

	server := gin.Default()
	origins := []string{}
	if os.Getenv("GIN_MODE") == "debug" {
		origins = append(origins, "http://localhost:5173")
	} else if os.Getenv("GIN_MODE") == "release" {
		origins = append(origins, "https://console.verifid.io")
	}
	corsConfig := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Device-Id", "User-Agent"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	server.Use(cors.New(corsConfig))
	server.Use(ratelimit.TokenBucketPerIP(10))
	// two images at 10MB each plus form fields
	server.MaxMultipartMemory = 25 << 20

	v1 := server.Group("/api")
	v1.Use(middlewares.UserAgentMiddleware())

	routerV1 := v1.Group("/v1")
	{
		webRoutev1.AuthRouter(routerV1)
		webRoutev1.VerificationRouter(routerV1)
	}

	server.GET("/ping", func(ctx *gin.Context) {
		controller.Ping(&interfaces.ApplicationContext[any]{Ctx: ctx})
	})
	// registered outside the /api group so uptime probes without a
	// User-Agent header are not rejected
	server.GET("/api/v1/health", func(ctx *gin.Context) {
		controller.Health(&interfaces.ApplicationContext[any]{Ctx: ctx})
	})

	server.NoRoute(func(ctx *gin.Context) {
		apperrors.NotFoundError(ctx, fmt.Sprintf("%s %s does not exist", ctx.Request.Method, ctx.Request.URL))
	})

	ginMode := os.Getenv("GIN_MODE")
	port := os.Getenv("PORT")
	if ginMode == "debug" || ginMode == "release" {
		logger.Info(fmt.Sprintf("Server starting on PORT %s", port))
		server.Run(fmt.Sprintf(":%s", port))
	} else {
		panic(fmt.Sprintf("invalid gin mode used - %s", ginMode))
	}
}

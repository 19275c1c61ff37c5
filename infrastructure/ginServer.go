package infrastructure

import (
	"fmt"
	"net/http"
	"os"
	"time"

	apperrors "presenza.io/application/appErrors"
	"presenza.io/infrastructure/logger"
	ratelimit "presenza.io/infrastructure/ratelimit"
	webRoutev1 "presenza.io/infrastructure/routes/ginRouter/web/v1"
	server_response "presenza.io/infrastructure/serverResponse"
	startup "presenza.io/infrastructure/startUp"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type serverInterface interface {
	Start()
}

type ginServer struct{}

func (s *ginServer) Start() {
	startup.StartServices()
	defer startup.CleanUpServices()

	server := gin.Default()
	origins := []string{}
	if os.Getenv("GIN_MODE") == "debug" {
		origins = append(origins, "http://localhost:5173")
	} else if os.Getenv("GIN_MODE") == "release" {
		origins = append(origins, "https://app.presenza.io", "https://www.presenza.io")
	}
	corsConfig := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Device-Id", "User-Agent"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	server.Use(cors.New(corsConfig))
	server.Use(ratelimit.TokenBucketPerIP())

	routerV1 := server.Group("/api/v1")
	{
		webRoutev1.AuthRouter(routerV1)
		webRoutev1.StudentRouter(routerV1)
		webRoutev1.EnrollmentRouter(routerV1)
		webRoutev1.VerificationRouter(routerV1)
		webRoutev1.AttendanceRouter(routerV1)
	}

	server.GET("/ping", func(ctx *gin.Context) {
		server_response.Responder.Respond(ctx, http.StatusOK, "pong!", nil, nil, nil)
	})

	server.NoRoute(func(ctx *gin.Context) {
		apperrors.NotFoundError(ctx, fmt.Sprintf("%s %s does not exist", ctx.Request.Method, ctx.Request.URL))
	})

	gin_mode := os.Getenv("GIN_MODE")
	port := os.Getenv("PORT")
	if gin_mode == "debug" || gin_mode == "release" {
		logger.Info(fmt.Sprintf("Server starting on PORT %s", port))
		server.Run(fmt.Sprintf(":%s", port))
	} else {
		panic(fmt.Sprintf("invalid gin mode used - %s", gin_mode))
	}
}

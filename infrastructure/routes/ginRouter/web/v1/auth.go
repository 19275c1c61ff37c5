package routev1

import (
	apperrors "presenza.io/application/appErrors"
	"presenza.io/application/controller"
	"presenza.io/application/controller/dto"
	"presenza.io/application/interfaces"
	middlewares "presenza.io/infrastructure/middleware"
	"github.com/gin-gonic/gin"
)

func AuthRouter(router *gin.RouterGroup) {
	authRouter := router.Group("/auth")
	{
		authRouter.POST("/login", func(ctx *gin.Context) {
			var body dto.StaffLoginDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.StaffLogin(&interfaces.ApplicationContext[dto.StaffLoginDTO]{
				Ctx:    ctx,
				Body:   &body,
				Header: ctx.Request.Header,
			})
		})

		authRouter.POST("/logout", middlewares.StaffAuthenticationMiddleware(""), func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			controller.StaffLogout(&interfaces.ApplicationContext[any]{
				Ctx:  ctx,
				Keys: appContext.Keys,
			})
		})

		authRouter.POST("/staff", middlewares.StaffAuthenticationMiddleware("admin"), func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.CreateStaffDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.CreateStaff(&interfaces.ApplicationContext[dto.CreateStaffDTO]{
				Ctx:  ctx,
				Body: &body,
				Keys: appContext.Keys,
			})
		})
	}
}

package routev1

import (
	apperrors "presenza.io/application/appErrors"
	"presenza.io/application/controller"
	"presenza.io/application/controller/dto"
	"presenza.io/application/interfaces"
	middlewares "presenza.io/infrastructure/middleware"
	"github.com/gin-gonic/gin"
)

func VerificationRouter(router *gin.RouterGroup) {
	verificationRouter := router.Group("/verification")
	{
		verificationRouter.POST("/verify", middlewares.StaffAuthenticationMiddleware(""), func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.VerifyStudentDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.VerifyStudent(&interfaces.ApplicationContext[dto.VerifyStudentDTO]{
				Ctx:  ctx,
				Body: &body,
				Keys: appContext.Keys,
			})
		})
	}
}

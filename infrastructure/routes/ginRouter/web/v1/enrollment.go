package routev1

import (
	apperrors "presenza.io/application/appErrors"
	"presenza.io/application/controller"
	"presenza.io/application/controller/dto"
	"presenza.io/application/interfaces"
	middlewares "presenza.io/infrastructure/middleware"
	"github.com/gin-gonic/gin"
)

func EnrollmentRouter(router *gin.RouterGroup) {
	enrollmentRouter := router.Group("/enrollment")
	{
		enrollmentRouter.POST("/start", middlewares.StaffAuthenticationMiddleware(""), func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.StartEnrollmentDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.StartEnrollment(&interfaces.ApplicationContext[dto.StartEnrollmentDTO]{
				Ctx:  ctx,
				Body: &body,
				Keys: appContext.Keys,
			})
		})

		enrollmentRouter.POST("/sample", middlewares.StaffAuthenticationMiddleware(""), func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.AddEnrollmentSampleDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.AddEnrollmentSample(&interfaces.ApplicationContext[dto.AddEnrollmentSampleDTO]{
				Ctx:  ctx,
				Body: &body,
				Keys: appContext.Keys,
			})
		})

		enrollmentRouter.POST("/complete", middlewares.StaffAuthenticationMiddleware(""), func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.CompleteEnrollmentDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.CompleteEnrollment(&interfaces.ApplicationContext[dto.CompleteEnrollmentDTO]{
				Ctx:  ctx,
				Body: &body,
				Keys: appContext.Keys,
			})
		})

		enrollmentRouter.POST("/cancel", middlewares.StaffAuthenticationMiddleware(""), func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.CancelEnrollmentDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.CancelEnrollment(&interfaces.ApplicationContext[dto.CancelEnrollmentDTO]{
				Ctx:  ctx,
				Body: &body,
				Keys: appContext.Keys,
			})
		})

		enrollmentRouter.GET("/status/:studentID", middlewares.StaffAuthenticationMiddleware(""), func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			controller.EnrollmentStatus(&interfaces.ApplicationContext[any]{
				Ctx:  ctx,
				Keys: appContext.Keys,
			}, ctx.Param("studentID"))
		})
	}
}

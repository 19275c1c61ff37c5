package routev1

import (
	apperrors "presenza.io/application/appErrors"
	"presenza.io/application/controller"
	"presenza.io/application/controller/dto"
	"presenza.io/application/interfaces"
	middlewares "presenza.io/infrastructure/middleware"
	"github.com/gin-gonic/gin"
)

func StudentRouter(router *gin.RouterGroup) {
	studentRouter := router.Group("/students")
	{
		studentRouter.POST("/", middlewares.StaffAuthenticationMiddleware(""), func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.CreateStudentDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.CreateStudent(&interfaces.ApplicationContext[dto.CreateStudentDTO]{
				Ctx:  ctx,
				Body: &body,
				Keys: appContext.Keys,
			})
		})

		studentRouter.GET("/", middlewares.StaffAuthenticationMiddleware(""), func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var query dto.ListStudentsDTO
			if err := ctx.ShouldBindQuery(&query); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.ListStudents(&interfaces.ApplicationContext[dto.ListStudentsDTO]{
				Ctx:  ctx,
				Body: &query,
				Keys: appContext.Keys,
			})
		})

		studentRouter.GET("/:id", middlewares.StaffAuthenticationMiddleware(""), func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			controller.FetchStudent(&interfaces.ApplicationContext[any]{
				Ctx:  ctx,
				Keys: appContext.Keys,
			}, ctx.Param("id"))
		})

		studentRouter.PATCH("/:id", middlewares.StaffAuthenticationMiddleware(""), func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.UpdateStudentDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.UpdateStudent(&interfaces.ApplicationContext[dto.UpdateStudentDTO]{
				Ctx:  ctx,
				Body: &body,
				Keys: appContext.Keys,
			}, ctx.Param("id"))
		})

		studentRouter.POST("/:id/deactivate", middlewares.StaffAuthenticationMiddleware("admin"), func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var body dto.DeactivateStudentDTO
			if err := ctx.ShouldBindJSON(&body); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.DeactivateStudent(&interfaces.ApplicationContext[dto.DeactivateStudentDTO]{
				Ctx:  ctx,
				Body: &body,
				Keys: appContext.Keys,
			}, ctx.Param("id"))
		})
	}
}

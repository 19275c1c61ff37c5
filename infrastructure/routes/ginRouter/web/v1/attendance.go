package routev1

import (
	apperrors "presenza.io/application/appErrors"
	"presenza.io/application/controller"
	"presenza.io/application/controller/dto"
	"presenza.io/application/interfaces"
	middlewares "presenza.io/infrastructure/middleware"
	"github.com/gin-gonic/gin"
)

func AttendanceRouter(router *gin.RouterGroup) {
	attendanceRouter := router.Group("/attendance")
	{
		attendanceRouter.GET("/history/:studentID", middlewares.StaffAuthenticationMiddleware(""), func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var query dto.AttendanceHistoryDTO
			if err := ctx.ShouldBindQuery(&query); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.AttendanceHistory(&interfaces.ApplicationContext[dto.AttendanceHistoryDTO]{
				Ctx:  ctx,
				Body: &query,
				Keys: appContext.Keys,
			}, ctx.Param("studentID"))
		})

		attendanceRouter.GET("/roster", middlewares.StaffAuthenticationMiddleware(""), func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			var query dto.DailyRosterDTO
			if err := ctx.ShouldBindQuery(&query); err != nil {
				apperrors.ErrorProcessingPayload(ctx)
				return
			}
			controller.DailyRoster(&interfaces.ApplicationContext[dto.DailyRosterDTO]{
				Ctx:  ctx,
				Body: &query,
				Keys: appContext.Keys,
			})
		})
	}
}

package middlewares

import (
	"github.com/gin-gonic/gin"
	"presenza.io/application/interfaces"
	"presenza.io/application/middlewares"
)

func StaffAuthenticationMiddleware(requiredRole string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		appContext, next := middlewares.StaffAuthenticationMiddleware(&interfaces.ApplicationContext[any]{
			Ctx:      ctx,
			Keys:     ctx.Keys,
			Header:   ctx.Request.Header,
			DeviceID: ctx.Request.Header.Get("X-Device-Id"),
		}, requiredRole)
		if next {
			ctx.Set("AppContext", appContext)
			ctx.Next()
		}
	}
}

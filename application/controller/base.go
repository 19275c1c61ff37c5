package controller

import "context"

// requestContext recovers a context.Context from the framework context held
// in ApplicationContext.Ctx. gin.Context satisfies context.Context; tests
// pass one in directly.
func requestContext(ctx any) context.Context {
	if c, ok := ctx.(context.Context); ok {
		return c
	}
	return context.Background()
}

package middlewares

import (
	"strings"

	"github.com/golang-jwt/jwt/v4"
	apperrors "presenza.io/application/appErrors"
	"presenza.io/application/interfaces"
	"presenza.io/infrastructure/auth"
	"presenza.io/infrastructure/database/repository/cache"
)

// StaffAuthenticationMiddleware validates the bearer token on protected routes
// and hydrates the request context with the staff claims.
func StaffAuthenticationMiddleware(ctx *interfaces.ApplicationContext[any], requiredRole string) (*interfaces.ApplicationContext[any], bool) {
	authTokenHeader := ctx.GetHeader("Authorization")
	if authTokenHeader == nil || *authTokenHeader == "" {
		apperrors.AuthenticationError(ctx.Ctx, "provide an auth token")
		return nil, false
	}
	authToken := strings.TrimPrefix(*authTokenHeader, "Bearer ")

	validToken, err := auth.DecodeAuthToken(authToken)
	if err != nil {
		apperrors.AuthenticationError(ctx.Ctx, "this session has expired")
		return nil, false
	}
	authTokenClaims, ok := validToken.Claims.(jwt.MapClaims)
	if !ok || !validToken.Valid {
		apperrors.AuthenticationError(ctx.Ctx, "this session has expired")
		return nil, false
	}

	staffID, _ := authTokenClaims["staffID"].(string)
	validSession := cache.Cache.FindOne(staffID)
	if validSession == nil || *validSession != authToken {
		apperrors.AuthenticationError(ctx.Ctx, "this session has expired")
		return nil, false
	}

	role, _ := authTokenClaims["role"].(string)
	if requiredRole != "" && role != requiredRole {
		apperrors.AuthenticationError(ctx.Ctx, "you do not have access to this resource")
		return nil, false
	}

	ctx.SetContextData("StaffID", staffID)
	ctx.SetContextData("Email", authTokenClaims["email"])
	ctx.SetContextData("Role", role)
	ctx.SetContextData("SchoolID", authTokenClaims["schoolID"])

	return ctx, true
}

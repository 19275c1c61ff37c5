package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"presenza.io/infrastructure/database/repository/cache"
	"presenza.io/infrastructure/logger"
)

func GenerateAuthToken(claimsData ClaimsData) (*string, error) {
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":      os.Getenv("JWT_ISSUER"),
		"staffID":  claimsData.StaffID,
		"email":    claimsData.Email,
		"role":     claimsData.Role,
		"schoolID": claimsData.SchoolID,
		"exp":      claimsData.ExpiresAt,
		"iat":      claimsData.IssuedAt,
	}).SignedString([]byte(os.Getenv("JWT_SIGNING_KEY")))
	if err != nil {
		return nil, err
	}
	return &tokenString, nil
}

func DecodeAuthToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SIGNING_KEY")), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrSignatureInvalid) {
			return nil, errors.New("invalid token signature used")
		}
		logger.Error("error decoding jwt", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil, err
	}
	if !token.Valid {
		err := errors.New("invalid token used")
		logger.Error(err.Error())
		return nil, err
	}
	return token, nil
}

// Stores the issued token against the staff id so a sign-out can revoke it
// before expiry; the auth middleware only accepts the exact token on record.
func SaveSession(staffID string, token string, validity time.Duration) bool {
	return cache.Cache.CreateEntry(staffID, token, validity)
}

func SignOutStaff(staffID string, reason string) {
	logger.Info("staff signout initiated", logger.LoggerOptions{
		Key:  "reason",
		Data: reason,
	})
	deleted := cache.Cache.DeleteOne(staffID)
	if !deleted {
		logger.Error("failed to sign out staff", logger.LoggerOptions{
			Key:  "id",
			Data: staffID,
		})
	}
}

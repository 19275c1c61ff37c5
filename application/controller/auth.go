package controller

import (
	"net/http"
	"os"
	"time"

	apperrors "presenza.io/application/appErrors"
	"presenza.io/application/controller/dto"
	"presenza.io/application/interfaces"
	"presenza.io/application/repository"
	"presenza.io/application/usecases/audit"
	"presenza.io/entities"
	"presenza.io/infrastructure/auth"
	"presenza.io/infrastructure/cryptography"
	server_response "presenza.io/infrastructure/serverResponse"
	"presenza.io/infrastructure/validator"
)

func StaffLogin(ctx *interfaces.ApplicationContext[dto.StaffLoginDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	staff, err := repository.StaffRepo().FindOneByField(map[string]any{"email": ctx.Body.Email})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if staff == nil || staff.Deactivated {
		apperrors.AuthenticationError(ctx.Ctx, "invalid email or password")
		return
	}
	if !cryptography.CryptoHasher.VerifyHashData(staff.Password, ctx.Body.Password) {
		apperrors.AuthenticationError(ctx.Ctx, "invalid email or password")
		return
	}

	validity := 8 * time.Hour
	now := time.Now()
	token, err := auth.GenerateAuthToken(auth.ClaimsData{
		Issuer:    os.Getenv("JWT_ISSUER"),
		StaffID:   staff.ID,
		Email:     staff.Email,
		Role:      staff.Role,
		ExpiresAt: now.Add(validity).Unix(),
		IssuedAt:  now.Unix(),
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if !auth.SaveSession(staff.ID, *token, validity) {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}

	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "login successful", map[string]any{
		"token": token,
		"staff": staff,
	}, nil, nil)
}

// CreateStaff is admin-only, enforced at the route layer.
func CreateStaff(ctx *interfaces.ApplicationContext[dto.CreateStaffDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	existing, err := repository.StaffRepo().FindOneByField(map[string]any{"email": ctx.Body.Email})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if existing != nil {
		apperrors.EntityAlreadyExistsError(ctx.Ctx, "a staff account with this email already exists", nil)
		return
	}

	hashed, err := cryptography.CryptoHasher.HashString(ctx.Body.Password, nil)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}

	c := requestContext(ctx.Ctx)
	staff, err := repository.StaffRepo().CreateOne(c, entities.Staff{
		Email:     ctx.Body.Email,
		Password:  string(hashed),
		FirstName: ctx.Body.FirstName,
		LastName:  ctx.Body.LastName,
		Role:      ctx.Body.Role,
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}

	actorID, _ := ctx.GetContextData("StaffID").(string)
	audit.RecordAction(c, actorID, "staff-created", staff.ID, map[string]any{
		"email": staff.Email,
		"role":  staff.Role,
	})

	server_response.Responder.Respond(ctx.Ctx, http.StatusCreated, "staff account created", staff, nil, nil)
}

func StaffLogout(ctx *interfaces.ApplicationContext[any]) {
	staffID, _ := ctx.GetContextData("StaffID").(string)
	if staffID != "" {
		auth.SignOutStaff(staffID, "staff initiated logout")
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "logged out", nil, nil, nil)
}

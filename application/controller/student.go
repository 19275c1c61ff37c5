package controller

import (
	"net/http"

	apperrors "presenza.io/application/appErrors"
	"presenza.io/application/controller/dto"
	"presenza.io/application/interfaces"
	"presenza.io/application/repository"
	"presenza.io/application/usecases/audit"
	"presenza.io/entities"
	mongoRepo "presenza.io/infrastructure/database/repository/mongo"
	server_response "presenza.io/infrastructure/serverResponse"
	"presenza.io/infrastructure/validator"
)

func CreateStudent(ctx *interfaces.ApplicationContext[dto.CreateStudentDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	c := requestContext(ctx.Ctx)
	student, err := repository.StudentRepo().CreateOne(c, entities.Student{
		FirstName: ctx.Body.FirstName,
		LastName:  ctx.Body.LastName,
		Grade:     ctx.Body.Grade,
		Guardian:  ctx.Body.Guardian,
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}

	server_response.Responder.Respond(ctx.Ctx, http.StatusCreated, "student created", student, nil, nil)
}

func FetchStudent(ctx *interfaces.ApplicationContext[any], studentID string) {
	student, err := repository.StudentRepo().FindByID(studentID)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if student == nil {
		apperrors.NotFoundError(ctx.Ctx, "this student does not exist")
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "student fetched", student, nil, nil)
}

func ListStudents(ctx *interfaces.ApplicationContext[dto.ListStudentsDTO]) {
	filter := map[string]any{"deactivated": false}
	if ctx.Body.Grade != "" {
		filter["grade"] = ctx.Body.Grade
	}

	pageSize := ctx.Body.PageSize
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}
	skip := ctx.Body.Page * pageSize
	var sort interface{} = map[string]any{"lastName": 1, "firstName": 1}

	students, err := repository.StudentRepo().FindMany(filter, mongoRepo.FindOptions{
		Sort:  &sort,
		Skip:  &skip,
		Limit: &pageSize,
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}

	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "students fetched", students, nil, nil)
}

func UpdateStudent(ctx *interfaces.ApplicationContext[dto.UpdateStudentDTO], studentID string) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	payload := map[string]any{}
	if ctx.Body.FirstName != nil {
		payload["firstName"] = *ctx.Body.FirstName
	}
	if ctx.Body.LastName != nil {
		payload["lastName"] = *ctx.Body.LastName
	}
	if ctx.Body.Grade != nil {
		payload["grade"] = *ctx.Body.Grade
	}
	if ctx.Body.Guardian != nil {
		payload["guardian"] = *ctx.Body.Guardian
	}
	if len(payload) == 0 {
		apperrors.ClientError(ctx.Ctx, "nothing to update", nil, nil)
		return
	}

	c := requestContext(ctx.Ctx)
	updated, err := repository.StudentRepo().UpdatePartialByID(c, studentID, payload)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if updated == 0 {
		apperrors.NotFoundError(ctx.Ctx, "this student does not exist")
		return
	}

	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "student updated", nil, nil, nil)
}

// DeactivateStudent soft-deletes. The biometric record is kept so the
// uniqueness scan still catches a deactivated student re-enrolling under a
// new name; it simply stops matching for attendance.
func DeactivateStudent(ctx *interfaces.ApplicationContext[dto.DeactivateStudentDTO], studentID string) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	c := requestContext(ctx.Ctx)
	updated, err := repository.StudentRepo().UpdatePartialByID(c, studentID, map[string]any{
		"deactivated":       true,
		"deactivatedReason": ctx.Body.Reason,
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if updated == 0 {
		apperrors.NotFoundError(ctx.Ctx, "this student does not exist")
		return
	}

	staffID, _ := ctx.GetContextData("StaffID").(string)
	audit.RecordAction(c, staffID, "student-deactivated", studentID, map[string]any{
		"reason": ctx.Body.Reason,
	})

	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "student deactivated", nil, nil, nil)
}

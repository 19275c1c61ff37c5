package controller

import (
	"errors"
	"net/http"

	apperrors "presenza.io/application/appErrors"
	"presenza.io/application/constants"
	"presenza.io/application/controller/dto"
	"presenza.io/application/interfaces"
	"presenza.io/application/repository"
	"presenza.io/application/usecases/audit"
	"presenza.io/application/utils"
	"presenza.io/infrastructure/biometric"
	server_response "presenza.io/infrastructure/serverResponse"
	"presenza.io/infrastructure/validator"
)

// StartEnrollment opens a multi-sample enrollment session for a student. A
// student with a live record must be re-enrolled explicitly, with a reason.
func StartEnrollment(ctx *interfaces.ApplicationContext[dto.StartEnrollmentDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}
	if ctx.Body.Reenroll && ctx.Body.Reason == "" {
		apperrors.ClientError(ctx.Ctx, "a reason is required for re-enrollment", nil, nil)
		return
	}

	student, err := repository.StudentRepo().FindByID(ctx.Body.StudentID)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if student == nil {
		apperrors.NotFoundError(ctx.Ctx, "this student does not exist")
		return
	}
	if student.Deactivated {
		apperrors.ClientError(ctx.Ctx, "this student has been deactivated", nil, nil)
		return
	}

	c := requestContext(ctx.Ctx)
	session, err := biometric.BiometricEngine.Sessions.Start(c, ctx.Body.StudentID, ctx.Body.Reenroll)
	if err != nil {
		var alreadyEnrolled *biometric.AlreadyEnrolledError
		switch {
		case errors.Is(err, biometric.ErrActiveSessionExists):
			apperrors.CustomError(ctx.Ctx, err.Error(), &constants.SESSION_NOT_ACTIVE)
		case errors.As(err, &alreadyEnrolled):
			apperrors.EntityAlreadyExistsError(ctx.Ctx, err.Error(), &constants.ALREADY_ENROLLED)
		default:
			apperrors.UnknownError(ctx.Ctx, err, nil)
		}
		return
	}

	if ctx.Body.Reenroll {
		staffID, _ := ctx.GetContextData("StaffID").(string)
		audit.RecordAction(c, staffID, "re-enrollment-started", ctx.Body.StudentID, map[string]any{
			"sessionID": session.SessionID,
			"reason":    ctx.Body.Reason,
		})
	}

	server_response.Responder.Respond(ctx.Ctx, http.StatusCreated, "enrollment session started", session, nil, nil)
}

// AddEnrollmentSample pushes one capture through the quality, normalization
// and uniqueness gates and attaches it to the session.
func AddEnrollmentSample(ctx *interfaces.ApplicationContext[dto.AddEnrollmentSampleDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	c := requestContext(ctx.Ctx)
	coverage, err := biometric.BiometricEngine.Sessions.AddSample(c, ctx.Body.SessionID, ctx.Body.Capture)
	if err != nil {
		var qualityErr *biometric.QualityError
		var duplicateErr *biometric.DuplicateIdentityError
		switch {
		case errors.As(err, &qualityErr):
			server_response.Responder.Respond(ctx.Ctx, http.StatusUnprocessableEntity, err.Error(), qualityErr.Assessment, nil, &constants.QUALITY_REJECTED)
		case errors.As(err, &duplicateErr):
			server_response.Responder.Respond(ctx.Ctx, http.StatusConflict, "this face appears to already be enrolled for another student", map[string]any{
				"conflictingStudentID": duplicateErr.ConflictingIdentityID,
				"distance":             duplicateErr.Distance,
			}, nil, &constants.DUPLICATE_IDENTITY)
		case errors.Is(err, biometric.ErrSessionNotActive):
			apperrors.CustomError(ctx.Ctx, err.Error(), &constants.SESSION_NOT_ACTIVE)
		case errors.Is(err, biometric.ErrInvalidDescriptor), errors.Is(err, biometric.ErrDegenerateDescriptor):
			apperrors.ClientError(ctx.Ctx, err.Error(), nil, nil)
		default:
			apperrors.UnknownError(ctx.Ctx, err, nil)
		}
		return
	}

	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "sample accepted", coverage, nil, nil)
}

// CompleteEnrollment finalizes a session once every required angle has a
// sample, promoting them to the student's permanent record.
func CompleteEnrollment(ctx *interfaces.ApplicationContext[dto.CompleteEnrollmentDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	c := requestContext(ctx.Ctx)
	summary, err := biometric.BiometricEngine.Sessions.Complete(c, ctx.Body.SessionID)
	if err != nil {
		var coverageErr *biometric.IncompleteCoverageError
		var duplicateErr *biometric.DuplicateIdentityError
		switch {
		case errors.As(err, &coverageErr):
			server_response.Responder.Respond(ctx.Ctx, http.StatusBadRequest, err.Error(), map[string]any{
				"missing": coverageErr.Missing,
			}, nil, &constants.INCOMPLETE_COVERAGE)
		case errors.As(err, &duplicateErr):
			server_response.Responder.Respond(ctx.Ctx, http.StatusConflict, "this face appears to already be enrolled for another student", map[string]any{
				"conflictingStudentID": duplicateErr.ConflictingIdentityID,
				"distance":             duplicateErr.Distance,
			}, nil, &constants.DUPLICATE_IDENTITY)
		case errors.Is(err, biometric.ErrSessionNotActive):
			apperrors.CustomError(ctx.Ctx, err.Error(), &constants.SESSION_NOT_ACTIVE)
		default:
			apperrors.UnknownError(ctx.Ctx, err, nil)
		}
		return
	}

	staffID, _ := ctx.GetContextData("StaffID").(string)
	audit.RecordAction(c, staffID, "enrollment-completed", summary.IdentityID, map[string]any{
		"sessionID":        summary.SessionID,
		"sampleCount":      summary.SampleCount,
		"aggregateQuality": summary.AggregateQuality,
	})

	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "enrollment completed", summary, nil, nil)
}

// CancelEnrollment discards an active session and all its samples.
func CancelEnrollment(ctx *interfaces.ApplicationContext[dto.CancelEnrollmentDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	c := requestContext(ctx.Ctx)
	err := biometric.BiometricEngine.Sessions.Cancel(c, ctx.Body.SessionID)
	if err != nil {
		if errors.Is(err, biometric.ErrSessionNotActive) {
			apperrors.CustomError(ctx.Ctx, err.Error(), &constants.SESSION_NOT_ACTIVE)
			return
		}
		apperrors.UnknownError(ctx.Ctx, err, nil)
		return
	}

	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "enrollment session cancelled", nil, nil, nil)
}

// EnrollmentStatus reports whether a student has a finalized biometric
// record and how it was built.
func EnrollmentStatus(ctx *interfaces.ApplicationContext[any], studentID string) {
	student, err := repository.StudentRepo().FindByID(studentID)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if student == nil {
		apperrors.NotFoundError(ctx.Ctx, "this student does not exist")
		return
	}

	status := dto.StudentEnrollmentStatus{
		StudentID:    student.ID,
		Enrolled:     student.BiometricRecord != nil,
		LegacyRecord: student.BiometricRecord == nil && len(student.LegacyDescriptor) > 0,
	}
	if student.BiometricRecord != nil {
		status.SampleCount = len(student.BiometricRecord.Samples)
		status.AggregateQuality = utils.GetFloat64Pointer(student.BiometricRecord.AggregateQuality)
		status.EnrolledAt = utils.GetStringPointer(student.BiometricRecord.EnrolledAt.Format("2006-01-02T15:04:05Z07:00"))
	}

	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "enrollment status fetched", status, nil, nil)
}

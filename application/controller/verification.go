package controller

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	apperrors "presenza.io/application/appErrors"
	"presenza.io/application/constants"
	"presenza.io/application/controller/dto"
	"presenza.io/application/interfaces"
	"presenza.io/application/repository"
	"presenza.io/application/usecases/attendance"
	"presenza.io/application/utils"
	"presenza.io/infrastructure/biometric"
	"presenza.io/infrastructure/database/repository/cache"
	server_response "presenza.io/infrastructure/serverResponse"
	"presenza.io/infrastructure/validator"
)

// VerifyStudent matches a live capture against the claimed student's record.
// When MarkAttendance is set and the match succeeds, the student is recorded
// present for today; an attendance failure is reported alongside the decision
// and never invalidates it.
func VerifyStudent(ctx *interfaces.ApplicationContext[dto.VerifyStudentDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}

	attempts := cache.Cache.IncrementWithTTL(fmt.Sprintf("verify-rl:%s", ctx.Body.StudentID), time.Minute)
	if attempts > constants.MAX_VERIFICATION_ATTEMPTS_PER_MINUTE {
		apperrors.RateLimitError(ctx.Ctx, fmt.Sprintf("too many verification attempts for this student. wait a minute and retry, or contact %s if this keeps happening.", constants.SUPPORT_EMAIL), &constants.VERIFICATION_RATE_LIMITED)
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
	decision, err := biometric.BiometricEngine.Matcher.Verify(c, ctx.Body.StudentID, ctx.Body.Capture)
	if err != nil {
		switch {
		case errors.Is(err, biometric.ErrNotEnrolled):
			apperrors.CustomError(ctx.Ctx, "this student has no biometric record. enroll them first.", &constants.NOT_ENROLLED)
		case errors.Is(err, biometric.ErrInvalidDescriptor), errors.Is(err, biometric.ErrDegenerateDescriptor):
			apperrors.ClientError(ctx.Ctx, err.Error(), nil, nil)
		default:
			apperrors.UnknownError(ctx.Ctx, err, nil)
		}
		return
	}

	response := dto.VerificationResponse{Decision: decision}
	if ctx.Body.MarkAttendance && decision.Verified {
		now := time.Now()
		outcome := dto.AttendanceOutcome{Day: utils.DayString(now)}
		marked, alreadyMarked, attErr := attendance.MarkPresent(c, ctx.Body.StudentID, now, decision.Confidence, decision.Method)
		outcome.Marked = marked
		outcome.AlreadyMarked = alreadyMarked
		if attErr != nil {
			outcome.Error = "attendance could not be recorded"
		}
		response.Attendance = &outcome
	}

	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "verification completed", response, nil, nil)
}

package controller

import (
	"net/http"
	"time"

	apperrors "presenza.io/application/appErrors"
	"presenza.io/application/controller/dto"
	"presenza.io/application/interfaces"
	"presenza.io/application/repository"
	"presenza.io/application/utils"
	mongoRepo "presenza.io/infrastructure/database/repository/mongo"
	server_response "presenza.io/infrastructure/serverResponse"
	"presenza.io/infrastructure/validator"
)

const dayRule = "omitempty,datetime=2006-01-02"

// AttendanceHistory lists a student's attendance records, newest first,
// optionally bounded to a day range.
func AttendanceHistory(ctx *interfaces.ApplicationContext[dto.AttendanceHistoryDTO], studentID string) {
	if validator.ValidatorInstance.ValidateValue(ctx.Body.From, dayRule) != nil ||
		validator.ValidatorInstance.ValidateValue(ctx.Body.To, dayRule) != nil {
		apperrors.ClientError(ctx.Ctx, "from and to must be YYYY-MM-DD days", nil, utils.GetUIntPointer(http.StatusBadRequest))
		return
	}

	student, err := repository.StudentRepo().FindByID(studentID)
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	if student == nil {
		apperrors.NotFoundError(ctx.Ctx, "this student does not exist")
		return
	}

	filter := map[string]any{"studentID": studentID}
	dayRange := map[string]any{}
	if ctx.Body.From != "" {
		dayRange["$gte"] = ctx.Body.From
	}
	if ctx.Body.To != "" {
		dayRange["$lte"] = ctx.Body.To
	}
	if len(dayRange) > 0 {
		filter["day"] = dayRange
	}

	var sort interface{} = map[string]any{"day": -1}
	records, err := repository.AttendanceRecordRepo().FindMany(filter, mongoRepo.FindOptions{
		Sort: &sort,
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}

	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "attendance history fetched", records, nil, nil)
}

// DailyRoster reports who was marked present on a day, with the students who
// were not, so staff can chase absences.
func DailyRoster(ctx *interfaces.ApplicationContext[dto.DailyRosterDTO]) {
	if validator.ValidatorInstance.ValidateValue(ctx.Body.Day, dayRule) != nil {
		apperrors.ClientError(ctx.Ctx, "day must be a YYYY-MM-DD day", nil, utils.GetUIntPointer(http.StatusBadRequest))
		return
	}
	day := ctx.Body.Day
	if day == "" {
		day = utils.DayString(time.Now())
	}

	records, err := repository.AttendanceRecordRepo().FindMany(map[string]any{"day": day})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	presentIDs := map[string]bool{}
	for _, record := range *records {
		presentIDs[record.StudentID] = true
	}

	studentFilter := map[string]any{"deactivated": false}
	if ctx.Body.Grade != "" {
		studentFilter["grade"] = ctx.Body.Grade
	}
	var projection interface{} = map[string]any{"firstName": 1, "lastName": 1, "grade": 1}
	students, err := repository.StudentRepo().FindMany(studentFilter, mongoRepo.FindOptions{
		Projection: &projection,
	})
	if err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}

	present := []map[string]any{}
	absent := []map[string]any{}
	for _, student := range *students {
		entry := map[string]any{
			"studentID": student.ID,
			"firstName": student.FirstName,
			"lastName":  student.LastName,
			"grade":     student.Grade,
		}
		if presentIDs[student.ID] {
			present = append(present, entry)
		} else {
			absent = append(absent, entry)
		}
	}

	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "daily roster fetched", map[string]any{
		"day":     day,
		"present": present,
		"absent":  absent,
	}, nil, nil)
}

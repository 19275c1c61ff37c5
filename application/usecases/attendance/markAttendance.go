package attendance

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"presenza.io/application/repository"
	"presenza.io/application/utils"
	"presenza.io/entities"
	"presenza.io/infrastructure/database/repository/cache"
	"presenza.io/infrastructure/logger"
)

// MarkPresent records a student present for the given day. Marking is
// idempotent: the redis day key is a fast path and the unique
// (studentID, day) index is the source of truth, so a concurrent double-mark
// collapses into one record.
func MarkPresent(ctx context.Context, studentID string, day time.Time, confidence float64, method string) (marked bool, alreadyMarked bool, err error) {
	dayKey := utils.DayString(day)
	cacheKey := fmt.Sprintf("attendance:%s:%s", dayKey, studentID)

	if cache.Cache.FindOne(cacheKey) != nil {
		return false, true, nil
	}

	_, err = repository.AttendanceRecordRepo().CreateOne(ctx, entities.AttendanceRecord{
		StudentID:  studentID,
		Day:        dayKey,
		Confidence: confidence,
		Method:     method,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			cache.Cache.CreateEntry(cacheKey, "1", 48*time.Hour)
			return false, true, nil
		}
		return false, false, err
	}

	cache.Cache.CreateEntry(cacheKey, "1", 48*time.Hour)
	logger.Info("attendance marked", logger.LoggerOptions{
		Key:  "studentID",
		Data: studentID,
	}, logger.LoggerOptions{
		Key:  "day",
		Data: dayKey,
	})
	return true, false, nil
}

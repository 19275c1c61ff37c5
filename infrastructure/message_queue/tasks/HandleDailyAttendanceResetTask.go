package queue_tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"presenza.io/application/usecases/audit"
	"presenza.io/application/utils"
	"presenza.io/infrastructure/database/repository/cache"
	"presenza.io/infrastructure/logger"
	mq_types "presenza.io/infrastructure/message_queue/types"
)

var HandleDailyAttendanceResetTaskName mq_types.Queues = "daily_attendance_reset"

// HandleDailyAttendanceResetTask runs just after midnight and clears the
// previous day's attendance idempotence keys from redis. The mongo records
// are permanent; only the fast-path markers are swept.
func HandleDailyAttendanceResetTask(ctx context.Context, t *asynq.Task) error {
	yesterday := utils.DayString(time.Now().AddDate(0, 0, -1))
	deleted := cache.Cache.DeleteByPattern(fmt.Sprintf("attendance:%s:*", yesterday))

	logger.Info("daily attendance reset completed", logger.LoggerOptions{
		Key:  "day",
		Data: yesterday,
	}, logger.LoggerOptions{
		Key:  "keysDeleted",
		Data: deleted,
	})
	audit.RecordAction(ctx, "system", "daily-attendance-reset", "", map[string]any{
		"day":         yesterday,
		"keysDeleted": deleted,
	})
	return nil
}

package queue_tasks

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"presenza.io/application/constants"
	"presenza.io/application/repository"
	"presenza.io/infrastructure/biometric/types"
	"presenza.io/infrastructure/logger"
	mq_types "presenza.io/infrastructure/message_queue/types"
)

var HandleStaleSessionSweepTaskName mq_types.Queues = "stale_session_sweep"

// HandleStaleSessionSweepTask cancels enrollment sessions that have gone
// idle. The filter on the active state makes the sweep safe against a
// session completing concurrently.
func HandleStaleSessionSweepTask(ctx context.Context, t *asynq.Task) error {
	cutoff := time.Now().Add(-time.Duration(constants.ENROLLMENT_SESSION_IDLE_MINUTES) * time.Minute)

	cancelled, err := repository.EnrollmentSessionRepo().UpdateManyByFilter(ctx, map[string]any{
		"state":          types.SessionActive,
		"lastActivityAt": map[string]any{"$lt": cutoff},
	}, map[string]any{
		"state": types.SessionCancelled,
	})
	if err != nil {
		logger.Error("stale session sweep failed", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return err
	}

	if cancelled > 0 {
		logger.Info("stale enrollment sessions cancelled", logger.LoggerOptions{
			Key:  "count",
			Data: cancelled,
		})
	}
	return nil
}

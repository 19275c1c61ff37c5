package audit

import (
	"context"

	"presenza.io/application/repository"
	"presenza.io/entities"
	"presenza.io/infrastructure/logger"
)

// RecordAction appends an audit entry. Failures are logged and swallowed;
// auditing must never fail the action it describes.
func RecordAction(ctx context.Context, actor string, action string, targetID string, details map[string]any) {
	_, err := repository.AuditLogRepo().CreateOne(ctx, entities.AuditLog{
		Actor:    actor,
		Action:   action,
		TargetID: targetID,
		Details:  details,
	})
	if err != nil {
		logger.Error("could not write audit log", logger.LoggerOptions{
			Key:  "action",
			Data: action,
		}, logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
	}
}

package queue_tasks

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	"verifid.io/application/repository"
	"verifid.io/entities"
	"verifid.io/infrastructure/logger"
	mq_types "verifid.io/infrastructure/message_queue/types"
)

var HandleAuditLogTaskName mq_types.Queues = "record_audit_log"

type AuditLogPayload struct {
	BankerID     string
	Action       string
	DecisionID   *string
	Details      map[string]any
	Status       string
	ErrorMessage *string
}

// HandleAuditLogTask persists a compliance entry off the request path.
// Returning an error lets asynq retry, so the trail survives transient
// datastore outages.
func HandleAuditLogTask(ctx context.Context, t *asynq.Task) error {
	var payload AuditLogPayload
	err := json.Unmarshal(t.Payload(), &payload)
	if err != nil {
		logger.Error("an error occured while unmarshalling audit log queue payload", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return err
	}
	_, err = repository.AuditLogRepo().CreateOne(entities.AuditLog{
		BankerID:     payload.BankerID,
		Action:       payload.Action,
		DecisionID:   payload.DecisionID,
		Details:      payload.Details,
		Status:       payload.Status,
		ErrorMessage: payload.ErrorMessage,
	})
	if err != nil {
		logger.Error("failed to record audit log", logger.LoggerOptions{
			Key:  "bankerID",
			Data: payload.BankerID,
		}, logger.LoggerOptions{
			Key:  "action",
			Data: payload.Action,
		})
		return err
	}
	return nil
}

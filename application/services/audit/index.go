package audit

import (
	"encoding/json"

	"verifid.io/infrastructure/logger"
	messagequeue "verifid.io/infrastructure/message_queue"
	queue_tasks "verifid.io/infrastructure/message_queue/tasks"
	mq_types "verifid.io/infrastructure/message_queue/types"
)

// Banker actions recorded on the compliance trail.
const (
	ActionRegister           = "REGISTER"
	ActionLogin              = "LOGIN"
	ActionLogout             = "LOGOUT"
	ActionVerify             = "VERIFY"
	ActionUnauthorizedDecide = "UNAUTHORIZED_DECIDE"

	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// RecordAction queues a compliance entry. Persistence happens off the
// request path; the queue retries until the datastore accepts it.
func RecordAction(payload queue_tasks.AuditLogPayload) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to encode audit payload", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return
	}
	messagequeue.TaskQueue.Enqueue(mq_types.QueueTask{
		Name:     queue_tasks.HandleAuditLogTaskName,
		Payload:  encoded,
		Priority: mq_types.High,
	})
}

// RecordInference queues the immutable pipeline snapshot for a request.
func RecordInference(payload queue_tasks.InferenceLogPayload) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to encode inference log payload", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return
	}
	messagequeue.TaskQueue.Enqueue(mq_types.QueueTask{
		Name:     queue_tasks.HandleInferenceLogTaskName,
		Payload:  encoded,
		Priority: mq_types.Medium,
	})
}

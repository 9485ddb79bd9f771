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

var HandleInferenceLogTaskName mq_types.Queues = "record_inference_log"

type InferenceLogPayload struct {
	RequestID         string
	BankerID          string
	UserID            string
	SimilarityScore   float64
	AdjustedScore     float64
	ConfidenceLevel   string
	ConfidenceScore   float64
	Decision          string
	Variations        []string
	Quality           map[string]float64
	Explanation       string
	FeatureImportance map[string]float64
	ProcessingTimeMS  int64
	IsAnomaly         bool
	RetryCount        int
}

func HandleInferenceLogTask(ctx context.Context, t *asynq.Task) error {
	var payload InferenceLogPayload
	err := json.Unmarshal(t.Payload(), &payload)
	if err != nil {
		logger.Error("an error occured while unmarshalling inference log queue payload", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return err
	}
	_, err = repository.InferenceLogRepo().CreateOne(entities.InferenceLog{
		RequestID:         payload.RequestID,
		BankerID:          payload.BankerID,
		UserID:            payload.UserID,
		SimilarityScore:   payload.SimilarityScore,
		AdjustedScore:     payload.AdjustedScore,
		ConfidenceLevel:   payload.ConfidenceLevel,
		ConfidenceScore:   payload.ConfidenceScore,
		Decision:          payload.Decision,
		Variations:        payload.Variations,
		Quality:           payload.Quality,
		Explanation:       payload.Explanation,
		FeatureImportance: payload.FeatureImportance,
		ProcessingTimeMS:  payload.ProcessingTimeMS,
		IsAnomaly:         payload.IsAnomaly,
		RetryCount:        payload.RetryCount,
	})
	if err != nil {
		logger.Error("failed to record inference log", logger.LoggerOptions{
			Key:  "requestID",
			Data: payload.RequestID,
		})
		return err
	}
	return nil
}

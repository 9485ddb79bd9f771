package repository

import (
	"sync"

	"verifid.io/entities"
	"verifid.io/infrastructure/database/connection/datastore"
	"verifid.io/infrastructure/database/repository/mongo"
)

var inferenceLogOnce = sync.Once{}

var inferenceLogRepository mongo.MongoRepository[entities.InferenceLog]

func InferenceLogRepo() *mongo.MongoRepository[entities.InferenceLog] {
	inferenceLogOnce.Do(func() {
		inferenceLogRepository = mongo.MongoRepository[entities.InferenceLog]{Model: datastore.InferenceLogModel}
	})
	return &inferenceLogRepository
}

package repository

import (
	"sync"

	"verifid.io/entities"
	"verifid.io/infrastructure/database/connection/datastore"
	"verifid.io/infrastructure/database/repository/mongo"
)

var decisionOnce = sync.Once{}

var decisionRepository mongo.MongoRepository[entities.Decision]

func DecisionRepo() *mongo.MongoRepository[entities.Decision] {
	decisionOnce.Do(func() {
		decisionRepository = mongo.MongoRepository[entities.Decision]{Model: datastore.DecisionModel}
	})
	return &decisionRepository
}

package repository

import (
	"sync"

	"verifid.io/entities"
	"verifid.io/infrastructure/database/connection/datastore"
	"verifid.io/infrastructure/database/repository/mongo"
)

var bankerOnce = sync.Once{}

var bankerRepository mongo.MongoRepository[entities.Banker]

func BankerRepo() *mongo.MongoRepository[entities.Banker] {
	bankerOnce.Do(func() {
		bankerRepository = mongo.MongoRepository[entities.Banker]{Model: datastore.BankerModel}
	})
	return &bankerRepository
}

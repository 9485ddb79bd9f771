package repository

import (
	"sync"

	"verifid.io/entities"
	"verifid.io/infrastructure/database/connection/datastore"
	"verifid.io/infrastructure/database/repository/mongo"
)

var auditLogOnce = sync.Once{}

var auditLogRepository mongo.MongoRepository[entities.AuditLog]

func AuditLogRepo() *mongo.MongoRepository[entities.AuditLog] {
	auditLogOnce.Do(func() {
		auditLogRepository = mongo.MongoRepository[entities.AuditLog]{Model: datastore.AuditLogModel}
	})
	return &auditLogRepository
}

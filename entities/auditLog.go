package entities

import (
	"time"

	"verifid.io/application/utils"
)

// Immutable audit entries for compliance. Never updated after insert.
type AuditLog struct {
	BankerID     string         `bson:"bankerID" json:"bankerID"`
	Action       string         `bson:"action" json:"action"`
	DecisionID   *string        `bson:"decisionID" json:"decisionID,omitempty"`
	Details      map[string]any `bson:"details" json:"details"`
	Status       string         `bson:"status" json:"status"`
	ErrorMessage *string        `bson:"errorMessage" json:"errorMessage,omitempty"`

	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (model AuditLog) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		model.ID = utils.GenerateULIDString()
	}
	model.UpdatedAt = now
	return &model
}

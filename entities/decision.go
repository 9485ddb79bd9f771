package entities

import (
	"time"

	"verifid.io/application/utils"
)

// A verification outcome awaiting (or carrying) a banker's final call.
type Decision struct {
	BankerID         string         `bson:"bankerID" json:"bankerID"`
	RequestID        string         `bson:"requestID" json:"requestID"`
	UserID           string         `bson:"userID" json:"userID"`
	MatchScore       float64        `bson:"matchScore" json:"matchScore"`
	AdjustedScore    float64        `bson:"adjustedScore" json:"adjustedScore"`
	ConfidenceLevel  string         `bson:"confidenceLevel" json:"confidenceLevel"`
	Decision         string         `bson:"decision" json:"decision"`
	BankerAction     *string        `bson:"bankerAction" json:"bankerAction"`
	BankerReasoning  *string        `bson:"bankerReasoning" json:"bankerReasoning"`
	Variations       []string       `bson:"variations" json:"variations"`
	VariationDetails map[string]any `bson:"variationDetails" json:"variationDetails"`
	IsAnomaly        bool           `bson:"isAnomaly" json:"isAnomaly"`
	ProcessingTimeMS int64          `bson:"processingTimeMS" json:"processingTimeMS"`
	IPAddress        *string        `bson:"ipAddress" json:"ipAddress,omitempty"`
	DeviceInfo       *string        `bson:"deviceInfo" json:"deviceInfo,omitempty"`

	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (model Decision) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		model.ID = utils.GenerateULIDString()
	}
	model.UpdatedAt = now
	return &model
}

package entities

import (
	"time"

	"verifid.io/application/utils"
)

// An immutable snapshot of a single pipeline run, kept for observability and
// model-drift review independently of the banker-facing decision record.
type InferenceLog struct {
	RequestID         string             `bson:"requestID" json:"requestID"`
	BankerID          string             `bson:"bankerID" json:"bankerID"`
	UserID            string             `bson:"userID" json:"userID"`
	SimilarityScore   float64            `bson:"similarityScore" json:"similarityScore"`
	AdjustedScore     float64            `bson:"adjustedScore" json:"adjustedScore"`
	ConfidenceLevel   string             `bson:"confidenceLevel" json:"confidenceLevel"`
	ConfidenceScore   float64            `bson:"confidenceScore" json:"confidenceScore"`
	Decision          string             `bson:"decision" json:"decision"`
	Variations        []string           `bson:"variations" json:"variations"`
	Quality           map[string]float64 `bson:"quality" json:"quality"`
	Explanation       string             `bson:"explanation" json:"explanation"`
	FeatureImportance map[string]float64 `bson:"featureImportance" json:"featureImportance"`
	ProcessingTimeMS  int64              `bson:"processingTimeMS" json:"processingTimeMS"`
	IsAnomaly         bool               `bson:"isAnomaly" json:"isAnomaly"`
	RetryCount        int                `bson:"retryCount" json:"retryCount"`

	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (model InferenceLog) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		model.ID = utils.GenerateULIDString()
	}
	model.UpdatedAt = now
	return &model
}

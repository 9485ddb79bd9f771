package entities

import (
	"time"

	"verifid.io/application/utils"
)

// A live capture that was approved, kept as positive-match evidence for the
// user's future verifications.
type GalleryImage struct {
	UserID string `bson:"userID" json:"userID"`
	Image  []byte `bson:"image" json:"-"`

	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (model GalleryImage) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		model.ID = utils.GenerateULIDString()
	}
	model.UpdatedAt = now
	return &model
}

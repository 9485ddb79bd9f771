package entities

import (
	"time"

	"verifid.io/application/utils"
)

// A bank officer allowed to run verifications and record decisions.
type Banker struct {
	Name         string     `bson:"name" json:"name" validate:"required,max=100"`
	Email        string     `bson:"email" json:"email" validate:"required,email"`
	Phone        *string    `bson:"phone" json:"phone,omitempty"`
	BranchCode   *string    `bson:"branchCode" json:"branchCode,omitempty"`
	PasswordHash string     `bson:"passwordHash" json:"-"`
	IsActive     bool       `bson:"isActive" json:"isActive"`
	LastLogin    *time.Time `bson:"lastLogin" json:"lastLogin"`
	LoginCount   int64      `bson:"loginCount" json:"loginCount"`

	ID        string    `bson:"_id" json:"id"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (model Banker) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		model.ID = utils.GenerateULIDString()
		model.IsActive = true
	}
	model.UpdatedAt = now
	return &model
}

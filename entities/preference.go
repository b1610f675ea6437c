package entities

import (
	"github.com/google/uuid"
)

// UserPreference carries no relation to users: the id may belong to a
// hosted auth backend that never writes the local users table.
type UserPreference struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_preference_key" json:"user_id"`
	Key    string    `gorm:"uniqueIndex:idx_user_preference_key" json:"key"`
	Value  string    `json:"value"`

	Timestamp
}

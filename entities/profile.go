package entities

import (
	"github.com/google/uuid"
)

type DonorProfile struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID           *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	OrganizationName string     `json:"organization_name"`
	ContactPerson    string     `json:"contact_person"`
	Address          string     `json:"address"`
	Instructions     string     `json:"instructions"`
	IsRecurring      bool       `json:"is_recurring"`
	AvailableDays    DayFlags   `gorm:"type:jsonb" json:"available_days"`
	TimeWindow       TimeWindow `gorm:"embedded;embeddedPrefix:time_window_" json:"time_window"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Timestamp
}

type RecipientProfile struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID        *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	ProfileName   string     `json:"profile_name"`
	Location      string     `json:"location"`
	Needs         string     `json:"needs"`
	Portions      string     `json:"portions"`
	CanPickUp     bool       `json:"can_pick_up"`
	HasFridge     bool       `json:"has_fridge"`
	HasFreezer    bool       `json:"has_freezer"`
	CanStoreLarge bool       `json:"can_store_large"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Timestamp
}

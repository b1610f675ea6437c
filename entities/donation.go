package entities

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// DayFlags holds the seven weekday flags of a pickup schedule as jsonb.
type DayFlags map[string]bool

func (d DayFlags) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return json.Marshal(d)
}

func (d *DayFlags) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("unsupported type for day flags")
	}
	return json.Unmarshal(raw, d)
}

type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Donation struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID             *uuid.UUID     `gorm:"type:uuid;index" json:"user_id,omitempty"`
	FoodImageURL       *string        `json:"food_image_url"`
	DetectedFood       pq.StringArray `gorm:"type:text[]" json:"detected_food"`
	EstimatedPortions  *int           `json:"estimated_portions"`
	EstimatedShelfLife *string        `json:"estimated_shelf_life"`

	ItemName      string         `json:"item_name,omitempty"`
	Description   string         `json:"description,omitempty"`
	Quantity      string         `json:"quantity,omitempty"`
	ExpiryDate    string         `json:"expiry_date,omitempty"`
	IsPerishable  bool           `json:"is_perishable"`
	PickupAddress string         `json:"pickup_address,omitempty"`
	Notes         string         `json:"notes,omitempty"`
	Photos        pq.StringArray `gorm:"type:text[]" json:"photos,omitempty"`
	AvailableDays DayFlags       `gorm:"type:jsonb" json:"available_days,omitempty"`
	TimeWindow    TimeWindow     `gorm:"embedded;embeddedPrefix:time_window_" json:"time_window"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
	Timestamp
}

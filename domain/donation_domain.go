package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var (
	MessageSuccessCreateDonation = "donation created successfully"
	MessageSuccessGetDonations   = "donations retrieved successfully"

	MessageFailedCreateDonation = "failed to create donation"
	MessageFailedGetDonations   = "failed to retrieve donations"

	ErrUnknownTable  = errors.New("unknown table")
	ErrUnknownColumn = errors.New("unknown order column")
)

const (
	TableDonations         = "donations"
	TableDonorProfiles     = "donor_profiles"
	TableRecipientProfiles = "recipient_profiles"

	ColumnCreatedAt = "created_at"
)

type (
	// FoodLabels decodes detected_food from either a JSON array or a single
	// string. Anything else decodes to an empty list.
	FoodLabels []string

	// DonationRecord is the read model rendered by the donation lists.
	// Decoding never fails on a malformed optional field; the field is
	// left unset instead.
	DonationRecord struct {
		ID                 string     `json:"id"`
		FoodImageURL       *string    `json:"food_image_url,omitempty"`
		DetectedFood       FoodLabels `json:"detected_food"`
		EstimatedPortions  *float64   `json:"estimated_portions,omitempty"`
		EstimatedShelfLife *string    `json:"estimated_shelf_life,omitempty"`
		CreatedAt          string     `json:"created_at"`
	}

	CreateDonationRequest struct {
		FoodImageURL       string   `json:"food_image_url" validate:"omitempty,url"`
		DetectedFood       []string `json:"detected_food" validate:"omitempty,dive,required"`
		EstimatedPortions  *int     `json:"estimated_portions" validate:"omitempty,min=0"`
		EstimatedShelfLife string   `json:"estimated_shelf_life" validate:"omitempty"`
	}
)

func (l *FoodLabels) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*l = nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*l = nil
			return nil
		}
		if s == "" {
			*l = nil
			return nil
		}
		*l = FoodLabels{s}
	case data[0] == '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			*l = nil
			return nil
		}
		labels := make(FoodLabels, 0, len(raw))
		for _, r := range raw {
			var s string
			if err := json.Unmarshal(r, &s); err == nil && s != "" {
				labels = append(labels, s)
			}
		}
		*l = labels
	default:
		*l = nil
	}
	return nil
}

// Join renders the labels the way the dashboards display them.
func (l FoodLabels) Join() string {
	return strings.Join(l, ", ")
}

func (r *DonationRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*r = DonationRecord{}
	r.ID = lenientString(fields["id"])
	if s := lenientString(fields["food_image_url"]); s != "" {
		r.FoodImageURL = &s
	}
	if raw, ok := fields["detected_food"]; ok {
		_ = r.DetectedFood.UnmarshalJSON(raw)
	}
	if n, ok := lenientNumber(fields["estimated_portions"]); ok {
		r.EstimatedPortions = &n
	}
	if s := lenientString(fields["estimated_shelf_life"]); s != "" {
		r.EstimatedShelfLife = &s
	}
	r.CreatedAt = lenientString(fields["created_at"])
	return nil
}

func lenientString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

func lenientNumber(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

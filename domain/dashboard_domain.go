package domain

import "errors"

var (
	MessageSuccessGetDashboard   = "dashboard retrieved successfully"
	MessageFailedGetDashboard    = "failed to retrieve dashboard"
	MessageSuccessGetPreference  = "preference retrieved successfully"
	MessageSuccessSetPreference  = "preference saved successfully"
	MessageFailedGetPreference   = "failed to retrieve preference"
	MessageFailedSetPreference   = "failed to save preference"
	MessageLoadDonationsFailed   = "Failed to load donations. Please try again later."
	MessageLoadDonationsRetry    = "Please check your connection and try again."
	MessageUnexpectedLoadFailure = "An unexpected error occurred. Please try again later."

	PlaceholderNoImage = "No image available"
	PlaceholderUnknown = "Unknown"
	PlaceholderNoFood  = "Unknown food"

	ErrPreferenceNotFound = errors.New("preference not found")
	ErrUnknownPreference  = errors.New("unknown preference key")
)

type ListStatus string

const (
	ListStatusLoading ListStatus = "loading"
	ListStatusSuccess ListStatus = "success"
	ListStatusError   ListStatus = "error"
)

type DashboardVariant string

const (
	DashboardDonor     DashboardVariant = "donor"
	DashboardRecipient DashboardVariant = "recipient"
	DashboardDefault   DashboardVariant = "default"
)

type (
	// DonationItemView is one rendered row of a donation list.
	DonationItemView struct {
		ID        string `json:"id"`
		ImageURL  string `json:"image_url,omitempty"`
		ImageText string `json:"image_text,omitempty"`
		FoodLabel string `json:"food_label"`
		Portions  string `json:"portions"`
		ShelfLife string `json:"shelf_life"`
		CreatedAt string `json:"created_at"`
	}

	DonationListView struct {
		Status    ListStatus         `json:"status"`
		Items     []DonationItemView `json:"items"`
		EmptyText string             `json:"empty_text,omitempty"`
		Error     string             `json:"error,omitempty"`
		Hint      string             `json:"hint,omitempty"`
	}

	DashboardView struct {
		Variant      DashboardVariant `json:"variant"`
		Title        string           `json:"title"`
		Greeting     string           `json:"greeting,omitempty"`
		SectionTitle string           `json:"section_title"`
		OfferRoles   []string         `json:"offer_roles,omitempty"`
		List         DonationListView `json:"list"`
	}

	SetPreferenceRequest struct {
		Value string `json:"value" validate:"required"`
	}

	Preference struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}
)

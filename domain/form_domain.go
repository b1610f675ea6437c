package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessOpenForm     = "form opened successfully"
	MessageSuccessGetForm      = "form retrieved successfully"
	MessageSuccessUpdateForm   = "form updated successfully"
	MessageSuccessUploadPhoto  = "photo added successfully"
	MessageSuccessRemovePhoto  = "photo removed successfully"
	MessageSuccessSubmitForm   = "form submitted successfully"
	MessageSuccessDiscardForm  = "form discarded successfully"
	MessageFailedOpenForm      = "failed to open form"
	MessageFailedGetForm       = "failed to retrieve form"
	MessageFailedUpdateForm    = "failed to update form"
	MessageFailedUploadPhoto   = "there was an error uploading your photos"
	MessageFailedTakePhoto     = "there was an error taking your photo"
	MessageFailedRemovePhoto   = "failed to remove photo"
	MessageFailedSubmitForm    = "failed to submit form"
	MessageGalleryPermission   = "You need to allow access to your photos to upload them"
	MessageCameraPermission    = "You need to allow access to your camera to take photos"
	MessageSubmitFailedVisible = "We couldn't send your submission. Please check your connection and try again."

	ErrFormNotFound       = errors.New("form not found")
	ErrUnknownFormKind    = errors.New("unknown form kind")
	ErrUnknownField       = errors.New("unknown form field")
	ErrUnknownDay         = errors.New("unknown day")
	ErrUnknownToggle      = errors.New("unknown toggle")
	ErrSubmitNotAllowed   = errors.New("submit is disabled until the instructions are acknowledged")
	ErrSubmitInFlight     = errors.New("a submission is already in progress")
	ErrAlreadySubmitted   = errors.New("form already submitted")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrPhotoIndex         = errors.New("photo index out of range")
	ErrInvalidPhotoSource = errors.New("photo source must be gallery or camera")
	ErrTooManyForms       = errors.New("too many open forms")
)

type FormKind string

const (
	FormKindDonor     FormKind = "donor"
	FormKindRecipient FormKind = "recipient"
	FormKindItem      FormKind = "item"
)

// Table is the gateway table a submitted form of this kind is written to.
func (k FormKind) Table() string {
	switch k {
	case FormKindDonor:
		return TableDonorProfiles
	case FormKindRecipient:
		return TableRecipientProfiles
	case FormKindItem:
		return TableDonations
	}
	return ""
}

func (k FormKind) Valid() bool {
	return k.Table() != ""
}

type FormState string

const (
	FormStateEmpty      FormState = "empty"
	FormStateEditing    FormState = "editing"
	FormStateSubmitting FormState = "submitting"
	FormStateSubmitted  FormState = "submitted"
	FormStateFailed     FormState = "failed"
)

type DayKey string

const (
	DayMonday    DayKey = "M"
	DayTuesday   DayKey = "T"
	DayWednesday DayKey = "W"
	DayThursday  DayKey = "Th"
	DayFriday    DayKey = "F"
	DaySaturday  DayKey = "S"
	DaySunday    DayKey = "Su"
)

// Days lists the day keys in display order.
var Days = []DayKey{DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday, DaySunday}

func (d DayKey) Valid() bool {
	for _, k := range Days {
		if k == d {
			return true
		}
	}
	return false
}

// DaySet always carries all seven day keys.
type DaySet map[DayKey]bool

func NewDaySet() DaySet {
	s := make(DaySet, len(Days))
	for _, d := range Days {
		s[d] = false
	}
	return s
}

func (s DaySet) Clone() DaySet {
	c := make(DaySet, len(s))
	for k, v := range s {
		c[k] = v
	}
	return c
}

// Selected returns the flagged days in display order.
func (s DaySet) Selected() []DayKey {
	var out []DayKey
	for _, d := range Days {
		if s[d] {
			out = append(out, d)
		}
	}
	return out
}

type TimeWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type (
	// DonationSubmission is the payload a submitted form hands to the gateway.
	// Fields that do not belong to the form's kind stay empty and are omitted.
	DonationSubmission struct {
		UserID string `json:"user_id,omitempty"`

		// donor
		OrganizationName string      `json:"organization_name,omitempty"`
		ContactPerson    string      `json:"contact_person,omitempty"`
		Address          string      `json:"address,omitempty"`
		Instructions     string      `json:"instructions,omitempty"`
		IsRecurring      *bool       `json:"is_recurring,omitempty"`
		AvailableDays    DaySet      `json:"available_days,omitempty"`
		TimeWindow       *TimeWindow `json:"time_window,omitempty"`

		// recipient
		ProfileName   string `json:"profile_name,omitempty"`
		Location      string `json:"location,omitempty"`
		Needs         string `json:"needs,omitempty"`
		Portions      string `json:"portions,omitempty"`
		CanPickUp     *bool  `json:"can_pick_up,omitempty"`
		HasFridge     *bool  `json:"has_fridge,omitempty"`
		HasFreezer    *bool  `json:"has_freezer,omitempty"`
		CanStoreLarge *bool  `json:"can_store_large,omitempty"`

		// item
		ItemName           string   `json:"item_name,omitempty"`
		Description        string   `json:"description,omitempty"`
		Quantity           string   `json:"quantity,omitempty"`
		ExpiryDate         string   `json:"expiry_date,omitempty"`
		IsPerishable       *bool    `json:"is_perishable,omitempty"`
		PickupAddress      string   `json:"pickup_address,omitempty"`
		Notes              string   `json:"notes,omitempty"`
		Photos             []string `json:"photos,omitempty"`
		FoodImageURL       string   `json:"food_image_url,omitempty"`
		EstimatedPortions  *int     `json:"estimated_portions,omitempty"`
		EstimatedShelfLife string   `json:"estimated_shelf_life,omitempty"`
	}

	// FormView is the snapshot a client renders for an open form.
	FormView struct {
		ID           string            `json:"id"`
		Kind         FormKind          `json:"kind"`
		State        FormState         `json:"state"`
		Fields       map[string]string `json:"fields"`
		Toggles      map[string]bool   `json:"toggles"`
		Days         DaySet            `json:"days,omitempty"`
		Photos       []string          `json:"photos"`
		Acknowledged bool              `json:"acknowledged"`
		CanSubmit    bool              `json:"can_submit"`
		Error        string            `json:"error,omitempty"`
		RecordID     string            `json:"record_id,omitempty"`
		UpdatedAt    time.Time         `json:"updated_at"`
	}

	OpenFormRequest struct {
		Kind string `json:"kind" validate:"required,oneof=donor recipient item"`
	}

	UpdateFieldRequest struct {
		Key   string `json:"key" validate:"required"`
		Value string `json:"value"`
	}

	SetToggleRequest struct {
		Value bool `json:"value"`
	}

	AcknowledgeRequest struct {
		Acknowledged bool `json:"acknowledged"`
	}

	UploadPhotoRequest struct {
		Source            string `json:"source" form:"source" validate:"required,oneof=gallery camera"`
		PermissionGranted bool   `json:"permission_granted" form:"permission_granted"`
	}
)

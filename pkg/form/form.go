// Package form holds the in-progress state of the donor signup, recipient
// signup and item donation forms, and submits them through the gateway.
package form

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"time"

	"zipli-backend/domain"
	"zipli-backend/pkg/gateway"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

const (
	FieldOrganizationName = "organizationName"
	FieldContactPerson    = "contactPerson"
	FieldAddress          = "address"
	FieldInstructions     = "instructions"
	FieldStart            = "start"
	FieldEnd              = "end"

	FieldProfileName = "profileName"
	FieldLocation    = "location"
	FieldNeeds       = "needs"
	FieldPortions    = "portions"

	FieldItemName      = "itemName"
	FieldDescription   = "description"
	FieldQuantity      = "quantity"
	FieldExpiryDate    = "expiryDate"
	FieldPickupAddress = "pickupAddress"
	FieldNotes         = "notes"
	FieldShelfLife     = "estimatedShelfLife"

	ToggleRecurring     = "isRecurring"
	ToggleCanPickUp     = "canPickUp"
	ToggleHasFridge     = "hasFridge"
	ToggleHasFreezer    = "hasFreezer"
	ToggleCanStoreLarge = "canStoreLarge"
	TogglePerishable    = "isPerishable"

	DefaultStart = "10:00"
	DefaultEnd   = "16:00"
)

type layout struct {
	fields   []string
	toggles  []string
	days     bool
	photos   bool
	defaults map[string]string
}

var layouts = map[domain.FormKind]layout{
	domain.FormKindDonor: {
		fields:   []string{FieldOrganizationName, FieldContactPerson, FieldAddress, FieldInstructions, FieldStart, FieldEnd},
		toggles:  []string{ToggleRecurring},
		days:     true,
		defaults: map[string]string{FieldStart: DefaultStart, FieldEnd: DefaultEnd},
	},
	domain.FormKindRecipient: {
		fields:  []string{FieldProfileName, FieldLocation, FieldNeeds, FieldPortions},
		toggles: []string{ToggleCanPickUp, ToggleHasFridge, ToggleHasFreezer, ToggleCanStoreLarge},
	},
	domain.FormKindItem: {
		fields: []string{
			FieldItemName, FieldDescription, FieldQuantity, FieldExpiryDate,
			FieldPickupAddress, FieldNotes, FieldShelfLife, FieldStart, FieldEnd,
		},
		toggles:  []string{TogglePerishable},
		days:     true,
		photos:   true,
		defaults: map[string]string{FieldStart: DefaultStart, FieldEnd: DefaultEnd},
	},
}

// Form is one open form. All methods are safe for concurrent use.
type Form struct {
	mu sync.Mutex

	id      string
	kind    domain.FormKind
	userID  string
	gateway gateway.Gateway

	state        domain.FormState
	fields       map[string]string
	toggles      map[string]bool
	days         domain.DaySet
	photos       []string
	acknowledged bool
	lastErr      string
	recordID     string
	updatedAt    time.Time
}

func New(kind domain.FormKind, userID string, gw gateway.Gateway) (*Form, error) {
	l, ok := layouts[kind]
	if !ok {
		return nil, domain.ErrUnknownFormKind
	}

	f := &Form{
		id:        uuid.NewString(),
		kind:      kind,
		userID:    userID,
		gateway:   gw,
		state:     domain.FormStateEmpty,
		fields:    make(map[string]string, len(l.fields)),
		toggles:   make(map[string]bool, len(l.toggles)),
		photos:    []string{},
		updatedAt: time.Now(),
	}
	for _, key := range l.fields {
		f.fields[key] = l.defaults[key]
	}
	for _, key := range l.toggles {
		f.toggles[key] = false
	}
	if l.days {
		f.days = domain.NewDaySet()
	}
	return f, nil
}

func (f *Form) ID() string     { return f.id }
func (f *Form) UserID() string { return f.userID }

func (f *Form) Kind() domain.FormKind { return f.kind }

// beginEdit must be called with mu held.
func (f *Form) beginEdit() error {
	switch f.state {
	case domain.FormStateSubmitting:
		return domain.ErrSubmitInFlight
	case domain.FormStateSubmitted:
		return domain.ErrAlreadySubmitted
	}
	f.state = domain.FormStateEditing
	f.lastErr = ""
	f.updatedAt = time.Now()
	return nil
}

// UpdateField writes one field and nothing else.
func (f *Form) UpdateField(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.fields[key]; !ok {
		return domain.ErrUnknownField
	}
	if err := f.beginEdit(); err != nil {
		return err
	}
	f.fields[key] = value
	return nil
}

// ToggleDay flips a single day flag.
func (f *Form) ToggleDay(day domain.DayKey) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.days == nil || !day.Valid() {
		return domain.ErrUnknownDay
	}
	if err := f.beginEdit(); err != nil {
		return err
	}
	f.days[day] = !f.days[day]
	return nil
}

func (f *Form) SetToggle(key string, value bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.toggles[key]; !ok {
		return domain.ErrUnknownToggle
	}
	if err := f.beginEdit(); err != nil {
		return err
	}
	f.toggles[key] = value
	return nil
}

// SetAcknowledged checks or unchecks the "I have read the instructions" box.
func (f *Form) SetAcknowledged(value bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.beginEdit(); err != nil {
		return err
	}
	f.acknowledged = value
	return nil
}

// CanSubmit reports whether the submit control may be invoked.
func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canSubmit()
}

func (f *Form) canSubmit() bool {
	if !f.acknowledged {
		return false
	}
	return f.state != domain.FormStateSubmitting && f.state != domain.FormStateSubmitted
}

// Submit sends the payload to the gateway. On failure the form keeps its
// data, moves to failed and carries a message for the user; the next edit
// or submit takes it back to editing.
func (f *Form) Submit(ctx context.Context) (gateway.Record, error) {
	f.mu.Lock()
	if !f.canSubmit() {
		defer f.mu.Unlock()
		switch f.state {
		case domain.FormStateSubmitting:
			return nil, domain.ErrSubmitInFlight
		case domain.FormStateSubmitted:
			return nil, domain.ErrAlreadySubmitted
		}
		return nil, domain.ErrSubmitNotAllowed
	}
	f.state = domain.FormStateSubmitting
	f.lastErr = ""
	payload := f.payload()
	f.updatedAt = time.Now()
	f.mu.Unlock()

	record, err := toRecord(payload)
	if err == nil {
		record, err = f.gateway.Create(ctx, f.kind.Table(), record)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.updatedAt = time.Now()
	if err != nil {
		log.Errorf("submit %s form %s: %v", f.kind, f.id, err)
		f.state = domain.FormStateFailed
		f.lastErr = domain.MessageSubmitFailedVisible
		return nil, err
	}

	f.state = domain.FormStateSubmitted
	if id, ok := record["id"]; ok {
		f.recordID = strings.TrimSpace(toString(id))
	}
	return record, nil
}

// Payload is the submission the form would send right now.
func (f *Form) Payload() domain.DonationSubmission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.payload()
}

func (f *Form) payload() domain.DonationSubmission {
	p := domain.DonationSubmission{UserID: f.userID}

	window := func() *domain.TimeWindow {
		return &domain.TimeWindow{Start: f.fields[FieldStart], End: f.fields[FieldEnd]}
	}
	flag := func(key string) *bool {
		v := f.toggles[key]
		return &v
	}

	switch f.kind {
	case domain.FormKindDonor:
		p.OrganizationName = f.fields[FieldOrganizationName]
		p.ContactPerson = f.fields[FieldContactPerson]
		p.Address = f.fields[FieldAddress]
		p.Instructions = f.fields[FieldInstructions]
		p.IsRecurring = flag(ToggleRecurring)
		p.AvailableDays = f.days.Clone()
		p.TimeWindow = window()

	case domain.FormKindRecipient:
		p.ProfileName = f.fields[FieldProfileName]
		p.Location = f.fields[FieldLocation]
		p.Needs = f.fields[FieldNeeds]
		p.Portions = f.fields[FieldPortions]
		p.CanPickUp = flag(ToggleCanPickUp)
		p.HasFridge = flag(ToggleHasFridge)
		p.HasFreezer = flag(ToggleHasFreezer)
		p.CanStoreLarge = flag(ToggleCanStoreLarge)

	case domain.FormKindItem:
		p.ItemName = f.fields[FieldItemName]
		p.Description = f.fields[FieldDescription]
		p.Quantity = f.fields[FieldQuantity]
		p.ExpiryDate = f.fields[FieldExpiryDate]
		p.PickupAddress = f.fields[FieldPickupAddress]
		p.Notes = f.fields[FieldNotes]
		p.EstimatedShelfLife = f.fields[FieldShelfLife]
		p.IsPerishable = flag(TogglePerishable)
		p.AvailableDays = f.days.Clone()
		p.TimeWindow = window()
		p.Photos = append([]string(nil), f.photos...)
		if len(f.photos) > 0 {
			p.FoodImageURL = f.photos[0]
		}
		if n, err := strconv.Atoi(strings.TrimSpace(p.Quantity)); err == nil && n >= 0 {
			p.EstimatedPortions = &n
		}
	}
	return p
}

func (f *Form) View() domain.FormView {
	f.mu.Lock()
	defer f.mu.Unlock()

	fields := make(map[string]string, len(f.fields))
	for k, v := range f.fields {
		fields[k] = v
	}
	toggles := make(map[string]bool, len(f.toggles))
	for k, v := range f.toggles {
		toggles[k] = v
	}
	var days domain.DaySet
	if f.days != nil {
		days = f.days.Clone()
	}

	return domain.FormView{
		ID:           f.id,
		Kind:         f.kind,
		State:        f.state,
		Fields:       fields,
		Toggles:      toggles,
		Days:         days,
		Photos:       append([]string{}, f.photos...),
		Acknowledged: f.acknowledged,
		CanSubmit:    f.canSubmit(),
		Error:        f.lastErr,
		RecordID:     f.recordID,
		UpdatedAt:    f.updatedAt,
	}
}

func toRecord(p domain.DonationSubmission) (gateway.Record, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	record := gateway.Record{}
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, err
	}
	return record, nil
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	}
	raw, _ := json.Marshal(v)
	return string(raw)
}

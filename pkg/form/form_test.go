package form

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"zipli-backend/domain"
	"zipli-backend/pkg/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createCall struct {
	table  string
	record gateway.Record
}

type fakeGateway struct {
	gateway.Gateway

	mu      sync.Mutex
	calls   []createCall
	err     error
	entered chan struct{}
	release chan struct{}
}

func (g *fakeGateway) Create(ctx context.Context, table string, record gateway.Record) (gateway.Record, error) {
	g.mu.Lock()
	g.calls = append(g.calls, createCall{table: table, record: record})
	err := g.err
	g.mu.Unlock()

	if g.entered != nil {
		g.entered <- struct{}{}
	}
	if g.release != nil {
		<-g.release
	}
	if err != nil {
		return nil, err
	}

	out := gateway.Record{"id": "rec-1"}
	for k, v := range record {
		out[k] = v
	}
	return out, nil
}

func (g *fakeGateway) created() []createCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]createCall(nil), g.calls...)
}

func newForm(t *testing.T, kind domain.FormKind, gw gateway.Gateway) *Form {
	t.Helper()
	f, err := New(kind, "user-1", gw)
	require.NoError(t, err)
	return f
}

func TestNew_UnknownKind(t *testing.T) {
	_, err := New(domain.FormKind("pantry"), "user-1", &fakeGateway{})
	assert.ErrorIs(t, err, domain.ErrUnknownFormKind)
}

func TestNew_StartsEmpty(t *testing.T) {
	f := newForm(t, domain.FormKindDonor, &fakeGateway{})
	view := f.View()

	assert.Equal(t, domain.FormStateEmpty, view.State)
	assert.Equal(t, DefaultStart, view.Fields[FieldStart])
	assert.Equal(t, DefaultEnd, view.Fields[FieldEnd])
	assert.Len(t, view.Days, 7)
	assert.Empty(t, view.Days.Selected())
	assert.False(t, view.CanSubmit)
}

func TestSubmit_DisabledUntilAcknowledged(t *testing.T) {
	for _, kind := range []domain.FormKind{domain.FormKindDonor, domain.FormKindRecipient, domain.FormKindItem} {
		t.Run(string(kind), func(t *testing.T) {
			gw := &fakeGateway{}
			f := newForm(t, kind, gw)

			assert.False(t, f.CanSubmit())
			_, err := f.Submit(context.Background())
			assert.ErrorIs(t, err, domain.ErrSubmitNotAllowed)
			assert.Empty(t, gw.created())

			// No other field is needed.
			require.NoError(t, f.SetAcknowledged(true))
			assert.True(t, f.CanSubmit())

			require.NoError(t, f.SetAcknowledged(false))
			assert.False(t, f.CanSubmit())
		})
	}
}

func TestToggleDay_TwiceRestores(t *testing.T) {
	f := newForm(t, domain.FormKindDonor, &fakeGateway{})
	require.NoError(t, f.ToggleDay(domain.DayWednesday))
	before := f.View().Days

	for _, day := range domain.Days {
		require.NoError(t, f.ToggleDay(day))
		require.NoError(t, f.ToggleDay(day))
		assert.Equal(t, before, f.View().Days, "day %s", day)
	}
}

func TestToggleDay_OnlyFlipsOneDay(t *testing.T) {
	f := newForm(t, domain.FormKindItem, &fakeGateway{})
	require.NoError(t, f.ToggleDay(domain.DayThursday))

	days := f.View().Days
	assert.Equal(t, []domain.DayKey{domain.DayThursday}, days.Selected())
}

func TestToggleDay_Unknown(t *testing.T) {
	f := newForm(t, domain.FormKindDonor, &fakeGateway{})
	assert.ErrorIs(t, f.ToggleDay("Xx"), domain.ErrUnknownDay)

	recipient := newForm(t, domain.FormKindRecipient, &fakeGateway{})
	assert.ErrorIs(t, recipient.ToggleDay(domain.DayMonday), domain.ErrUnknownDay)
}

func TestUpdateField_WritesOnlyThatField(t *testing.T) {
	for kind, l := range layouts {
		for _, key := range l.fields {
			t.Run(string(kind)+"/"+key, func(t *testing.T) {
				f := newForm(t, kind, &fakeGateway{})
				before := f.View()

				require.NoError(t, f.UpdateField(key, "value for "+key))
				after := f.View()

				assert.Equal(t, "value for "+key, after.Fields[key])
				for k, v := range before.Fields {
					if k != key {
						assert.Equal(t, v, after.Fields[k], "field %s changed", k)
					}
				}
				assert.Equal(t, before.Toggles, after.Toggles)
				assert.Equal(t, before.Days, after.Days)
				assert.Equal(t, before.Photos, after.Photos)
				assert.Equal(t, before.Acknowledged, after.Acknowledged)
				assert.Equal(t, domain.FormStateEditing, after.State)
			})
		}
	}
}

func TestUpdateField_UnknownKey(t *testing.T) {
	f := newForm(t, domain.FormKindRecipient, &fakeGateway{})
	assert.ErrorIs(t, f.UpdateField(FieldOrganizationName, "x"), domain.ErrUnknownField)
	assert.Equal(t, domain.FormStateEmpty, f.View().State)
}

func TestSetToggle(t *testing.T) {
	f := newForm(t, domain.FormKindRecipient, &fakeGateway{})
	require.NoError(t, f.SetToggle(ToggleHasFridge, true))

	toggles := f.View().Toggles
	assert.True(t, toggles[ToggleHasFridge])
	assert.False(t, toggles[ToggleCanPickUp])
	assert.ErrorIs(t, f.SetToggle(TogglePerishable, true), domain.ErrUnknownToggle)
}

func TestSubmit_DonorSchedulePayload(t *testing.T) {
	gw := &fakeGateway{}
	f := newForm(t, domain.FormKindDonor, gw)

	require.NoError(t, f.UpdateField(FieldOrganizationName, "Helsinki Bank"))
	require.NoError(t, f.ToggleDay(domain.DayMonday))
	require.NoError(t, f.ToggleDay(domain.DayFriday))
	require.NoError(t, f.UpdateField(FieldStart, "10:00"))
	require.NoError(t, f.UpdateField(FieldEnd, "16:00"))
	require.NoError(t, f.SetAcknowledged(true))

	record, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "rec-1", record["id"])

	calls := gw.created()
	require.Len(t, calls, 1)
	assert.Equal(t, domain.TableDonorProfiles, calls[0].table)

	sent := calls[0].record
	assert.Equal(t, "Helsinki Bank", sent["organization_name"])
	assert.Equal(t, "user-1", sent["user_id"])

	days, ok := sent["available_days"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, days, 7)
	for _, day := range domain.Days {
		want := day == domain.DayMonday || day == domain.DayFriday
		assert.Equal(t, want, days[string(day)], "day %s", day)
	}

	window, ok := sent["time_window"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "10:00", window["start"])
	assert.Equal(t, "16:00", window["end"])

	view := f.View()
	assert.Equal(t, domain.FormStateSubmitted, view.State)
	assert.Equal(t, "rec-1", view.RecordID)
	assert.False(t, view.CanSubmit)
}

func TestSubmit_RecipientPayload(t *testing.T) {
	gw := &fakeGateway{}
	f := newForm(t, domain.FormKindRecipient, gw)

	require.NoError(t, f.UpdateField(FieldProfileName, "Kallio Food Aid"))
	require.NoError(t, f.SetToggle(ToggleCanPickUp, true))
	require.NoError(t, f.SetAcknowledged(true))

	_, err := f.Submit(context.Background())
	require.NoError(t, err)

	calls := gw.created()
	require.Len(t, calls, 1)
	assert.Equal(t, domain.TableRecipientProfiles, calls[0].table)
	assert.Equal(t, true, calls[0].record["can_pick_up"])
	assert.Equal(t, false, calls[0].record["has_freezer"])
	assert.NotContains(t, calls[0].record, "available_days")
}

func TestSubmit_FailureIsVisibleAndRecoverable(t *testing.T) {
	gw := &fakeGateway{err: errors.New("connection refused")}
	f := newForm(t, domain.FormKindDonor, gw)
	require.NoError(t, f.UpdateField(FieldOrganizationName, "Helsinki Bank"))
	require.NoError(t, f.SetAcknowledged(true))

	_, err := f.Submit(context.Background())
	require.Error(t, err)

	view := f.View()
	assert.Equal(t, domain.FormStateFailed, view.State)
	assert.Equal(t, domain.MessageSubmitFailedVisible, view.Error)
	assert.Equal(t, "Helsinki Bank", view.Fields[FieldOrganizationName])
	assert.True(t, view.CanSubmit)

	require.NoError(t, f.UpdateField(FieldContactPerson, "Aino"))
	view = f.View()
	assert.Equal(t, domain.FormStateEditing, view.State)
	assert.Empty(t, view.Error)

	gw.mu.Lock()
	gw.err = nil
	gw.mu.Unlock()
	_, err = f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.FormStateSubmitted, f.View().State)
}

func TestSubmit_BlocksWhileInFlight(t *testing.T) {
	gw := &fakeGateway{entered: make(chan struct{}), release: make(chan struct{})}
	f := newForm(t, domain.FormKindDonor, gw)
	require.NoError(t, f.SetAcknowledged(true))

	done := make(chan error, 1)
	go func() {
		_, err := f.Submit(context.Background())
		done <- err
	}()
	<-gw.entered

	assert.False(t, f.CanSubmit())
	assert.Equal(t, domain.FormStateSubmitting, f.View().State)
	_, err := f.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrSubmitInFlight)
	assert.ErrorIs(t, f.UpdateField(FieldAddress, "Mannerheimintie 1"), domain.ErrSubmitInFlight)

	close(gw.release)
	require.NoError(t, <-done)
	assert.Len(t, gw.created(), 1)

	_, err = f.Submit(context.Background())
	assert.ErrorIs(t, err, domain.ErrAlreadySubmitted)
}

func TestPayload_ItemBlock(t *testing.T) {
	f := newForm(t, domain.FormKindItem, &fakeGateway{})
	require.NoError(t, f.UpdateField(FieldItemName, "Rye bread"))
	require.NoError(t, f.UpdateField(FieldQuantity, "12"))
	require.NoError(t, f.UpdateField(FieldExpiryDate, "2026-10-21"))
	require.NoError(t, f.SetToggle(TogglePerishable, true))
	_, err := f.appendPhotos("https://bucket/a.jpg", "https://bucket/b.jpg")
	require.NoError(t, err)

	p := f.Payload()
	assert.Equal(t, "Rye bread", p.ItemName)
	assert.Equal(t, "2026-10-21", p.ExpiryDate)
	require.NotNil(t, p.IsPerishable)
	assert.True(t, *p.IsPerishable)
	require.NotNil(t, p.EstimatedPortions)
	assert.Equal(t, 12, *p.EstimatedPortions)
	assert.Equal(t, "https://bucket/a.jpg", p.FoodImageURL)
	assert.Equal(t, []string{"https://bucket/a.jpg", "https://bucket/b.jpg"}, p.Photos)
}

func TestPayload_IsACopy(t *testing.T) {
	f := newForm(t, domain.FormKindDonor, &fakeGateway{})
	p := f.Payload()
	p.AvailableDays[domain.DayMonday] = true

	assert.False(t, f.View().Days[domain.DayMonday])
}

func TestView_UpdatedAtMovesOnEdit(t *testing.T) {
	f := newForm(t, domain.FormKindDonor, &fakeGateway{})
	first := f.View().UpdatedAt
	time.Sleep(time.Millisecond)
	require.NoError(t, f.UpdateField(FieldAddress, "Hakaniemi"))
	assert.True(t, f.View().UpdatedAt.After(first))
}

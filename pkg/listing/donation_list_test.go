package listing

import (
	"context"
	"errors"
	"testing"

	"zipli-backend/domain"
	"zipli-backend/pkg/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	gateway.Gateway

	records []gateway.Record
	err     error
	table   string
	field   string
	desc    bool
	queries int
	started chan struct{}
}

type fakeQuery struct {
	g *fakeGateway
}

func (g *fakeGateway) Query(table string) gateway.Query {
	g.table = table
	return &fakeQuery{g: g}
}

func (q *fakeQuery) OrderBy(field string, desc bool) gateway.Query {
	q.g.field, q.g.desc = field, desc
	return q
}

func (q *fakeQuery) All(ctx context.Context) ([]gateway.Record, error) {
	q.g.queries++
	if q.g.started != nil {
		close(q.g.started)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return q.g.records, q.g.err
}

func load(t *testing.T, gw *fakeGateway, emptyText string) domain.DonationListView {
	t.Helper()
	c := NewComponent(gw, emptyText)
	c.Mount(context.Background())
	defer c.Unmount()

	view, err := c.Load()
	require.NoError(t, err)
	return view
}

func TestLoad_QueriesNewestFirst(t *testing.T) {
	gw := &fakeGateway{}
	load(t, gw, "")

	assert.Equal(t, domain.TableDonations, gw.table)
	assert.Equal(t, domain.ColumnCreatedAt, gw.field)
	assert.True(t, gw.desc)
}

func TestLoad_ScalarFoodRendersLikeList(t *testing.T) {
	gw := &fakeGateway{records: []gateway.Record{
		{"id": "1", "detected_food": "Bread", "created_at": "2026-10-19T10:00:00Z"},
		{"id": "2", "detected_food": []any{"Bread"}, "created_at": "2026-10-18T10:00:00Z"},
	}}

	view := load(t, gw, "")
	require.Len(t, view.Items, 2)
	assert.Equal(t, "Bread", view.Items[0].FoodLabel)
	assert.Equal(t, view.Items[1].FoodLabel, view.Items[0].FoodLabel)
}

func TestLoad_JoinsLabels(t *testing.T) {
	gw := &fakeGateway{records: []gateway.Record{
		{"id": "1", "detected_food": []any{"Bread", "Pastry"}},
	}}

	view := load(t, gw, "")
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Bread, Pastry", view.Items[0].FoodLabel)
}

func TestLoad_MissingAndMalformedFieldsUsePlaceholders(t *testing.T) {
	gw := &fakeGateway{records: []gateway.Record{
		{"id": "1"},
		{"id": "2", "detected_food": 42, "estimated_portions": "lots", "estimated_shelf_life": nil, "food_image_url": ""},
		{"id": "3", "detected_food": map[string]any{"name": "soup"}, "estimated_portions": 0},
	}}

	view := load(t, gw, "")
	require.Len(t, view.Items, 3)
	for _, item := range view.Items {
		assert.Empty(t, item.ImageURL)
		assert.Equal(t, domain.PlaceholderNoImage, item.ImageText)
		assert.Equal(t, domain.PlaceholderNoFood, item.FoodLabel)
		assert.Equal(t, domain.PlaceholderUnknown, item.Portions)
		assert.Equal(t, domain.PlaceholderUnknown, item.ShelfLife)
	}
}

func TestLoad_FullRecord(t *testing.T) {
	gw := &fakeGateway{records: []gateway.Record{{
		"id":                   "abc",
		"food_image_url":       "https://img/1.jpg",
		"detected_food":        []any{"Apple"},
		"estimated_portions":   float64(4),
		"estimated_shelf_life": "3 days",
		"created_at":           "2026-10-19T08:00:00Z",
	}}}

	view := load(t, gw, "empty")
	require.Len(t, view.Items, 1)
	assert.Equal(t, domain.DonationItemView{
		ID:        "abc",
		ImageURL:  "https://img/1.jpg",
		FoodLabel: "Apple",
		Portions:  "4",
		ShelfLife: "3 days",
		CreatedAt: "2026-10-19T08:00:00Z",
	}, view.Items[0])
	assert.Empty(t, view.EmptyText)
}

func TestLoad_EmptyShowsEmptyText(t *testing.T) {
	view := load(t, &fakeGateway{records: []gateway.Record{}}, "You haven't made any donations yet.")

	assert.Equal(t, domain.ListStatusSuccess, view.Status)
	assert.Empty(t, view.Items)
	assert.Equal(t, "You haven't made any donations yet.", view.EmptyText)
}

func TestLoad_FailureShowsFixedMessage(t *testing.T) {
	gw := &fakeGateway{err: errors.New("relation \"donations\" does not exist")}
	c := NewComponent(gw, "nothing here")
	c.Mount(context.Background())
	defer c.Unmount()

	assert.Equal(t, domain.ListStatusLoading, c.View().Status)

	view, err := c.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.ListStatusError, view.Status)
	assert.Equal(t, domain.MessageLoadDonationsFailed, view.Error)
	assert.Equal(t, domain.MessageLoadDonationsRetry, view.Hint)
	assert.Empty(t, view.Items)
	assert.Empty(t, view.EmptyText)
}

func TestLoad_OncePerMount(t *testing.T) {
	gw := &fakeGateway{records: []gateway.Record{{"id": "1"}}}
	c := NewComponent(gw, "")
	c.Mount(context.Background())

	_, err := c.Load()
	require.NoError(t, err)
	_, err = c.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, gw.queries)

	c.Mount(context.Background())
	assert.Equal(t, domain.ListStatusLoading, c.View().Status)
	_, err = c.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, gw.queries)
	c.Unmount()
}

func TestLoad_UnmountDropsLateResult(t *testing.T) {
	gw := &fakeGateway{started: make(chan struct{})}
	c := NewComponent(gw, "")
	c.Mount(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := c.Load()
		done <- err
	}()
	<-gw.started
	c.Unmount()

	assert.ErrorIs(t, <-done, ErrUnmounted)
	assert.Equal(t, domain.ListStatusLoading, c.View().Status)
}

func TestLoad_NotMounted(t *testing.T) {
	c := NewComponent(&fakeGateway{}, "")
	_, err := c.Load()
	assert.ErrorIs(t, err, ErrUnmounted)
}

func TestWithEmptyText(t *testing.T) {
	empty := Render(nil, "")
	assert.Equal(t, "none", WithEmptyText(empty, "none").EmptyText)
	assert.Empty(t, WithEmptyText(ErrorView(), "none").EmptyText)
}

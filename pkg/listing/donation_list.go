// Package listing fetches donation records and turns them into the rows a
// dashboard renders.
package listing

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"

	"zipli-backend/domain"
	"zipli-backend/pkg/gateway"

	"github.com/gofiber/fiber/v2/log"
)

// ErrUnmounted is returned by Load when the component was unmounted before
// the records arrived. The late result is dropped.
var ErrUnmounted = errors.New("donation list unmounted")

// Component is one mounted donation list. It loads once per mount.
type Component struct {
	gateway   gateway.Gateway
	emptyText string

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	view   domain.DonationListView
	loaded bool
}

func NewComponent(gw gateway.Gateway, emptyText string) *Component {
	return &Component{
		gateway:   gw,
		emptyText: emptyText,
		view:      loadingView(),
	}
}

// Mount ties the component's lifetime to parent and resets it to loading.
func (c *Component) Mount(parent context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}
	c.ctx, c.cancel = context.WithCancel(parent)
	c.view = loadingView()
	c.loaded = false
}

func (c *Component) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Load fetches the records, newest first. A second call within the same
// mount returns the view from the first.
func (c *Component) Load() (domain.DonationListView, error) {
	c.mu.Lock()
	if c.ctx == nil || c.ctx.Err() != nil {
		defer c.mu.Unlock()
		return c.view, ErrUnmounted
	}
	if c.loaded {
		defer c.mu.Unlock()
		return c.view, nil
	}
	ctx := c.ctx
	c.mu.Unlock()

	records, err := c.gateway.Query(domain.TableDonations).
		OrderBy(domain.ColumnCreatedAt, true).
		All(ctx)

	var view domain.DonationListView
	if err != nil {
		log.Errorf("load donations: %v", err)
		view = ErrorView()
	} else {
		view = Render(records, c.emptyText)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if ctx.Err() != nil || ctx != c.ctx {
		return c.view, ErrUnmounted
	}
	c.view = view
	c.loaded = true
	return view, nil
}

func (c *Component) View() domain.DonationListView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func loadingView() domain.DonationListView {
	return domain.DonationListView{Status: domain.ListStatusLoading, Items: []domain.DonationItemView{}}
}

// ErrorView is the fixed view shown when the records could not be read.
func ErrorView() domain.DonationListView {
	return domain.DonationListView{
		Status: domain.ListStatusError,
		Items:  []domain.DonationItemView{},
		Error:  domain.MessageLoadDonationsFailed,
		Hint:   domain.MessageLoadDonationsRetry,
	}
}

// Render builds a success view. Records that are not objects are skipped;
// missing or malformed optional fields fall back to placeholders.
func Render(records []gateway.Record, emptyText string) domain.DonationListView {
	view := domain.DonationListView{
		Status: domain.ListStatusSuccess,
		Items:  make([]domain.DonationItemView, 0, len(records)),
	}
	for _, record := range records {
		raw, err := json.Marshal(record)
		if err != nil {
			continue
		}
		var donation domain.DonationRecord
		if err := json.Unmarshal(raw, &donation); err != nil {
			continue
		}
		view.Items = append(view.Items, RenderItem(donation))
	}
	if len(view.Items) == 0 {
		view.EmptyText = emptyText
	}
	return view
}

func RenderItem(d domain.DonationRecord) domain.DonationItemView {
	item := domain.DonationItemView{
		ID:        d.ID,
		FoodLabel: d.DetectedFood.Join(),
		Portions:  domain.PlaceholderUnknown,
		ShelfLife: domain.PlaceholderUnknown,
		CreatedAt: d.CreatedAt,
	}
	if d.FoodImageURL != nil && *d.FoodImageURL != "" {
		item.ImageURL = *d.FoodImageURL
	} else {
		item.ImageText = domain.PlaceholderNoImage
	}
	if item.FoodLabel == "" {
		item.FoodLabel = domain.PlaceholderNoFood
	}
	// Zero portions reads as unknown, same as a missing value.
	if d.EstimatedPortions != nil && *d.EstimatedPortions != 0 {
		item.Portions = strconv.FormatFloat(*d.EstimatedPortions, 'f', -1, 64)
	}
	if d.EstimatedShelfLife != nil && *d.EstimatedShelfLife != "" {
		item.ShelfLife = *d.EstimatedShelfLife
	}
	return item
}

// WithEmptyText sets the empty-state text on an empty success view.
func WithEmptyText(view domain.DonationListView, text string) domain.DonationListView {
	if view.Status == domain.ListStatusSuccess && len(view.Items) == 0 {
		view.EmptyText = text
	}
	return view
}

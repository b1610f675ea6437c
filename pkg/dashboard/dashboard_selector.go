package dashboard

import (
	"context"

	"zipli-backend/domain"
	"zipli-backend/pkg/gateway"
	"zipli-backend/pkg/listing"
	"zipli-backend/pkg/preference"

	"golang.org/x/sync/errgroup"
)

type variant struct {
	kind         domain.DashboardVariant
	title        string
	greeting     string
	sectionTitle string
	emptyText    string
	offerRoles   []string
}

var (
	donorVariant = variant{
		kind:         domain.DashboardDonor,
		title:        "Donor Dashboard",
		greeting:     "Welcome to your donor dashboard!",
		sectionTitle: "Your Recent Donations",
		emptyText:    "You haven't made any donations yet.",
	}
	recipientVariant = variant{
		kind:         domain.DashboardRecipient,
		title:        "Recipient Dashboard",
		greeting:     "Welcome to your recipient dashboard!",
		sectionTitle: "Available Donations",
		emptyText:    "No donations are currently available.",
	}
	defaultVariant = variant{
		kind:         domain.DashboardDefault,
		title:        "Welcome to Zipli",
		sectionTitle: "Recent Donations",
		emptyText:    "No donations found. Be the first to donate!",
		offerRoles:   []string{domain.RoleDonor, domain.RoleRecipient},
	}
)

func variantFor(role string) variant {
	switch role {
	case domain.RoleDonor:
		return donorVariant
	case domain.RoleRecipient:
		return recipientVariant
	}
	return defaultVariant
}

// EmptyTextFor is the empty-list text shown to role.
func EmptyTextFor(role string) string {
	return variantFor(role).emptyText
}

type Selector struct {
	preferences preference.Factory
	gateway     gateway.Gateway
}

func NewSelector(preferences preference.Factory, gw gateway.Gateway) *Selector {
	return &Selector{preferences: preferences, gateway: gw}
}

// Render resolves the role and loads the list at the same time; neither
// waits on the other. The role is read once per call.
func (s *Selector) Render(ctx context.Context, sess Session) (domain.DashboardView, Session) {
	list := listing.NewComponent(s.gateway, "")
	list.Mount(gateway.WithAccessToken(ctx, sess.AccessToken))
	defer list.Unmount()

	var listView domain.DonationListView
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sess.Role = ResolveRole(gctx, s.preferences.ForUser(sess.UserID))
		return nil
	})
	g.Go(func() error {
		view, err := list.Load()
		if err != nil {
			// Only ErrUnmounted lands here: the request went away.
			view = listing.ErrorView()
		}
		listView = view
		return nil
	})
	_ = g.Wait()

	return Build(sess.Role, listView), sess
}

// Build wraps a list view in the dashboard for role.
func Build(role string, list domain.DonationListView) domain.DashboardView {
	v := variantFor(role)
	return domain.DashboardView{
		Variant:      v.kind,
		Title:        v.title,
		Greeting:     v.greeting,
		SectionTitle: v.sectionTitle,
		OfferRoles:   v.offerRoles,
		List:         listing.WithEmptyText(list, v.emptyText),
	}
}

// Package dashboard picks the dashboard variant for the signed-in user and
// fills it with the donation list.
package dashboard

import (
	"context"

	"zipli-backend/domain"
	"zipli-backend/pkg/preference"

	"github.com/gofiber/fiber/v2/log"
)

// Session is what a request knows about its user. It is built once and
// passed down instead of reading the preference store from every screen.
type Session struct {
	UserID      string
	Email       string
	AccessToken string
	Role        string
}

// ResolveRole reads the stored role. A failed read is logged and treated as
// no role at all, and so is a value that is not a known role.
func ResolveRole(ctx context.Context, store preference.Store) string {
	role, ok, err := store.Get(ctx, domain.PreferenceKeyUserRole)
	if err != nil {
		log.Warnf("failed to read role preference: %v", err)
		return ""
	}
	if !ok || !domain.IsKnownRole(role) {
		return ""
	}
	return role
}

// RememberRole stores the role a user signed in with. Failure only means
// the default dashboard will be shown, so it is logged, not returned.
func RememberRole(ctx context.Context, store preference.Store, role string) {
	if !domain.IsKnownRole(role) {
		return
	}
	if err := store.Set(ctx, domain.PreferenceKeyUserRole, role); err != nil {
		log.Warnf("failed to store role preference: %v", err)
	}
}

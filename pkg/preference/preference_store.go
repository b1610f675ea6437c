// Package preference persists small per-user key/value settings such as
// the role picked at sign-up.
package preference

import (
	"context"
)

type (
	// Store is one user's view of the preference table.
	Store interface {
		Get(ctx context.Context, key string) (string, bool, error)
		Set(ctx context.Context, key, value string) error
	}

	// Factory hands out user-scoped stores.
	Factory interface {
		ForUser(userID string) Store
	}
)

// Package gateway is the remote data gateway the client workflows talk to:
// record create/query plus email/password authentication.
package gateway

import (
	"context"
	"fmt"

	"zipli-backend/domain"
)

type Record = map[string]any

type (
	Gateway interface {
		Create(ctx context.Context, table string, record Record) (Record, error)
		Query(table string) Query

		SignUp(ctx context.Context, email, password string, metadata domain.UserMetadata) (*domain.Session, error)
		SignIn(ctx context.Context, email, password string) (*domain.Session, error)
		GetUser(ctx context.Context, accessToken string) (*domain.User, error)
		ResetPasswordRequest(ctx context.Context, email, redirectURL string) error
		UpdatePassword(ctx context.Context, accessToken, newPassword string) error
	}

	// Query is a read against one table. OrderBy may be chained; All runs it.
	Query interface {
		OrderBy(field string, desc bool) Query
		All(ctx context.Context) ([]Record, error)
	}

	// Error carries the backend's own message so auth failures can be shown
	// to the user verbatim.
	Error struct {
		Status  int
		Message string
	}
)

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded with status %d", e.Status)
	}
	return e.Message
}

type accessTokenKey struct{}

// WithAccessToken scopes gateway calls made with ctx to a signed-in user.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

func accessTokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(accessTokenKey{}).(string)
	return token
}

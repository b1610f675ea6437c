package gateway

import (
	"context"

	"zipli-backend/domain"
	"zipli-backend/pkg/auth"
	"zipli-backend/pkg/donation"
	"zipli-backend/pkg/jwt"
)

type (
	databaseGateway struct {
		donationService donation.DonationService
		authService     auth.AuthService
		jwtService      jwt.JWTService
	}

	databaseQuery struct {
		gateway *databaseGateway
		table   string
		column  string
		desc    bool
	}
)

// NewDatabaseGateway serves the gateway from this service's own database.
func NewDatabaseGateway(donationService donation.DonationService, authService auth.AuthService, jwtService jwt.JWTService) Gateway {
	return &databaseGateway{
		donationService: donationService,
		authService:     authService,
		jwtService:      jwtService,
	}
}

func (g *databaseGateway) Create(ctx context.Context, table string, record Record) (Record, error) {
	return g.donationService.CreateRecord(ctx, table, record)
}

func (g *databaseGateway) Query(table string) Query {
	return &databaseQuery{gateway: g, table: table, column: domain.ColumnCreatedAt}
}

func (q *databaseQuery) OrderBy(field string, desc bool) Query {
	next := *q
	next.column = field
	next.desc = desc
	return &next
}

func (q *databaseQuery) All(ctx context.Context) ([]Record, error) {
	return q.gateway.donationService.ListRecords(ctx, q.table, q.column, q.desc)
}

func (g *databaseGateway) SignUp(ctx context.Context, email, password string, metadata domain.UserMetadata) (*domain.Session, error) {
	user, err := g.authService.SignUp(ctx, domain.SignUpRequest{
		Email:    email,
		Password: password,
		Role:     metadata.Role,
	})
	if err != nil {
		return nil, err
	}
	return &domain.Session{User: *user}, nil
}

func (g *databaseGateway) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	return g.authService.SignIn(ctx, domain.SignInRequest{Email: email, Password: password})
}

func (g *databaseGateway) GetUser(ctx context.Context, accessToken string) (*domain.User, error) {
	userID, _, err := g.jwtService.GetUserIDByToken(accessToken)
	if err != nil {
		return nil, err
	}
	return g.authService.GetUser(ctx, userID)
}

func (g *databaseGateway) ResetPasswordRequest(ctx context.Context, email, redirectURL string) error {
	return g.authService.RequestPasswordReset(ctx, domain.ResetPasswordRequest{
		Email:       email,
		RedirectURL: redirectURL,
	})
}

func (g *databaseGateway) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	return g.authService.UpdatePassword(ctx, domain.UpdatePasswordRequest{
		AccessToken:     accessToken,
		NewPassword:     newPassword,
		ConfirmPassword: newPassword,
	})
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"zipli-backend/domain"
	"zipli-backend/entities"
	"zipli-backend/internal/utils/mailing"
	"zipli-backend/pkg/jwt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	AuthService interface {
		SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.User, error)
		SignIn(ctx context.Context, req domain.SignInRequest) (*domain.Session, error)
		GetUser(ctx context.Context, userID string) (*domain.User, error)
		RequestPasswordReset(ctx context.Context, req domain.ResetPasswordRequest) error
		UpdatePassword(ctx context.Context, req domain.UpdatePasswordRequest) error
	}

	authService struct {
		authRepository AuthRepository
		jwtService     jwt.JWTService
		mailer         mailing.Mailer
	}
)

func NewAuthService(
	authRepository AuthRepository,
	jwtService jwt.JWTService,
	mailer mailing.Mailer,
) AuthService {
	return &authService{
		authRepository: authRepository,
		jwtService:     jwtService,
		mailer:         mailer,
	}
}

func (s *authService) SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, domain.ErrMissingCredentials
	}
	if len(req.Password) < domain.MinPasswordLength {
		return nil, domain.ErrPasswordTooShort
	}

	role := req.Role
	if role == "" {
		role = domain.RoleRecipient
	}
	if !domain.IsKnownRole(role) {
		return nil, domain.ErrInvalidRole
	}

	_, err := s.authRepository.GetUserByEmail(ctx, req.Email)
	if err == nil {
		return nil, domain.ErrEmailAlreadyRegistered
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		ID:       uuid.New(),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: string(hashed),
		Role:     role,
	}
	if err := s.authRepository.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return toDomainUser(user), nil
}

func (s *authService) SignIn(ctx context.Context, req domain.SignInRequest) (*domain.Session, error) {
	if req.Email == "" || req.Password == "" {
		return nil, domain.ErrMissingCredentials
	}

	user, err := s.authRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.jwtService.GenerateTokenUser(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	return &domain.Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		User:        *toDomainUser(user),
	}, nil
}

func (s *authService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.authRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return toDomainUser(user), nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, req domain.ResetPasswordRequest) error {
	user, err := s.authRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Unknown addresses get the same answer as known ones.
			return nil
		}
		return err
	}

	token, err := s.jwtService.GenerateTokenForgetPassword(map[string]any{
		"sub":   user.ID.String(),
		"email": user.Email,
	}, jwt.RecoveryDuration)
	if err != nil {
		return err
	}

	redirect := req.RedirectURL
	if redirect == "" {
		redirect = domain.DefaultResetRedirectURL
	}
	link := RecoveryLink(redirect, token)

	if err := s.mailer.SendMail(user.Email, "Reset your Zipli password", mailing.ResetPasswordBody(link)); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

func (s *authService) UpdatePassword(ctx context.Context, req domain.UpdatePasswordRequest) error {
	if len(req.NewPassword) < domain.MinPasswordLength {
		return domain.ErrPasswordTooShort
	}
	if req.NewPassword != req.ConfirmPassword {
		return domain.ErrPasswordMismatch
	}

	claims, err := s.jwtService.ValidateTokenForgetPassword(req.AccessToken)
	if err != nil {
		return err
	}
	userID, _ := claims["sub"].(string)
	if userID == "" {
		return domain.ErrTokenInvalid
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.authRepository.UpdatePassword(ctx, userID, string(hashed))
}

// RecoveryLink appends the recovery token as a URL fragment, which is
// where the client's reset screen looks for it.
func RecoveryLink(redirect string, token string) string {
	fragment := url.Values{}
	fragment.Set("access_token", token)
	fragment.Set("type", "recovery")
	return redirect + "#" + fragment.Encode()
}

func toDomainUser(user *entities.User) *domain.User {
	return &domain.User{
		ID:           user.ID.String(),
		Email:        user.Email,
		UserMetadata: domain.UserMetadata{Role: user.Role},
		CreatedAt:    user.CreatedAt,
	}
}

package preference

import (
	"context"

	"zipli-backend/domain"
)

type (
	PreferenceService interface {
		GetPreference(ctx context.Context, userID string, key string) (*domain.Preference, error)
		SetPreference(ctx context.Context, userID string, key string, value string) (*domain.Preference, error)
	}

	preferenceService struct {
		factory Factory
	}
)

func NewPreferenceService(factory Factory) PreferenceService {
	return &preferenceService{factory: factory}
}

func (s *preferenceService) GetPreference(ctx context.Context, userID string, key string) (*domain.Preference, error) {
	if key != domain.PreferenceKeyUserRole {
		return nil, domain.ErrUnknownPreference
	}

	value, ok, err := s.factory.ForUser(userID).Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrPreferenceNotFound
	}
	return &domain.Preference{Key: key, Value: value}, nil
}

func (s *preferenceService) SetPreference(ctx context.Context, userID string, key string, value string) (*domain.Preference, error) {
	if key != domain.PreferenceKeyUserRole {
		return nil, domain.ErrUnknownPreference
	}
	if !domain.IsKnownRole(value) {
		return nil, domain.ErrInvalidRole
	}

	if err := s.factory.ForUser(userID).Set(ctx, key, value); err != nil {
		return nil, err
	}
	return &domain.Preference{Key: key, Value: value}, nil
}

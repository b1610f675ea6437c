package preference

import (
	"context"
	"errors"

	"zipli-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	PreferenceRepository interface {
		GetPreference(ctx context.Context, userID string, key string) (*entities.UserPreference, error)
		UpsertPreference(ctx context.Context, pref *entities.UserPreference) error
	}

	preferenceRepository struct {
		db *gorm.DB
	}

	databaseFactory struct {
		repo PreferenceRepository
	}

	databaseStore struct {
		repo   PreferenceRepository
		userID string
	}
)

func NewPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &preferenceRepository{db: db}
}

func (r *preferenceRepository) GetPreference(ctx context.Context, userID string, key string) (*entities.UserPreference, error) {
	var pref entities.UserPreference
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND key = ?", userID, key).
		First(&pref).Error; err != nil {
		return nil, err
	}
	return &pref, nil
}

func (r *preferenceRepository) UpsertPreference(ctx context.Context, pref *entities.UserPreference) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(pref).Error
}

// NewDatabaseFactory backs the stores with the user_preferences table.
func NewDatabaseFactory(repo PreferenceRepository) Factory {
	return &databaseFactory{repo: repo}
}

func (f *databaseFactory) ForUser(userID string) Store {
	return &databaseStore{repo: f.repo, userID: userID}
}

func (s *databaseStore) Get(ctx context.Context, key string) (string, bool, error) {
	pref, err := s.repo.GetPreference(ctx, s.userID, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return pref.Value, true, nil
}

func (s *databaseStore) Set(ctx context.Context, key, value string) error {
	userUUID, err := uuid.Parse(s.userID)
	if err != nil {
		return err
	}
	return s.repo.UpsertPreference(ctx, &entities.UserPreference{
		ID:     uuid.New(),
		UserID: userUUID,
		Key:    key,
		Value:  value,
	})
}

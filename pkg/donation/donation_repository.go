package donation

import (
	"context"

	"zipli-backend/entities"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	DonationRepository interface {
		CreateDonation(ctx context.Context, donation *entities.Donation) error
		ListDonations(ctx context.Context, column string, desc bool) ([]*entities.Donation, error)
		UpdateDetectedFood(ctx context.Context, id string, labels []string) error

		CreateDonorProfile(ctx context.Context, profile *entities.DonorProfile) error
		ListDonorProfiles(ctx context.Context, column string, desc bool) ([]*entities.DonorProfile, error)

		CreateRecipientProfile(ctx context.Context, profile *entities.RecipientProfile) error
		ListRecipientProfiles(ctx context.Context, column string, desc bool) ([]*entities.RecipientProfile, error)
	}

	donationRepository struct {
		db *gorm.DB
	}
)

func NewDonationRepository(db *gorm.DB) DonationRepository {
	return &donationRepository{db: db}
}

func orderBy(column string, desc bool) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc}
}

func (r *donationRepository) CreateDonation(ctx context.Context, donation *entities.Donation) error {
	return r.db.WithContext(ctx).Create(donation).Error
}

func (r *donationRepository) ListDonations(ctx context.Context, column string, desc bool) ([]*entities.Donation, error) {
	var donations []*entities.Donation
	if err := r.db.WithContext(ctx).
		Order(orderBy(column, desc)).
		Find(&donations).Error; err != nil {
		return nil, err
	}
	return donations, nil
}

func (r *donationRepository) UpdateDetectedFood(ctx context.Context, id string, labels []string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Donation{}).
		Where("id = ?", id).
		Update("detected_food", pq.StringArray(labels)).Error
}

func (r *donationRepository) CreateDonorProfile(ctx context.Context, profile *entities.DonorProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *donationRepository) ListDonorProfiles(ctx context.Context, column string, desc bool) ([]*entities.DonorProfile, error) {
	var profiles []*entities.DonorProfile
	if err := r.db.WithContext(ctx).
		Order(orderBy(column, desc)).
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *donationRepository) CreateRecipientProfile(ctx context.Context, profile *entities.RecipientProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *donationRepository) ListRecipientProfiles(ctx context.Context, column string, desc bool) ([]*entities.RecipientProfile, error) {
	var profiles []*entities.RecipientProfile
	if err := r.db.WithContext(ctx).
		Order(orderBy(column, desc)).
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

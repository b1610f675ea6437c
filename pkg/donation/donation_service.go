package donation

import (
	"context"
	"encoding/json"
	"fmt"

	"zipli-backend/domain"
	"zipli-backend/entities"
	"zipli-backend/internal/utils/detection"
	"zipli-backend/internal/utils/storage"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

// Record is a row as the gateway hands it around: column name to value.
type Record = map[string]any

var orderColumns = map[string]bool{
	domain.ColumnCreatedAt: true,
	"updated_at":           true,
}

type (
	DonationService interface {
		CreateRecord(ctx context.Context, table string, record Record) (Record, error)
		ListRecords(ctx context.Context, table string, column string, desc bool) ([]Record, error)
	}

	donationService struct {
		donationRepository DonationRepository
		s3                 storage.AwsS3
		detector           detection.LabelDetector
	}
)

// NewDonationService wires the record service. s3 and detector may be nil,
// in which case food labels are only stored when the caller sends them.
func NewDonationService(donationRepository DonationRepository, s3 storage.AwsS3, detector detection.LabelDetector) DonationService {
	return &donationService{
		donationRepository: donationRepository,
		s3:                 s3,
		detector:           detector,
	}
}

func (s *donationService) CreateRecord(ctx context.Context, table string, record Record) (Record, error) {
	switch table {
	case domain.TableDonations:
		var donation entities.Donation
		if err := decodeRecord(record, &donation); err != nil {
			return nil, err
		}
		if donation.ID == uuid.Nil {
			donation.ID = uuid.New()
		}
		if err := s.donationRepository.CreateDonation(ctx, &donation); err != nil {
			return nil, err
		}
		s.detectFood(ctx, &donation)
		return encodeRecord(&donation)

	case domain.TableDonorProfiles:
		var profile entities.DonorProfile
		if err := decodeRecord(record, &profile); err != nil {
			return nil, err
		}
		if profile.ID == uuid.Nil {
			profile.ID = uuid.New()
		}
		if err := s.donationRepository.CreateDonorProfile(ctx, &profile); err != nil {
			return nil, err
		}
		return encodeRecord(&profile)

	case domain.TableRecipientProfiles:
		var profile entities.RecipientProfile
		if err := decodeRecord(record, &profile); err != nil {
			return nil, err
		}
		if profile.ID == uuid.Nil {
			profile.ID = uuid.New()
		}
		if err := s.donationRepository.CreateRecipientProfile(ctx, &profile); err != nil {
			return nil, err
		}
		return encodeRecord(&profile)
	}

	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTable, table)
}

func (s *donationService) ListRecords(ctx context.Context, table string, column string, desc bool) ([]Record, error) {
	if !orderColumns[column] {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownColumn, column)
	}

	var rows any
	var err error
	switch table {
	case domain.TableDonations:
		rows, err = s.donationRepository.ListDonations(ctx, column, desc)
	case domain.TableDonorProfiles:
		rows, err = s.donationRepository.ListDonorProfiles(ctx, column, desc)
	case domain.TableRecipientProfiles:
		rows, err = s.donationRepository.ListRecipientProfiles(ctx, column, desc)
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTable, table)
	}
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}
	records := []Record{}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// detectFood fills detected_food from the stored image. It never fails the
// create; the record is simply left without labels.
func (s *donationService) detectFood(ctx context.Context, donation *entities.Donation) {
	if s.detector == nil || s.s3 == nil || donation.FoodImageURL == nil || len(donation.DetectedFood) > 0 {
		return
	}
	key := s.s3.GetObjectKeyFromLink(*donation.FoodImageURL)
	if key == "" {
		return
	}

	labels, err := s.detector.DetectFoodLabels(ctx, s.s3.Bucket(), key)
	if err != nil {
		log.Warnf("food detection failed for donation %s: %v", donation.ID, err)
		return
	}
	if len(labels) == 0 {
		return
	}
	if err := s.donationRepository.UpdateDetectedFood(ctx, donation.ID.String(), labels); err != nil {
		log.Warnf("failed to store detected food for donation %s: %v", donation.ID, err)
		return
	}
	donation.DetectedFood = labels
}

func decodeRecord(record Record, dst any) error {
	raw, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

func encodeRecord(src any) (Record, error) {
	raw, err := json.Marshal(src)
	if err != nil {
		return nil, err
	}
	var record Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, err
	}
	return record, nil
}

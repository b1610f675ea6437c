package donation

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"zipli-backend/domain"
	"zipli-backend/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	DonationRepository

	donations  []*entities.Donation
	donors     []*entities.DonorProfile
	recipients []*entities.RecipientProfile
	detected   map[string][]string
	column     string
	desc       bool
}

func (r *fakeRepository) CreateDonation(_ context.Context, d *entities.Donation) error {
	r.donations = append(r.donations, d)
	return nil
}

func (r *fakeRepository) ListDonations(_ context.Context, column string, desc bool) ([]*entities.Donation, error) {
	r.column, r.desc = column, desc
	return r.donations, nil
}

func (r *fakeRepository) UpdateDetectedFood(_ context.Context, id string, labels []string) error {
	if r.detected == nil {
		r.detected = map[string][]string{}
	}
	r.detected[id] = labels
	return nil
}

func (r *fakeRepository) CreateDonorProfile(_ context.Context, p *entities.DonorProfile) error {
	r.donors = append(r.donors, p)
	return nil
}

func (r *fakeRepository) CreateRecipientProfile(_ context.Context, p *entities.RecipientProfile) error {
	r.recipients = append(r.recipients, p)
	return nil
}

type fakeStorage struct{}

func (fakeStorage) UploadFile(string, *multipart.FileHeader, string, ...string) (string, error) {
	return "", nil
}
func (fakeStorage) DeleteFile(string) error            { return nil }
func (fakeStorage) GetPublicLinkKey(key string) string { return "https://zipli.s3/" + key }
func (fakeStorage) Bucket() string                     { return "zipli" }
func (fakeStorage) GetObjectKeyFromLink(link string) string {
	if len(link) > len("https://zipli.s3/") && link[:len("https://zipli.s3/")] == "https://zipli.s3/" {
		return link[len("https://zipli.s3/"):]
	}
	return ""
}

type fakeDetector struct {
	labels []string
	err    error
	keys   []string
}

func (d *fakeDetector) DetectFoodLabels(_ context.Context, _ string, key string) ([]string, error) {
	d.keys = append(d.keys, key)
	return d.labels, d.err
}

func TestCreateRecord_DetectsFood(t *testing.T) {
	repo := &fakeRepository{}
	detector := &fakeDetector{labels: []string{"Bread", "Baked Goods"}}
	svc := NewDonationService(repo, fakeStorage{}, detector)

	record, err := svc.CreateRecord(context.Background(), domain.TableDonations, Record{
		"food_image_url":     "https://zipli.s3/donations/1.jpg",
		"estimated_portions": 3,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"donations/1.jpg"}, detector.keys)
	assert.Equal(t, []any{"Bread", "Baked Goods"}, record["detected_food"])
	assert.Equal(t, float64(3), record["estimated_portions"])
	require.Len(t, repo.donations, 1)
	assert.Equal(t, []string{"Bread", "Baked Goods"}, repo.detected[repo.donations[0].ID.String()])
}

func TestCreateRecord_DetectionFailureKeepsRecord(t *testing.T) {
	repo := &fakeRepository{}
	svc := NewDonationService(repo, fakeStorage{}, &fakeDetector{err: errors.New("throttled")})

	record, err := svc.CreateRecord(context.Background(), domain.TableDonations, Record{
		"food_image_url": "https://zipli.s3/donations/1.jpg",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, record["id"])
	assert.Empty(t, repo.detected)
}

func TestCreateRecord_SkipsDetection(t *testing.T) {
	detector := &fakeDetector{labels: []string{"Soup"}}
	svc := NewDonationService(&fakeRepository{}, fakeStorage{}, detector)

	_, err := svc.CreateRecord(context.Background(), domain.TableDonations, Record{
		"food_image_url": "https://elsewhere.example/1.jpg",
	})
	require.NoError(t, err)
	_, err = svc.CreateRecord(context.Background(), domain.TableDonations, Record{
		"food_image_url": "https://zipli.s3/donations/2.jpg",
		"detected_food":  []string{"Apple"},
	})
	require.NoError(t, err)
	assert.Empty(t, detector.keys)

	// No detector configured at all.
	_, err = NewDonationService(&fakeRepository{}, nil, nil).CreateRecord(context.Background(), domain.TableDonations, Record{
		"food_image_url": "https://zipli.s3/donations/3.jpg",
	})
	require.NoError(t, err)
}

func TestCreateRecord_Profiles(t *testing.T) {
	repo := &fakeRepository{}
	svc := NewDonationService(repo, nil, nil)

	_, err := svc.CreateRecord(context.Background(), domain.TableDonorProfiles, Record{
		"organization_name": "Helsinki Bank",
		"available_days":    map[string]any{"M": true, "F": true},
		"time_window":       map[string]any{"start": "10:00", "end": "16:00"},
	})
	require.NoError(t, err)
	require.Len(t, repo.donors, 1)
	assert.Equal(t, "Helsinki Bank", repo.donors[0].OrganizationName)
	assert.True(t, repo.donors[0].AvailableDays["F"])
	assert.Equal(t, "16:00", repo.donors[0].TimeWindow.End)

	_, err = svc.CreateRecord(context.Background(), domain.TableRecipientProfiles, Record{"has_fridge": true})
	require.NoError(t, err)
	require.Len(t, repo.recipients, 1)
	assert.True(t, repo.recipients[0].HasFridge)
}

func TestCreateRecord_UnknownTable(t *testing.T) {
	svc := NewDonationService(&fakeRepository{}, nil, nil)
	_, err := svc.CreateRecord(context.Background(), "pantries", Record{})
	assert.ErrorIs(t, err, domain.ErrUnknownTable)
}

func TestListRecords(t *testing.T) {
	repo := &fakeRepository{}
	svc := NewDonationService(repo, nil, nil)
	_, err := svc.CreateRecord(context.Background(), domain.TableDonations, Record{"detected_food": []string{"Soup"}})
	require.NoError(t, err)

	rows, err := svc.ListRecords(context.Background(), domain.TableDonations, domain.ColumnCreatedAt, true)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []any{"Soup"}, rows[0]["detected_food"])
	assert.Equal(t, domain.ColumnCreatedAt, repo.column)
	assert.True(t, repo.desc)

	_, err = svc.ListRecords(context.Background(), domain.TableDonations, "password", true)
	assert.ErrorIs(t, err, domain.ErrUnknownColumn)
}

package form

import (
	"context"
	"errors"
	"testing"

	"zipli-backend/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePhotoSource struct {
	granted  bool
	picked   []string
	captured string
	pickErr  error
	asked    int
	picks    int
}

func (s *fakePhotoSource) RequestGalleryPermission(context.Context) (bool, error) {
	s.asked++
	return s.granted, nil
}

func (s *fakePhotoSource) RequestCameraPermission(context.Context) (bool, error) {
	s.asked++
	return s.granted, nil
}

func (s *fakePhotoSource) PickFromGallery(context.Context, PickOptions) ([]string, error) {
	s.picks++
	return s.picked, s.pickErr
}

func (s *fakePhotoSource) CaptureFromCamera(context.Context, PickOptions) (string, error) {
	s.picks++
	return s.captured, s.pickErr
}

func TestAddFromGallery_PermissionDenied(t *testing.T) {
	f := newForm(t, domain.FormKindItem, &fakeGateway{})
	src := &fakePhotoSource{granted: false, picked: []string{"file:///a.jpg"}}

	_, err := f.AddFromGallery(context.Background(), src)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	var permErr *PermissionError
	require.True(t, errors.As(err, &permErr))
	assert.Equal(t, domain.MessageGalleryPermission, permErr.Message)

	assert.Equal(t, 0, src.picks)
	assert.Empty(t, f.View().Photos)
	assert.Equal(t, domain.FormStateEmpty, f.View().State)
}

func TestAddFromCamera_PermissionDenied(t *testing.T) {
	f := newForm(t, domain.FormKindItem, &fakeGateway{})
	src := &fakePhotoSource{granted: false, captured: "file:///c.jpg"}

	_, err := f.AddFromCamera(context.Background(), src)
	var permErr *PermissionError
	require.True(t, errors.As(err, &permErr))
	assert.Equal(t, domain.MessageCameraPermission, permErr.Message)
	assert.Empty(t, f.View().Photos)
}

func TestAddPhotos_Granted(t *testing.T) {
	f := newForm(t, domain.FormKindItem, &fakeGateway{})

	photos, err := f.AddFromGallery(context.Background(), &fakePhotoSource{
		granted: true,
		picked:  []string{"file:///a.jpg", "file:///b.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"file:///a.jpg", "file:///b.jpg"}, photos)

	photos, err = f.AddFromCamera(context.Background(), &fakePhotoSource{granted: true, captured: "file:///c.jpg"})
	require.NoError(t, err)
	assert.Equal(t, []string{"file:///a.jpg", "file:///b.jpg", "file:///c.jpg"}, photos)
	assert.Equal(t, domain.FormStateEditing, f.View().State)
}

func TestAddFromCamera_Cancelled(t *testing.T) {
	f := newForm(t, domain.FormKindItem, &fakeGateway{})

	photos, err := f.AddFromCamera(context.Background(), &fakePhotoSource{granted: true})
	require.NoError(t, err)
	assert.Empty(t, photos)
	assert.Equal(t, domain.FormStateEmpty, f.View().State)
}

func TestAddFromGallery_PickFails(t *testing.T) {
	f := newForm(t, domain.FormKindItem, &fakeGateway{})

	_, err := f.AddFromGallery(context.Background(), &fakePhotoSource{granted: true, pickErr: errors.New("io")})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrPermissionDenied)
	assert.Empty(t, f.View().Photos)
}

func TestRemovePhoto(t *testing.T) {
	f := newForm(t, domain.FormKindItem, &fakeGateway{})
	_, err := f.appendPhotos("a", "b", "c")
	require.NoError(t, err)

	ref, err := f.RemovePhoto(1)
	require.NoError(t, err)
	assert.Equal(t, "b", ref)
	assert.Equal(t, []string{"a", "c"}, f.View().Photos)

	_, err = f.RemovePhoto(2)
	assert.ErrorIs(t, err, domain.ErrPhotoIndex)
	_, err = f.RemovePhoto(-1)
	assert.ErrorIs(t, err, domain.ErrPhotoIndex)
}

func TestPhotos_OnlyOnItemForm(t *testing.T) {
	f := newForm(t, domain.FormKindDonor, &fakeGateway{})
	src := &fakePhotoSource{granted: true, picked: []string{"a"}}

	_, err := f.AddFromGallery(context.Background(), src)
	assert.ErrorIs(t, err, domain.ErrUnknownField)
	assert.Equal(t, 0, src.asked)
}

// discardingSource runs onPick while the picker is open and records the
// references handed back.
type discardingSource struct {
	fakePhotoSource
	onPick    func()
	discarded []string
}

func (s *discardingSource) PickFromGallery(ctx context.Context, opts PickOptions) ([]string, error) {
	s.onPick()
	return s.fakePhotoSource.PickFromGallery(ctx, opts)
}

func (s *discardingSource) CaptureFromCamera(ctx context.Context, opts PickOptions) (string, error) {
	s.onPick()
	return s.fakePhotoSource.CaptureFromCamera(ctx, opts)
}

func (s *discardingSource) Discard(refs []string) {
	s.discarded = append(s.discarded, refs...)
}

func TestAddPhotos_SubmittedWhilePickingDiscardsRefs(t *testing.T) {
	f := newForm(t, domain.FormKindItem, &fakeGateway{})
	require.NoError(t, f.SetAcknowledged(true))

	src := &discardingSource{
		fakePhotoSource: fakePhotoSource{granted: true, picked: []string{"https://bucket/donation-photos/a.jpg"}},
		onPick: func() {
			_, err := f.Submit(context.Background())
			require.NoError(t, err)
		},
	}

	_, err := f.AddFromGallery(context.Background(), src)
	assert.ErrorIs(t, err, domain.ErrAlreadySubmitted)
	assert.Equal(t, []string{"https://bucket/donation-photos/a.jpg"}, src.discarded)
	assert.Empty(t, f.View().Photos)
}

func TestAddFromCamera_SubmittedWhileCapturingDiscardsRef(t *testing.T) {
	f := newForm(t, domain.FormKindItem, &fakeGateway{})
	require.NoError(t, f.SetAcknowledged(true))

	src := &discardingSource{
		fakePhotoSource: fakePhotoSource{granted: true, captured: "https://bucket/donation-photos/c.jpg"},
		onPick: func() {
			_, err := f.Submit(context.Background())
			require.NoError(t, err)
		},
	}

	_, err := f.AddFromCamera(context.Background(), src)
	assert.ErrorIs(t, err, domain.ErrAlreadySubmitted)
	assert.Equal(t, []string{"https://bucket/donation-photos/c.jpg"}, src.discarded)
}

func TestAddPhotos_AttachedRefsAreNotDiscarded(t *testing.T) {
	f := newForm(t, domain.FormKindItem, &fakeGateway{})
	src := &discardingSource{
		fakePhotoSource: fakePhotoSource{granted: true, picked: []string{"https://bucket/donation-photos/a.jpg"}},
		onPick:          func() {},
	}

	_, err := f.AddFromGallery(context.Background(), src)
	require.NoError(t, err)
	assert.Empty(t, src.discarded)
	assert.Len(t, f.View().Photos, 1)
}

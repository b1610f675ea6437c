package form

import (
	"context"
	"errors"
	"mime/multipart"

	"zipli-backend/internal/utils/storage"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

const PhotoFolder = "donation-photos"

var ErrNoPhoto = errors.New("no photo attached")

// UploadSource turns a multipart upload into the device photo capability:
// the client reports the permission it got, and the attached files are
// stored in the bucket. The public links are the photo references.
type UploadSource struct {
	s3      storage.AwsS3
	granted bool
	files   []*multipart.FileHeader
}

func NewUploadSource(s3 storage.AwsS3, permissionGranted bool, files []*multipart.FileHeader) *UploadSource {
	return &UploadSource{s3: s3, granted: permissionGranted, files: files}
}

func (u *UploadSource) RequestGalleryPermission(ctx context.Context) (bool, error) {
	return u.granted, ctx.Err()
}

func (u *UploadSource) RequestCameraPermission(ctx context.Context) (bool, error) {
	return u.granted, ctx.Err()
}

func (u *UploadSource) PickFromGallery(ctx context.Context, opts PickOptions) ([]string, error) {
	files := u.files
	if !opts.AllowsMultiple && len(files) > 1 {
		files = files[:1]
	}
	if len(files) == 0 {
		return nil, ErrNoPhoto
	}

	refs := make([]string, 0, len(files))
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			u.Discard(refs)
			return nil, err
		}
		ref, err := u.upload(file)
		if err != nil {
			u.Discard(refs)
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (u *UploadSource) CaptureFromCamera(ctx context.Context, _ PickOptions) (string, error) {
	if len(u.files) == 0 {
		return "", ErrNoPhoto
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return u.upload(u.files[0])
}

func (u *UploadSource) upload(file *multipart.FileHeader) (string, error) {
	key, err := u.s3.UploadFile(uuid.NewString(), file, PhotoFolder, storage.AllowImage...)
	if err != nil {
		return "", err
	}
	return u.s3.GetPublicLinkKey(key), nil
}

// Discard deletes uploaded photos that ended up unused.
func (u *UploadSource) Discard(refs []string) {
	for _, ref := range refs {
		key := u.s3.GetObjectKeyFromLink(ref)
		if key == "" {
			continue
		}
		if err := u.s3.DeleteFile(key); err != nil {
			log.Warnf("failed to delete unused photo %s: %v", key, err)
		}
	}
}

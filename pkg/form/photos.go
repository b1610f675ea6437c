package form

import (
	"context"
	"fmt"

	"zipli-backend/domain"
)

type (
	// PickOptions mirrors the picker options the client passes to the device.
	PickOptions struct {
		AllowsMultiple bool
		Quality        float64
	}

	// PhotoSource is the device capability behind photo selection.
	PhotoSource interface {
		RequestGalleryPermission(ctx context.Context) (bool, error)
		RequestCameraPermission(ctx context.Context) (bool, error)
		PickFromGallery(ctx context.Context, opts PickOptions) ([]string, error)
		CaptureFromCamera(ctx context.Context, opts PickOptions) (string, error)
	}

	// PhotoDiscarder is implemented by sources whose references hold
	// resources. Discard is called with references the form did not take.
	PhotoDiscarder interface {
		Discard(refs []string)
	}

	// PermissionError is returned when the user refused access. Message is
	// the blocking alert to show.
	PermissionError struct {
		Message string
	}
)

func (e *PermissionError) Error() string { return e.Message }

func (e *PermissionError) Is(target error) bool { return target == domain.ErrPermissionDenied }

var defaultPickOptions = PickOptions{AllowsMultiple: true, Quality: 0.8}

// checkPhotos must be called with mu held.
func (f *Form) checkPhotos() error {
	if !layouts[f.kind].photos {
		return domain.ErrUnknownField
	}
	switch f.state {
	case domain.FormStateSubmitting:
		return domain.ErrSubmitInFlight
	case domain.FormStateSubmitted:
		return domain.ErrAlreadySubmitted
	}
	return nil
}

// AddFromGallery asks for gallery access and appends every picked photo.
func (f *Form) AddFromGallery(ctx context.Context, src PhotoSource) ([]string, error) {
	f.mu.Lock()
	err := f.checkPhotos()
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}

	granted, err := src.RequestGalleryPermission(ctx)
	if err != nil {
		return nil, fmt.Errorf("gallery permission: %w", err)
	}
	if !granted {
		return nil, &PermissionError{Message: domain.MessageGalleryPermission}
	}

	refs, err := src.PickFromGallery(ctx, defaultPickOptions)
	if err != nil {
		return nil, fmt.Errorf("pick from gallery: %w", err)
	}
	return f.attachPhotos(src, refs...)
}

// AddFromCamera asks for camera access and appends the captured photo.
func (f *Form) AddFromCamera(ctx context.Context, src PhotoSource) ([]string, error) {
	f.mu.Lock()
	err := f.checkPhotos()
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}

	granted, err := src.RequestCameraPermission(ctx)
	if err != nil {
		return nil, fmt.Errorf("camera permission: %w", err)
	}
	if !granted {
		return nil, &PermissionError{Message: domain.MessageCameraPermission}
	}

	ref, err := src.CaptureFromCamera(ctx, PickOptions{Quality: defaultPickOptions.Quality})
	if err != nil {
		return nil, fmt.Errorf("capture from camera: %w", err)
	}
	if ref == "" {
		return f.attachPhotos(src)
	}
	return f.attachPhotos(src, ref)
}

// attachPhotos appends refs, handing them back to src when the form can
// no longer take them.
func (f *Form) attachPhotos(src PhotoSource, refs ...string) ([]string, error) {
	photos, err := f.appendPhotos(refs...)
	if err != nil && len(refs) > 0 {
		if d, ok := src.(PhotoDiscarder); ok {
			d.Discard(refs)
		}
	}
	return photos, err
}

func (f *Form) appendPhotos(refs ...string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(refs) == 0 {
		return append([]string{}, f.photos...), nil
	}
	if err := f.beginEdit(); err != nil {
		return nil, err
	}
	f.photos = append(f.photos, refs...)
	return append([]string{}, f.photos...), nil
}

// RemovePhoto drops the photo at index and returns its reference.
func (f *Form) RemovePhoto(index int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkPhotos(); err != nil {
		return "", err
	}
	if index < 0 || index >= len(f.photos) {
		return "", domain.ErrPhotoIndex
	}
	if err := f.beginEdit(); err != nil {
		return "", err
	}
	ref := f.photos[index]
	f.photos = append(f.photos[:index], f.photos[index+1:]...)
	return ref, nil
}

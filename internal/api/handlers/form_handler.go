package handlers

import (
	"errors"
	"mime/multipart"
	"strconv"

	"zipli-backend/domain"
	"zipli-backend/internal/api/presenters"
	"zipli-backend/internal/utils/storage"
	"zipli-backend/pkg/form"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type (
	FormHandler interface {
		OpenForm(c *fiber.Ctx) error
		GetForm(c *fiber.Ctx) error
		UpdateField(c *fiber.Ctx) error
		ToggleDay(c *fiber.Ctx) error
		SetToggle(c *fiber.Ctx) error
		Acknowledge(c *fiber.Ctx) error
		UploadPhoto(c *fiber.Ctx) error
		RemovePhoto(c *fiber.Ctx) error
		SubmitForm(c *fiber.Ctx) error
		DiscardForm(c *fiber.Ctx) error
	}

	formHandler struct {
		registry  *form.Registry
		s3        storage.AwsS3
		validator *validator.Validate
	}
)

func NewFormHandler(registry *form.Registry, s3 storage.AwsS3, validator *validator.Validate) FormHandler {
	return &formHandler{
		registry:  registry,
		s3:        s3,
		validator: validator,
	}
}

func (h *formHandler) lookup(c *fiber.Ctx) (*form.Form, error) {
	userID := c.Locals("user_id").(string)
	return h.registry.Get(userID, c.Params("id"))
}

func (h *formHandler) OpenForm(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.OpenFormRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedOpenForm, err)
	}

	f, err := h.registry.Open(userID, domain.FormKind(req.Kind))
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedOpenForm, err)
	}

	return presenters.SuccessResponse(c, f.View(), fiber.StatusCreated, domain.MessageSuccessOpenForm)
}

func (h *formHandler) GetForm(c *fiber.Ctx) error {
	f, err := h.lookup(c)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetForm, err)
	}
	return presenters.SuccessResponse(c, f.View(), fiber.StatusOK, domain.MessageSuccessGetForm)
}

func (h *formHandler) UpdateField(c *fiber.Ctx) error {
	f, err := h.lookup(c)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUpdateForm, err)
	}

	req := new(domain.UpdateFieldRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateForm, err)
	}

	if err := f.UpdateField(req.Key, req.Value); err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUpdateForm, err)
	}
	return presenters.SuccessResponse(c, f.View(), fiber.StatusOK, domain.MessageSuccessUpdateForm)
}

func (h *formHandler) ToggleDay(c *fiber.Ctx) error {
	f, err := h.lookup(c)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUpdateForm, err)
	}

	if err := f.ToggleDay(domain.DayKey(c.Params("day"))); err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUpdateForm, err)
	}
	return presenters.SuccessResponse(c, f.View(), fiber.StatusOK, domain.MessageSuccessUpdateForm)
}

func (h *formHandler) SetToggle(c *fiber.Ctx) error {
	f, err := h.lookup(c)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUpdateForm, err)
	}

	req := new(domain.SetToggleRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := f.SetToggle(c.Params("key"), req.Value); err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUpdateForm, err)
	}
	return presenters.SuccessResponse(c, f.View(), fiber.StatusOK, domain.MessageSuccessUpdateForm)
}

func (h *formHandler) Acknowledge(c *fiber.Ctx) error {
	f, err := h.lookup(c)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUpdateForm, err)
	}

	req := new(domain.AcknowledgeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := f.SetAcknowledged(req.Acknowledged); err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUpdateForm, err)
	}
	return presenters.SuccessResponse(c, f.View(), fiber.StatusOK, domain.MessageSuccessUpdateForm)
}

func (h *formHandler) UploadPhoto(c *fiber.Ctx) error {
	f, err := h.lookup(c)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedUploadPhoto, err)
	}

	req := new(domain.UploadPhotoRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadPhoto, domain.ErrInvalidPhotoSource)
	}

	var files []*multipart.FileHeader
	if mf, err := c.MultipartForm(); err == nil {
		files = mf.File["photos"]
	}
	source := form.NewUploadSource(h.s3, req.PermissionGranted, files)

	failed := domain.MessageFailedUploadPhoto
	if req.Source == "camera" {
		failed = domain.MessageFailedTakePhoto
		_, err = f.AddFromCamera(c.UserContext(), source)
	} else {
		_, err = f.AddFromGallery(c.UserContext(), source)
	}
	if err != nil {
		var permErr *form.PermissionError
		if errors.As(err, &permErr) {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, permErr.Message, domain.ErrPermissionDenied)
		}
		return presenters.ErrorResponse(c, statusFor(err), failed, err)
	}

	return presenters.SuccessResponse(c, f.View(), fiber.StatusOK, domain.MessageSuccessUploadPhoto)
}

func (h *formHandler) RemovePhoto(c *fiber.Ctx) error {
	f, err := h.lookup(c)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedRemovePhoto, err)
	}

	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRemovePhoto, domain.ErrPhotoIndex)
	}

	ref, err := f.RemovePhoto(index)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedRemovePhoto, err)
	}
	if key := h.s3.GetObjectKeyFromLink(ref); key != "" {
		if err := h.s3.DeleteFile(key); err != nil {
			log.Warnf("failed to delete removed photo %s: %v", key, err)
		}
	}

	return presenters.SuccessResponse(c, f.View(), fiber.StatusOK, domain.MessageSuccessRemovePhoto)
}

// SubmitForm sends the form to the gateway. A failed submit answers with
// the form view so the client can show the message and let the user retry.
func (h *formHandler) SubmitForm(c *fiber.Ctx) error {
	f, err := h.lookup(c)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedSubmitForm, err)
	}

	record, err := f.Submit(gatewayContext(c))
	if err != nil {
		view := f.View()
		if view.State == domain.FormStateFailed {
			return c.Status(statusFor(err)).JSON(presenters.Response{
				Status:  false,
				Message: domain.MessageFailedSubmitForm,
				Data:    view,
				Error:   view.Error,
			})
		}
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedSubmitForm, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"form":   f.View(),
		"record": record,
	}, fiber.StatusCreated, domain.MessageSuccessSubmitForm)
}

func (h *formHandler) DiscardForm(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.registry.Discard(userID, c.Params("id")); err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedGetForm, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDiscardForm)
}

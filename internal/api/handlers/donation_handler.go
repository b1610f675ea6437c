package handlers

import (
	"zipli-backend/domain"
	"zipli-backend/internal/api/presenters"
	"zipli-backend/internal/utils/storage"
	"zipli-backend/pkg/dashboard"
	"zipli-backend/pkg/gateway"
	"zipli-backend/pkg/listing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const foodImageFolder = "donations"

type (
	DonationHandler interface {
		GetDonations(c *fiber.Ctx) error
		CreateDonation(c *fiber.Ctx) error
	}

	donationHandler struct {
		gateway   gateway.Gateway
		s3        storage.AwsS3
		validator *validator.Validate
	}
)

func NewDonationHandler(gw gateway.Gateway, s3 storage.AwsS3, validator *validator.Validate) DonationHandler {
	return &donationHandler{
		gateway:   gw,
		s3:        s3,
		validator: validator,
	}
}

func (h *donationHandler) GetDonations(c *fiber.Ctx) error {
	sess := sessionFrom(c)
	list := listing.NewComponent(h.gateway, dashboard.EmptyTextFor(sess.Role))
	list.Mount(gatewayContext(c))
	defer list.Unmount()

	view, err := list.Load()
	if err != nil || view.Status == domain.ListStatusError {
		return c.Status(fiber.StatusBadGateway).JSON(presenters.Response{
			Status:  false,
			Message: domain.MessageFailedGetDonations,
			Data:    listing.ErrorView(),
			Error:   domain.MessageLoadDonationsFailed,
		})
	}

	return presenters.SuccessResponse(c, view, fiber.StatusOK, domain.MessageSuccessGetDonations)
}

func (h *donationHandler) CreateDonation(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.CreateDonationRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if file, err := c.FormFile("food_image"); err == nil {
		key, err := h.s3.UploadFile(uuid.NewString(), file, foodImageFolder, storage.AllowImage...)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateDonation, err)
		}
		req.FoodImageURL = h.s3.GetPublicLinkKey(key)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateDonation, err)
	}

	record := gateway.Record{"user_id": userID}
	if req.FoodImageURL != "" {
		record["food_image_url"] = req.FoodImageURL
	}
	if len(req.DetectedFood) > 0 {
		record["detected_food"] = req.DetectedFood
	}
	if req.EstimatedPortions != nil {
		record["estimated_portions"] = *req.EstimatedPortions
	}
	if req.EstimatedShelfLife != "" {
		record["estimated_shelf_life"] = req.EstimatedShelfLife
	}

	created, err := h.gateway.Create(gatewayContext(c), domain.TableDonations, record)
	if err != nil {
		return presenters.ErrorResponse(c, statusFor(err), domain.MessageFailedCreateDonation, err)
	}

	return presenters.SuccessResponse(c, created, fiber.StatusCreated, domain.MessageSuccessCreateDonation)
}

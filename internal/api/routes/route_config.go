package routes

import (
	"zipli-backend/internal/api/handlers"
	"zipli-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App               *fiber.App
	AuthHandler       handlers.AuthHandler
	DonationHandler   handlers.DonationHandler
	PreferenceHandler handlers.PreferenceHandler
	DashboardHandler  handlers.DashboardHandler
	FormHandler       handlers.FormHandler
	Middleware        middleware.Middleware
	Verifier          middleware.TokenVerifier
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Auth()
	c.Donations()
	c.Preferences()
	c.Dashboard()
	c.Forms()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) Auth() {
	auth := c.App.Group("/api/v1/auth")
	{
		auth.Post("/signup", c.AuthHandler.SignUp)
		auth.Post("/login", c.AuthHandler.Login)
		auth.Get("/me", c.Middleware.AuthMiddleware(c.Verifier), c.AuthHandler.Me)
		auth.Post("/forget", c.AuthHandler.ForgotPassword)
		auth.Post("/reset", c.AuthHandler.ResetPassword)
	}
}

func (c *Config) Donations() {
	donations := c.App.Group("/api/v1/donations", c.Middleware.AuthMiddleware(c.Verifier))
	donations.Get("", c.DonationHandler.GetDonations)
	donations.Post("", c.DonationHandler.CreateDonation)
}

func (c *Config) Preferences() {
	preferences := c.App.Group("/api/v1/preferences", c.Middleware.AuthMiddleware(c.Verifier))
	preferences.Get("/:key", c.PreferenceHandler.GetPreference)
	preferences.Put("/:key", c.PreferenceHandler.SetPreference)
}

func (c *Config) Dashboard() {
	c.App.Get("/api/v1/dashboard", c.Middleware.AuthMiddleware(c.Verifier), c.DashboardHandler.GetDashboard)
}

func (c *Config) Forms() {
	forms := c.App.Group("/api/v1/forms", c.Middleware.AuthMiddleware(c.Verifier))

	forms.Post("", c.FormHandler.OpenForm)
	forms.Get("/:id", c.FormHandler.GetForm)
	forms.Delete("/:id", c.FormHandler.DiscardForm)

	// editing
	forms.Patch("/:id/fields", c.FormHandler.UpdateField)
	forms.Post("/:id/days/:day", c.FormHandler.ToggleDay)
	forms.Post("/:id/toggles/:key", c.FormHandler.SetToggle)
	forms.Post("/:id/ack", c.FormHandler.Acknowledge)

	// photos
	forms.Post("/:id/photos", c.FormHandler.UploadPhoto)
	forms.Delete("/:id/photos/:index", c.FormHandler.RemovePhoto)

	forms.Post("/:id/submit", c.FormHandler.SubmitForm)
}

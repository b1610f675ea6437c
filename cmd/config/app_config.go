package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"zipli-backend/internal/api/handlers"
	"zipli-backend/internal/api/routes"
	"zipli-backend/internal/middleware"
	"zipli-backend/internal/utils"
	"zipli-backend/internal/utils/detection"
	"zipli-backend/internal/utils/mailing"
	"zipli-backend/internal/utils/storage"
	"zipli-backend/pkg/auth"
	"zipli-backend/pkg/dashboard"
	"zipli-backend/pkg/donation"
	"zipli-backend/pkg/form"
	"zipli-backend/pkg/gateway"
	"zipli-backend/pkg/jwt"
	"zipli-backend/pkg/preference"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   utils.GetConfig("TIMEZONE"),
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	mailer := mailing.NewSMTPMailer(mailing.LoadMailConfig())
	var detector detection.LabelDetector
	if utils.GetConfig("DETECT_LABELS") == "true" {
		detector, err = detection.NewRekognitionDetector(context.Background())
		if err != nil {
			log.Warnf("food label detection disabled: %v", err)
			detector = nil
		}
	}

	// Preference store
	preferences, closePreferences, err := newPreferenceFactory(db)
	if err != nil {
		return nil, err
	}
	app.Hooks().OnShutdown(closePreferences)

	// Repository
	authRepository := auth.NewAuthRepository(db)
	donationRepository := donation.NewDonationRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	authService := auth.NewAuthService(authRepository, jwtService, mailer)
	donationService := donation.NewDonationService(donationRepository, s3, detector)
	preferenceService := preference.NewPreferenceService(preferences)

	gw, err := newGateway(donationService, authService, jwtService)
	if err != nil {
		return nil, err
	}

	registry := form.NewRegistry(gw, form.DefaultIdleTimeout)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go registry.Run(sweepCtx)
	app.Hooks().OnShutdown(func() error {
		stopSweep()
		return nil
	})

	selector := dashboard.NewSelector(preferences, gw)

	// Handler
	authHandler := handlers.NewAuthHandler(gw, preferences, validator)
	donationHandler := handlers.NewDonationHandler(gw, s3, validator)
	preferenceHandler := handlers.NewPreferenceHandler(preferenceService, validator)
	dashboardHandler := handlers.NewDashboardHandler(selector)
	formHandler := handlers.NewFormHandler(registry, s3, validator)

	// routes
	routesConfig := routes.Config{
		App:               app,
		AuthHandler:       authHandler,
		DonationHandler:   donationHandler,
		PreferenceHandler: preferenceHandler,
		DashboardHandler:  dashboardHandler,
		FormHandler:       formHandler,
		Middleware:        middlewares,
		Verifier:          gw,
	}
	routesConfig.Setup()
	return app, nil
}

func newGateway(donationService donation.DonationService, authService auth.AuthService, jwtService jwt.JWTService) (gateway.Gateway, error) {
	switch driver := utils.GetConfig("GATEWAY_DRIVER"); driver {
	case "database":
		return gateway.NewDatabaseGateway(donationService, authService, jwtService), nil
	case "supabase":
		url, key := utils.GetConfig("SUPABASE_URL"), utils.GetConfig("SUPABASE_KEY")
		if url == "" || key == "" {
			return nil, fmt.Errorf("supabase gateway needs SUPABASE_URL and SUPABASE_KEY")
		}
		return gateway.NewSupabaseGateway(url, key), nil
	default:
		return nil, fmt.Errorf("unknown gateway driver %q", driver)
	}
}

func newPreferenceFactory(db *gorm.DB) (preference.Factory, func() error, error) {
	switch driver := utils.GetConfig("PREFERENCE_DRIVER"); driver {
	case "database":
		repo := preference.NewPreferenceRepository(db)
		return preference.NewDatabaseFactory(repo), func() error { return nil }, nil
	case "sqlite":
		factory, err := preference.NewSQLiteFactory(utils.GetConfig("PREFERENCE_SQLITE_PATH"))
		if err != nil {
			return nil, nil, err
		}
		return factory, factory.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown preference driver %q", driver)
	}
}

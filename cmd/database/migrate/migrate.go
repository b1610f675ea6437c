package migration

import (
	"fmt"

	"zipli-backend/entities"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	// uuid_generate_v4() backs every primary key
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";").Error; err != nil {
		return fmt.Errorf("create uuid-ossp extension: %w", err)
	}

	models := []struct {
		name  string
		model any
	}{
		{"user", &entities.User{}},
		{"user preference", &entities.UserPreference{}},
		{"donation", &entities.Donation{}},
		{"donor profile", &entities.DonorProfile{}},
		{"recipient profile", &entities.RecipientProfile{}},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			return fmt.Errorf("migrate %s table: %w", m.name, err)
		}
	}

	// user ids may come from a hosted auth backend
	if m := db.Migrator(); m.HasConstraint(&entities.UserPreference{}, "fk_user_preferences_user") {
		if err := m.DropConstraint(&entities.UserPreference{}, "fk_user_preferences_user"); err != nil {
			return fmt.Errorf("drop user preference foreign key: %w", err)
		}
	}

	fmt.Println("Database migration complete")
	return nil
}

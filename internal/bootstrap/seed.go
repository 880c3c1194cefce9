package bootstrap

import (
	"log"

	"github.com/codereviewlab/backend/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Submission{},
		&model.Tag{},
		&model.Review{},
		&model.Annotation{},
		&model.Notification{},
	)
}

// SeedUsers creates a default admin and mentor account for local
// development. Skipped when the accounts already exist.
func SeedUsers(db *gorm.DB) error {
	seeds := []struct {
		name     string
		email    string
		password string
		role     model.Role
	}{
		{"Administrator", "admin@codereview.local", "admin123", model.RoleAdmin},
		{"Default Mentor", "mentor@codereview.local", "mentor123", model.RoleMentor},
	}

	for _, seed := range seeds {
		var count int64
		if err := db.Model(&model.User{}).
			Where("email = ?", seed.email).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			log.Printf("User %s already exists, skipping seed", seed.email)
			continue
		}

		hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(seed.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		user := model.User{
			Name:         seed.name,
			Email:        seed.email,
			PasswordHash: string(hashedPasswordBytes),
			Role:         seed.role,
			IsActive:     true,
		}

		if err := db.Create(&user).Error; err != nil {
			return err
		}

		log.Printf("✅ Seeded %s user", seed.role)
		log.Printf("   Email: %s", seed.email)
		log.Printf("   Password: %s", seed.password)
	}

	return nil
}

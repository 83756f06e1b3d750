package database

import (
	"thangka-gallery/config"
	"thangka-gallery/internal/domain/artists"
	"thangka-gallery/internal/domain/contact"
	"thangka-gallery/internal/domain/media"
	"thangka-gallery/internal/domain/notifications"
	"thangka-gallery/internal/domain/social"
	"thangka-gallery/internal/domain/users"
	"thangka-gallery/internal/domain/works"
	"thangka-gallery/internal/logging"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func InitDB() {
	dsn := config.App.DBURL
	if dsn == "" {
		logging.Fatal().Msg("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}

	DB = db

	// ✅ Auto-migrate all domain models
	if err := Migrate(DB); err != nil {
		logging.Fatal().Err(err).Msg("AutoMigrate error")
	}

	logging.Info().Msg("connected and migrated successfully")
}

// Migrate creates or updates every table. Order matters for the foreign keys.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// core
		&users.User{},
		&users.VerificationToken{},
		&artists.Artist{},

		// works
		&works.Category{},
		&works.Tag{},
		&works.Artwork{},
		&media.ArtworkImage{},
		&works.Review{},

		// social
		&social.Like{},
		&social.Bookmark{},
		&social.Follow{},
		&social.ChatMessage{},
		&notifications.Notification{},

		&contact.ContactMessage{},
	)
}

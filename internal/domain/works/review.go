package works

import (
	"time"

	"thangka-gallery/internal/domain/users"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ArtworkID uint `gorm:"not null;index" json:"artwork_id"`

	UserID *uint       `gorm:"index" json:"user_id,omitempty"`
	User   *users.User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Rating  int    `gorm:"not null;default:5" json:"rating"`
	Comment string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

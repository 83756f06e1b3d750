package artists

import (
	"errors"
	"strings"
	"time"

	"thangka-gallery/internal/domain/users"

	"gorm.io/gorm"
)

type Artist struct {
	ID     uint        `gorm:"primaryKey" json:"id"`
	UserID *uint       `gorm:"uniqueIndex:idx_artists_user" json:"user_id,omitempty"`
	User   *users.User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Name      string `gorm:"type:varchar(140)" json:"name"`
	Bio       string `gorm:"type:text" json:"bio"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Website   string `json:"website,omitempty"`
	Twitter   string `gorm:"type:varchar(200)" json:"twitter,omitempty"`
	Instagram string `gorm:"type:varchar(200)" json:"instagram,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName falls back from the artist name to the linked username and
// finally to an empty string. Safe on a nil receiver.
func (a *Artist) DisplayName() string {
	if a == nil {
		return ""
	}
	if name := strings.TrimSpace(a.Name); name != "" {
		return name
	}
	if a.User != nil {
		return a.User.Username
	}
	return ""
}

// EnsureForUser returns the user's artist profile, creating one named after the
// username if it does not exist yet.
//
// Pass db in, do NOT import thangka-gallery/database here (avoids import cycle).
func EnsureForUser(db *gorm.DB, user *users.User) (*Artist, error) {
	if user == nil || user.ID == 0 {
		return nil, errors.New("user ID missing (call EnsureForUser after Create)")
	}

	var a Artist
	err := db.Where("user_id = ?", user.ID).First(&a).Error
	if err == nil {
		a.User = user
		return &a, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	uid := user.ID
	a = Artist{UserID: &uid, Name: user.Username}
	if err := db.Create(&a).Error; err != nil {
		return nil, err
	}
	a.User = user
	return &a, nil
}

package notifications

import (
	"time"

	"thangka-gallery/internal/domain/users"
	"thangka-gallery/internal/domain/works"
)

type Type string

const (
	TypeLike     Type = "like"
	TypeComment  Type = "comment"
	TypeFollow   Type = "follow"
	TypeBookmark Type = "bookmark"
	TypeMessage  Type = "message"
	TypeFeature  Type = "feature"
)

var typeLabels = map[Type]string{
	TypeLike:     "Artwork Liked",
	TypeComment:  "New Comment",
	TypeFollow:   "New Follower",
	TypeBookmark: "Artwork Bookmarked",
	TypeMessage:  "New Message",
	TypeFeature:  "Artwork Featured",
}

// Label is the display label; unknown types display as their raw value.
func (t Type) Label() string {
	if l, ok := typeLabels[t]; ok {
		return l
	}
	return string(t)
}

func (t Type) Valid() bool {
	_, ok := typeLabels[t]
	return ok
}

type Notification struct {
	ID     uint       `gorm:"primaryKey" json:"id"`
	UserID uint       `gorm:"not null;index:idx_notifications_user_read,priority:1" json:"-"`
	User   users.User `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	ActorID *uint       `gorm:"index" json:"actor_id,omitempty"`
	Actor   *users.User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Type Type `gorm:"column:notification_type;type:varchar(20);not null" json:"type"`

	ArtworkID *uint          `gorm:"index" json:"artwork_id,omitempty"`
	Artwork   *works.Artwork `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Message   string    `gorm:"type:text" json:"message"`
	IsRead    bool      `gorm:"not null;index:idx_notifications_user_read,priority:2" json:"is_read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

package social

import (
	"time"

	"thangka-gallery/internal/domain/users"
	"thangka-gallery/internal/domain/works"
)

// Like, Bookmark and Follow are pure presence relations: a row means the
// relation is active.

type Like struct {
	ID        uint           `gorm:"primaryKey"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_likes_user_artwork,priority:1"`
	User      users.User     `gorm:"constraint:OnDelete:CASCADE;"`
	ArtworkID uint           `gorm:"not null;uniqueIndex:idx_likes_user_artwork,priority:2;index"`
	Artwork   *works.Artwork `gorm:"constraint:OnDelete:CASCADE;"`
	CreatedAt time.Time
}

type Bookmark struct {
	ID        uint           `gorm:"primaryKey"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_bookmarks_user_artwork,priority:1"`
	User      users.User     `gorm:"constraint:OnDelete:CASCADE;"`
	ArtworkID uint           `gorm:"not null;uniqueIndex:idx_bookmarks_user_artwork,priority:2;index"`
	Artwork   *works.Artwork `gorm:"constraint:OnDelete:CASCADE;"`
	CreatedAt time.Time
}

type Follow struct {
	ID         uint       `gorm:"primaryKey"`
	FollowerID uint       `gorm:"not null;uniqueIndex:idx_follows_pair,priority:1"`
	Follower   users.User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE;"`
	FolloweeID uint       `gorm:"not null;uniqueIndex:idx_follows_pair,priority:2;index"`
	Followee   users.User `gorm:"foreignKey:FolloweeID;constraint:OnDelete:CASCADE;"`
	CreatedAt  time.Time
}

// ChatMessage with a nil recipient is a broadcast to the room.
type ChatMessage struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	SenderID    uint        `gorm:"not null;index" json:"sender_id"`
	Sender      users.User  `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE;" json:"-"`
	RecipientID *uint       `gorm:"index" json:"recipient_id,omitempty"`
	Recipient   *users.User `gorm:"foreignKey:RecipientID;constraint:OnDelete:CASCADE;" json:"-"`
	Message     string      `gorm:"type:text;not null" json:"message"`
	CreatedAt   time.Time   `gorm:"index" json:"created_at"`
}

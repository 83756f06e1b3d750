package users

import (
	"thangka-gallery/internal/domain/artists"
	"thangka-gallery/internal/domain/notifications"
	"thangka-gallery/internal/domain/social"
	"thangka-gallery/internal/domain/users"
	"thangka-gallery/internal/domain/works"

	"gorm.io/gorm"
)

func BuildUserDTO(u users.User) UserDTO {
	return UserDTO{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Role:         u.Role,
		AuthProvider: u.AuthProvider,
		HasPassword:  u.Password != nil && *u.Password != "",
		CreatedAt:    u.CreatedAt,
	}
}

func BuildArtistDTO(a *artists.Artist) *ArtistDTO {
	if a == nil {
		return nil
	}
	return &ArtistDTO{
		ID:          a.ID,
		Name:        a.Name,
		DisplayName: a.DisplayName(),
		Bio:         a.Bio,
		AvatarURL:   a.AvatarURL,
		Website:     a.Website,
		Twitter:     a.Twitter,
		Instagram:   a.Instagram,
	}
}

// BuildStats counts everything the account page shows. artistID may be 0.
func BuildStats(db *gorm.DB, userID, artistID uint) (StatsDTO, error) {
	var s StatsDTO

	if artistID != 0 {
		if err := db.Model(&works.Artwork{}).Where("artist_id = ?", artistID).Count(&s.Artworks).Error; err != nil {
			return s, err
		}
		if err := db.Model(&works.Artwork{}).
			Where("artist_id = ? AND is_published = ?", artistID, true).
			Count(&s.PublishedArtworks).Error; err != nil {
			return s, err
		}
		if err := db.Model(&social.Like{}).
			Joins("JOIN artworks ON artworks.id = likes.artwork_id").
			Where("artworks.artist_id = ?", artistID).
			Count(&s.LikesReceived).Error; err != nil {
			return s, err
		}
	}

	followers, err := social.FollowersCount(db, userID)
	if err != nil {
		return s, err
	}
	s.Followers = followers

	if err := db.Model(&social.Follow{}).Where("follower_id = ?", userID).Count(&s.Following).Error; err != nil {
		return s, err
	}
	if err := db.Model(&social.Bookmark{}).Where("user_id = ?", userID).Count(&s.Bookmarks).Error; err != nil {
		return s, err
	}

	unread, err := notifications.UnreadCount(db, userID)
	if err != nil {
		return s, err
	}
	s.UnreadNotifications = unread
	return s, nil
}

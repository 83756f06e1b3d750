package users

import "time"

type MeResponse struct {
	User   UserDTO    `json:"user"`
	Artist *ArtistDTO `json:"artist"`
	Stats  StatsDTO   `json:"stats"`
}

/* ---------- USER ---------- */

type UserDTO struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	AuthProvider string    `json:"auth_provider"`
	HasPassword  bool      `json:"has_password"`
	CreatedAt    time.Time `json:"created_at"`
}

/* ---------- ARTIST ---------- */

type ArtistDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
	AvatarURL   string `json:"avatar_url"`
	Website     string `json:"website"`
	Twitter     string `json:"twitter"`
	Instagram   string `json:"instagram"`
}

/* ---------- STATS ---------- */

type StatsDTO struct {
	Artworks            int64 `json:"artworks"`
	PublishedArtworks   int64 `json:"published_artworks"`
	LikesReceived       int64 `json:"likes_received"`
	Followers           int64 `json:"followers"`
	Following           int64 `json:"following"`
	Bookmarks           int64 `json:"bookmarks"`
	UnreadNotifications int64 `json:"unread_notifications"`
}

package admin

import (
	"errors"
	"net/http"
	"time"

	"thangka-gallery/database"
	"thangka-gallery/internal/api/respond"
	worksapi "thangka-gallery/internal/api/works"
	"thangka-gallery/internal/domain/contact"
	"thangka-gallery/internal/domain/errs"
	"thangka-gallery/internal/domain/gallery"
	"thangka-gallery/internal/domain/notifications"
	"thangka-gallery/internal/domain/social"
	"thangka-gallery/internal/domain/users"
	"thangka-gallery/internal/domain/works"

	"github.com/gin-gonic/gin"
)

type AdminUser struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	AuthProvider string    `json:"auth_provider"`
	ArtworkCount int64     `json:"artwork_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type AdminStats struct {
	TotalUsers          int64 `json:"total_users"`
	TotalArtworks       int64 `json:"total_artworks"`
	PublishedArtworks   int64 `json:"published_artworks"`
	FeaturedArtworks    int64 `json:"featured_artworks"`
	TotalLikes          int64 `json:"total_likes"`
	TotalFollows        int64 `json:"total_follows"`
	RecentArtworks      int64 `json:"recent_artworks"`
	UnreadNotifications int64 `json:"unread_notifications"`
	UnreadContact       int64 `json:"unread_contact_messages"`
}

func AdminDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Welcome to the gallery admin 👑",
	})
}

func ListAllUsers(c *gin.Context) {
	type row struct {
		users.User
		ArtworkCount int64
	}
	var rows []row
	err := database.DB.Model(&users.User{}).
		Select("users.*, COUNT(artworks.id) AS artwork_count").
		Joins("LEFT JOIN artists ON artists.user_id = users.id").
		Joins("LEFT JOIN artworks ON artworks.artist_id = artists.id").
		Group("users.id").
		Order("users.id ASC").
		Scan(&rows).Error
	if err != nil {
		respond.Error(c, err)
		return
	}

	out := make([]AdminUser, 0, len(rows))
	for _, r := range rows {
		out = append(out, AdminUser{
			ID:           r.ID,
			Username:     r.Username,
			Email:        r.Email,
			Role:         r.Role,
			AuthProvider: r.AuthProvider,
			ArtworkCount: r.ArtworkCount,
			CreatedAt:    r.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, out)
}

func GetAdminStats(c *gin.Context) {
	var stats AdminStats
	db := database.DB

	counts := []struct {
		dst   *int64
		model any
		where string
		args  []any
	}{
		{&stats.TotalUsers, &users.User{}, "", nil},
		{&stats.TotalArtworks, &works.Artwork{}, "", nil},
		{&stats.PublishedArtworks, &works.Artwork{}, "is_published = ?", []any{true}},
		{&stats.FeaturedArtworks, &works.Artwork{}, "is_featured = ?", []any{true}},
		{&stats.TotalLikes, &social.Like{}, "", nil},
		{&stats.TotalFollows, &social.Follow{}, "", nil},
		{&stats.RecentArtworks, &works.Artwork{}, "created_at >= ?", []any{time.Now().AddDate(0, 0, -30)}},
		{&stats.UnreadNotifications, &notifications.Notification{}, "is_read = ?", []any{false}},
		{&stats.UnreadContact, &contact.ContactMessage{}, "is_read = ?", []any{false}},
	}
	for _, q := range counts {
		tx := db.Model(q.model)
		if q.where != "" {
			tx = tx.Where(q.where, q.args...)
		}
		if err := tx.Count(q.dst).Error; err != nil {
			respond.Error(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, stats)
}

// GET /admin/contact
func ListContactMessages(c *gin.Context) {
	var msgs []contact.ContactMessage
	q := database.DB.Order("created_at DESC, id DESC").Limit(200)
	if c.Query("unread") == "1" {
		q = q.Where("is_read = ?", false)
	}
	if err := q.Find(&msgs).Error; err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// POST /admin/contact/:id/read
func MarkContactRead(c *gin.Context) {
	id, ok := worksapi.ParseID(c, "id")
	if !ok {
		respond.Fail(c, http.StatusNotFound, "Message not found")
		return
	}
	res := database.DB.Model(&contact.ContactMessage{}).Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		respond.Error(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		respond.Fail(c, http.StatusNotFound, "Message not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ------------------------------
// POST /artwork/:id/feature/   body: featured=true|false (default true)
// ------------------------------
func FeatureArtwork(c *gin.Context) {
	id, ok := worksapi.ParseID(c, "id")
	if !ok {
		respond.Fail(c, http.StatusNotFound, "Artwork not found")
		return
	}

	var body struct {
		Featured *bool `form:"featured" json:"featured"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBind(&body); err != nil {
			respond.Invalid(c, respond.BindError(err))
			return
		}
	}
	featured := true
	if body.Featured != nil {
		featured = *body.Featured
	}

	a, err := gallery.SetFeatured(database.DB, c.GetUint("user_id"), id, featured)
	if errors.Is(err, errs.ErrNotFound) {
		respond.Fail(c, http.StatusNotFound, "Artwork not found")
		return
	}
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "is_featured": a.IsFeatured})
}

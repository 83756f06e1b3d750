package gallery

import (
	"errors"

	"thangka-gallery/internal/domain/errs"
	"thangka-gallery/internal/domain/users"
	"thangka-gallery/internal/domain/works"

	"gorm.io/gorm"
)

// RecordView bumps the view counter of a published artwork in place.
// Every call counts; there is no per-viewer dedupe.
func RecordView(db *gorm.DB, id uint) error {
	res := db.Model(&works.Artwork{}).
		Where("id = ? AND is_published = ?", id, true).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// LoadPublished loads a published artwork with everything the detail page shows.
func LoadPublished(db *gorm.DB, id uint) (*works.Artwork, error) {
	return load(db.Where("is_published = ?", true), id)
}

// LoadAny loads an artwork regardless of its published flag.
func LoadAny(db *gorm.DB, id uint) (*works.Artwork, error) {
	return load(db, id)
}

func load(db *gorm.DB, id uint) (*works.Artwork, error) {
	var a works.Artwork
	err := db.
		Preload("Artist.User").
		Preload("Category").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name ASC") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC, id ASC") }).
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC, id DESC") }).
		Preload("Reviews.User").
		First(&a, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Detail records one view and returns the fresh artwork.
func Detail(db *gorm.DB, id uint) (*works.Artwork, error) {
	var out *works.Artwork
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := RecordView(tx, id); err != nil {
			return err
		}
		a, err := LoadPublished(tx, id)
		if err != nil {
			return err
		}
		out = a
		return nil
	})
	return out, err
}

// Related picks up to limit published artworks similar to a. With a category
// it uses only same-category artworks; without one it uses artworks sharing at
// least one tag. The artwork itself is never included.
func Related(db *gorm.DB, a *works.Artwork, limit int) ([]works.Artwork, error) {
	if limit <= 0 {
		limit = RelatedLimit
	}
	q := PublishedQuery(db).Where("artworks.id <> ?", a.ID)

	switch {
	case a.CategoryID != nil:
		q = q.Where("artworks.category_id = ?", *a.CategoryID)
	case len(a.Tags) > 0:
		tagIDs := make([]uint, 0, len(a.Tags))
		for _, t := range a.Tags {
			tagIDs = append(tagIDs, t.ID)
		}
		// IN-subquery keeps each artwork once however many tags it shares
		q = q.Where("artworks.id IN (?)",
			db.Session(&gorm.Session{NewDB: true}).
				Table("artwork_tags").
				Select("artwork_id").
				Where("tag_id IN ?", tagIDs))
	default:
		return []works.Artwork{}, nil
	}

	var out []works.Artwork
	err := preloadCard(Ordered(q)).Limit(limit).Find(&out).Error
	return out, err
}

// SidebarArtist is a user with at least one artwork, for the chat sidebar.
type SidebarArtist struct {
	UserID       uint   `json:"user_id"`
	Username     string `json:"username"`
	ArtistName   string `json:"artist_name"`
	ArtworkCount int64  `json:"artwork_count"`
}

// ArtistSidebar ranks users by how many artworks their artist profile holds,
// excluding the viewer.
func ArtistSidebar(db *gorm.DB, viewerID uint, limit int) ([]SidebarArtist, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []SidebarArtist
	err := db.Model(&users.User{}).
		Select("users.id AS user_id, users.username, artists.name AS artist_name, COUNT(artworks.id) AS artwork_count").
		Joins("JOIN artists ON artists.user_id = users.id").
		Joins("JOIN artworks ON artworks.artist_id = artists.id").
		Where("users.id <> ?", viewerID).
		Group("users.id, users.username, artists.name").
		Order("artwork_count DESC, users.id ASC").
		Limit(limit).
		Scan(&out).Error
	for i := range out {
		if out[i].ArtistName == "" {
			out[i].ArtistName = out[i].Username
		}
	}
	return out, err
}

// Package gallery builds the published-artwork listings and the detail view
// on top of the entity store.
package gallery

import (
	"strings"

	"thangka-gallery/internal/domain/works"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 12
	RelatedLimit    = 6
	FeaturedLimit   = 6
)

// Filter narrows a published listing. Zero values mean "no constraint".
type Filter struct {
	Query        string // case-insensitive match on title or description
	CategorySlug string
	TagSlug      string
	Material     string
	ArtistID     uint
	FeaturedOnly bool
}

// PublishedQuery is the base scope of every public listing.
func PublishedQuery(db *gorm.DB) *gorm.DB {
	return db.Model(&works.Artwork{}).Where("artworks.is_published = ?", true)
}

// Ordered applies the gallery order: featured first, then newest.
func Ordered(q *gorm.DB) *gorm.DB {
	return q.Order("artworks.is_featured DESC").
		Order("artworks.created_at DESC").
		Order("artworks.id DESC")
}

func (f Filter) Apply(q *gorm.DB) *gorm.DB {
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(artworks.title) LIKE ? OR LOWER(artworks.description) LIKE ?", like, like)
	}
	if f.CategorySlug != "" {
		q = q.Where("artworks.category_id IN (?)",
			q.Session(&gorm.Session{NewDB: true}).Model(&works.Category{}).Select("id").Where("slug = ?", f.CategorySlug))
	}
	if f.TagSlug != "" {
		q = q.Where("artworks.id IN (?)",
			q.Session(&gorm.Session{NewDB: true}).
				Table("artwork_tags").
				Select("artwork_tags.artwork_id").
				Joins("JOIN tags ON tags.id = artwork_tags.tag_id").
				Where("tags.slug = ?", f.TagSlug))
	}
	if f.Material != "" {
		q = q.Where("artworks.materials = ?", f.Material)
	}
	if f.ArtistID != 0 {
		q = q.Where("artworks.artist_id = ?", f.ArtistID)
	}
	if f.FeaturedOnly {
		q = q.Where("artworks.is_featured = ?", true)
	}
	return q
}

// preloadCard loads what a listing card needs.
func preloadCard(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Artist.User").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		})
}

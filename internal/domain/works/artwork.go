package works

import (
	"time"

	"thangka-gallery/internal/domain/artists"
	"thangka-gallery/internal/domain/media"
)

const (
	MaterialCotton = "cotton"
	MaterialSilk   = "silk"
	MaterialPaper  = "paper"
	MaterialMixed  = "mixed"
	MaterialOther  = "other"
)

var materialLabels = map[string]string{
	MaterialCotton: "Cotton",
	MaterialSilk:   "Silk",
	MaterialPaper:  "Paper",
	MaterialMixed:  "Mixed Media",
	MaterialOther:  "Other",
}

// MaterialChoices lists the materials in form order.
var MaterialChoices = []string{MaterialCotton, MaterialSilk, MaterialPaper, MaterialMixed, MaterialOther}

func ValidMaterial(m string) bool {
	_, ok := materialLabels[m]
	return ok
}

func MaterialLabel(m string) string {
	return materialLabels[m]
}

type Artwork struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Title string `gorm:"type:varchar(250);not null" json:"title"`
	Slug  string `gorm:"type:varchar(300);not null;uniqueIndex:idx_artworks_slug" json:"slug"`

	ArtistID *uint           `gorm:"index" json:"artist_id,omitempty"`
	Artist   *artists.Artist `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"artist,omitempty"`

	CategoryID *uint     `gorm:"index" json:"category_id,omitempty"`
	Category   *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"category,omitempty"`

	Tags []Tag `gorm:"many2many:artwork_tags;constraint:OnDelete:CASCADE;" json:"tags,omitempty"`

	Description string   `gorm:"type:text" json:"description"`
	Price       *float64 `gorm:"type:decimal(10,2)" json:"price,omitempty"`
	Materials   string   `gorm:"type:varchar(40);not null;default:'other'" json:"materials"`
	YearCreated *int     `json:"year_created,omitempty"`

	// no gorm default on these: an explicit false must be written
	IsFeatured  bool `gorm:"not null;index" json:"is_featured"`
	IsPublished bool `gorm:"not null;index" json:"is_published"`
	ViewCount   uint `gorm:"not null;default:0" json:"view_count"`

	Images  []media.ArtworkImage `gorm:"constraint:OnDelete:CASCADE;" json:"images,omitempty"`
	Reviews []Review             `gorm:"constraint:OnDelete:CASCADE;" json:"reviews,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OwnerUserID is the user behind the artwork's artist, if any.
// Requires Artist to be loaded.
func (a *Artwork) OwnerUserID() *uint {
	if a == nil || a.Artist == nil {
		return nil
	}
	return a.Artist.UserID
}

// FirstImage returns the image with the lowest (order, id), or nil.
func (a *Artwork) FirstImage() *media.ArtworkImage {
	if a == nil || len(a.Images) == 0 {
		return nil
	}
	first := &a.Images[0]
	for i := range a.Images[1:] {
		img := &a.Images[i+1]
		if img.Order < first.Order || (img.Order == first.Order && img.ID < first.ID) {
			first = img
		}
	}
	return first
}

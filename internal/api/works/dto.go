package works

import (
	"fmt"
	"time"

	"thangka-gallery/internal/domain/gallery"
	"thangka-gallery/internal/domain/media"
	"thangka-gallery/internal/domain/works"
)

// ---------- responses

type CardDTO struct {
	ID           uint     `json:"id"`
	Title        string   `json:"title"`
	Slug         string   `json:"slug"`
	URL          string   `json:"url"`
	Artist       string   `json:"artist"`
	ArtistUserID *uint    `json:"artist_user_id,omitempty"`
	Thumb        string   `json:"thumb"`
	Materials    string   `json:"materials"`
	YearCreated  *int     `json:"year_created,omitempty"`
	Price        *float64 `json:"price,omitempty"`
	IsFeatured   bool     `json:"is_featured"`
	IsPublished  bool     `json:"is_published"`
	LikesCount   int64    `json:"likes_count"`
	IsLiked      bool     `json:"is_liked"`
	IsBookmarked bool     `json:"is_bookmarked"`
	IsFollowing  bool     `json:"is_following"`
}

// CompactDTO is the infinite-scroll item.
type CompactDTO struct {
	ID         uint   `json:"id"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	Thumb      string `json:"thumb"`
	LikesCount int64  `json:"likes_count"`
}

type ImageDTO struct {
	ID       uint   `json:"id"`
	URL      string `json:"url"`
	ThumbURL string `json:"thumb_url"`
	Caption  string `json:"caption,omitempty"`
	Order    int    `json:"order"`
}

type TaxonDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type ReviewDTO struct {
	ID        uint      `json:"id"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type ArtistDTO struct {
	ID        uint   `json:"id"`
	UserID    *uint  `json:"user_id,omitempty"`
	Name      string `json:"name"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Website   string `json:"website,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

type DetailDTO struct {
	ID            uint        `json:"id"`
	Title         string      `json:"title"`
	Slug          string      `json:"slug"`
	Description   string      `json:"description"`
	Artist        *ArtistDTO  `json:"artist"`
	ArtistName    string      `json:"artist_name"`
	Category      *TaxonDTO   `json:"category"`
	Tags          []TaxonDTO  `json:"tags"`
	Materials     string      `json:"materials"`
	MaterialLabel string      `json:"material_label"`
	YearCreated   *int        `json:"year_created,omitempty"`
	Price         *float64    `json:"price,omitempty"`
	IsFeatured    bool        `json:"is_featured"`
	ViewCount     uint        `json:"view_count"`
	Images        []ImageDTO  `json:"images"`
	Reviews       []ReviewDTO `json:"reviews"`
	CreatedAt     time.Time   `json:"created_at"`
}

// ---------- builders

func ArtworkURL(id uint) string {
	return fmt.Sprintf("/artwork/%d/", id)
}

func ToCard(it gallery.Item) CardDTO {
	a := it.Artwork
	return CardDTO{
		ID:           a.ID,
		Title:        a.Title,
		Slug:         a.Slug,
		URL:          ArtworkURL(a.ID),
		Artist:       it.ArtistName,
		ArtistUserID: it.OwnerUserID,
		Thumb:        it.Thumb,
		Materials:    a.Materials,
		YearCreated:  a.YearCreated,
		Price:        a.Price,
		IsFeatured:   a.IsFeatured,
		IsPublished:  a.IsPublished,
		LikesCount:   it.LikesCount,
		IsLiked:      it.IsLiked,
		IsBookmarked: it.IsBookmarked,
		IsFollowing:  it.IsFollowing,
	}
}

func ToCards(items []gallery.Item) []CardDTO {
	out := make([]CardDTO, 0, len(items))
	for _, it := range items {
		out = append(out, ToCard(it))
	}
	return out
}

func ToCompact(items []gallery.Item) []CompactDTO {
	out := make([]CompactDTO, 0, len(items))
	for _, it := range items {
		out = append(out, CompactDTO{
			ID:         it.Artwork.ID,
			Title:      it.Artwork.Title,
			Artist:     it.ArtistName,
			Thumb:      it.Artwork.FirstImage().Original(),
			LikesCount: it.LikesCount,
		})
	}
	return out
}

func toImages(imgs []media.ArtworkImage) []ImageDTO {
	out := make([]ImageDTO, 0, len(imgs))
	for _, img := range imgs {
		out = append(out, ImageDTO{
			ID:       img.ID,
			URL:      img.URL,
			ThumbURL: img.Thumb(),
			Caption:  img.Caption,
			Order:    img.Order,
		})
	}
	return out
}

func ToTaxa[T works.Category | works.Tag](in []T) []TaxonDTO {
	out := make([]TaxonDTO, 0, len(in))
	for _, v := range in {
		switch t := any(v).(type) {
		case works.Category:
			out = append(out, TaxonDTO{ID: t.ID, Name: t.Name, Slug: t.Slug})
		case works.Tag:
			out = append(out, TaxonDTO{ID: t.ID, Name: t.Name, Slug: t.Slug})
		}
	}
	return out
}

func ToReview(r works.Review) ReviewDTO {
	author := ""
	if r.User != nil {
		author = r.User.Username
	}
	return ReviewDTO{ID: r.ID, Author: author, Rating: r.Rating, Comment: r.Comment, CreatedAt: r.CreatedAt}
}

func ToDetail(a *works.Artwork) DetailDTO {
	d := DetailDTO{
		ID:            a.ID,
		Title:         a.Title,
		Slug:          a.Slug,
		Description:   a.Description,
		ArtistName:    a.Artist.DisplayName(),
		Tags:          ToTaxa(a.Tags),
		Materials:     a.Materials,
		MaterialLabel: works.MaterialLabel(a.Materials),
		YearCreated:   a.YearCreated,
		Price:         a.Price,
		IsFeatured:    a.IsFeatured,
		ViewCount:     a.ViewCount,
		Images:        toImages(a.Images),
		Reviews:       make([]ReviewDTO, 0, len(a.Reviews)),
		CreatedAt:     a.CreatedAt,
	}
	if a.Artist != nil {
		d.Artist = &ArtistDTO{
			ID:        a.Artist.ID,
			UserID:    a.Artist.UserID,
			Name:      a.Artist.DisplayName(),
			Bio:       a.Artist.Bio,
			AvatarURL: a.Artist.AvatarURL,
			Website:   a.Artist.Website,
			Twitter:   a.Artist.Twitter,
			Instagram: a.Artist.Instagram,
		}
	}
	if a.Category != nil {
		d.Category = &TaxonDTO{ID: a.Category.ID, Name: a.Category.Name, Slug: a.Category.Slug}
	}
	for _, r := range a.Reviews {
		d.Reviews = append(d.Reviews, ToReview(r))
	}
	return d
}

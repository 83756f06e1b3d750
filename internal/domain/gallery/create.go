package gallery

import (
	"strings"
	"time"

	"thangka-gallery/internal/domain/artists"
	"thangka-gallery/internal/domain/errs"
	"thangka-gallery/internal/domain/media"
	"thangka-gallery/internal/domain/users"
	"thangka-gallery/internal/domain/works"

	"gorm.io/gorm"
)

const maxTitleLen = 250

// NewArtwork is the validated input of an upload. Images are stored already;
// their position in the slice becomes their display order.
type NewArtwork struct {
	Title       string
	Description string
	CategoryID  *uint
	TagIDs      []uint
	Materials   string
	YearCreated *int
	Price       *float64
	IsFeatured  bool
	IsPublished bool
	Images      []media.ArtworkImage
}

func (in *NewArtwork) validate() error {
	verr := &errs.ValidationError{}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		verr.Add("title", "This field is required.")
	} else if len([]rune(in.Title)) > maxTitleLen {
		verr.Add("title", "Ensure this value has at most 250 characters.")
	}
	if in.Materials == "" {
		in.Materials = works.MaterialOther
	}
	if !works.ValidMaterial(in.Materials) {
		verr.Add("materials", "Select a valid choice.")
	}
	if in.YearCreated != nil && (*in.YearCreated < 0 || *in.YearCreated > 32767) {
		verr.Add("year_created", "Enter a valid year.")
	}
	if in.Price != nil && *in.Price < 0 {
		verr.Add("price", "Ensure this value is greater than or equal to 0.")
	}
	return verr.OrNil()
}

// CreateArtwork stores an artwork for the user's artist profile (created on
// demand) together with its images and tag links, all in one transaction.
func CreateArtwork(db *gorm.DB, owner *users.User, in NewArtwork) (*works.Artwork, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var out *works.Artwork
	err := db.Transaction(func(tx *gorm.DB) error {
		artist, err := artists.EnsureForUser(tx, owner)
		if err != nil {
			return err
		}

		if in.CategoryID != nil {
			var n int64
			if err := tx.Model(&works.Category{}).Where("id = ?", *in.CategoryID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return errs.NewValidation("category", "Select a valid choice.")
			}
		}

		var tags []works.Tag
		if len(in.TagIDs) > 0 {
			if err := tx.Where("id IN ?", in.TagIDs).Find(&tags).Error; err != nil {
				return err
			}
			if len(tags) != len(uniqueIDs(in.TagIDs)) {
				return errs.NewValidation("tags", "Select a valid choice.")
			}
		}

		now := time.Now()
		slug, err := works.UniqueSlug(tx, &works.Artwork{}, works.ArtworkSlugBase(in.Title, now.Year()))
		if err != nil {
			return err
		}

		artistID := artist.ID
		a := works.Artwork{
			Title:       in.Title,
			Slug:        slug,
			ArtistID:    &artistID,
			CategoryID:  in.CategoryID,
			Description: in.Description,
			Price:       in.Price,
			Materials:   in.Materials,
			YearCreated: in.YearCreated,
			IsFeatured:  in.IsFeatured,
			IsPublished: in.IsPublished,
			CreatedAt:   now,
		}
		if err := tx.Omit("Tags", "Images", "Reviews", "Artist", "Category").Create(&a).Error; err != nil {
			return err
		}

		if len(tags) > 0 {
			if err := tx.Model(&a).Association("Tags").Append(tags); err != nil {
				return err
			}
		}

		for i := range in.Images {
			img := in.Images[i]
			img.ID = 0
			img.ArtworkID = a.ID
			img.Order = i
			if err := tx.Create(&img).Error; err != nil {
				return err
			}
			a.Images = append(a.Images, img)
		}

		a.Artist = artist
		a.Tags = tags
		out = &a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

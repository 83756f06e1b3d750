package gallery

import (
	"errors"
	"fmt"
	"strings"

	"thangka-gallery/internal/domain/errs"
	"thangka-gallery/internal/domain/notifications"
	"thangka-gallery/internal/domain/users"
	"thangka-gallery/internal/domain/works"

	"gorm.io/gorm"
)

// AddReview stores a review on a published artwork and tells the owner about it.
func AddReview(db *gorm.DB, author *users.User, artworkID uint, rating int, comment string) (*works.Review, error) {
	if rating < works.MinRating || rating > works.MaxRating {
		return nil, errs.NewValidation("rating", "Ensure this value is between 1 and 5.")
	}

	var out works.Review
	err := db.Transaction(func(tx *gorm.DB) error {
		var a works.Artwork
		if err := tx.Preload("Artist").
			Where("is_published = ?", true).
			First(&a, artworkID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrNotFound
			}
			return err
		}

		uid := author.ID
		out = works.Review{
			ArtworkID: a.ID,
			UserID:    &uid,
			Rating:    rating,
			Comment:   strings.TrimSpace(comment),
		}
		if err := tx.Create(&out).Error; err != nil {
			return err
		}

		owner := a.OwnerUserID()
		if owner == nil || *owner == author.ID {
			return nil
		}
		artID := a.ID
		return notifications.Notify(tx, &notifications.Notification{
			UserID:    *owner,
			ActorID:   &uid,
			Type:      notifications.TypeComment,
			ArtworkID: &artID,
			Message:   fmt.Sprintf("%s reviewed your artwork %q (%d/5)", author.Username, a.Title, rating),
		})
	})
	if err != nil {
		return nil, err
	}
	out.User = author
	return &out, nil
}

// SetFeatured changes the featured flag. Turning it on notifies the owner.
func SetFeatured(db *gorm.DB, actorID, artworkID uint, featured bool) (*works.Artwork, error) {
	var out works.Artwork
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Artist").First(&out, artworkID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errs.ErrNotFound
			}
			return err
		}
		was := out.IsFeatured
		if err := tx.Model(&works.Artwork{}).
			Where("id = ?", artworkID).
			UpdateColumn("is_featured", featured).Error; err != nil {
			return err
		}
		out.IsFeatured = featured

		owner := out.OwnerUserID()
		if !featured || was || owner == nil || *owner == actorID {
			return nil
		}
		aid, artID := actorID, out.ID
		return notifications.Notify(tx, &notifications.Notification{
			UserID:    *owner,
			ActorID:   &aid,
			Type:      notifications.TypeFeature,
			ArtworkID: &artID,
			Message:   fmt.Sprintf("Your artwork %q is now featured", out.Title),
		})
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

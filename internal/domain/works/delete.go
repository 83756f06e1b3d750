package works

import (
	"thangka-gallery/internal/domain/media"

	"gorm.io/gorm"
)

// DeleteArtwork removes an artwork inside tx and returns the storage keys of
// its images so the caller can drop the objects after commit. Images, reviews,
// likes and bookmarks go with it through ON DELETE CASCADE.
func DeleteArtwork(tx *gorm.DB, a *Artwork) ([]string, error) {
	var imgs []media.ArtworkImage
	if err := tx.Where("artwork_id = ?", a.ID).Find(&imgs).Error; err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(imgs)*2)
	for _, img := range imgs {
		keys = append(keys, img.Key)
		if img.ThumbKey != "" {
			keys = append(keys, img.ThumbKey)
		}
	}

	if err := tx.Model(a).Association("Tags").Clear(); err != nil {
		return nil, err
	}
	if err := tx.Select("Images", "Reviews").Delete(a).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

package media

import "time"

// ArtworkImage is one stored picture of an artwork. Key is the storage object
// key; URL and ThumbURL are the public addresses.
type ArtworkImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ArtworkID uint   `gorm:"not null;index:idx_artwork_images_order,priority:1" json:"artwork_id"`
	Key       string `gorm:"not null" json:"-"`
	ThumbKey  string `json:"-"`
	URL       string `gorm:"not null" json:"url"`
	ThumbURL  string `json:"thumb_url,omitempty"`
	Caption   string `gorm:"type:varchar(200)" json:"caption,omitempty"`
	Order     int    `gorm:"column:sort_order;not null;default:0;index:idx_artwork_images_order,priority:2" json:"order"`

	CreatedAt time.Time `json:"created_at"`
}

// Thumb prefers the thumbnail URL and falls back to the original.
func (i *ArtworkImage) Thumb() string {
	if i == nil {
		return ""
	}
	if i.ThumbURL != "" {
		return i.ThumbURL
	}
	return i.URL
}

// Original is the full-size URL, or "" for a nil image.
func (i *ArtworkImage) Original() string {
	if i == nil {
		return ""
	}
	return i.URL
}

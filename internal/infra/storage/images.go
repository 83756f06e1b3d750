package storage

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"path"

	"thangka-gallery/internal/domain/media"
	"thangka-gallery/internal/infra/thumbs"
)

const (
	ImagesPrefix = "artworks"
	ThumbsPrefix = "artworks/thumbs"
)

var (
	ErrNotImage      = errors.New("not a decodable image")
	ErrImageTooLarge = thumbs.ErrTooLarge
)

// PutImage stores an original upload plus its JPEG thumbnail and returns the
// image row to attach to an artwork. keys lists what was written, also on
// error, so the caller can clean up.
func PutImage(ctx context.Context, s Store, filename, contentType string, data []byte) (img media.ArtworkImage, keys []string, err error) {
	decoded, format, err := thumbs.Decode(bytes.NewReader(data))
	if errors.Is(err, thumbs.ErrTooLarge) {
		return img, nil, ErrImageTooLarge
	}
	if err != nil {
		return img, nil, ErrNotImage
	}

	if path.Ext(filename) == "" {
		filename += "." + format
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	key := NewKey(ImagesPrefix, filename)
	if err := s.Put(ctx, key, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return img, nil, err
	}
	keys = append(keys, key)

	thumb, err := thumbs.Make(decoded, thumbs.DefaultSize, thumbs.DefaultQuality)
	if err != nil {
		return img, keys, err
	}
	thumbKey := NewKey(ThumbsPrefix, "thumb.jpg")
	if err := s.Put(ctx, thumbKey, thumb, int64(thumb.Len()), "image/jpeg"); err != nil {
		return img, keys, err
	}
	keys = append(keys, thumbKey)

	return media.ArtworkImage{
		Key:      key,
		ThumbKey: thumbKey,
		URL:      s.URL(key),
		ThumbURL: s.URL(thumbKey),
	}, keys, nil
}

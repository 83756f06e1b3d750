package artist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"thangka-gallery/database"
	"thangka-gallery/internal/api/respond"
	worksapi "thangka-gallery/internal/api/works"
	"thangka-gallery/internal/domain/errs"
	"thangka-gallery/internal/domain/gallery"
	"thangka-gallery/internal/domain/media"
	"thangka-gallery/internal/domain/social"
	"thangka-gallery/internal/domain/works"
	"thangka-gallery/internal/infra/storage"
	"thangka-gallery/internal/logging"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	maxImageBytes  = 20 << 20
	maxImagesCount = 20
)

var errStorageDisabled = errors.New("no upload storage configured")

func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// parseUploadForm maps the artwork form onto gallery.NewArtwork. Images are
// handled separately.
func parseUploadForm(c *gin.Context) (gallery.NewArtwork, error) {
	verr := &errs.ValidationError{}
	in := gallery.NewArtwork{
		Title:       c.PostForm("title"),
		Description: strings.TrimSpace(c.PostForm("description")),
		Materials:   strings.TrimSpace(c.PostForm("materials")),
		IsFeatured:  checked(c.PostForm("is_featured")),
		IsPublished: true,
	}

	if v, ok := c.GetPostForm("is_published"); ok {
		in.IsPublished = checked(v)
	}

	if v := strings.TrimSpace(c.PostForm("category")); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil || id == 0 {
			verr.Add("category", "Select a valid choice.")
		} else {
			cid := uint(id)
			in.CategoryID = &cid
		}
	}

	for _, v := range c.PostFormArray("tags") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil || id == 0 {
			verr.Add("tags", "Select a valid choice.")
			break
		}
		in.TagIDs = append(in.TagIDs, uint(id))
	}

	if v := strings.TrimSpace(c.PostForm("year_created")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			verr.Add("year_created", "Enter a whole number.")
		} else {
			in.YearCreated = &y
		}
	}

	if v := strings.TrimSpace(c.PostForm("price")); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			verr.Add("price", "Enter a number.")
		} else {
			in.Price = &p
		}
	}

	return in, verr.OrNil()
}

// storeImages writes every upload plus a JPEG thumbnail. The returned keys
// must be removed by the caller if the artwork is not created.
func storeImages(ctx context.Context, store storage.Store, files []*multipart.FileHeader) ([]media.ArtworkImage, []string, error) {
	var (
		images []media.ArtworkImage
		keys   []string
	)
	for i, fh := range files {
		img, stored, err := storeImage(ctx, store, fh)
		keys = append(keys, stored...)
		if err != nil {
			var verr *errs.ValidationError
			if errors.As(err, &verr) {
				return images, keys, err
			}
			return images, keys, fmt.Errorf("image %d: %w", i, err)
		}
		images = append(images, img)
	}
	return images, keys, nil
}

func storeImage(ctx context.Context, store storage.Store, fh *multipart.FileHeader) (media.ArtworkImage, []string, error) {
	if fh.Size > maxImageBytes {
		return media.ArtworkImage{}, nil, errs.NewValidation("images", fmt.Sprintf("%s is larger than 20 MB.", fh.Filename))
	}

	f, err := fh.Open()
	if err != nil {
		return media.ArtworkImage{}, nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
	if err != nil {
		return media.ArtworkImage{}, nil, err
	}
	if len(data) > maxImageBytes {
		return media.ArtworkImage{}, nil, errs.NewValidation("images", fmt.Sprintf("%s is larger than 20 MB.", fh.Filename))
	}

	img, keys, err := storage.PutImage(ctx, store, fh.Filename, fh.Header.Get("Content-Type"), data)
	if errors.Is(err, storage.ErrImageTooLarge) {
		return img, keys, errs.NewValidation("images", fmt.Sprintf("%s has too many pixels.", fh.Filename))
	}
	if errors.Is(err, storage.ErrNotImage) {
		return img, keys, errs.NewValidation("images",
			"Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	}
	return img, keys, err
}

// createFromRequest runs the whole upload for the signed-in user: form,
// files, storage, then the database rows.
func createFromRequest(c *gin.Context) (*works.Artwork, error) {
	in, err := parseUploadForm(c)
	if err != nil {
		return nil, err
	}

	var files []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		files = form.File["images"]
	}
	if len(files) > maxImagesCount {
		return nil, errs.NewValidation("images", fmt.Sprintf("Upload at most %d images.", maxImagesCount))
	}
	if len(files) > 0 && storage.Default == nil {
		return nil, errStorageDisabled
	}

	owner, err := social.LoadUser(database.DB, c.GetUint("user_id"))
	if err != nil {
		return nil, err
	}

	ctx := c.Request.Context()
	images, keys, err := storeImages(ctx, storage.Default, files)
	if err != nil {
		cleanupKeys(c, keys)
		return nil, err
	}
	in.Images = images

	a, err := gallery.CreateArtwork(database.DB, owner, in)
	if err != nil {
		cleanupKeys(c, keys)
		return nil, err
	}

	logging.FromContext(c).Info().
		Uint("artwork_id", a.ID).
		Int("images", len(images)).
		Msg("artwork uploaded")
	return a, nil
}

func cleanupKeys(c *gin.Context, keys []string) {
	if len(keys) == 0 || storage.Default == nil {
		return
	}
	if err := storage.DeleteAll(context.WithoutCancel(c.Request.Context()), storage.Default, keys); err != nil {
		logging.FromContext(c).Warn().Err(err).Msg("failed to clean up stored images")
	}
}

// formOptions is what a client needs to render the artwork form.
func formOptions(db *gorm.DB) (gin.H, error) {
	cats, err := gallery.Categories(db)
	if err != nil {
		return nil, err
	}
	tags, err := gallery.Tags(db)
	if err != nil {
		return nil, err
	}

	materials := make([]gin.H, 0, len(works.MaterialChoices))
	for _, m := range works.MaterialChoices {
		materials = append(materials, gin.H{"value": m, "label": works.MaterialLabel(m)})
	}

	return gin.H{
		"fields":     []string{"title", "description", "category", "tags", "materials", "year_created", "price", "is_featured", "is_published", "images"},
		"categories": worksapi.ToTaxa(cats),
		"tags":       worksapi.ToTaxa(tags),
		"materials":  materials,
	}, nil
}

// GET /upload/
func UploadPage(c *gin.Context) {
	opts, err := formOptions(database.DB)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

// POST /upload/
func Upload(c *gin.Context) {
	if _, err := createFromRequest(c); err != nil {
		respond.Error(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/gallery/")
}

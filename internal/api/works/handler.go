package works

import (
	"errors"
	"net/http"
	"strconv"

	"thangka-gallery/database"
	"thangka-gallery/internal/api/respond"
	"thangka-gallery/internal/domain/errs"
	"thangka-gallery/internal/domain/gallery"
	"thangka-gallery/internal/domain/social"
	"thangka-gallery/internal/domain/works"
	"thangka-gallery/internal/infra/storage"
	"thangka-gallery/internal/logging"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func viewerID(c *gin.Context) uint {
	return c.GetUint("user_id")
}

// ParsePage reads ?page=N; anything invalid is page 1.
func ParsePage(c *gin.Context) int {
	p, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || p < 1 {
		return 1
	}
	return p
}

// ParseID reads a positive numeric path parameter.
func ParseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func filterFromQuery(c *gin.Context) gallery.Filter {
	f := gallery.Filter{
		Query:        c.Query("q"),
		CategorySlug: c.Query("category"),
		TagSlug:      c.Query("tag"),
		Material:     c.Query("material"),
	}
	if id, err := strconv.ParseUint(c.Query("artist"), 10, 64); err == nil {
		f.ArtistID = uint(id)
	}
	return f
}

// ------------------------------
// GET /
// ------------------------------
func Home(c *gin.Context) {
	featured, err := gallery.Featured(database.DB, gallery.FeaturedLimit)
	if err != nil {
		respond.Error(c, err)
		return
	}
	items, err := gallery.Decorate(database.DB, viewerID(c), featured)
	if err != nil {
		respond.Error(c, err)
		return
	}
	cats, err := gallery.Categories(database.DB)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"featured":   ToCards(items),
		"categories": ToTaxa(cats),
	})
}

// ------------------------------
// GET /gallery/
// ------------------------------
func Gallery(c *gin.Context) {
	f := filterFromQuery(c)
	page, err := gallery.ListPublished(database.DB, viewerID(c), f, 1, gallery.DefaultPageSize)
	if err != nil {
		respond.Error(c, err)
		return
	}
	cats, err := gallery.Categories(database.DB)
	if err != nil {
		respond.Error(c, err)
		return
	}
	tags, err := gallery.Tags(database.DB)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      ToCards(page.Items),
		"has_next":   page.HasNext,
		"page":       page.Page,
		"categories": ToTaxa(cats),
		"tags":       ToTaxa(tags),
		"filters": gin.H{
			"q":        f.Query,
			"category": f.CategorySlug,
			"tag":      f.TagSlug,
			"material": f.Material,
		},
	})
}

// ------------------------------
// GET /gallery/json/?page=N
// ------------------------------
func GalleryJSON(c *gin.Context) {
	page, err := gallery.ListPublished(database.DB, viewerID(c), filterFromQuery(c), ParsePage(c), gallery.DefaultPageSize)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":    ToCompact(page.Items),
		"has_next": page.HasNext,
	})
}

// ------------------------------
// GET /artwork/:id/
// ------------------------------
func ArtworkDetail(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		respond.Fail(c, http.StatusNotFound, "Artwork not found")
		return
	}

	a, err := gallery.Detail(database.DB, id)
	if errors.Is(err, errs.ErrNotFound) {
		respond.Fail(c, http.StatusNotFound, "Artwork not found")
		return
	}
	if err != nil {
		respond.Error(c, err)
		return
	}

	related, err := gallery.Related(database.DB, a, gallery.RelatedLimit)
	if err != nil {
		respond.Error(c, err)
		return
	}
	relatedItems, err := gallery.Decorate(database.DB, viewerID(c), related)
	if err != nil {
		respond.Error(c, err)
		return
	}
	self, err := gallery.Decorate(database.DB, viewerID(c), []works.Artwork{*a})
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"artwork":       ToDetail(a),
		"likes_count":   self[0].LikesCount,
		"is_liked":      self[0].IsLiked,
		"is_bookmarked": self[0].IsBookmarked,
		"is_following":  self[0].IsFollowing,
		"related":       ToCards(relatedItems),
	})
}

// ------------------------------
// POST /artwork/:id/reviews/
// ------------------------------
type ReviewRequest struct {
	Rating  int    `form:"rating" json:"rating" binding:"required,min=1,max=5"`
	Comment string `form:"comment" json:"comment" binding:"max=5000"`
}

func CreateReview(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		respond.Fail(c, http.StatusNotFound, "Artwork not found")
		return
	}

	var req ReviewRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.Invalid(c, respond.BindError(err))
		return
	}

	author, err := social.LoadUser(database.DB, viewerID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}

	r, err := gallery.AddReview(database.DB, author, id, req.Rating, req.Comment)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"status": "ok", "review": ToReview(*r)})
}

// ------------------------------
// DELETE /artwork/:id/  (owner or admin)
// ------------------------------
func DeleteArtwork(c *gin.Context) {
	id, ok := ParseID(c, "id")
	if !ok {
		respond.Fail(c, http.StatusNotFound, "Artwork not found")
		return
	}
	uid := viewerID(c)
	isAdmin := c.GetString("role") == "admin"

	var keys []string
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		a, err := gallery.LoadAny(tx, id)
		if err != nil {
			return err
		}
		owner := a.OwnerUserID()
		if !isAdmin && (owner == nil || *owner != uid) {
			return errs.ErrForbidden
		}
		keys, err = works.DeleteArtwork(tx, a)
		return err
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	if storage.Default != nil {
		if err := storage.DeleteAll(c.Request.Context(), storage.Default, keys); err != nil {
			logging.FromContext(c).Warn().Err(err).Uint("artwork_id", id).Msg("failed to delete stored images")
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

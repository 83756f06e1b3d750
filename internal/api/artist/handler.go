package artist

import (
	"net/http"

	"thangka-gallery/database"
	"thangka-gallery/internal/api/respond"
	worksapi "thangka-gallery/internal/api/works"
	"thangka-gallery/internal/domain/artists"
	"thangka-gallery/internal/domain/gallery"
	"thangka-gallery/internal/domain/social"

	"github.com/gin-gonic/gin"
)

const dashboardLimit = 12

func artistDTO(a *artists.Artist) worksapi.ArtistDTO {
	return worksapi.ArtistDTO{
		ID:        a.ID,
		UserID:    a.UserID,
		Name:      a.DisplayName(),
		Bio:       a.Bio,
		AvatarURL: a.AvatarURL,
		Website:   a.Website,
		Twitter:   a.Twitter,
		Instagram: a.Instagram,
	}
}

// ------------------------------
// GET /artist/
// ------------------------------
func Dashboard(c *gin.Context) {
	uid := c.GetUint("user_id")
	user, err := social.LoadUser(database.DB, uid)
	if err != nil {
		respond.Error(c, err)
		return
	}
	artist, err := artists.EnsureForUser(database.DB, user)
	if err != nil {
		respond.Error(c, err)
		return
	}

	own, err := gallery.ListLatest(database.DB, uid, artist.ID, 1, dashboardLimit)
	if err != nil {
		respond.Error(c, err)
		return
	}
	feed, err := gallery.ListLatest(database.DB, uid, 0, 1, dashboardLimit)
	if err != nil {
		respond.Error(c, err)
		return
	}
	opts, err := formOptions(database.DB)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"artist":        artistDTO(artist),
		"user_artworks": worksapi.ToCards(own.Items),
		"feed_artworks": worksapi.ToCards(feed.Items),
		"form":          opts,
	})
}

// POST /artist/ is the inline upload of the dashboard.
func DashboardUpload(c *gin.Context) {
	if _, err := createFromRequest(c); err != nil {
		respond.Error(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/artist/")
}

// ------------------------------
// GET /artist/artworks_json/?page=N
// ------------------------------
func ArtworksJSON(c *gin.Context) {
	page, err := gallery.ListLatest(database.DB, c.GetUint("user_id"), 0, worksapi.ParsePage(c), gallery.DefaultPageSize)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":    worksapi.ToCompact(page.Items),
		"has_next": page.HasNext,
	})
}

// ------------------------------
// GET /profile/
// ------------------------------
func Profile(c *gin.Context) {
	uid := c.GetUint("user_id")
	user, err := social.LoadUser(database.DB, uid)
	if err != nil {
		respond.Error(c, err)
		return
	}
	artist, err := artists.EnsureForUser(database.DB, user)
	if err != nil {
		respond.Error(c, err)
		return
	}

	page, err := gallery.ListByArtist(database.DB, uid, artist.ID, worksapi.ParsePage(c), gallery.DefaultPageSize)
	if err != nil {
		respond.Error(c, err)
		return
	}
	followers, err := social.FollowersCount(database.DB, uid)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
		"artist":          artistDTO(artist),
		"followers_count": followers,
		"user_artworks":   worksapi.ToCards(page.Items),
		"has_next":        page.HasNext,
		"page":            page.Page,
	})
}

package users

import (
	"net/http"
	"strings"

	"thangka-gallery/database"
	"thangka-gallery/internal/api/respond"
	"thangka-gallery/internal/domain/artists"
	"thangka-gallery/internal/domain/social"

	"github.com/gin-gonic/gin"
)

// GET /api/me/
func GetCurrentUser(c *gin.Context) {
	user, err := social.LoadUser(database.DB, c.GetUint("user_id"))
	if err != nil {
		respond.Error(c, err)
		return
	}

	artist, err := artists.EnsureForUser(database.DB, user)
	if err != nil {
		respond.Error(c, err)
		return
	}

	stats, err := BuildStats(database.DB, user.ID, artist.ID)
	if err != nil {
		respond.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, MeResponse{
		User:   BuildUserDTO(*user),
		Artist: BuildArtistDTO(artist),
		Stats:  stats,
	})
}

type ArtistProfileRequest struct {
	Name      *string `form:"name" json:"name" binding:"omitempty,max=140"`
	Bio       *string `form:"bio" json:"bio" binding:"omitempty,max=5000"`
	Website   *string `form:"website" json:"website" binding:"omitempty,max=200"`
	Twitter   *string `form:"twitter" json:"twitter" binding:"omitempty,max=200"`
	Instagram *string `form:"instagram" json:"instagram" binding:"omitempty,max=200"`
}

// POST /api/me/artist/ updates only the fields that were sent.
func UpdateArtistProfile(c *gin.Context) {
	var req ArtistProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		respond.Invalid(c, respond.BindError(err))
		return
	}

	user, err := social.LoadUser(database.DB, c.GetUint("user_id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	artist, err := artists.EnsureForUser(database.DB, user)
	if err != nil {
		respond.Error(c, err)
		return
	}

	updates := map[string]any{}
	set := func(col string, v *string) {
		if v != nil {
			updates[col] = strings.TrimSpace(*v)
		}
	}
	set("name", req.Name)
	set("bio", req.Bio)
	set("website", req.Website)
	set("twitter", req.Twitter)
	set("instagram", req.Instagram)

	if len(updates) > 0 {
		if err := database.DB.Model(artist).Updates(updates).Error; err != nil {
			respond.Error(c, err)
			return
		}
		if err := database.DB.First(artist, artist.ID).Error; err != nil {
			respond.Error(c, err)
			return
		}
		artist.User = user
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "artist": BuildArtistDTO(artist)})
}

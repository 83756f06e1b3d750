package social

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"thangka-gallery/database"
	"thangka-gallery/internal/api/respond"
	"thangka-gallery/internal/domain/errs"
	"thangka-gallery/internal/domain/gallery"
	"thangka-gallery/internal/domain/social"
	"thangka-gallery/internal/metrics"

	"github.com/gin-gonic/gin"
)

type artworkTarget struct {
	ArtworkID *uint `form:"artwork_id" json:"artwork_id" binding:"required,min=1"`
}

type userTarget struct {
	UserID *uint `form:"user_id" json:"user_id" binding:"required,min=1"`
}

func missing(c *gin.Context, field string) {
	respond.Fail(c, http.StatusBadRequest, "Missing "+field)
}

func toggle(c *gin.Context, kind social.Kind, targetID uint) (social.ToggleResult, bool) {
	res, err := social.Toggle(database.DB, kind, c.GetUint("user_id"), targetID)
	if errors.Is(err, errs.ErrNotFound) {
		if kind == social.KindFollow {
			respond.Fail(c, http.StatusNotFound, "User not found")
		} else {
			respond.Fail(c, http.StatusNotFound, "Artwork not found")
		}
		return res, false
	}
	if err != nil {
		respond.Error(c, err)
		return res, false
	}
	metrics.ObserveToggle(string(kind), res.Action)
	return res, true
}

// POST /api/toggle_like/
func ToggleLike(c *gin.Context) {
	var req artworkTarget
	if err := c.ShouldBind(&req); err != nil {
		missing(c, "artwork_id")
		return
	}
	res, ok := toggle(c, social.KindLike, *req.ArtworkID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "action": res.Action, "likes_count": res.LikesCount})
}

// POST /api/toggle_bookmark/
func ToggleBookmark(c *gin.Context) {
	var req artworkTarget
	if err := c.ShouldBind(&req); err != nil {
		missing(c, "artwork_id")
		return
	}
	res, ok := toggle(c, social.KindBookmark, *req.ArtworkID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "action": res.Action})
}

// POST /api/toggle_follow/
func ToggleFollow(c *gin.Context) {
	var req userTarget
	if err := c.ShouldBind(&req); err != nil {
		missing(c, "user_id")
		return
	}
	if *req.UserID == c.GetUint("user_id") {
		respond.Fail(c, http.StatusBadRequest, "Can't follow yourself")
		return
	}
	res, ok := toggle(c, social.KindFollow, *req.UserID)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "action": res.Action, "followers_count": res.FollowersCount})
}

// ------------------------------
// GET/POST /chat/?user=<id>
// ------------------------------

const sidebarLimit = 20

type chatMessageDTO struct {
	ID        uint   `json:"id"`
	SenderID  uint   `json:"sender_id"`
	Mine      bool   `json:"mine"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}

func selectedUserID(c *gin.Context) uint {
	raw := c.Query("user")
	if raw == "" {
		raw = c.PostForm("recipient")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

func Chat(c *gin.Context) {
	uid := c.GetUint("user_id")

	sidebar, err := gallery.ArtistSidebar(database.DB, uid, sidebarLimit)
	if err != nil {
		respond.Error(c, err)
		return
	}

	out := gin.H{
		"artists":       sidebar,
		"selected_user": nil,
		"conversation":  []chatMessageDTO{},
	}

	// an unknown ?user= just renders the page without a thread
	if sel := selectedUserID(c); sel != 0 {
		if other, err := social.LoadUser(database.DB, sel); err == nil {
			thread, err := social.Thread(database.DB, uid, other.ID, social.ThreadLimit)
			if err != nil {
				respond.Error(c, err)
				return
			}
			conv := make([]chatMessageDTO, 0, len(thread))
			for _, m := range thread {
				conv = append(conv, chatMessageDTO{
					ID:        m.ID,
					SenderID:  m.SenderID,
					Mine:      m.SenderID == uid,
					Message:   m.Message,
					CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
				})
			}
			out["selected_user"] = gin.H{"id": other.ID, "username": other.Username}
			out["conversation"] = conv
		} else if !errors.Is(err, errs.ErrNotFound) {
			respond.Error(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, out)
}

func SendChat(c *gin.Context) {
	uid := c.GetUint("user_id")
	sel := selectedUserID(c)
	if sel == 0 {
		respond.Fail(c, http.StatusBadRequest, "Missing user")
		return
	}

	sender, err := social.LoadUser(database.DB, uid)
	if err != nil {
		respond.Error(c, err)
		return
	}
	if _, err := social.Send(database.DB, sender, &sel, c.PostForm("message")); err != nil {
		respond.Error(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/chat/?user="+strconv.FormatUint(uint64(sel), 10))
}

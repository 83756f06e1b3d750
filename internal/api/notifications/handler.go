package notifications

import (
	"errors"
	"net/http"
	"time"

	"thangka-gallery/database"
	"thangka-gallery/internal/api/respond"
	worksapi "thangka-gallery/internal/api/works"
	"thangka-gallery/internal/domain/errs"
	"thangka-gallery/internal/domain/notifications"
	"thangka-gallery/internal/logging"

	"github.com/gin-gonic/gin"
)

type NotificationDTO struct {
	ID         uint      `json:"id"`
	Type       string    `json:"type"`
	Label      string    `json:"label"`
	Message    string    `json:"message"`
	Actor      string    `json:"actor,omitempty"`
	ActorID    *uint     `json:"actor_id,omitempty"`
	ArtworkID  *uint     `json:"artwork_id,omitempty"`
	ArtworkURL string    `json:"artwork_url,omitempty"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

type GroupDTO struct {
	Label string            `json:"label"`
	Items []NotificationDTO `json:"items"`
}

func toDTO(n notifications.Notification) NotificationDTO {
	d := NotificationDTO{
		ID:        n.ID,
		Type:      string(n.Type),
		Label:     n.Type.Label(),
		Message:   n.Message,
		ActorID:   n.ActorID,
		ArtworkID: n.ArtworkID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if n.Actor != nil {
		d.Actor = n.Actor.Username
	}
	if n.ArtworkID != nil {
		d.ArtworkURL = worksapi.ArtworkURL(*n.ArtworkID)
	}
	return d
}

func toGroups(groups []notifications.Group) []GroupDTO {
	out := make([]GroupDTO, 0, len(groups))
	for _, g := range groups {
		items := make([]NotificationDTO, 0, len(g.Items))
		for _, n := range g.Items {
			items = append(items, toDTO(n))
		}
		out = append(out, GroupDTO{Label: g.Label, Items: items})
	}
	return out
}

// ------------------------------
// GET /notifications/
// Viewing the page marks everything read; the response still shows the
// state each item had before the visit.
// ------------------------------
func List(c *gin.Context) {
	uid := c.GetUint("user_id")

	list, err := notifications.ListFor(database.DB, uid, notifications.PageLimit)
	if err != nil {
		respond.Error(c, err)
		return
	}
	marked, err := notifications.MarkAllRead(database.DB, uid)
	if err != nil {
		respond.Error(c, err)
		return
	}
	unread, err := notifications.UnreadCount(database.DB, uid)
	if err != nil {
		respond.Error(c, err)
		return
	}

	logging.FromContext(c).Debug().Int64("marked_read", marked).Msg("notifications viewed")

	c.JSON(http.StatusOK, gin.H{
		"notifications_by_type": toGroups(notifications.GroupByLabel(list)),
		"total":                 len(list),
		"newly_read":            marked,
		"unread_count":          unread,
	})
}

// POST /notifications/:id/read/
func MarkRead(c *gin.Context) {
	id, ok := worksapi.ParseID(c, "id")
	if !ok {
		respond.Fail(c, http.StatusNotFound, "Notification not found")
		return
	}

	err := notifications.MarkOneRead(database.DB, c.GetUint("user_id"), id)
	// someone else's notification looks the same as a missing one
	if errors.Is(err, errs.ErrNotFound) || errors.Is(err, errs.ErrForbidden) {
		respond.Fail(c, http.StatusNotFound, "Notification not found")
		return
	}
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// POST /notifications/clear/
func Clear(c *gin.Context) {
	n, err := notifications.ClearAll(database.DB, c.GetUint("user_id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "deleted": n})
}

// GET /api/notifications/unread_count/
func UnreadCount(c *gin.Context) {
	n, err := notifications.UnreadCount(database.DB, c.GetUint("user_id"))
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": n})
}

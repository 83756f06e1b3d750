package notifications

import (
	"errors"
	"fmt"

	"thangka-gallery/internal/domain/errs"
	"thangka-gallery/internal/metrics"

	"gorm.io/gorm"
)

const (
	PageLimit  = 50
	GroupLimit = 50
)

// Notify appends an event to the recipient's feed.
func Notify(db *gorm.DB, n *Notification) error {
	if n.UserID == 0 {
		return errors.New("notification recipient missing")
	}
	if !n.Type.Valid() {
		return fmt.Errorf("unknown notification type %q", n.Type)
	}
	if err := db.Omit("User", "Actor", "Artwork").Create(n).Error; err != nil {
		return err
	}
	metrics.ObserveNotification(string(n.Type))
	return nil
}

// ListFor returns the most recent notifications of a user, newest first.
func ListFor(db *gorm.DB, userID uint, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = PageLimit
	}
	var out []Notification
	err := db.
		Preload("Actor").
		Preload("Artwork").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// MarkAllRead flips every unread notification of the user in one statement.
func MarkAllRead(db *gorm.DB, userID uint) (int64, error) {
	res := db.Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func MarkOneRead(db *gorm.DB, userID, id uint) error {
	var n Notification
	if err := db.Select("id", "user_id").First(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.ErrNotFound
		}
		return err
	}
	if n.UserID != userID {
		return errs.ErrForbidden
	}
	return db.Model(&Notification{}).Where("id = ?", id).Update("is_read", true).Error
}

func ClearAll(db *gorm.DB, userID uint) (int64, error) {
	res := db.Where("user_id = ?", userID).Delete(&Notification{})
	return res.RowsAffected, res.Error
}

func UnreadCount(db *gorm.DB, userID uint) (int64, error) {
	var n int64
	err := db.Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

type Group struct {
	Label string         `json:"label"`
	Items []Notification `json:"items"`
}

// GroupByLabel buckets the first GroupLimit items by display label. Groups keep
// the order in which their label first appears.
func GroupByLabel(list []Notification) []Group {
	if len(list) > GroupLimit {
		list = list[:GroupLimit]
	}

	var groups []Group
	index := map[string]int{}
	for _, n := range list {
		label := n.Type.Label()
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, Group{Label: label})
		}
		groups[i].Items = append(groups[i].Items, n)
	}
	return groups
}

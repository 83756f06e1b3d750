package social

import (
	"errors"
	"fmt"

	"thangka-gallery/internal/domain/errs"
	"thangka-gallery/internal/domain/notifications"
	"thangka-gallery/internal/domain/users"
	"thangka-gallery/internal/domain/works"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Kind string

const (
	KindLike     Kind = "like"
	KindBookmark Kind = "bookmark"
	KindFollow   Kind = "follow"
)

const (
	ActionLiked      = "liked"
	ActionUnliked    = "unliked"
	ActionSaved      = "saved"
	ActionRemoved    = "removed"
	ActionFollowed   = "followed"
	ActionUnfollowed = "unfollowed"
)

type ToggleResult struct {
	Kind           Kind
	Active         bool
	Action         string
	LikesCount     int64 // like only
	FollowersCount int64 // follow only
}

// Toggle flips the (actor, target) relation of the given kind. The target is an
// artwork ID for likes and bookmarks and a user ID for follows.
//
// The insert relies on the unique pair index: a conflicting concurrent insert
// turns into "already active" instead of a duplicate row.
func Toggle(db *gorm.DB, kind Kind, actorID, targetID uint) (ToggleResult, error) {
	var res ToggleResult
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		switch kind {
		case KindLike:
			res, err = toggleLike(tx, actorID, targetID)
		case KindBookmark:
			res, err = toggleBookmark(tx, actorID, targetID)
		case KindFollow:
			res, err = toggleFollow(tx, actorID, targetID)
		default:
			err = fmt.Errorf("%w: unknown toggle kind %q", errs.ErrInvalidOperation, kind)
		}
		return err
	})
	if err != nil {
		return ToggleResult{}, err
	}
	return res, nil
}

func loadArtwork(tx *gorm.DB, id uint) (*works.Artwork, error) {
	var a works.Artwork
	if err := tx.Preload("Artist").First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// insertOrDelete inserts row; when the pair already exists it deletes the
// existing row instead. Returns true when the relation is now active.
func insertOrDelete(tx *gorm.DB, row any, where string, args ...any) (bool, error) {
	ins := tx.Clauses(clause.OnConflict{DoNothing: true}).Omit(clause.Associations).Create(row)
	if ins.Error != nil {
		return false, ins.Error
	}
	if ins.RowsAffected == 1 {
		return true, nil
	}
	if err := tx.Where(where, args...).Delete(row).Error; err != nil {
		return false, err
	}
	return false, nil
}

func toggleLike(tx *gorm.DB, actorID, artworkID uint) (ToggleResult, error) {
	art, err := loadArtwork(tx, artworkID)
	if err != nil {
		return ToggleResult{}, err
	}

	active, err := insertOrDelete(tx, &Like{UserID: actorID, ArtworkID: artworkID},
		"user_id = ? AND artwork_id = ?", actorID, artworkID)
	if err != nil {
		return ToggleResult{}, err
	}

	res := ToggleResult{Kind: KindLike, Active: active, Action: ActionUnliked}
	if active {
		res.Action = ActionLiked
		if owner := art.OwnerUserID(); owner != nil && *owner != actorID {
			if err := notifyLike(tx, *owner, actorID, art); err != nil {
				return ToggleResult{}, err
			}
		}
	}

	if err := tx.Model(&Like{}).Where("artwork_id = ?", artworkID).Count(&res.LikesCount).Error; err != nil {
		return ToggleResult{}, err
	}
	return res, nil
}

func toggleBookmark(tx *gorm.DB, actorID, artworkID uint) (ToggleResult, error) {
	if _, err := loadArtwork(tx, artworkID); err != nil {
		return ToggleResult{}, err
	}

	active, err := insertOrDelete(tx, &Bookmark{UserID: actorID, ArtworkID: artworkID},
		"user_id = ? AND artwork_id = ?", actorID, artworkID)
	if err != nil {
		return ToggleResult{}, err
	}

	res := ToggleResult{Kind: KindBookmark, Active: active, Action: ActionRemoved}
	if active {
		res.Action = ActionSaved
	}
	return res, nil
}

func toggleFollow(tx *gorm.DB, actorID, followeeID uint) (ToggleResult, error) {
	// checked before the lookup so self-follow never reaches the store
	if actorID == followeeID {
		return ToggleResult{}, fmt.Errorf("%w: cannot follow yourself", errs.ErrInvalidOperation)
	}

	var target users.User
	if err := tx.Select("id", "username").First(&target, followeeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ToggleResult{}, errs.ErrNotFound
		}
		return ToggleResult{}, err
	}

	active, err := insertOrDelete(tx, &Follow{FollowerID: actorID, FolloweeID: followeeID},
		"follower_id = ? AND followee_id = ?", actorID, followeeID)
	if err != nil {
		return ToggleResult{}, err
	}

	res := ToggleResult{Kind: KindFollow, Active: active, Action: ActionUnfollowed}
	if active {
		res.Action = ActionFollowed
		if err := notifyFollow(tx, followeeID, actorID); err != nil {
			return ToggleResult{}, err
		}
	}

	if err := tx.Model(&Follow{}).Where("followee_id = ?", followeeID).Count(&res.FollowersCount).Error; err != nil {
		return ToggleResult{}, err
	}
	return res, nil
}

func actorName(tx *gorm.DB, actorID uint) string {
	var u users.User
	if err := tx.Select("id", "username").First(&u, actorID).Error; err != nil {
		return "Someone"
	}
	return u.Username
}

func notifyLike(tx *gorm.DB, ownerID, actorID uint, art *works.Artwork) error {
	aid := actorID
	artID := art.ID
	return notifications.Notify(tx, &notifications.Notification{
		UserID:    ownerID,
		ActorID:   &aid,
		Type:      notifications.TypeLike,
		ArtworkID: &artID,
		Message:   fmt.Sprintf("%s liked your artwork %q", actorName(tx, actorID), art.Title),
	})
}

func notifyFollow(tx *gorm.DB, followeeID, actorID uint) error {
	aid := actorID
	return notifications.Notify(tx, &notifications.Notification{
		UserID:  followeeID,
		ActorID: &aid,
		Type:    notifications.TypeFollow,
		Message: fmt.Sprintf("%s started following you", actorName(tx, actorID)),
	})
}

// State reports which relations the viewer holds. Used by listing decorators.
type State struct {
	Liked      map[uint]bool // artwork ID
	Bookmarked map[uint]bool // artwork ID
	Following  map[uint]bool // user ID
}

// ViewerState batch-loads the viewer's likes/bookmarks over artworkIDs and
// follows over userIDs. A zero viewer yields empty maps.
func ViewerState(db *gorm.DB, viewerID uint, artworkIDs, userIDs []uint) (State, error) {
	st := State{Liked: map[uint]bool{}, Bookmarked: map[uint]bool{}, Following: map[uint]bool{}}
	if viewerID == 0 {
		return st, nil
	}

	if len(artworkIDs) > 0 {
		var liked []uint
		if err := db.Model(&Like{}).
			Where("user_id = ? AND artwork_id IN ?", viewerID, artworkIDs).
			Pluck("artwork_id", &liked).Error; err != nil {
			return st, err
		}
		for _, id := range liked {
			st.Liked[id] = true
		}

		var saved []uint
		if err := db.Model(&Bookmark{}).
			Where("user_id = ? AND artwork_id IN ?", viewerID, artworkIDs).
			Pluck("artwork_id", &saved).Error; err != nil {
			return st, err
		}
		for _, id := range saved {
			st.Bookmarked[id] = true
		}
	}

	if len(userIDs) > 0 {
		var followed []uint
		if err := db.Model(&Follow{}).
			Where("follower_id = ? AND followee_id IN ?", viewerID, userIDs).
			Pluck("followee_id", &followed).Error; err != nil {
			return st, err
		}
		for _, id := range followed {
			st.Following[id] = true
		}
	}
	return st, nil
}

// LikeCounts returns like totals per artwork, computed on read.
func LikeCounts(db *gorm.DB, artworkIDs []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(artworkIDs))
	if len(artworkIDs) == 0 {
		return out, nil
	}
	type row struct {
		ArtworkID uint
		Count     int64
	}
	var rows []row
	if err := db.Model(&Like{}).
		Select("artwork_id, COUNT(*) AS count").
		Where("artwork_id IN ?", artworkIDs).
		Group("artwork_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ArtworkID] = r.Count
	}
	return out, nil
}

func FollowersCount(db *gorm.DB, userID uint) (int64, error) {
	var n int64
	err := db.Model(&Follow{}).Where("followee_id = ?", userID).Count(&n).Error
	return n, err
}

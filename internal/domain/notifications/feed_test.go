package notifications_test

import (
	"errors"
	"fmt"
	"testing"

	"thangka-gallery/internal/domain/errs"
	"thangka-gallery/internal/domain/notifications"
	"thangka-gallery/internal/testutil"

	"gorm.io/gorm"
)

func seed(t *testing.T, db *gorm.DB, userID uint, n int, typ notifications.Type) {
	t.Helper()
	for i := 0; i < n; i++ {
		err := notifications.Notify(db, &notifications.Notification{
			UserID:  userID,
			Type:    typ,
			Message: fmt.Sprintf("event %d", i),
		})
		if err != nil {
			t.Fatalf("notify: %v", err)
		}
	}
}

func TestMarkAllReadLeavesNothingUnread(t *testing.T) {
	for _, n := range []int{0, 1, 50} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			db := testutil.SetupDB(t)
			u := testutil.CreateUser(t, db, "reader")
			other := testutil.CreateUser(t, db, "other")
			seed(t, db, u.ID, n, notifications.TypeLike)
			seed(t, db, other.ID, 3, notifications.TypeFollow)

			marked, err := notifications.MarkAllRead(db, u.ID)
			if err != nil {
				t.Fatalf("MarkAllRead: %v", err)
			}
			if marked != int64(n) {
				t.Errorf("marked = %d, want %d", marked, n)
			}

			unread, err := notifications.UnreadCount(db, u.ID)
			if err != nil {
				t.Fatalf("UnreadCount: %v", err)
			}
			if unread != 0 {
				t.Fatalf("unread after MarkAllRead = %d, want 0", unread)
			}

			// other users are untouched
			if left, _ := notifications.UnreadCount(db, other.ID); left != 3 {
				t.Fatalf("other unread = %d, want 3", left)
			}
		})
	}
}

func TestNotifyRejectsUnknownType(t *testing.T) {
	db := testutil.SetupDB(t)
	u := testutil.CreateUser(t, db, "reader")

	err := notifications.Notify(db, &notifications.Notification{UserID: u.ID, Type: "poke"})
	if err == nil {
		t.Fatal("expected error for unknown type")
	}
	if err := notifications.Notify(db, &notifications.Notification{Type: notifications.TypeLike}); err == nil {
		t.Fatal("expected error for missing recipient")
	}
}

func TestListForNewestFirstWithLimit(t *testing.T) {
	db := testutil.SetupDB(t)
	u := testutil.CreateUser(t, db, "reader")
	seed(t, db, u.ID, 55, notifications.TypeComment)

	list, err := notifications.ListFor(db, u.ID, notifications.PageLimit)
	if err != nil {
		t.Fatalf("ListFor: %v", err)
	}
	if len(list) != 50 {
		t.Fatalf("len = %d, want 50", len(list))
	}
	if list[0].Message != "event 54" {
		t.Fatalf("first = %q, want newest", list[0].Message)
	}
}

func TestMarkOneRead(t *testing.T) {
	db := testutil.SetupDB(t)
	owner := testutil.CreateUser(t, db, "owner")
	stranger := testutil.CreateUser(t, db, "stranger")
	seed(t, db, owner.ID, 2, notifications.TypeLike)

	list, _ := notifications.ListFor(db, owner.ID, 0)
	target := list[0]

	if err := notifications.MarkOneRead(db, stranger.ID, target.ID); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("stranger: err = %v, want ErrForbidden", err)
	}
	if err := notifications.MarkOneRead(db, owner.ID, 12345); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("missing: err = %v, want ErrNotFound", err)
	}
	if err := notifications.MarkOneRead(db, owner.ID, target.ID); err != nil {
		t.Fatalf("owner: %v", err)
	}
	if unread, _ := notifications.UnreadCount(db, owner.ID); unread != 1 {
		t.Fatalf("unread = %d, want 1", unread)
	}
}

func TestClearAll(t *testing.T) {
	db := testutil.SetupDB(t)
	u := testutil.CreateUser(t, db, "reader")
	other := testutil.CreateUser(t, db, "other")
	seed(t, db, u.ID, 4, notifications.TypeLike)
	seed(t, db, other.ID, 1, notifications.TypeLike)

	n, err := notifications.ClearAll(db, u.ID)
	if err != nil || n != 4 {
		t.Fatalf("ClearAll = %d, %v", n, err)
	}
	if list, _ := notifications.ListFor(db, other.ID, 0); len(list) != 1 {
		t.Fatalf("other lost notifications: %d", len(list))
	}
}

func TestGroupByLabel(t *testing.T) {
	list := []notifications.Notification{
		{ID: 1, Type: notifications.TypeFollow},
		{ID: 2, Type: notifications.TypeLike},
		{ID: 3, Type: notifications.TypeFollow},
		{ID: 4, Type: "legacy"},
	}

	groups := notifications.GroupByLabel(list)
	if len(groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(groups))
	}
	if groups[0].Label != "New Follower" || len(groups[0].Items) != 2 {
		t.Errorf("group 0 = %+v", groups[0])
	}
	if groups[1].Label != "Artwork Liked" || groups[1].Items[0].ID != 2 {
		t.Errorf("group 1 = %+v", groups[1])
	}
	if groups[2].Label != "legacy" {
		t.Errorf("unknown type label = %q, want raw value", groups[2].Label)
	}

	many := make([]notifications.Notification, 60)
	for i := range many {
		many[i] = notifications.Notification{ID: uint(i + 1), Type: notifications.TypeLike}
	}
	if got := notifications.GroupByLabel(many); len(got[0].Items) != notifications.GroupLimit {
		t.Fatalf("grouped %d items, want %d", len(got[0].Items), notifications.GroupLimit)
	}
}

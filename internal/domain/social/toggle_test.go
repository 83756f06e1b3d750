package social_test

import (
	"errors"
	"testing"

	"thangka-gallery/internal/domain/errs"
	"thangka-gallery/internal/domain/notifications"
	"thangka-gallery/internal/domain/social"
	"thangka-gallery/internal/testutil"
)

func TestToggleLikeTwiceRestoresCount(t *testing.T) {
	db := testutil.SetupDB(t)
	_, artist := testutil.CreateArtist(t, db, "painter")
	fan := testutil.CreateUser(t, db, "fan")
	art := testutil.CreateArtwork(t, db, "Green Tara", testutil.ArtworkOpts{Artist: artist, Published: true})

	first, err := social.Toggle(db, social.KindLike, fan.ID, art.ID)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if first.Action != social.ActionLiked || !first.Active || first.LikesCount != 1 {
		t.Fatalf("first toggle = %+v, want liked with count 1", first)
	}

	second, err := social.Toggle(db, social.KindLike, fan.ID, art.ID)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if second.Action != social.ActionUnliked || second.Active || second.LikesCount != 0 {
		t.Fatalf("second toggle = %+v, want unliked with count 0", second)
	}

	var rows int64
	db.Model(&social.Like{}).Where("artwork_id = ?", art.ID).Count(&rows)
	if rows != 0 {
		t.Fatalf("like rows = %d, want 0", rows)
	}
}

func TestToggleLikeNotifiesOnEveryActivation(t *testing.T) {
	db := testutil.SetupDB(t)
	owner, artist := testutil.CreateArtist(t, db, "painter")
	fan := testutil.CreateUser(t, db, "fan")
	art := testutil.CreateArtwork(t, db, "Medicine Buddha", testutil.ArtworkOpts{Artist: artist, Published: true})

	for i := 0; i < 3; i++ {
		if _, err := social.Toggle(db, social.KindLike, fan.ID, art.ID); err != nil {
			t.Fatalf("toggle %d: %v", i, err)
		}
	}

	// liked, unliked, liked: two activations, nothing retracted
	var list []notifications.Notification
	if err := db.Where("user_id = ?", owner.ID).Find(&list).Error; err != nil {
		t.Fatalf("load notifications: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("notifications = %d, want 2", len(list))
	}
	n := list[0]
	if n.Type != notifications.TypeLike || n.ActorID == nil || *n.ActorID != fan.ID {
		t.Fatalf("notification = %+v, want like from fan", n)
	}
	if n.ArtworkID == nil || *n.ArtworkID != art.ID {
		t.Fatalf("notification artwork = %v, want %d", n.ArtworkID, art.ID)
	}
}

func TestToggleLikeOwnArtworkDoesNotNotify(t *testing.T) {
	db := testutil.SetupDB(t)
	owner, artist := testutil.CreateArtist(t, db, "painter")
	art := testutil.CreateArtwork(t, db, "Mandala", testutil.ArtworkOpts{Artist: artist, Published: true})

	if _, err := social.Toggle(db, social.KindLike, owner.ID, art.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	var n int64
	db.Model(&notifications.Notification{}).Count(&n)
	if n != 0 {
		t.Fatalf("notifications = %d, want 0", n)
	}
}

func TestToggleUnknownArtwork(t *testing.T) {
	db := testutil.SetupDB(t)
	fan := testutil.CreateUser(t, db, "fan")

	for _, kind := range []social.Kind{social.KindLike, social.KindBookmark} {
		_, err := social.Toggle(db, kind, fan.ID, 999)
		if !errors.Is(err, errs.ErrNotFound) {
			t.Fatalf("%s on missing artwork: err = %v, want ErrNotFound", kind, err)
		}
	}
}

func TestToggleBookmarkOnThenOff(t *testing.T) {
	db := testutil.SetupDB(t)
	_, artist := testutil.CreateArtist(t, db, "painter")
	reader := testutil.CreateUser(t, db, "reader")
	art := testutil.CreateArtwork(t, db, "Wheel of Life", testutil.ArtworkOpts{Artist: artist, Published: true})

	on, err := social.Toggle(db, social.KindBookmark, reader.ID, art.ID)
	if err != nil || on.Action != social.ActionSaved {
		t.Fatalf("bookmark on = %+v, %v", on, err)
	}
	off, err := social.Toggle(db, social.KindBookmark, reader.ID, art.ID)
	if err != nil || off.Action != social.ActionRemoved {
		t.Fatalf("bookmark off = %+v, %v", off, err)
	}

	var n int64
	db.Model(&social.Bookmark{}).Where("user_id = ? AND artwork_id = ?", reader.ID, art.ID).Count(&n)
	if n != 0 {
		t.Fatalf("bookmark rows = %d, want 0", n)
	}
}

func TestToggleFollowSelfIsRejected(t *testing.T) {
	db := testutil.SetupDB(t)
	u := testutil.CreateUser(t, db, "loner")

	_, err := social.Toggle(db, social.KindFollow, u.ID, u.ID)
	if !errors.Is(err, errs.ErrInvalidOperation) {
		t.Fatalf("err = %v, want ErrInvalidOperation", err)
	}

	var n int64
	db.Model(&social.Follow{}).Count(&n)
	if n != 0 {
		t.Fatalf("follow rows = %d, want 0", n)
	}
}

func TestToggleFollowCountsAndNotifies(t *testing.T) {
	db := testutil.SetupDB(t)
	star := testutil.CreateUser(t, db, "star")
	a := testutil.CreateUser(t, db, "a")
	b := testutil.CreateUser(t, db, "b")

	res, err := social.Toggle(db, social.KindFollow, a.ID, star.ID)
	if err != nil || res.Action != social.ActionFollowed || res.FollowersCount != 1 {
		t.Fatalf("a follows = %+v, %v", res, err)
	}
	res, err = social.Toggle(db, social.KindFollow, b.ID, star.ID)
	if err != nil || res.FollowersCount != 2 {
		t.Fatalf("b follows = %+v, %v", res, err)
	}
	res, err = social.Toggle(db, social.KindFollow, a.ID, star.ID)
	if err != nil || res.Action != social.ActionUnfollowed || res.FollowersCount != 1 {
		t.Fatalf("a unfollows = %+v, %v", res, err)
	}

	var n int64
	db.Model(&notifications.Notification{}).
		Where("user_id = ? AND notification_type = ?", star.ID, notifications.TypeFollow).
		Count(&n)
	if n != 2 {
		t.Fatalf("follow notifications = %d, want 2", n)
	}

	if _, err := social.Toggle(db, social.KindFollow, a.ID, 4242); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("follow missing user: err = %v, want ErrNotFound", err)
	}
}

func TestViewerState(t *testing.T) {
	db := testutil.SetupDB(t)
	owner, artist := testutil.CreateArtist(t, db, "painter")
	viewer := testutil.CreateUser(t, db, "viewer")
	a1 := testutil.CreateArtwork(t, db, "One", testutil.ArtworkOpts{Artist: artist, Published: true})
	a2 := testutil.CreateArtwork(t, db, "Two", testutil.ArtworkOpts{Artist: artist, Published: true})

	mustToggle(t, db, social.KindLike, viewer.ID, a1.ID)
	mustToggle(t, db, social.KindBookmark, viewer.ID, a2.ID)
	mustToggle(t, db, social.KindFollow, viewer.ID, owner.ID)

	st, err := social.ViewerState(db, viewer.ID, []uint{a1.ID, a2.ID}, []uint{owner.ID})
	if err != nil {
		t.Fatalf("ViewerState: %v", err)
	}
	if !st.Liked[a1.ID] || st.Liked[a2.ID] {
		t.Errorf("Liked = %v", st.Liked)
	}
	if st.Bookmarked[a1.ID] || !st.Bookmarked[a2.ID] {
		t.Errorf("Bookmarked = %v", st.Bookmarked)
	}
	if !st.Following[owner.ID] {
		t.Errorf("Following = %v", st.Following)
	}

	anon, err := social.ViewerState(db, 0, []uint{a1.ID}, []uint{owner.ID})
	if err != nil || len(anon.Liked) != 0 || len(anon.Following) != 0 {
		t.Fatalf("anonymous state = %+v, %v", anon, err)
	}

	counts, err := social.LikeCounts(db, []uint{a1.ID, a2.ID})
	if err != nil {
		t.Fatalf("LikeCounts: %v", err)
	}
	if counts[a1.ID] != 1 || counts[a2.ID] != 0 {
		t.Fatalf("counts = %v", counts)
	}
}

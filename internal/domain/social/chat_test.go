package social_test

import (
	"errors"
	"testing"

	"thangka-gallery/internal/domain/errs"
	"thangka-gallery/internal/domain/notifications"
	"thangka-gallery/internal/domain/social"
	"thangka-gallery/internal/testutil"
)

func TestSendAndThread(t *testing.T) {
	db := testutil.SetupDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")

	send := func(from, to uint, body string) {
		t.Helper()
		sender, err := social.LoadUser(db, from)
		if err != nil {
			t.Fatalf("load sender: %v", err)
		}
		if _, err := social.Send(db, sender, &to, body); err != nil {
			t.Fatalf("send %q: %v", body, err)
		}
	}

	send(alice.ID, bob.ID, "hello bob")
	send(bob.ID, alice.ID, "hi alice")
	send(carol.ID, bob.ID, "not in this thread")

	thread, err := social.Thread(db, alice.ID, bob.ID, 0)
	if err != nil {
		t.Fatalf("Thread: %v", err)
	}
	if len(thread) != 2 {
		t.Fatalf("thread length = %d, want 2", len(thread))
	}
	if thread[0].Message != "hello bob" || thread[1].Message != "hi alice" {
		t.Fatalf("thread order = %q, %q", thread[0].Message, thread[1].Message)
	}

	var n int64
	db.Model(&notifications.Notification{}).
		Where("user_id = ? AND notification_type = ?", bob.ID, notifications.TypeMessage).
		Count(&n)
	if n != 2 {
		t.Fatalf("bob message notifications = %d, want 2", n)
	}
}

func TestSendValidation(t *testing.T) {
	db := testutil.SetupDB(t)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	var verr *errs.ValidationError
	if _, err := social.Send(db, alice, &bob.ID, "   "); !errors.As(err, &verr) {
		t.Fatalf("blank message: err = %v, want ValidationError", err)
	}
	if _, err := social.Send(db, alice, &alice.ID, "me"); !errors.Is(err, errs.ErrInvalidOperation) {
		t.Fatalf("self message: err = %v, want ErrInvalidOperation", err)
	}
	missing := uint(999)
	if _, err := social.Send(db, alice, &missing, "anyone?"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("unknown recipient: err = %v, want ErrNotFound", err)
	}
}

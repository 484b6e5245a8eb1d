package service

import (
	"context"
	"testing"
)

func TestComments(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	alice := register(t, s, "alice")
	bob := register(t, s, "bob")
	carol := register(t, s, "carol")
	publish(t, s, alice, "Post")
	publish(t, s, alice, "Other")

	c1, err := s.AddComment(ctx, bob, "post", "nice")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if c1.Author.Username != "bob" || c1.Author.Following || c1.Body != "nice" {
		t.Errorf("unexpected comment %+v", c1)
	}
	if _, err := s.AddComment(ctx, alice, "post", "thanks"); err != nil {
		t.Fatalf("add comment: %v", err)
	}
	_, err = s.AddComment(ctx, bob, "missing", "x")
	assertKind(t, err, KindNotFound)

	if _, err := s.FollowUser(ctx, carol, "bob"); err != nil {
		t.Fatalf("follow: %v", err)
	}

	asCarol, err := s.ListComments(ctx, "post", carol)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(asCarol) != 2 || asCarol[0].ID != c1.ID {
		t.Fatalf("unexpected comments %+v", asCarol)
	}
	if !asCarol[0].Author.Following || asCarol[1].Author.Following {
		t.Errorf("following flags wrong: %+v", asCarol)
	}

	anon, err := s.ListComments(ctx, "post", nil)
	if err != nil {
		t.Fatalf("list anonymous: %v", err)
	}
	for _, c := range anon {
		if c.Author.Following {
			t.Errorf("anonymous viewer follows nobody: %+v", c)
		}
	}

	none, err := s.ListComments(ctx, "other", nil)
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("expected empty list, got %v %#v", err, none)
	}
}

func TestDeleteComment(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	alice := register(t, s, "alice")
	bob := register(t, s, "bob")
	publish(t, s, alice, "Post")
	publish(t, s, alice, "Other")

	c, err := s.AddComment(ctx, bob, "post", "nice")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}

	_, err = s.DeleteComment(ctx, alice, "post", c.ID)
	assertKind(t, err, KindNotFound)
	_, err = s.DeleteComment(ctx, bob, "other", c.ID)
	assertKind(t, err, KindNotFound)
	_, err = s.DeleteComment(ctx, bob, "post", c.ID+100)
	assertKind(t, err, KindNotFound)

	deleted, err := s.DeleteComment(ctx, bob, "post", c.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted.ID != c.ID {
		t.Errorf("deleted %d, want %d", deleted.ID, c.ID)
	}
	remaining, _ := s.ListComments(ctx, "post", nil)
	if len(remaining) != 0 {
		t.Errorf("expected no comments, got %+v", remaining)
	}
}

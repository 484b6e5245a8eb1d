package service

import (
	"context"
	"testing"
)

func TestTagCatalog(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	alice := register(t, s, "alice")

	tag, err := s.CreateTag(ctx, "golang")
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	if tag.Name != "golang" || tag.ID == 0 {
		t.Errorf("unexpected tag %+v", tag)
	}

	_, err = s.CreateTag(ctx, "golang")
	assertKind(t, err, KindInternal)

	// articles reuse catalog entries
	publish(t, s, alice, "Post", "golang", "sql")
	tags, err := s.ListTags(ctx)
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(tags) != 2 {
		t.Errorf("expected 2 tags, got %+v", tags)
	}
}

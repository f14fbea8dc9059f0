package app

import (
	"context"
	"testing"

	appDb "github.com/hostel5/portal-be/db"
)

func TestBuildCommentForest(t *testing.T) {
	mdb, channelId := seedFeed(t)
	ctx := context.Background()
	postId, err := mdb.CreatePost(ctx, &appDb.CreatePost{
		Title: "post", ChannelId: channelId, AuthorId: "user-a",
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	topA, err := mdb.CreateComment(ctx, &appDb.CreateComment{
		PostId: postId, AuthorId: "user-a", Content: "first",
	})
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	topB, err := mdb.CreateComment(ctx, &appDb.CreateComment{
		PostId: postId, AuthorId: "user-b", Content: "second",
	})
	if err != nil {
		t.Fatalf("create comment: %v", err)
	}
	reply, err := mdb.CreateComment(ctx, &appDb.CreateComment{
		PostId: postId, ParentId: topA, AuthorId: "user-b", Content: "reply to first",
	})
	if err != nil {
		t.Fatalf("create reply: %v", err)
	}

	forest, err := BuildCommentForest(ctx, mdb, postId)
	if err != nil {
		t.Fatalf("build forest: %v", err)
	}
	if len(forest) != 2 {
		t.Fatalf("expected 2 top-level comments, got %v", len(forest))
	}
	if forest[0].Id != topA || forest[1].Id != topB {
		t.Fatalf("unexpected top-level order: %v, %v", forest[0].Id, forest[1].Id)
	}
	if len(forest[0].Children) != 1 || forest[0].Children[0].Id != reply {
		t.Fatalf("expected reply nested under the first comment")
	}
	if len(forest[1].Children) != 0 {
		t.Fatalf("expected no children on the second comment")
	}
	if forest[0].Children[0].AuthorFullName != "Bala" {
		t.Fatalf("expected author name on reply, got %q", forest[0].Children[0].AuthorFullName)
	}
}

func TestBuildCommentForestEmpty(t *testing.T) {
	mdb, channelId := seedFeed(t)
	ctx := context.Background()
	postId, err := mdb.CreatePost(ctx, &appDb.CreatePost{
		Title: "quiet post", ChannelId: channelId, AuthorId: "user-a",
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	forest, err := BuildCommentForest(ctx, mdb, postId)
	if err != nil {
		t.Fatalf("build forest: %v", err)
	}
	if len(forest) != 0 {
		t.Fatalf("expected empty forest, got %v", len(forest))
	}
}

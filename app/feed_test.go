package app

import (
	"context"
	"errors"
	"testing"

	appDb "github.com/hostel5/portal-be/db"
	"github.com/hostel5/portal-be/db/memory"
	"github.com/hostel5/portal-be/model"
)

func seedFeed(t *testing.T) (*memory.MemoryDB, int64) {
	t.Helper()
	mdb := memory.New()
	ctx := context.Background()
	if err := mdb.CreateProfile(ctx, &model.Profile{
		Id: "user-a", FullName: "Asha", AvatarUrl: "https://example.com/asha.png", IsApproved: true,
	}); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if err := mdb.CreateProfile(ctx, &model.Profile{
		Id: "user-b", FullName: "Bala", IsApproved: true,
	}); err != nil {
		t.Fatalf("create profile: %v", err)
	}
	channelId, err := mdb.CreateChannel(ctx, &appDb.CreateChannel{Name: "general", CreatorId: "user-a"})
	if err != nil {
		t.Fatalf("create channel: %v", err)
	}
	return mdb, channelId
}

func TestBuildFeedViewerVotes(t *testing.T) {
	mdb, channelId := seedFeed(t)
	ctx := context.Background()
	postId, err := mdb.CreatePost(ctx, &appDb.CreatePost{
		Title: "common room cleanup", ChannelId: channelId, AuthorId: "user-a",
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if err := mdb.CastVote(ctx, "user-b", appDb.VoteTarget{PostId: postId}, 1); err != nil {
		t.Fatalf("vote: %v", err)
	}

	// the tally is shared, the user's own vote is not
	itemsForA, err := BuildFeed(ctx, mdb, &FeedQuery{ViewerId: "user-a"})
	if err != nil {
		t.Fatalf("build feed for a: %v", err)
	}
	if len(itemsForA) != 1 {
		t.Fatalf("expected 1 item, got %v", len(itemsForA))
	}
	if itemsForA[0].VoteCount != 1 {
		t.Fatalf("expected tally 1, got %v", itemsForA[0].VoteCount)
	}
	if itemsForA[0].UserVote != 0 {
		t.Fatalf("expected no own vote for a, got %v", itemsForA[0].UserVote)
	}

	itemsForB, err := BuildFeed(ctx, mdb, &FeedQuery{ViewerId: "user-b"})
	if err != nil {
		t.Fatalf("build feed for b: %v", err)
	}
	if itemsForB[0].UserVote != 1 {
		t.Fatalf("expected own vote 1 for b, got %v", itemsForB[0].UserVote)
	}
	if itemsForB[0].Author.FullName != "Asha" {
		t.Fatalf("expected author Asha, got %v", itemsForB[0].Author.FullName)
	}
}

func TestBuildFeedPlaceholderAuthor(t *testing.T) {
	mdb, channelId := seedFeed(t)
	ctx := context.Background()
	if _, err := mdb.CreatePost(ctx, &appDb.CreatePost{
		Title: "orphaned post", ChannelId: channelId, AuthorId: "deleted-user",
	}); err != nil {
		t.Fatalf("create post: %v", err)
	}

	items, err := BuildFeed(ctx, mdb, &FeedQuery{})
	if err != nil {
		t.Fatalf("build feed: %v", err)
	}
	if items[0].Author.FullName != "Unknown" {
		t.Fatalf("expected placeholder author, got %v", items[0].Author.FullName)
	}
	if items[0].Author.Avatar == "" {
		t.Fatalf("expected generated avatar for placeholder author")
	}
}

type failingProfileDB struct {
	*memory.MemoryDB
}

func (f *failingProfileDB) GetProfiles(ctx context.Context, ids []string) (map[string]*model.Profile, error) {
	return nil, errors.New("profile store down")
}

func TestBuildFeedDegradesWithoutProfiles(t *testing.T) {
	mdb, channelId := seedFeed(t)
	ctx := context.Background()
	if _, err := mdb.CreatePost(ctx, &appDb.CreatePost{
		Title: "post", ChannelId: channelId, AuthorId: "user-a",
	}); err != nil {
		t.Fatalf("create post: %v", err)
	}

	items, err := BuildFeed(ctx, &failingProfileDB{mdb}, &FeedQuery{})
	if err != nil {
		t.Fatalf("expected feed to survive profile lookup failure, got %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %v", len(items))
	}
	if items[0].Author.FullName != "Unknown" {
		t.Fatalf("expected placeholder author, got %v", items[0].Author.FullName)
	}
}

func TestBuildFeedPollOptions(t *testing.T) {
	mdb, channelId := seedFeed(t)
	ctx := context.Background()
	postId, err := mdb.CreatePost(ctx, &appDb.CreatePost{
		Title:       "movie night pick",
		ChannelId:   channelId,
		AuthorId:    "user-a",
		PollOptions: []string{"friday", "saturday"},
	})
	if err != nil {
		t.Fatalf("create poll: %v", err)
	}
	options, err := mdb.GetPollOptions(ctx, postId)
	if err != nil || len(options) != 2 {
		t.Fatalf("expected 2 options, got %v (%v)", len(options), err)
	}
	if err := mdb.VotePollOption(ctx, postId, options[0].Id); err != nil {
		t.Fatalf("poll vote: %v", err)
	}

	items, err := BuildFeed(ctx, mdb, &FeedQuery{})
	if err != nil {
		t.Fatalf("build feed: %v", err)
	}
	if !items[0].IsPoll {
		t.Fatalf("expected poll post")
	}
	if len(items[0].PollOptions) != 2 {
		t.Fatalf("expected 2 poll options, got %v", len(items[0].PollOptions))
	}
	if items[0].PollOptions[0].Votes != 1 {
		t.Fatalf("expected 1 poll vote, got %v", items[0].PollOptions[0].Votes)
	}
}

func TestBuildFeedChannelFilter(t *testing.T) {
	mdb, channelId := seedFeed(t)
	ctx := context.Background()
	otherId, err := mdb.CreateChannel(ctx, &appDb.CreateChannel{Name: "sports", CreatorId: "user-a"})
	if err != nil {
		t.Fatalf("create channel: %v", err)
	}
	if _, err := mdb.CreatePost(ctx, &appDb.CreatePost{
		Title: "in general", ChannelId: channelId, AuthorId: "user-a",
	}); err != nil {
		t.Fatalf("create post: %v", err)
	}
	if _, err := mdb.CreatePost(ctx, &appDb.CreatePost{
		Title: "in sports", ChannelId: otherId, AuthorId: "user-a",
	}); err != nil {
		t.Fatalf("create post: %v", err)
	}

	items, err := BuildFeed(ctx, mdb, &FeedQuery{ChannelId: otherId})
	if err != nil {
		t.Fatalf("build feed: %v", err)
	}
	if len(items) != 1 || items[0].Title != "in sports" {
		t.Fatalf("expected only the sports post, got %v items", len(items))
	}
}

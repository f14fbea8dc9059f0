package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/hostel5/portal-be/db"
	"github.com/hostel5/portal-be/model"
	"github.com/hostel5/portal-be/util"
)

type FeedQuery struct {
	// ViewerId is empty for anonymous snapshots, in which case UserVote is
	// zero for every item.
	ViewerId  string
	ChannelId int64
}

// BuildFeed loads the post list and enriches each post with its author,
// vote tally, the viewer's own vote, comment count, and poll options.
// Enrichment failures degrade the affected field instead of failing the
// whole feed: a post with an unresolvable author still renders.
func BuildFeed(ctx context.Context, database db.Database, query *FeedQuery) ([]*model.FeedItem, error) {
	posts, err := database.GetPosts(ctx, &db.PostsQuery{ChannelId: query.ChannelId})
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return []*model.FeedItem{}, nil
	}

	postIds := make([]int64, len(posts))
	authorIds := make([]string, 0, len(posts))
	seenAuthors := make(map[string]bool)
	for i, post := range posts {
		postIds[i] = post.Id
		if !seenAuthors[post.AuthorId] {
			seenAuthors[post.AuthorId] = true
			authorIds = append(authorIds, post.AuthorId)
		}
	}

	profiles, err := database.GetProfiles(ctx, authorIds)
	if err != nil {
		log.Warn().Err(err).Msg("author lookup failed, rendering placeholders")
		profiles = map[string]*model.Profile{}
	}
	totals, err := database.GetVoteTotals(ctx, postIds)
	if err != nil {
		return nil, err
	}
	commentCounts, err := database.GetCommentCounts(ctx, postIds)
	if err != nil {
		return nil, err
	}
	var userVotes map[int64]int8
	if query.ViewerId != "" {
		userVotes, err = database.GetUserVotes(ctx, query.ViewerId, postIds)
		if err != nil {
			return nil, err
		}
	}

	items := make([]*model.FeedItem, len(posts))
	for i, post := range posts {
		item := &model.FeedItem{
			Post:         post,
			Author:       authorFor(profiles, post.AuthorId),
			VoteCount:    totals[post.Id],
			CommentCount: commentCounts[post.Id],
		}
		if userVotes != nil {
			item.UserVote = userVotes[post.Id]
		}
		if post.IsPoll {
			options, err := database.GetPollOptions(ctx, post.Id)
			if err != nil {
				log.Warn().Err(err).Int64("postId", post.Id).Msg("poll option lookup failed")
				options = []*model.PollOption{}
			}
			item.PollOptions = options
		}
		items[i] = item
	}
	return items, nil
}

func authorFor(profiles map[string]*model.Profile, userId string) *model.Author {
	if profile, ok := profiles[userId]; ok {
		return &model.Author{
			Id:       profile.Id,
			FullName: profile.FullName,
			Avatar:   profile.AvatarUrl,
		}
	}
	return &model.Author{
		Id:       userId,
		FullName: "Unknown",
		Avatar:   util.Avatar(userId),
	}
}

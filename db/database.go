package db

import (
	"context"

	"github.com/hostel5/portal-be/model"
)

type Database interface {
	ChannelDatabase
	PostDatabase
	VoteDatabase
	CommentDatabase
	ProfileDatabase
	RoleDatabase
	Close() error
}

type CreateChannel struct {
	Name        string
	Description string
	IconUrl     string
	CreatorId   string
}

type CreatePost struct {
	Title       string
	Content     string
	ImageUrl    string
	Flair       string
	ChannelId   int64
	AuthorId    string
	PollOptions []string // non-empty makes the post a poll
}

type CreateComment struct {
	PostId   int64
	ParentId int64 // 0 for top-level
	AuthorId string
	Content  string
}

// VoteTarget sets exactly one of PostId or CommentId.
type VoteTarget struct {
	PostId    int64
	CommentId int64
}

type UpdateProfile struct {
	FullName         string
	RoomNumber       string
	Phone            string
	Batch            string
	Branch           string
	AvatarUrl        string
	EmergencyContact string
	EmergencyPhone   string
}

// PostsQuery filters the post list. ChannelId of 0 means the cross-channel feed.
type PostsQuery struct {
	ChannelId int64
}

type ChannelDatabase interface {
	CreateChannel(ctx context.Context, req *CreateChannel) (channelId int64, err error)
	GetChannels(ctx context.Context) ([]*model.Channel, error)
	GetChannelById(ctx context.Context, id int64) (*model.Channel, error)
}

type PostDatabase interface {
	CreatePost(ctx context.Context, req *CreatePost) (postId int64, err error)
	GetPostById(ctx context.Context, id int64) (*model.Post, error)
	// GetPosts returns posts ordered pinned-first, then newest-first, ties by
	// ascending id.
	GetPosts(ctx context.Context, query *PostsQuery) ([]*model.Post, error)
	SetPinned(ctx context.Context, postId int64, pinned bool) error
	GetPollOptions(ctx context.Context, postId int64) ([]*model.PollOption, error)
	VotePollOption(ctx context.Context, postId, optionId int64) error
}

type VoteDatabase interface {
	// CastVote applies toggle semantics: a vote matching the caller's current
	// vote deletes it, anything else replaces it. value must be +1 or -1.
	CastVote(ctx context.Context, userId string, target VoteTarget, value int8) error
	// GetVoteTotals returns SUM(vote_type) per post. Posts with no votes are
	// absent from the map.
	GetVoteTotals(ctx context.Context, postIds []int64) (map[int64]int, error)
	GetUserVotes(ctx context.Context, userId string, postIds []int64) (map[int64]int8, error)
}

type CommentDatabase interface {
	CreateComment(ctx context.Context, req *CreateComment) (commentId int64, err error)
	GetCommentsForPost(ctx context.Context, postId int64) ([]*model.Comment, error)
	GetCommentCounts(ctx context.Context, postIds []int64) (map[int64]int, error)
}

type ProfileDatabase interface {
	CreateProfile(ctx context.Context, profile *model.Profile) error
	GetProfile(ctx context.Context, id string) (*model.Profile, error)
	// GetProfiles is the batched author lookup for feed enrichment.
	GetProfiles(ctx context.Context, ids []string) (map[string]*model.Profile, error)
	UpdateProfile(ctx context.Context, id string, req *UpdateProfile) error
	SetApproval(ctx context.Context, id string, approved bool) error
	ListProfilesWithRoles(ctx context.Context) ([]*model.ProfileWithRole, error)
}

type RoleDatabase interface {
	// GetRole defaults to RoleMember when no role row exists.
	GetRole(ctx context.Context, userId string) (model.Role, error)
	SetRole(ctx context.Context, userId string, role model.Role) error
}

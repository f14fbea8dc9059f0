package model

import "time"

type Post struct {
	Id          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Content     string    `db:"content" json:"content,omitempty"`
	ImageUrl    string    `db:"image_url" json:"imageUrl,omitempty"`
	Flair       string    `db:"flair" json:"flair,omitempty"`
	IsPinned    bool      `db:"is_pinned" json:"isPinned"`
	IsPoll      bool      `db:"is_poll" json:"isPoll"`
	ChannelId   int64     `db:"channel_id" json:"channelId"`
	ChannelName string    `db:"channel_name" json:"channelName"`
	AuthorId    string    `db:"author_id" json:"authorId"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// PollOption tallies are a denormalized counter, a separate mechanism from the
// post vote ledger.
type PollOption struct {
	Id         int64  `db:"id" json:"id"`
	PostId     int64  `db:"post_id" json:"postId"`
	OptionText string `db:"option_text" json:"optionText"`
	Votes      int    `db:"votes" json:"votes"`
}

// Comment's ParentId of 0 means a top-level comment. A parent always has a
// smaller id than its children (rows are never re-parented), so threads cannot
// cycle.
type Comment struct {
	Id             int64     `db:"id" json:"id"`
	PostId         int64     `db:"post_id" json:"postId"`
	ParentId       int64     `db:"parent_id" json:"parentId,omitempty"`
	AuthorId       string    `db:"author_id" json:"authorId"`
	AuthorFullName string    `db:"full_name" json:"authorFullName,omitempty"`
	Content        string    `db:"content" json:"content"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

type CommentTree struct {
	*Comment
	Children []*CommentTree `json:"children"`
}

// Vote targets exactly one of PostId or CommentId; the other stays 0.
type Vote struct {
	Id        int64  `db:"id" json:"id"`
	PostId    int64  `db:"post_id" json:"postId,omitempty"`
	CommentId int64  `db:"comment_id" json:"commentId,omitempty"`
	UserId    string `db:"user_id" json:"userId"`
	Value     int8   `db:"vote_type" json:"value"`
}

// FeedItem is the render-ready shape: a post enriched with author display
// fields, tallies, and the requesting user's own vote. Never persisted.
type FeedItem struct {
	*Post
	Author       *Author       `json:"author"`
	VoteCount    int           `json:"voteCount"`
	CommentCount int           `json:"commentCount"`
	UserVote     int8          `json:"userVote"`
	PollOptions  []*PollOption `json:"pollOptions,omitempty"`
}

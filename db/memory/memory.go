// Package memory implements db.Database over in-process maps. It backs
// DB_DRIVER=memory dev mode and the test suite, and mirrors the semantics the
// MySQL store gets from its constraints: unique channel names, one vote row
// per (target, user), and the pinned-first feed ordering.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	appDb "github.com/hostel5/portal-be/db"
	"github.com/hostel5/portal-be/model"
)

type voteKey struct {
	postId    int64
	commentId int64
	userId    string
}

type MemoryDB struct {
	// Now is the clock used for created_at stamps; tests override it.
	Now func() time.Time

	mu       sync.Mutex
	nextId   int64
	profiles map[string]*model.Profile
	roles    map[string]model.Role
	channels map[int64]*model.Channel
	posts    map[int64]*model.Post
	options  map[int64][]*model.PollOption
	comments map[int64]*model.Comment
	votes    map[voteKey]*model.Vote
}

func New() *MemoryDB {
	return &MemoryDB{
		Now:      time.Now,
		profiles: make(map[string]*model.Profile),
		roles:    make(map[string]model.Role),
		channels: make(map[int64]*model.Channel),
		posts:    make(map[int64]*model.Post),
		options:  make(map[int64][]*model.PollOption),
		comments: make(map[int64]*model.Comment),
		votes:    make(map[voteKey]*model.Vote),
	}
}

func (mdb *MemoryDB) Close() error {
	return nil
}

func (mdb *MemoryDB) id() int64 {
	mdb.nextId++
	return mdb.nextId
}

func (mdb *MemoryDB) CreateChannel(ctx context.Context, req *appDb.CreateChannel) (int64, error) {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	for _, channel := range mdb.channels {
		if channel.Name == req.Name {
			return 0, fmt.Errorf("%w: community %q already exists", appDb.ErrConflict, req.Name)
		}
	}
	id := mdb.id()
	mdb.channels[id] = &model.Channel{
		Id:          id,
		Name:        req.Name,
		Description: req.Description,
		IconUrl:     req.IconUrl,
		CreatedBy:   req.CreatorId,
		CreatedAt:   mdb.Now(),
	}
	return id, nil
}

func (mdb *MemoryDB) GetChannels(ctx context.Context) ([]*model.Channel, error) {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	channels := make([]*model.Channel, 0, len(mdb.channels))
	for _, channel := range mdb.channels {
		copied := *channel
		channels = append(channels, &copied)
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i].Name < channels[j].Name })
	return channels, nil
}

func (mdb *MemoryDB) GetChannelById(ctx context.Context, id int64) (*model.Channel, error) {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	channel, ok := mdb.channels[id]
	if !ok {
		return nil, nil
	}
	copied := *channel
	return &copied, nil
}

func (mdb *MemoryDB) CreatePost(ctx context.Context, req *appDb.CreatePost) (int64, error) {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	channel, ok := mdb.channels[req.ChannelId]
	if !ok {
		return 0, fmt.Errorf("%w: channel %v", appDb.ErrNotFound, req.ChannelId)
	}
	id := mdb.id()
	now := mdb.Now()
	mdb.posts[id] = &model.Post{
		Id:          id,
		Title:       req.Title,
		Content:     req.Content,
		ImageUrl:    req.ImageUrl,
		Flair:       req.Flair,
		IsPoll:      len(req.PollOptions) > 0,
		ChannelId:   req.ChannelId,
		ChannelName: channel.Name,
		AuthorId:    req.AuthorId,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, optionText := range req.PollOptions {
		mdb.options[id] = append(mdb.options[id], &model.PollOption{
			Id:         mdb.id(),
			PostId:     id,
			OptionText: optionText,
		})
	}
	return id, nil
}

func (mdb *MemoryDB) GetPostById(ctx context.Context, id int64) (*model.Post, error) {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	post, ok := mdb.posts[id]
	if !ok {
		return nil, nil
	}
	copied := *post
	return &copied, nil
}

func (mdb *MemoryDB) GetPosts(ctx context.Context, query *appDb.PostsQuery) ([]*model.Post, error) {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	posts := make([]*model.Post, 0, len(mdb.posts))
	for _, post := range mdb.posts {
		if query.ChannelId != 0 && post.ChannelId != query.ChannelId {
			continue
		}
		copied := *post
		posts = append(posts, &copied)
	}
	// pinned first, then newest, ties by insertion id
	sort.Slice(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if a.IsPinned != b.IsPinned {
			return a.IsPinned
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.Id < b.Id
	})
	return posts, nil
}

func (mdb *MemoryDB) SetPinned(ctx context.Context, postId int64, pinned bool) error {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	post, ok := mdb.posts[postId]
	if !ok {
		return fmt.Errorf("%w: post %v", appDb.ErrNotFound, postId)
	}
	post.IsPinned = pinned
	post.UpdatedAt = mdb.Now()
	return nil
}

func (mdb *MemoryDB) GetPollOptions(ctx context.Context, postId int64) ([]*model.PollOption, error) {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	options := make([]*model.PollOption, 0, len(mdb.options[postId]))
	for _, option := range mdb.options[postId] {
		copied := *option
		options = append(options, &copied)
	}
	return options, nil
}

func (mdb *MemoryDB) VotePollOption(ctx context.Context, postId, optionId int64) error {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	for _, option := range mdb.options[postId] {
		if option.Id == optionId {
			option.Votes++
			return nil
		}
	}
	return fmt.Errorf("%w: poll option %v on post %v", appDb.ErrNotFound, optionId, postId)
}

func (mdb *MemoryDB) CastVote(ctx context.Context, userId string, target appDb.VoteTarget, value int8) error {
	if value != 1 && value != -1 {
		return fmt.Errorf("%w: vote value must be +1 or -1", appDb.ErrValidation)
	}
	if (target.PostId == 0) == (target.CommentId == 0) {
		return fmt.Errorf("%w: vote targets exactly one of post or comment", appDb.ErrValidation)
	}
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	if target.PostId != 0 {
		if _, ok := mdb.posts[target.PostId]; !ok {
			return fmt.Errorf("%w: post %v", appDb.ErrNotFound, target.PostId)
		}
	} else if _, ok := mdb.comments[target.CommentId]; !ok {
		return fmt.Errorf("%w: comment %v", appDb.ErrNotFound, target.CommentId)
	}
	key := voteKey{postId: target.PostId, commentId: target.CommentId, userId: userId}
	if existing, ok := mdb.votes[key]; ok && existing.Value == value {
		delete(mdb.votes, key)
		return nil
	}
	if existing, ok := mdb.votes[key]; ok {
		existing.Value = value
		return nil
	}
	mdb.votes[key] = &model.Vote{
		Id:        mdb.id(),
		PostId:    target.PostId,
		CommentId: target.CommentId,
		UserId:    userId,
		Value:     value,
	}
	return nil
}

func (mdb *MemoryDB) GetVoteTotals(ctx context.Context, postIds []int64) (map[int64]int, error) {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	wanted := toIdSet(postIds)
	totals := make(map[int64]int, len(postIds))
	for key, vote := range mdb.votes {
		if key.postId != 0 && wanted[key.postId] {
			totals[key.postId] += int(vote.Value)
		}
	}
	return totals, nil
}

func (mdb *MemoryDB) GetUserVotes(ctx context.Context, userId string, postIds []int64) (map[int64]int8, error) {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	votes := make(map[int64]int8, len(postIds))
	for _, postId := range postIds {
		if vote, ok := mdb.votes[voteKey{postId: postId, userId: userId}]; ok {
			votes[postId] = vote.Value
		}
	}
	return votes, nil
}

func (mdb *MemoryDB) CreateComment(ctx context.Context, req *appDb.CreateComment) (int64, error) {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	if _, ok := mdb.posts[req.PostId]; !ok {
		return 0, fmt.Errorf("%w: post %v", appDb.ErrNotFound, req.PostId)
	}
	if req.ParentId != 0 {
		parent, ok := mdb.comments[req.ParentId]
		if !ok {
			return 0, fmt.Errorf("%w: parent comment %v", appDb.ErrNotFound, req.ParentId)
		}
		if parent.PostId != req.PostId {
			return 0, fmt.Errorf("%w: parent comment belongs to another post", appDb.ErrValidation)
		}
	}
	id := mdb.id()
	comment := &model.Comment{
		Id:        id,
		PostId:    req.PostId,
		ParentId:  req.ParentId,
		AuthorId:  req.AuthorId,
		Content:   req.Content,
		CreatedAt: mdb.Now(),
	}
	if profile, ok := mdb.profiles[req.AuthorId]; ok {
		comment.AuthorFullName = profile.FullName
	}
	mdb.comments[id] = comment
	return id, nil
}

func (mdb *MemoryDB) GetCommentsForPost(ctx context.Context, postId int64) ([]*model.Comment, error) {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	var comments []*model.Comment
	for _, comment := range mdb.comments {
		if comment.PostId == postId {
			copied := *comment
			comments = append(comments, &copied)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].Id < comments[j].Id })
	return comments, nil
}

func (mdb *MemoryDB) GetCommentCounts(ctx context.Context, postIds []int64) (map[int64]int, error) {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	wanted := toIdSet(postIds)
	counts := make(map[int64]int, len(postIds))
	for _, comment := range mdb.comments {
		if wanted[comment.PostId] {
			counts[comment.PostId]++
		}
	}
	return counts, nil
}

func (mdb *MemoryDB) CreateProfile(ctx context.Context, profile *model.Profile) error {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	if _, ok := mdb.profiles[profile.Id]; ok {
		return fmt.Errorf("%w: profile %v already exists", appDb.ErrConflict, profile.Id)
	}
	copied := *profile
	now := mdb.Now()
	copied.CreatedAt, copied.UpdatedAt = now, now
	mdb.profiles[profile.Id] = &copied
	return nil
}

func (mdb *MemoryDB) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	profile, ok := mdb.profiles[id]
	if !ok {
		return nil, nil
	}
	copied := *profile
	return &copied, nil
}

func (mdb *MemoryDB) GetProfiles(ctx context.Context, ids []string) (map[string]*model.Profile, error) {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	profiles := make(map[string]*model.Profile, len(ids))
	for _, id := range ids {
		if profile, ok := mdb.profiles[id]; ok {
			copied := *profile
			profiles[id] = &copied
		}
	}
	return profiles, nil
}

func (mdb *MemoryDB) UpdateProfile(ctx context.Context, id string, req *appDb.UpdateProfile) error {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	profile, ok := mdb.profiles[id]
	if !ok {
		return fmt.Errorf("%w: profile %v", appDb.ErrNotFound, id)
	}
	profile.FullName = req.FullName
	profile.RoomNumber = req.RoomNumber
	profile.Phone = req.Phone
	profile.Batch = req.Batch
	profile.Branch = req.Branch
	profile.AvatarUrl = req.AvatarUrl
	profile.EmergencyContact = req.EmergencyContact
	profile.EmergencyPhone = req.EmergencyPhone
	profile.UpdatedAt = mdb.Now()
	return nil
}

func (mdb *MemoryDB) SetApproval(ctx context.Context, id string, approved bool) error {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	profile, ok := mdb.profiles[id]
	if !ok {
		return fmt.Errorf("%w: profile %v", appDb.ErrNotFound, id)
	}
	profile.IsApproved = approved
	profile.UpdatedAt = mdb.Now()
	return nil
}

func (mdb *MemoryDB) ListProfilesWithRoles(ctx context.Context) ([]*model.ProfileWithRole, error) {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	profiles := make([]*model.ProfileWithRole, 0, len(mdb.profiles))
	for id, profile := range mdb.profiles {
		role, ok := mdb.roles[id]
		if !ok {
			role = model.RoleMember
		}
		copied := *profile
		profiles = append(profiles, &model.ProfileWithRole{Profile: &copied, Role: role})
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].FullName < profiles[j].FullName })
	return profiles, nil
}

func (mdb *MemoryDB) GetRole(ctx context.Context, userId string) (model.Role, error) {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	if role, ok := mdb.roles[userId]; ok {
		return role, nil
	}
	return model.RoleMember, nil
}

func (mdb *MemoryDB) SetRole(ctx context.Context, userId string, role model.Role) error {
	mdb.mu.Lock()
	defer mdb.mu.Unlock()
	mdb.roles[userId] = role
	return nil
}

func toIdSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

package mysqldb

import (
	"context"
	"fmt"

	"github.com/upper/db/v4"

	appDb "github.com/hostel5/portal-be/db"
	"github.com/hostel5/portal-be/model"
)

type PostDB struct {
	sess db.Session
}

func getPostDB(sess db.Session) *PostDB {
	return &PostDB{sess}
}

func (pdb *PostDB) CreatePost(ctx context.Context, req *appDb.CreatePost) (int64, error) {
	var postId int64
	err := pdb.sess.TxContext(ctx, func(sess db.Session) error {
		exists, err := sess.Collection("channel").Find("id = ?", req.ChannelId).Exists()
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: channel %v", appDb.ErrNotFound, req.ChannelId)
		}
		res, err := sess.SQL().
			InsertInto("post").
			Columns("title", "content", "image_url", "flair", "is_poll", "channel_id", "author_id").
			Values(req.Title, req.Content, req.ImageUrl, req.Flair, len(req.PollOptions) > 0, req.ChannelId, req.AuthorId).
			ExecContext(ctx)
		if err != nil {
			return err
		}
		postId, err = res.LastInsertId()
		if err != nil {
			return err
		}
		if len(req.PollOptions) == 0 {
			return nil
		}

		batchInserter := sess.SQL().
			InsertInto("poll_option").
			Columns("post_id", "option_text").
			Batch(len(req.PollOptions))
		for _, optionText := range req.PollOptions {
			batchInserter.Values(postId, optionText)
		}
		batchInserter.Done()
		return batchInserter.Wait()
	}, nil)
	return postId, err
}

var postColumns = []interface{}{
	"p.id",
	"p.title",
	"p.content",
	"p.image_url",
	"p.flair",
	"p.is_pinned",
	"p.is_poll",
	"p.channel_id",
	db.Raw("c.name AS channel_name"),
	"p.author_id",
	"p.created_at",
	"p.updated_at",
}

// GetPostById returns nil without error when the post does not exist.
func (pdb *PostDB) GetPostById(ctx context.Context, id int64) (*model.Post, error) {
	var post model.Post
	if err := pdb.sess.SQL().
		Select(postColumns...).
		From("post AS p").
		Join("channel AS c").On("p.channel_id = c.id").
		Where("p.id = ?", id).
		IteratorContext(ctx).
		One(&post); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (pdb *PostDB) GetPosts(ctx context.Context, query *appDb.PostsQuery) ([]*model.Post, error) {
	selector := pdb.sess.SQL().
		Select(postColumns...).
		From("post AS p").
		Join("channel AS c").On("p.channel_id = c.id")
	if query.ChannelId != 0 {
		selector = selector.Where("p.channel_id = ?", query.ChannelId)
	}
	var posts []*model.Post
	if err := selector.
		OrderBy("p.is_pinned DESC", "p.created_at DESC", "p.id ASC").
		IteratorContext(ctx).
		All(&posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (pdb *PostDB) SetPinned(ctx context.Context, postId int64, pinned bool) error {
	res, err := pdb.sess.SQL().
		Update("post").
		Set("is_pinned = ?", pinned).
		Where("id = ?", postId).
		ExecContext(ctx)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		// MySQL reports 0 for no-op updates too; only treat a truly missing
		// row as NotFound
		if post, err := pdb.GetPostById(ctx, postId); err != nil {
			return err
		} else if post == nil {
			return fmt.Errorf("%w: post %v", appDb.ErrNotFound, postId)
		}
	}
	return nil
}

func (pdb *PostDB) GetPollOptions(ctx context.Context, postId int64) ([]*model.PollOption, error) {
	var options []*model.PollOption
	if err := pdb.sess.SQL().
		Select("*").
		From("poll_option").
		Where("post_id = ?", postId).
		OrderBy("id").
		IteratorContext(ctx).
		All(&options); err != nil {
		return nil, err
	}
	return options, nil
}

func (pdb *PostDB) VotePollOption(ctx context.Context, postId, optionId int64) error {
	res, err := pdb.sess.SQL().
		Update("poll_option").
		Set("votes = votes + 1").
		Where("id = ? AND post_id = ?", optionId, postId).
		ExecContext(ctx)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("%w: poll option %v on post %v", appDb.ErrNotFound, optionId, postId)
	}
	return nil
}

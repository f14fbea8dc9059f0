package mysqldb

import (
	"context"
	"fmt"

	"github.com/upper/db/v4"

	appDb "github.com/hostel5/portal-be/db"
	"github.com/hostel5/portal-be/model"
)

type CommentDB struct {
	sess db.Session
}

func getCommentDB(sess db.Session) *CommentDB {
	return &CommentDB{sess}
}

func (cdb *CommentDB) CreateComment(ctx context.Context, req *appDb.CreateComment) (int64, error) {
	var commentId int64
	err := cdb.sess.TxContext(ctx, func(sess db.Session) error {
		if req.ParentId != 0 {
			var parent model.Comment
			if err := sess.SQL().
				Select("id", "post_id").
				From("comment").
				Where("id = ?", req.ParentId).
				IteratorContext(ctx).
				One(&parent); err != nil {
				if err == db.ErrNoMoreRows {
					return fmt.Errorf("%w: parent comment %v", appDb.ErrNotFound, req.ParentId)
				}
				return err
			}
			if parent.PostId != req.PostId {
				return fmt.Errorf("%w: parent comment belongs to another post", appDb.ErrValidation)
			}
		}

		res, err := sess.SQL().
			InsertInto("comment").
			Columns("post_id", "parent_id", "author_id", "content").
			Values(req.PostId, req.ParentId, req.AuthorId, req.Content).
			ExecContext(ctx)
		if err != nil {
			return err
		}
		commentId, err = res.LastInsertId()
		return err
	}, nil)
	return commentId, err
}

func (cdb *CommentDB) GetCommentsForPost(ctx context.Context, postId int64) ([]*model.Comment, error) {
	var comments []*model.Comment
	if err := cdb.sess.SQL().
		Select("cm.id", "cm.post_id", "cm.parent_id", "cm.author_id",
			db.Raw("COALESCE(p.full_name, '') AS full_name"), "cm.content", "cm.created_at").
		From("comment AS cm").
		LeftJoin("profile AS p").On("cm.author_id = p.firebase_id").
		Where("cm.post_id = ?", postId).
		OrderBy("cm.id").
		IteratorContext(ctx).
		All(&comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (cdb *CommentDB) GetCommentCounts(ctx context.Context, postIds []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(postIds))
	if len(postIds) == 0 {
		return counts, nil
	}
	var rows []struct {
		PostId int64 `db:"post_id"`
		Count  int   `db:"count"`
	}
	if err := cdb.sess.SQL().
		Select("post_id", db.Raw("COUNT(*) AS count")).
		From("comment").
		Where("post_id IN ?", postIds).
		GroupBy("post_id").
		IteratorContext(ctx).
		All(&rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.PostId] = row.Count
	}
	return counts, nil
}

package app

import (
	"context"

	"github.com/hostel5/portal-be/db"
	"github.com/hostel5/portal-be/model"
)

// BuildCommentForest loads a post's comments and arranges them into trees,
// top-level comments first. Ordering within a level follows insertion order.
func BuildCommentForest(ctx context.Context, database db.Database, postId int64) ([]*model.CommentTree, error) {
	comments, err := database.GetCommentsForPost(ctx, postId)
	if err != nil {
		return nil, err
	}

	nodes := make(map[int64]*model.CommentTree, len(comments))
	roots := make([]*model.CommentTree, 0)
	for _, comment := range comments {
		nodes[comment.Id] = &model.CommentTree{
			Comment:  comment,
			Children: []*model.CommentTree{},
		}
	}
	for _, comment := range comments {
		node := nodes[comment.Id]
		if comment.ParentId == 0 {
			roots = append(roots, node)
			continue
		}
		if parent, ok := nodes[comment.ParentId]; ok {
			parent.Children = append(parent.Children, node)
		} else {
			// orphan, surface at the top rather than dropping it
			roots = append(roots, node)
		}
	}
	return roots, nil
}

package mysqldb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/upper/db/v4"

	appDb "github.com/hostel5/portal-be/db"
)

type VoteDB struct {
	sess db.Session
}

func getVoteDB(sess db.Session) *VoteDB {
	return &VoteDB{sess}
}

func (vdb *VoteDB) CastVote(ctx context.Context, userId string, target appDb.VoteTarget, value int8) error {
	if value != 1 && value != -1 {
		return fmt.Errorf("%w: vote value must be +1 or -1", appDb.ErrValidation)
	}
	col, targetId, targetTable := "post_id", target.PostId, "post"
	if target.CommentId != 0 {
		if target.PostId != 0 {
			return fmt.Errorf("%w: vote targets exactly one of post or comment", appDb.ErrValidation)
		}
		col, targetId, targetTable = "comment_id", target.CommentId, "comment"
	} else if target.PostId == 0 {
		return fmt.Errorf("%w: vote target missing", appDb.ErrValidation)
	}

	return vdb.sess.TxContext(ctx, func(sess db.Session) error {
		exists, err := sess.Collection(targetTable).Find("id = ?", targetId).Exists()
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %v %v", appDb.ErrNotFound, targetTable, targetId)
		}
		row, err := sess.SQL().QueryRowContext(ctx,
			"SELECT vote_type FROM vote WHERE "+col+" = ? AND user_id = ? FOR UPDATE",
			targetId, userId)
		if err != nil {
			return err
		}
		var previous int8
		if err := row.Scan(&previous); err != nil {
			if err != sql.ErrNoRows {
				return err
			}
		}

		// same direction toggles the vote off
		if previous == value {
			_, err := sess.SQL().
				DeleteFrom("vote").
				Where(col+" = ? AND user_id = ?", targetId, userId).
				ExecContext(ctx)
			return err
		}

		// the unique key on (target, user_id) makes concurrent double-submits
		// linearize instead of duplicating
		_, err = sess.SQL().ExecContext(ctx, db.Raw(
			"INSERT INTO vote ("+col+", user_id, vote_type) VALUES (?, ?, ?)"+
				" ON DUPLICATE KEY UPDATE vote_type = VALUES(vote_type)",
			targetId, userId, value))
		return err
	}, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
}

func (vdb *VoteDB) GetVoteTotals(ctx context.Context, postIds []int64) (map[int64]int, error) {
	totals := make(map[int64]int, len(postIds))
	if len(postIds) == 0 {
		return totals, nil
	}
	var rows []struct {
		PostId int64 `db:"post_id"`
		Total  int   `db:"total"`
	}
	if err := vdb.sess.SQL().
		Select("post_id", db.Raw("SUM(vote_type) AS total")).
		From("vote").
		Where("post_id IN ?", postIds).
		GroupBy("post_id").
		IteratorContext(ctx).
		All(&rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		totals[row.PostId] = row.Total
	}
	return totals, nil
}

func (vdb *VoteDB) GetUserVotes(ctx context.Context, userId string, postIds []int64) (map[int64]int8, error) {
	votes := make(map[int64]int8, len(postIds))
	if len(postIds) == 0 || userId == "" {
		return votes, nil
	}
	var rows []struct {
		PostId int64 `db:"post_id"`
		Value  int8  `db:"vote_type"`
	}
	if err := vdb.sess.SQL().
		Select("post_id", "vote_type").
		From("vote").
		Where("user_id = ? AND post_id IN ?", userId, postIds).
		IteratorContext(ctx).
		All(&rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		votes[row.PostId] = row.Value
	}
	return votes, nil
}

package mysqldb

import (
	"context"
	"fmt"

	"github.com/upper/db/v4"

	appDb "github.com/hostel5/portal-be/db"
	"github.com/hostel5/portal-be/model"
)

type ChannelDB struct {
	sess db.Session
}

func getChannelDB(sess db.Session) *ChannelDB {
	return &ChannelDB{sess}
}

func (cdb *ChannelDB) CreateChannel(ctx context.Context, req *appDb.CreateChannel) (int64, error) {
	res, err := cdb.sess.SQL().
		InsertInto("channel").
		Columns("name", "description", "icon_url", "created_by").
		Values(req.Name, req.Description, req.IconUrl, req.CreatorId).
		ExecContext(ctx)
	if err != nil {
		if appDb.IsDupKeyErr(err) {
			return 0, fmt.Errorf("%w: community %q already exists", appDb.ErrConflict, req.Name)
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (cdb *ChannelDB) GetChannels(ctx context.Context) ([]*model.Channel, error) {
	var channels []*model.Channel
	if err := cdb.sess.SQL().
		Select("*").
		From("channel").
		OrderBy("name").
		IteratorContext(ctx).
		All(&channels); err != nil {
		return nil, err
	}
	return channels, nil
}

// GetChannelById returns nil without error when the channel does not exist.
func (cdb *ChannelDB) GetChannelById(ctx context.Context, id int64) (*model.Channel, error) {
	var channel model.Channel
	if err := cdb.sess.SQL().
		Select("*").
		From("channel").
		Where("id = ?", id).
		IteratorContext(ctx).
		One(&channel); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, nil
		}
		return nil, err
	}
	return &channel, nil
}

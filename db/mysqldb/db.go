package mysqldb

import (
	"database/sql"

	"github.com/upper/db/v4"
	"github.com/upper/db/v4/adapter/mysql"

	"github.com/hostel5/portal-be/config"
	appDb "github.com/hostel5/portal-be/db"
)

type MySQLDB struct {
	*ChannelDB
	*PostDB
	*VoteDB
	*CommentDB
	*ProfileDB
	sess  db.Session
	sqlDB *sql.DB
}

func GetDatabase(cfg *config.Config) (appDb.Database, error) {
	sqlDB, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(50)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxIdleTime(0)

	sess, err := mysql.New(sqlDB)
	if err != nil {
		return nil, err
	}

	return &MySQLDB{
		ChannelDB: getChannelDB(sess),
		PostDB:    getPostDB(sess),
		VoteDB:    getVoteDB(sess),
		CommentDB: getCommentDB(sess),
		ProfileDB: getProfileDB(sess),
		sess:      sess,
		sqlDB:     sqlDB,
	}, nil
}

func (mdb *MySQLDB) Close() error {
	return mdb.sess.Close()
}

package controllers

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/hostel5/portal-be/app"
	"github.com/hostel5/portal-be/db"
	"github.com/hostel5/portal-be/model"
	"github.com/hostel5/portal-be/realtime"
)

// FeedController keeps a cached anonymous feed snapshot warm, refreshing it
// whenever a post, vote, or comment changes. Rebuilds run concurrently; each
// carries a sequence number taken when it started, and a finished rebuild is
// discarded if a later one has already landed, so the snapshot never moves
// backwards in time.
type FeedController struct {
	database db.Database
	logger   zerolog.Logger

	hub         *realtime.Hub
	postsSub    *realtime.Subscription
	votesSub    *realtime.Subscription
	commentsSub *realtime.Subscription

	buildSeq uint64

	mu          sync.RWMutex
	snapshot    []*model.FeedItem
	snapshotSeq uint64

	done chan struct{}
}

func NewFeedController(database db.Database, hub *realtime.Hub, logger zerolog.Logger) *FeedController {
	controller := &FeedController{
		database:    database,
		logger:      logger,
		hub:         hub,
		postsSub:    hub.Subscribe("post", realtime.MaskAll),
		votesSub:    hub.Subscribe("vote", realtime.MaskAll),
		commentsSub: hub.Subscribe("comment", realtime.MaskAll),
		snapshot:    []*model.FeedItem{},
		done:        make(chan struct{}),
	}
	controller.refreshAsync()
	go controller.run()
	return controller
}

func (c *FeedController) run() {
	for {
		select {
		case _, ok := <-c.postsSub.C:
			if !ok {
				return
			}
		case _, ok := <-c.votesSub.C:
			if !ok {
				return
			}
		case _, ok := <-c.commentsSub.C:
			if !ok {
				return
			}
		case <-c.done:
			return
		}
		c.refreshAsync()
	}
}

func (c *FeedController) refreshAsync() {
	seq := atomic.AddUint64(&c.buildSeq, 1)
	go func() {
		items, err := app.BuildFeed(context.Background(), c.database, &app.FeedQuery{})
		if err != nil {
			c.logger.Warn().Err(err).Msg("feed rebuild failed, keeping previous snapshot")
			return
		}
		c.mu.Lock()
		if seq > c.snapshotSeq {
			c.snapshot = items
			c.snapshotSeq = seq
		}
		c.mu.Unlock()
	}()
}

// Snapshot returns the cached anonymous feed. It may lag the database by one
// rebuild but never interleaves two builds.
func (c *FeedController) Snapshot() []*model.FeedItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// GetFeed builds a feed for a specific viewer. Viewer-specific fields cannot
// come from the shared snapshot, so this always reads through.
func (c *FeedController) GetFeed(ctx context.Context, viewerId string, channelId int64) ([]*model.FeedItem, error) {
	return app.BuildFeed(ctx, c.database, &app.FeedQuery{
		ViewerId:  viewerId,
		ChannelId: channelId,
	})
}

func (c *FeedController) Stop() {
	close(c.done)
	c.hub.Unsubscribe(c.postsSub.Handle)
	c.hub.Unsubscribe(c.votesSub.Handle)
	c.hub.Unsubscribe(c.commentsSub.Handle)
}

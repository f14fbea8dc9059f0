package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hostel5/portal-be/controllers"
	"github.com/hostel5/portal-be/db"
	"github.com/hostel5/portal-be/middleware"
	"github.com/hostel5/portal-be/util"
)

type feedRoutes struct {
	controller *controllers.FeedController
}

func AddFeedRoutes(group *gin.RouterGroup, database db.Database, controller *controllers.FeedController, verifier middleware.TokenVerifier) {
	routes := feedRoutes{controller}
	feeds := group.Group("/feeds",
		middleware.GenAuth(database, verifier, &middleware.AuthConfig{}),
		middleware.RequireApproved())
	feeds.GET("", util.HandlerWrapper(routes.getFeed, &util.HandlerOpts{}))
}

func (fr *feedRoutes) getFeed(c *gin.Context) (interface{}, *util.HTTPError) {
	channelId := int64(0)
	if raw := c.Query("channelId"); raw != "" {
		var httpErr *util.HTTPError
		if channelId, httpErr = util.ParseId(raw); httpErr != nil {
			return nil, httpErr
		}
	}
	items, err := fr.controller.GetFeed(c, middleware.GetAccess(c).UserId(), channelId)
	if err != nil {
		// serve the warm snapshot rather than failing the page outright; the
		// viewer-specific fields are zero in it
		if channelId == 0 {
			log.Warn().Err(err).Msg("feed build failed, serving cached snapshot")
			return fr.controller.Snapshot(), nil
		}
		return nil, util.BuildDbHTTPErr(err)
	}
	return items, nil
}

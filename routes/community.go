package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostel5/portal-be/db"
	"github.com/hostel5/portal-be/middleware"
	"github.com/hostel5/portal-be/realtime"
	"github.com/hostel5/portal-be/util"
)

type channelRoutes struct {
	db  db.Database
	hub *realtime.Hub
}

func AddChannelRoutes(group *gin.RouterGroup, database db.Database, hub *realtime.Hub, verifier middleware.TokenVerifier) {
	routes := channelRoutes{database, hub}
	channels := group.Group("/channels",
		middleware.GenAuth(database, verifier, &middleware.AuthConfig{}),
		middleware.RequireApproved())
	channels.GET("", util.HandlerWrapper(routes.getChannels, &util.HandlerOpts{}))
	channels.GET("/:id", util.HandlerWrapper(routes.getChannelById, &util.HandlerOpts{}))
	channels.PUT("",
		middleware.RequireSteward(),
		util.HandlerWrapper(routes.createChannel, &util.HandlerOpts{}))
}

type createChannelReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IconUrl     string `json:"iconUrl"`
}

func (cr *channelRoutes) createChannel(c *gin.Context) (interface{}, *util.HTTPError) {
	var req createChannelReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	if len(req.Name) < 2 {
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "community name must be at least 2 characters",
		}
	}
	id, err := cr.db.CreateChannel(c, &db.CreateChannel{
		Name:        util.XSSSanitize(req.Name),
		Description: util.XSSSanitize(req.Description),
		IconUrl:     req.IconUrl,
		CreatorId:   middleware.GetAccess(c).UserId(),
	})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	cr.hub.Publish("channel", realtime.EventInsert, id)
	return gin.H{
		"id": id,
	}, nil
}

func (cr *channelRoutes) getChannels(c *gin.Context) (interface{}, *util.HTTPError) {
	channels, err := cr.db.GetChannels(c)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return channels, nil
}

func (cr *channelRoutes) getChannelById(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	channel, err := cr.db.GetChannelById(c, id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if channel == nil {
		return nil, &util.HTTPError{
			Status:  http.StatusNotFound,
			Message: "community does not exist",
		}
	}
	return channel, nil
}

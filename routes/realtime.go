package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hostel5/portal-be/db"
	"github.com/hostel5/portal-be/middleware"
	"github.com/hostel5/portal-be/realtime"
)

// AddRealtimeRoutes mounts the websocket endpoint that streams row-change
// events. Clients refetch whatever the event touches; no data rides on the
// socket beyond the change notice.
func AddRealtimeRoutes(group *gin.RouterGroup, database db.Database, hub *realtime.Hub, verifier middleware.TokenVerifier) {
	stream := group.Group("/realtime",
		middleware.GenAuth(database, verifier, &middleware.AuthConfig{}),
		middleware.RequireApproved())
	stream.GET("", func(c *gin.Context) {
		realtime.ServeWS(hub, log.Logger, c.Writer, c.Request)
	})
}

package routes

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hostel5/portal-be/app"
	"github.com/hostel5/portal-be/db"
	"github.com/hostel5/portal-be/middleware"
	"github.com/hostel5/portal-be/realtime"
	"github.com/hostel5/portal-be/util"
)

type postRoutes struct {
	db  db.Database
	hub *realtime.Hub
}

func AddPostRoutes(group *gin.RouterGroup, database db.Database, hub *realtime.Hub, verifier middleware.TokenVerifier) {
	routes := postRoutes{database, hub}
	posts := group.Group("/posts",
		middleware.GenAuth(database, verifier, &middleware.AuthConfig{}),
		middleware.RequireApproved())
	posts.PUT("", util.HandlerWrapper(routes.createPost, &util.HandlerOpts{}))
	posts.GET("/:id", util.HandlerWrapper(routes.getPostById, &util.HandlerOpts{}))
	posts.POST("/:id/votes", util.HandlerWrapper(routes.votePost, &util.HandlerOpts{}))
	posts.GET("/:id/comments", util.HandlerWrapper(routes.getComments, &util.HandlerOpts{}))
	posts.PUT("/:id/comments", util.HandlerWrapper(routes.createComment, &util.HandlerOpts{}))
	posts.POST("/:id/comments/:commentId/votes",
		util.HandlerWrapper(routes.voteComment, &util.HandlerOpts{}))
	posts.POST("/:id/poll/:optionId", util.HandlerWrapper(routes.votePollOption, &util.HandlerOpts{}))
	posts.POST("/:id/pin",
		middleware.RequireSteward(),
		util.HandlerWrapper(routes.pinPost, &util.HandlerOpts{}))
}

type createPostReq struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	ImageUrl    string   `json:"imageUrl"`
	Flair       string   `json:"flair"`
	ChannelId   int64    `json:"channelId"`
	PollOptions []string `json:"pollOptions"`
}

func (pr *postRoutes) createPost(c *gin.Context) (interface{}, *util.HTTPError) {
	var req createPostReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "post title must not be empty",
		}
	}
	options := make([]string, len(req.PollOptions))
	for i, option := range req.PollOptions {
		options[i] = util.XSSSanitize(option)
	}
	id, err := pr.db.CreatePost(c, &db.CreatePost{
		Title:       util.XSSSanitize(title),
		Content:     util.XSSSanitize(req.Content),
		ImageUrl:    req.ImageUrl,
		Flair:       util.XSSSanitize(req.Flair),
		ChannelId:   req.ChannelId,
		AuthorId:    middleware.GetAccess(c).UserId(),
		PollOptions: options,
	})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	pr.hub.Publish("post", realtime.EventInsert, id)
	return gin.H{
		"id": id,
	}, nil
}

func (pr *postRoutes) getPostById(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	post, err := pr.db.GetPostById(c, id)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	if post == nil {
		return nil, &util.HTTPError{
			Status:  http.StatusNotFound,
			Message: "post does not exist",
		}
	}
	return post, nil
}

type voteReq struct {
	Value int8 `json:"value"`
}

func (pr *postRoutes) votePost(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	var req voteReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	err := pr.db.CastVote(c, middleware.GetAccess(c).UserId(), db.VoteTarget{PostId: id}, req.Value)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	pr.hub.Publish("vote", realtime.EventUpdate, id)
	return nil, nil
}

func (pr *postRoutes) voteComment(c *gin.Context) (interface{}, *util.HTTPError) {
	commentId, httpErr := util.ParseId(c.Param("commentId"))
	if httpErr != nil {
		return nil, httpErr
	}
	var req voteReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	err := pr.db.CastVote(c, middleware.GetAccess(c).UserId(),
		db.VoteTarget{CommentId: commentId}, req.Value)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	pr.hub.Publish("vote", realtime.EventUpdate, commentId)
	return nil, nil
}

type createCommentReq struct {
	ParentId int64  `json:"parentId"`
	Content  string `json:"content"`
}

func (pr *postRoutes) createComment(c *gin.Context) (interface{}, *util.HTTPError) {
	postId, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	var req createCommentReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	if req.Content == "" {
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "comment must not be empty",
		}
	}
	id, err := pr.db.CreateComment(c, &db.CreateComment{
		PostId:   postId,
		ParentId: req.ParentId,
		AuthorId: middleware.GetAccess(c).UserId(),
		Content:  util.XSSSanitize(req.Content),
	})
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	pr.hub.Publish("comment", realtime.EventInsert, id)
	return gin.H{
		"id": id,
	}, nil
}

func (pr *postRoutes) getComments(c *gin.Context) (interface{}, *util.HTTPError) {
	postId, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	forest, err := app.BuildCommentForest(c, pr.db, postId)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return forest, nil
}

func (pr *postRoutes) votePollOption(c *gin.Context) (interface{}, *util.HTTPError) {
	postId, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	optionId, httpErr := util.ParseId(c.Param("optionId"))
	if httpErr != nil {
		return nil, httpErr
	}
	if err := pr.db.VotePollOption(c, postId, optionId); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	pr.hub.Publish("poll_option", realtime.EventUpdate, optionId)
	return nil, nil
}

type pinReq struct {
	Pinned bool `json:"pinned"`
}

func (pr *postRoutes) pinPost(c *gin.Context) (interface{}, *util.HTTPError) {
	id, httpErr := util.ParseId(c.Param("id"))
	if httpErr != nil {
		return nil, httpErr
	}
	var req pinReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	if err := pr.db.SetPinned(c, id, req.Pinned); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	pr.hub.Publish("post", realtime.EventUpdate, id)
	return nil, nil
}

package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostel5/portal-be/db"
	"github.com/hostel5/portal-be/middleware"
	"github.com/hostel5/portal-be/model"
	"github.com/hostel5/portal-be/util"
)

type userRoutes struct {
	db db.Database
}

func AddUserRoutes(group *gin.RouterGroup, database db.Database, verifier middleware.TokenVerifier) {
	routes := userRoutes{database}
	users := group.Group("/users", middleware.GenAuth(database, verifier, &middleware.AuthConfig{
		ProfileNotRequired: true,
	}))
	users.PUT("", util.HandlerWrapper(routes.createProfile, &util.HandlerOpts{}))
	users.GET("/me", util.HandlerWrapper(routes.getMe, &util.HandlerOpts{}))
	users.PATCH("", util.HandlerWrapper(routes.updateProfile, &util.HandlerOpts{}))
}

type profileReq struct {
	FullName         string `json:"fullName"`
	RoomNumber       string `json:"roomNumber"`
	Phone            string `json:"phone"`
	Batch            string `json:"batch"`
	Branch           string `json:"branch"`
	EmergencyContact string `json:"emergencyContact"`
	EmergencyPhone   string `json:"emergencyPhone"`
}

// createProfile registers the signed-in account's profile. The profile
// starts unapproved; the council flips the flag from the roster manager.
func (ur *userRoutes) createProfile(c *gin.Context) (interface{}, *util.HTTPError) {
	var req profileReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	if req.FullName == "" {
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "full name must not be empty",
		}
	}
	access := middleware.GetAccess(c)
	email, _ := access.Token.Claims["email"].(string)
	if err := ur.db.CreateProfile(c, &model.Profile{
		Id:               access.UserId(),
		Email:            email,
		FullName:         util.XSSSanitize(req.FullName),
		RoomNumber:       req.RoomNumber,
		Phone:            req.Phone,
		Batch:            req.Batch,
		Branch:           req.Branch,
		AvatarUrl:        util.Avatar(access.UserId()),
		EmergencyContact: util.XSSSanitize(req.EmergencyContact),
		EmergencyPhone:   req.EmergencyPhone,
	}); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}

func (ur *userRoutes) getMe(c *gin.Context) (interface{}, *util.HTTPError) {
	access := middleware.GetAccess(c)
	if access.Profile == nil {
		return nil, &util.HTTPError{
			Status:  http.StatusNotFound,
			Message: "no profile for this account",
		}
	}
	return gin.H{
		"profile": access.Profile,
		"role":    access.Role,
	}, nil
}

func (ur *userRoutes) updateProfile(c *gin.Context) (interface{}, *util.HTTPError) {
	access := middleware.GetAccess(c)
	if access.Profile == nil {
		return nil, &util.HTTPError{
			Status:  http.StatusNotFound,
			Message: "no profile for this account",
		}
	}
	var req profileReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	if err := ur.db.UpdateProfile(c, access.UserId(), &db.UpdateProfile{
		FullName:         util.XSSSanitize(req.FullName),
		RoomNumber:       req.RoomNumber,
		Phone:            req.Phone,
		Batch:            req.Batch,
		Branch:           req.Branch,
		AvatarUrl:        access.Profile.AvatarUrl,
		EmergencyContact: util.XSSSanitize(req.EmergencyContact),
		EmergencyPhone:   req.EmergencyPhone,
	}); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}

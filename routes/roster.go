package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostel5/portal-be/controllers"
	"github.com/hostel5/portal-be/db"
	"github.com/hostel5/portal-be/middleware"
	"github.com/hostel5/portal-be/model"
	"github.com/hostel5/portal-be/util"
)

type rosterRoutes struct {
	controller *controllers.RosterController
}

// AddRosterRoutes mounts the council's roster manager. Every route is
// steward-only.
func AddRosterRoutes(group *gin.RouterGroup, database db.Database, controller *controllers.RosterController, verifier middleware.TokenVerifier) {
	routes := rosterRoutes{controller}
	roster := group.Group("/roster",
		middleware.GenAuth(database, verifier, &middleware.AuthConfig{}),
		middleware.RequireSteward())
	roster.GET("", util.HandlerWrapper(routes.listRoster, &util.HandlerOpts{}))
	roster.PUT("", util.HandlerWrapper(routes.createStudent, &util.HandlerOpts{}))
	roster.POST("/:id", util.HandlerWrapper(routes.updateStudent, &util.HandlerOpts{}))
	roster.POST("/:id/approval", util.HandlerWrapper(routes.setApproval, &util.HandlerOpts{}))
}

func (rr *rosterRoutes) listRoster(c *gin.Context) (interface{}, *util.HTTPError) {
	roster, err := rr.controller.ListRoster(c)
	if err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return roster, nil
}

type createStudentReq struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FullName   string `json:"fullName"`
	RoomNumber string `json:"roomNumber"`
	Phone      string `json:"phone"`
	Batch      string `json:"batch"`
	Branch     string `json:"branch"`
	IsSteward  bool   `json:"isSteward"`
}

func (rr *rosterRoutes) createStudent(c *gin.Context) (interface{}, *util.HTTPError) {
	var req createStudentReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	if req.Email == "" || req.FullName == "" {
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "email and full name must not be empty",
		}
	}
	if len(req.Password) < 6 {
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "password must be at least 6 characters",
		}
	}
	userId, httpErr := rr.controller.CreateStudent(c, &controllers.CreateStudent{
		Email:      req.Email,
		Password:   req.Password,
		FullName:   util.XSSSanitize(req.FullName),
		RoomNumber: req.RoomNumber,
		Phone:      req.Phone,
		Batch:      req.Batch,
		Branch:     req.Branch,
		IsSteward:  req.IsSteward,
	})
	if httpErr != nil {
		return nil, httpErr
	}
	return gin.H{
		"id": userId,
	}, nil
}

type updateStudentReq struct {
	Profile *profileReq `json:"profile"`
	Role    model.Role  `json:"role"`
}

func (rr *rosterRoutes) updateStudent(c *gin.Context) (interface{}, *util.HTTPError) {
	id := c.Param("id")
	var req updateStudentReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	switch req.Role {
	case "", model.RoleMember, model.RoleSteward:
	default:
		return nil, &util.HTTPError{
			Status:  http.StatusBadRequest,
			Message: "unknown role",
		}
	}
	update := &controllers.UpdateStudent{Role: req.Role}
	if req.Profile != nil {
		update.Profile = &db.UpdateProfile{
			FullName:         util.XSSSanitize(req.Profile.FullName),
			RoomNumber:       req.Profile.RoomNumber,
			Phone:            req.Profile.Phone,
			Batch:            req.Profile.Batch,
			Branch:           req.Profile.Branch,
			EmergencyContact: util.XSSSanitize(req.Profile.EmergencyContact),
			EmergencyPhone:   req.Profile.EmergencyPhone,
		}
	}
	outcome := rr.controller.UpdateStudent(c, id, update)
	if outcome.Ok() {
		return nil, nil
	}
	// the two writes are independent, report each on its own
	result := gin.H{}
	if outcome.ProfileError != nil {
		result["profileError"] = outcome.ProfileError.Error()
	}
	if outcome.RoleError != nil {
		result["roleError"] = outcome.RoleError.Error()
	}
	return nil, &util.HTTPError{
		Status:  statusForOutcome(outcome),
		Message: "update partially failed",
		Data:    result,
	}
}

func statusForOutcome(outcome *controllers.UpdateOutcome) int {
	for _, err := range []error{outcome.ProfileError, outcome.RoleError} {
		if err == nil {
			continue
		}
		if httpErr := util.BuildDbHTTPErr(err); httpErr.Status != http.StatusInternalServerError {
			return httpErr.Status
		}
	}
	return http.StatusInternalServerError
}

type setApprovalReq struct {
	Approved bool `json:"approved"`
}

func (rr *rosterRoutes) setApproval(c *gin.Context) (interface{}, *util.HTTPError) {
	id := c.Param("id")
	var req setApprovalReq
	if err := c.BindJSON(&req); err != nil {
		return nil, util.BuildJSONBindHTTPErr(err)
	}
	if err := rr.controller.SetApproval(c, id, req.Approved); err != nil {
		return nil, util.BuildDbHTTPErr(err)
	}
	return nil, nil
}

package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hostel5/portal-be/db"
	"github.com/hostel5/portal-be/model"
	"github.com/hostel5/portal-be/realtime"
	"github.com/hostel5/portal-be/util"
)

// IdentityAdmin is the slice of the identity service the roster manager
// needs to provision accounts.
type IdentityAdmin interface {
	CreateUser(ctx context.Context, email, password, fullName string) (string, error)
}

type CreateStudent struct {
	Email      string
	Password   string
	FullName   string
	RoomNumber string
	Phone      string
	Batch      string
	Branch     string
	IsSteward  bool
}

type UpdateStudent struct {
	Profile *db.UpdateProfile
	Role    model.Role
}

// UpdateOutcome keeps the profile write and the role write as distinct
// surfaces: either can fail while the other lands.
type UpdateOutcome struct {
	ProfileError error
	RoleError    error
}

func (o *UpdateOutcome) Ok() bool {
	return o.ProfileError == nil && o.RoleError == nil
}

// RosterController implements the council's roster operations. Creation is
// two-phase: the account lands in the identity store first, then the profile
// row. There is no compensating delete on a phase-two failure; the error
// names the orphaned account id so an operator can finish or undo by hand.
type RosterController struct {
	database db.Database
	identity IdentityAdmin
	hub      *realtime.Hub
	logger   zerolog.Logger
}

func NewRosterController(database db.Database, identity IdentityAdmin, hub *realtime.Hub, logger zerolog.Logger) *RosterController {
	return &RosterController{
		database: database,
		identity: identity,
		hub:      hub,
		logger:   logger,
	}
}

func (c *RosterController) ListRoster(ctx context.Context) ([]*model.ProfileWithRole, error) {
	return c.database.ListProfilesWithRoles(ctx)
}

// CreateStudent provisions an account and its profile, pre-approved since it
// was the council who created it. Returns the new account id.
func (c *RosterController) CreateStudent(ctx context.Context, req *CreateStudent) (string, *util.HTTPError) {
	userId, err := c.identity.CreateUser(ctx, req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, db.ErrConflict) {
			return "", &util.HTTPError{
				Status:  http.StatusConflict,
				Message: fmt.Sprintf("an account for %v already exists", req.Email),
			}
		}
		c.logger.Error().Err(err).Str("email", req.Email).Msg("identity store create failed")
		return "", &util.HTTPError{
			Status:  http.StatusBadGateway,
			Message: "identity store unavailable",
		}
	}

	profile := &model.Profile{
		Id:         userId,
		Email:      req.Email,
		FullName:   req.FullName,
		RoomNumber: req.RoomNumber,
		Phone:      req.Phone,
		Batch:      req.Batch,
		Branch:     req.Branch,
		AvatarUrl:  util.Avatar(userId),
		IsApproved: true,
	}
	if err := c.database.CreateProfile(ctx, profile); err != nil {
		c.logger.Error().Err(err).Str("userId", userId).Msg("profile create failed after account create")
		return "", &util.HTTPError{
			Status: http.StatusInternalServerError,
			Message: fmt.Sprintf(
				"account %v was created but its profile was not, finish or remove it manually", userId),
		}
	}
	if req.IsSteward {
		if err := c.database.SetRole(ctx, userId, model.RoleSteward); err != nil {
			c.logger.Error().Err(err).Str("userId", userId).Msg("role assignment failed")
			return "", &util.HTTPError{
				Status: http.StatusInternalServerError,
				Message: fmt.Sprintf(
					"account %v was created as a member, the council role was not assigned", userId),
			}
		}
	}
	c.hub.Publish("profile", realtime.EventInsert, 0)
	return userId, nil
}

// UpdateStudent applies the profile and role writes independently and
// reports each outcome. Roster edits never touch the avatar, so the stored
// one is carried through the profile write.
func (c *RosterController) UpdateStudent(ctx context.Context, userId string, req *UpdateStudent) *UpdateOutcome {
	outcome := &UpdateOutcome{}
	if req.Profile != nil {
		if current, err := c.database.GetProfile(ctx, userId); err == nil && current != nil {
			req.Profile.AvatarUrl = current.AvatarUrl
		}
		outcome.ProfileError = c.database.UpdateProfile(ctx, userId, req.Profile)
	}
	if req.Role != "" {
		outcome.RoleError = c.database.SetRole(ctx, userId, req.Role)
	}
	if outcome.Ok() {
		c.hub.Publish("profile", realtime.EventUpdate, 0)
	}
	return outcome
}

func (c *RosterController) SetApproval(ctx context.Context, userId string, approved bool) error {
	if err := c.database.SetApproval(ctx, userId, approved); err != nil {
		return err
	}
	c.hub.Publish("profile", realtime.EventUpdate, 0)
	return nil
}

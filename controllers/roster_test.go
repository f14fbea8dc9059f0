package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	appDb "github.com/hostel5/portal-be/db"
	"github.com/hostel5/portal-be/db/memory"
	"github.com/hostel5/portal-be/model"
	"github.com/hostel5/portal-be/realtime"
)

type fakeIdentity struct {
	nextId string
	err    error
	taken  map[string]bool
}

func (f *fakeIdentity) CreateUser(ctx context.Context, email, password, fullName string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.taken[email] {
		return "", fmt.Errorf("%w: account %v already exists", appDb.ErrConflict, email)
	}
	return f.nextId, nil
}

func newRosterController(identity *fakeIdentity) (*RosterController, *memory.MemoryDB) {
	mdb := memory.New()
	hub := realtime.NewHub(zerolog.Nop())
	return NewRosterController(mdb, identity, hub, zerolog.Nop()), mdb
}

func TestCreateStudentPreApproved(t *testing.T) {
	controller, mdb := newRosterController(&fakeIdentity{nextId: "uid-1"})
	ctx := context.Background()

	userId, httpErr := controller.CreateStudent(ctx, &CreateStudent{
		Email:    "asha@hostel.test",
		Password: "secret-1",
		FullName: "Asha",
	})
	if httpErr != nil {
		t.Fatalf("create student: %v", httpErr)
	}
	if userId != "uid-1" {
		t.Fatalf("expected uid-1, got %v", userId)
	}

	profile, err := mdb.GetProfile(ctx, "uid-1")
	if err != nil || profile == nil {
		t.Fatalf("expected profile row, got %v (%v)", profile, err)
	}
	if !profile.IsApproved {
		t.Fatalf("council-created accounts must be pre-approved")
	}
	role, err := mdb.GetRole(ctx, "uid-1")
	if err != nil || role != model.RoleMember {
		t.Fatalf("expected member role, got %v (%v)", role, err)
	}
}

func TestCreateStudentSteward(t *testing.T) {
	controller, mdb := newRosterController(&fakeIdentity{nextId: "uid-2"})
	ctx := context.Background()

	_, httpErr := controller.CreateStudent(ctx, &CreateStudent{
		Email:     "bala@hostel.test",
		Password:  "secret-1",
		FullName:  "Bala",
		IsSteward: true,
	})
	if httpErr != nil {
		t.Fatalf("create student: %v", httpErr)
	}
	role, err := mdb.GetRole(ctx, "uid-2")
	if err != nil || role != model.RoleSteward {
		t.Fatalf("expected steward role, got %v (%v)", role, err)
	}
}

func TestCreateStudentDuplicateEmail(t *testing.T) {
	identity := &fakeIdentity{taken: map[string]bool{"asha@hostel.test": true}}
	controller, mdb := newRosterController(identity)
	ctx := context.Background()

	_, httpErr := controller.CreateStudent(ctx, &CreateStudent{
		Email:    "asha@hostel.test",
		Password: "secret-1",
		FullName: "Asha",
	})
	if httpErr == nil || httpErr.Status != http.StatusConflict {
		t.Fatalf("expected 409, got %v", httpErr)
	}
	roster, err := mdb.ListProfilesWithRoles(ctx)
	if err != nil {
		t.Fatalf("list roster: %v", err)
	}
	if len(roster) != 0 {
		t.Fatalf("no profile row should exist after a rejected create")
	}
}

func TestCreateStudentOrphanedAccount(t *testing.T) {
	controller, mdb := newRosterController(&fakeIdentity{nextId: "uid-3"})
	ctx := context.Background()

	// a pre-existing profile row makes phase two fail after the account
	// already landed in the identity store
	if err := mdb.CreateProfile(ctx, &model.Profile{Id: "uid-3", FullName: "Stale"}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	_, httpErr := controller.CreateStudent(ctx, &CreateStudent{
		Email:    "chitra@hostel.test",
		Password: "secret-1",
		FullName: "Chitra",
	})
	if httpErr == nil {
		t.Fatalf("expected an error")
	}
	if !strings.Contains(httpErr.Message, "uid-3") {
		t.Fatalf("error must name the orphaned account id, got %q", httpErr.Message)
	}
}

func TestUpdateStudentDistinctSurfaces(t *testing.T) {
	controller, mdb := newRosterController(&fakeIdentity{})
	ctx := context.Background()

	// no profile row exists, but the role store accepts the write
	outcome := controller.UpdateStudent(ctx, "ghost", &UpdateStudent{
		Profile: &appDb.UpdateProfile{FullName: "Ghost"},
		Role:    model.RoleSteward,
	})
	if outcome.Ok() {
		t.Fatalf("expected a partial failure")
	}
	if !errors.Is(outcome.ProfileError, appDb.ErrNotFound) {
		t.Fatalf("expected profile not found, got %v", outcome.ProfileError)
	}
	if outcome.RoleError != nil {
		t.Fatalf("expected role write to land, got %v", outcome.RoleError)
	}
	role, err := mdb.GetRole(ctx, "ghost")
	if err != nil || role != model.RoleSteward {
		t.Fatalf("expected steward role, got %v (%v)", role, err)
	}
}

func TestUpdateStudentKeepsAvatar(t *testing.T) {
	controller, mdb := newRosterController(&fakeIdentity{})
	ctx := context.Background()

	if err := mdb.CreateProfile(ctx, &model.Profile{
		Id: "uid-5", FullName: "Esha", AvatarUrl: "https://example.com/custom.png",
	}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	outcome := controller.UpdateStudent(ctx, "uid-5", &UpdateStudent{
		Profile: &appDb.UpdateProfile{FullName: "Esha R"},
	})
	if !outcome.Ok() {
		t.Fatalf("update: %+v", outcome)
	}
	profile, err := mdb.GetProfile(ctx, "uid-5")
	if err != nil || profile == nil {
		t.Fatalf("get profile: %v (%v)", profile, err)
	}
	if profile.FullName != "Esha R" {
		t.Fatalf("expected updated name, got %v", profile.FullName)
	}
	if profile.AvatarUrl != "https://example.com/custom.png" {
		t.Fatalf("roster edit must not reset the avatar, got %v", profile.AvatarUrl)
	}
}

func TestSetApproval(t *testing.T) {
	controller, mdb := newRosterController(&fakeIdentity{nextId: "uid-4"})
	ctx := context.Background()

	if err := mdb.CreateProfile(ctx, &model.Profile{Id: "uid-4", FullName: "Dev"}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	if err := controller.SetApproval(ctx, "uid-4", true); err != nil {
		t.Fatalf("approve: %v", err)
	}
	profile, err := mdb.GetProfile(ctx, "uid-4")
	if err != nil || profile == nil || !profile.IsApproved {
		t.Fatalf("expected approved profile, got %v (%v)", profile, err)
	}
	if err := controller.SetApproval(ctx, "missing", true); !errors.Is(err, appDb.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

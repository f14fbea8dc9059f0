package mysqldb

import (
	"context"
	"fmt"

	"github.com/upper/db/v4"

	appDb "github.com/hostel5/portal-be/db"
	"github.com/hostel5/portal-be/model"
)

type ProfileDB struct {
	sess db.Session
}

func getProfileDB(sess db.Session) *ProfileDB {
	return &ProfileDB{sess}
}

func (pdb *ProfileDB) CreateProfile(ctx context.Context, profile *model.Profile) error {
	_, err := pdb.sess.Collection("profile").Insert(profile)
	if err != nil && appDb.IsDupKeyErr(err) {
		return fmt.Errorf("%w: profile %v already exists", appDb.ErrConflict, profile.Id)
	}
	return err
}

// GetProfile returns nil without error when no profile exists for the id.
func (pdb *ProfileDB) GetProfile(ctx context.Context, id string) (*model.Profile, error) {
	var profile model.Profile
	if err := pdb.sess.SQL().
		Select("*").
		From("profile").
		Where("firebase_id = ?", id).
		IteratorContext(ctx).
		One(&profile); err != nil {
		if err == db.ErrNoMoreRows {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (pdb *ProfileDB) GetProfiles(ctx context.Context, ids []string) (map[string]*model.Profile, error) {
	profiles := make(map[string]*model.Profile, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}
	var rows []*model.Profile
	if err := pdb.sess.SQL().
		Select("*").
		From("profile").
		Where("firebase_id IN ?", ids).
		IteratorContext(ctx).
		All(&rows); err != nil {
		return nil, err
	}
	for _, profile := range rows {
		profiles[profile.Id] = profile
	}
	return profiles, nil
}

func (pdb *ProfileDB) UpdateProfile(ctx context.Context, id string, req *appDb.UpdateProfile) error {
	if err := pdb.requireProfile(ctx, id); err != nil {
		return err
	}
	_, err := pdb.sess.SQL().
		Update("profile").
		Set(
			"full_name = ?, room_number = ?, phone = ?, batch = ?, branch = ?,"+
				" avatar_url = ?, emergency_contact = ?, emergency_phone = ?",
			req.FullName, req.RoomNumber, req.Phone, req.Batch, req.Branch,
			req.AvatarUrl, req.EmergencyContact, req.EmergencyPhone).
		Where("firebase_id = ?", id).
		ExecContext(ctx)
	return err
}

func (pdb *ProfileDB) SetApproval(ctx context.Context, id string, approved bool) error {
	if err := pdb.requireProfile(ctx, id); err != nil {
		return err
	}
	_, err := pdb.sess.SQL().
		Update("profile").
		Set("is_approved = ?", approved).
		Where("firebase_id = ?", id).
		ExecContext(ctx)
	return err
}

func (pdb *ProfileDB) requireProfile(ctx context.Context, id string) error {
	profile, err := pdb.GetProfile(ctx, id)
	if err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("%w: profile %v", appDb.ErrNotFound, id)
	}
	return nil
}

type flattenedProfileWithRole struct {
	model.Profile `db:",inline"`
	Role          model.Role `db:"role"`
}

func (pdb *ProfileDB) ListProfilesWithRoles(ctx context.Context) ([]*model.ProfileWithRole, error) {
	var flattened []flattenedProfileWithRole
	if err := pdb.sess.SQL().
		Select(db.Raw("p.*"), db.Raw("COALESCE(r.role, 'member') AS role")).
		From("profile AS p").
		LeftJoin("user_role AS r").On("p.firebase_id = r.user_id").
		OrderBy("p.full_name").
		IteratorContext(ctx).
		All(&flattened); err != nil {
		return nil, err
	}
	profiles := make([]*model.ProfileWithRole, len(flattened))
	for i := range flattened {
		profiles[i] = &model.ProfileWithRole{
			Profile: &flattened[i].Profile,
			Role:    flattened[i].Role,
		}
	}
	return profiles, nil
}

// GetRole defaults to member when no role row exists; a missing row never
// fails the lookup.
func (pdb *ProfileDB) GetRole(ctx context.Context, userId string) (model.Role, error) {
	var row struct {
		Role model.Role `db:"role"`
	}
	if err := pdb.sess.SQL().
		Select("role").
		From("user_role").
		Where("user_id = ?", userId).
		IteratorContext(ctx).
		One(&row); err != nil {
		if err == db.ErrNoMoreRows {
			return model.RoleMember, nil
		}
		return model.RoleMember, err
	}
	return row.Role, nil
}

func (pdb *ProfileDB) SetRole(ctx context.Context, userId string, role model.Role) error {
	_, err := pdb.sess.SQL().ExecContext(ctx, db.Raw(
		"INSERT INTO user_role (user_id, role) VALUES (?, ?)"+
			" ON DUPLICATE KEY UPDATE role = VALUES(role)",
		userId, string(role)))
	return err
}

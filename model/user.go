package model

import "time"

// Role is the closed set of access levels. Every gated operation switches over
// it exhaustively instead of comparing strings.
type Role string

const (
	RoleMember  Role = "member"
	RoleSteward Role = "steward"
)

// Profile holds the local account data relevant to the application (outside of firebase)
type Profile struct {
	Id               string    `db:"firebase_id" json:"id"`
	Email            string    `db:"email" json:"email"`
	FullName         string    `db:"full_name" json:"fullName"`
	RoomNumber       string    `db:"room_number" json:"roomNumber,omitempty"`
	Phone            string    `db:"phone" json:"phone,omitempty"`
	Batch            string    `db:"batch" json:"batch,omitempty"`
	Branch           string    `db:"branch" json:"branch,omitempty"`
	AvatarUrl        string    `db:"avatar_url" json:"avatarUrl,omitempty"`
	EmergencyContact string    `db:"emergency_contact" json:"emergencyContact,omitempty"`
	EmergencyPhone   string    `db:"emergency_phone" json:"emergencyPhone,omitempty"`
	IsApproved       bool      `db:"is_approved" json:"isApproved"`
	CreatedAt        time.Time `db:"created_at,omitempty" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at,omitempty" json:"updatedAt"`
}

type ProfileWithRole struct {
	*Profile
	Role Role `db:"role" json:"role"`
}

// Author is the display subset of a profile attached to feed items and
// comments. A post whose profile lookup fails gets a placeholder Author rather
// than failing the feed.
type Author struct {
	Id       string `json:"id"`
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
}

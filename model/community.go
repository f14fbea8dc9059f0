package model

import "time"

// Channel is a named topic grouping posts ("community" in the UI). Immutable
// once created; only stewards may create one.
type Channel struct {
	Id          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	IconUrl     string    `db:"icon_url" json:"iconUrl,omitempty"`
	CreatedBy   string    `db:"created_by" json:"createdBy"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

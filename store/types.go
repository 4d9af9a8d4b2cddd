package store

import (
	"strings"
	"time"
)

// Status is stored by ordinal.
type Status int

const (
	StatusActive Status = iota
	StatusSuspended
	StatusDeleted
)

// Plan is stored by name.
type Plan string

const (
	PlanFree Plan = "FREE"
	PlanPro  Plan = "PRO"
)

// Cents has no declared constants, so it binds through its underlying int64.
type Cents int64

// Address is embedded into User columns with a prefix.
type Address struct {
	Street string `db:"street"`
	City   string `db:"city"`
}

// Profile is never persisted; it only feeds bound expressions.
type Profile struct {
	First string
	Last  string
	Owner *User
}

// DisplayName joins the non-empty name parts.
func (p Profile) DisplayName() string {
	return strings.TrimSpace(p.First + " " + p.Last)
}

// User is the row shape of the users table.
type User struct {
	ID        int64     `db:"id"`
	Email     string    `db:"email"`
	Status    Status    `db:"status"`
	Plan      Plan      `db:"plan"`
	Balance   Cents     `db:"balance"`
	Score     *float64  `db:"score"`
	Avatar    []byte    `db:"avatar"`
	CreatedAt time.Time `db:"created_at"`
	Home      Address   `db:",prefix=home_"`
	Profile   *Profile  `db:"-"`

	note string
}

// Users is a list-shaped result type.
type Users []User

// UserSummary is materialized by a hand-written row routine.
type UserSummary struct {
	ID    int64
	Label string
}

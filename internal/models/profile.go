package models

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleExpert Role = "expert"
	RoleFarmer Role = "farmer"
)

type ProfileStatus string

const (
	ProfilePending  ProfileStatus = "pending"
	ProfileApproved ProfileStatus = "approved"
	ProfileRejected ProfileStatus = "rejected"
)

// AuthUser is the credential row. Profile carries everything else; the two
// are created together at registration and the auth row is rolled back if
// the profile insert fails.
type AuthUser struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Profile is the single authoritative source for role and status. Tokens
// never carry role claims; every gated request re-reads this row.
type Profile struct {
	ID        string        `db:"id" json:"id"`
	Email     string        `db:"email" json:"email"`
	Username  string        `db:"username" json:"username"`
	FullName  string        `db:"full_name" json:"full_name"`
	Role      Role          `db:"role" json:"role"`
	Status    ProfileStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// CanAccessDashboard applies the gate: farmers never, experts only once
// approved, admins always.
func (p *Profile) CanAccessDashboard() bool {
	switch p.Role {
	case RoleAdmin:
		return true
	case RoleExpert:
		return p.Status == ProfileApproved
	default:
		return false
	}
}

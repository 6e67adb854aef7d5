package types

import "time"

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Voter account statuses. A freshly registered account is pending until an
// administrator approves it; only approved accounts can authenticate.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// User represents a voter or administrator account.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Username is the unique login name chosen by the user.
	Username string `json:"username" db:"username"`

	// Email is the user's email address. Immutable after registration.
	Email string `json:"email" db:"email"`

	// Name is the user's display or full name.
	Name string `json:"name" db:"name"`

	// Phone is the user's contact phone number.
	Phone string `json:"phone" db:"phone"`

	// Address is the user's postal address.
	Address string `json:"address" db:"address"`

	// Role indicates the user's authorization level within the system,
	// either "user" (voter) or "admin".
	Role string `json:"role" db:"role"`

	// VoterID is the public voter registration number assigned at signup
	// (e.g. "V00123"). Immutable.
	VoterID string `json:"voterId" db:"voter_id"`

	// Status is the approval state of the account, "pending" or "approved".
	Status string `json:"status" db:"status"`

	// AvatarKey is the object storage key of the user's avatar image, empty
	// when no avatar has been uploaded.
	AvatarKey string `json:"avatar,omitempty" db:"avatar_key"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// RegistrationDate is the timestamp when the account was created.
	RegistrationDate time.Time `json:"registrationDate" db:"registration_date"`

	// UpdatedAt is the timestamp of the most recent update to the account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

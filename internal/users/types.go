package users

import "time"

// User mirrors a row of the users table. Password holds the bcrypt hash,
// never the plaintext; it is replaced in full on a password change.
type User struct {
	ID        int64
	Username  string
	Email     string
	Password  string
	CreatedAt time.Time
}

// CreateUserParams contains the fields for inserting a new user.
// Password must already be hashed.
type CreateUserParams struct {
	Username string
	Email    string
	Password string
}

// UpdateUserParams describes a partial update; nil fields are left untouched.
type UpdateUserParams struct {
	ID       int64
	Username *string
	Email    *string
	Password *string
}

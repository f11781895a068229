package models

import "time"

// User is an account that can sign in to the dashboard.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Firstname    string    `db:"firstname" json:"firstname"`
	Lastname     string    `db:"lastname" json:"lastname"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	UserType     string    `db:"user_type" json:"user_type"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// UserPatch lists the profile columns an update may touch. Nil fields are left as is.
type UserPatch struct {
	Firstname    *string
	Lastname     *string
	Email        *string
	PasswordHash *string
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Firstname == nil && p.Lastname == nil && p.Email == nil && p.PasswordHash == nil
}

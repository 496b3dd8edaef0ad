package models

import (
	"time"
)

// User is an account that can author comments
type User struct {
	ID           string    `json:"_id" bson:"_id" db:"id"`
	Username     string    `json:"username" bson:"username" db:"username"`
	Firstname    string    `json:"firstname" bson:"firstname" db:"firstname"`
	Lastname     string    `json:"lastname" bson:"lastname" db:"lastname"`
	Admin        bool      `json:"admin" bson:"admin" db:"admin"`
	PasswordHash string    `json:"-" bson:"passwordHash" db:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updatedAt" db:"updated_at"`
}

// View returns the public representation of the user
func (u *User) View() *UserView {
	return &UserView{
		ID:        u.ID,
		Username:  u.Username,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		Admin:     u.Admin,
	}
}

// SignupRequest is the body of POST /users/signup
type SignupRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

// LoginRequest is the body of POST /users/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// MinPasswordLength is the shortest password accepted at signup
const MinPasswordLength = 6

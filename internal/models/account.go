package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// Account roles. Admins may moderate any writeup and manage accounts.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account represents a registered user (PostgreSQL). FirebaseUID is set only
// for accounts provisioned through the Firebase identity provider.
type Account struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Username    string    `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email       string    `json:"email" gorm:"uniqueIndex;not null"`
	Password    string    `json:"-"`
	Avatar      string    `json:"avatar"`
	Bio         string    `json:"bio"`
	Role        string    `json:"role" gorm:"size:20;default:user"`
	FirebaseUID *string   `json:"-" gorm:"uniqueIndex"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsAdmin reports whether the account holds the admin role.
func (a *Account) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// AccountSummary is the public subset of an account embedded in feeds,
// comments and notifications.
type AccountSummary struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// ToSummary projects the account onto its public fields.
func (a *Account) ToSummary() AccountSummary {
	return AccountSummary{ID: a.ID, Username: a.Username, Avatar: a.Avatar}
}

// RegisterRequest defines the request body for account registration. IDToken
// is a Firebase ID token; when present it is verified and its UID linked to
// the new account, which is what the firebase resolver later matches on.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	IDToken  string `json:"id_token" validate:"omitempty"`
}

// LoginRequest defines the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest defines the request body for profile updates. Fields
// absent from the request stay nil and keep their stored values.
type UpdateProfileRequest struct {
	Avatar *string `json:"avatar" validate:"omitempty,url"`
	Bio    *string `json:"bio" validate:"omitempty,max=500"`
}

// AccountClaims are the JWT claims carried by locally issued tokens.
type AccountClaims struct {
	AccountID uint   `json:"account_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

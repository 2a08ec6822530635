package models

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"hemp-commons/internal/utils"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleModerator:
		return true
	}
	return false
}

// DateLayout is the calendar-date marker used for last_login and joined_at.
const DateLayout = "2006-01-02"

type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	PasswordHash  string `json:"password_hash,omitempty"` // simulated, compared verbatim
	HempPoints    int    `json:"hemp_points"`
	Avatar        string `json:"avatar"`
	Location      string `json:"location"`
	Bio           string `json:"bio,omitempty"`
	IsVerifiedAge bool   `json:"is_verified_age"`
	Role          Role   `json:"role"`
	IsPremium     bool   `json:"is_premium"`
	JoinedAt      string `json:"joined_at"`
	LastLogin     string `json:"last_login,omitempty"`
}

// Public returns a copy without the password field.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// PlaceholderUser stands in for an author record that can no longer be found.
func PlaceholderUser(id string) User {
	return User{
		ID:       id,
		Username: "Unknown Member",
		Avatar:   DefaultAvatar("unknown"),
		Location: "Nepal",
		Role:     RoleUser,
	}
}

func DefaultAvatar(seed string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + url.QueryEscape(seed)
}

// NewUserInput carries registration fields.
type NewUserInput struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	Location      string `json:"location"`
	Bio           string `json:"bio"`
	Avatar        string `json:"avatar"`
	IsVerifiedAge bool   `json:"is_verified_age"`
}

func (in NewUserInput) Validate() error {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return utils.NewInvalidInputError("email is required")
	}
	if !strings.Contains(email, "@") {
		return utils.NewInvalidInputError(fmt.Sprintf("invalid email address: %s", email))
	}
	if strings.TrimSpace(in.Username) == "" {
		return utils.NewInvalidInputError("username is required")
	}
	return nil
}

// NewUser builds a fresh account with a zero balance. The registration bonus
// is credited separately through the points ledger.
func NewUser(id string, in NewUserInput, now time.Time) User {
	username := strings.TrimSpace(in.Username)
	user := User{
		ID:            id,
		Username:      username,
		Email:         strings.TrimSpace(in.Email),
		PasswordHash:  in.Password,
		HempPoints:    0,
		Avatar:        in.Avatar,
		Location:      in.Location,
		Bio:           in.Bio,
		IsVerifiedAge: in.IsVerifiedAge,
		Role:          RoleUser,
		JoinedAt:      now.UTC().Format(DateLayout),
	}
	if user.Avatar == "" {
		user.Avatar = DefaultAvatar(username)
	}
	if user.Location == "" {
		user.Location = "Nepal"
	}
	return user
}

// UserUpdate is a partial profile edit. Nil fields are left untouched.
// Points, email and identity are not editable through it.
type UserUpdate struct {
	Username      *string `json:"username,omitempty"`
	Avatar        *string `json:"avatar,omitempty"`
	Location      *string `json:"location,omitempty"`
	Bio           *string `json:"bio,omitempty"`
	IsVerifiedAge *bool   `json:"is_verified_age,omitempty"`
	IsPremium     *bool   `json:"is_premium,omitempty"`
	Role          *Role   `json:"role,omitempty"`
	LastLogin     *string `json:"last_login,omitempty"`
}

func (u UserUpdate) Validate() error {
	if u.Username != nil && strings.TrimSpace(*u.Username) == "" {
		return utils.NewInvalidInputError("username cannot be empty")
	}
	if u.Role != nil && !u.Role.Valid() {
		return utils.NewInvalidInputError(fmt.Sprintf("unknown role: %s", *u.Role))
	}
	return nil
}

func (u UserUpdate) Apply(user *User) {
	if u.Username != nil {
		user.Username = strings.TrimSpace(*u.Username)
	}
	if u.Avatar != nil {
		user.Avatar = *u.Avatar
	}
	if u.Location != nil {
		user.Location = *u.Location
	}
	if u.Bio != nil {
		user.Bio = *u.Bio
	}
	if u.IsVerifiedAge != nil {
		user.IsVerifiedAge = *u.IsVerifiedAge
	}
	if u.IsPremium != nil {
		user.IsPremium = *u.IsPremium
	}
	if u.Role != nil {
		user.Role = *u.Role
	}
	if u.LastLogin != nil {
		user.LastLogin = *u.LastLogin
	}
}

// UserStats is the derived profile summary.
type UserStats struct {
	PostsCount     int `json:"postsCount"`
	CommentsCount  int `json:"commentsCount"`
	FollowersCount int `json:"followersCount"`
	FollowingCount int `json:"followingCount"`
	Rank           int `json:"rank"`
}

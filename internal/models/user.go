// Package models contains data structures for the application's domain models.
package models

import "time"

// Role is the authorization role of a user.
type Role string

const (
	// RoleUser is the default role for registered users.
	RoleUser Role = "user"
	// RoleAdmin grants access to moderation endpoints.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Availability describes when a user is free to swap skills.
type Availability string

const (
	AvailabilityWeekdays Availability = "weekdays"
	AvailabilityWeekends Availability = "weekends"
	AvailabilityEvenings Availability = "evenings"
	AvailabilityMornings Availability = "mornings"
	AvailabilityAnytime  Availability = "anytime"
)

// Valid reports whether a is a known availability value.
func (a Availability) Valid() bool {
	switch a {
	case AvailabilityWeekdays, AvailabilityWeekends, AvailabilityEvenings, AvailabilityMornings, AvailabilityAnytime:
		return true
	}
	return false
}

// Visibility controls whether a profile can be viewed by other users.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether v is a known visibility value.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// User is a registered account. Its JSON form is the full profile returned to
// the owner; other users only ever see UserPublic.
type User struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Email        string       `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Username     string       `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	PasswordHash string       `gorm:"column:hashed_password;not null" json:"-"`
	Name         string       `gorm:"type:varchar(100);not null" json:"name"`
	Location     *string      `gorm:"type:varchar(100)" json:"location"`
	ProfilePhoto *string      `gorm:"type:varchar(255)" json:"profile_photo"`
	Bio          *string      `gorm:"type:text" json:"bio"`
	Availability Availability `gorm:"type:varchar(20);not null;default:'anytime'" json:"availability"`
	Visibility   Visibility   `gorm:"type:varchar(20);not null;default:'public'" json:"visibility"`
	Role         Role         `gorm:"type:varchar(20);not null;default:'user';index" json:"role"`
	IsActive     bool         `gorm:"not null" json:"is_active"`
	IsBanned     bool         `gorm:"not null;index" json:"is_banned"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserPublic is the projection of a user that is safe to show to anyone.
type UserPublic struct {
	ID           uint         `json:"id"`
	Username     string       `json:"username"`
	Name         string       `json:"name"`
	Location     *string      `json:"location"`
	ProfilePhoto *string      `json:"profile_photo"`
	Bio          *string      `json:"bio"`
	Availability Availability `json:"availability"`
	CreatedAt    time.Time    `json:"created_at"`
}

// Public returns the public projection of u.
func (u *User) Public() UserPublic {
	return UserPublic{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.Name,
		Location:     u.Location,
		ProfilePhoto: u.ProfilePhoto,
		Bio:          u.Bio,
		Availability: u.Availability,
		CreatedAt:    u.CreatedAt,
	}
}

// PublicUsers maps a slice of users to their public projections.
func PublicUsers(users []User) []UserPublic {
	out := make([]UserPublic, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out
}

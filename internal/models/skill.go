package models

import "time"

// SkillStatus is the moderation status of an offered skill.
type SkillStatus string

const (
	// SkillStatusPending marks a skill awaiting admin review.
	SkillStatusPending SkillStatus = "pending"
	// SkillStatusApproved marks a skill visible in search.
	SkillStatusApproved SkillStatus = "approved"
	// SkillStatusRejected marks a skill hidden by an admin.
	SkillStatusRejected SkillStatus = "rejected"
)

// Valid reports whether s is a known moderation status.
func (s SkillStatus) Valid() bool {
	switch s {
	case SkillStatusPending, SkillStatusApproved, SkillStatusRejected:
		return true
	}
	return false
}

// SkillType distinguishes offered from wanted skills in search results.
type SkillType string

const (
	SkillTypeOffered SkillType = "offered"
	SkillTypeWanted  SkillType = "wanted"
)

// Valid reports whether t is a known skill type.
func (t SkillType) Valid() bool {
	return t == SkillTypeOffered || t == SkillTypeWanted
}

// SkillOffered is a skill a user can teach.
type SkillOffered struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	UserID      uint        `gorm:"not null;index" json:"user_id"`
	Name        string      `gorm:"type:varchar(100);not null;index" json:"name"`
	Description *string     `gorm:"type:text" json:"description"`
	Status      SkillStatus `gorm:"type:varchar(20);not null;default:'approved';index" json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (SkillOffered) TableName() string {
	return "skills_offered"
}

// SkillWanted is a skill a user would like to learn.
type SkillWanted struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	Name        string    `gorm:"type:varchar(100);not null;index" json:"name"`
	Description *string   `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (SkillWanted) TableName() string {
	return "skills_wanted"
}

// SkillSearchResult is one row of a combined offered/wanted skill search.
type SkillSearchResult struct {
	SkillType   SkillType `json:"skill_type"`
	SkillID     uint      `json:"skill_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	UserID      uint      `json:"user_id"`
	Username    string    `json:"username"`
	UserName    string    `json:"user_name"`
}

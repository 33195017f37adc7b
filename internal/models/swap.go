package models

import "time"

// SwapStatus represents a step in the swap lifecycle.
type SwapStatus string

const (
	// SwapStatusPending is the initial status of every swap.
	SwapStatusPending SwapStatus = "pending"
	// SwapStatusAccepted means the provider agreed to the swap.
	SwapStatusAccepted SwapStatus = "accepted"
	// SwapStatusRejected means the provider declined the swap.
	SwapStatusRejected SwapStatus = "rejected"
	// SwapStatusCancelled means the requester withdrew the swap.
	SwapStatusCancelled SwapStatus = "cancelled"
	// SwapStatusCompleted means a participant marked the swap done.
	SwapStatusCompleted SwapStatus = "completed"
)

// AllSwapStatuses lists every status in lifecycle order.
var AllSwapStatuses = []SwapStatus{
	SwapStatusPending,
	SwapStatusAccepted,
	SwapStatusRejected,
	SwapStatusCancelled,
	SwapStatusCompleted,
}

// Valid reports whether s is a known swap status.
func (s SwapStatus) Valid() bool {
	for _, known := range AllSwapStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible from s.
func (s SwapStatus) IsTerminal() bool {
	return s == SwapStatusRejected || s == SwapStatusCancelled || s == SwapStatusCompleted
}

// Swap is a proposed exchange between a requester and a provider.
type Swap struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	RequesterID    uint       `gorm:"not null;index" json:"requester_id"`
	ProviderID     uint       `gorm:"not null;index" json:"provider_id"`
	SkillOfferedID *uint      `gorm:"index" json:"skill_offered_id"`
	SkillWantedID  *uint      `gorm:"index" json:"skill_wanted_id"`
	Message        *string    `gorm:"type:text" json:"message"`
	Status         SwapStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	CompletedAt    *time.Time `json:"completed_at"`

	Requester    *User         `gorm:"foreignKey:RequesterID;constraint:OnDelete:CASCADE" json:"-"`
	Provider     *User         `gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE" json:"-"`
	SkillOffered *SkillOffered `gorm:"foreignKey:SkillOfferedID;constraint:OnDelete:SET NULL" json:"-"`
	SkillWanted  *SkillWanted  `gorm:"foreignKey:SkillWantedID;constraint:OnDelete:SET NULL" json:"-"`
}

// TableName specifies the table name for GORM
func (Swap) TableName() string {
	return "swaps"
}

// IsParticipant reports whether userID is the requester or the provider.
func (s *Swap) IsParticipant(userID uint) bool {
	return s.RequesterID == userID || s.ProviderID == userID
}

// SwapWithDetails is a swap with its participants and skills embedded.
type SwapWithDetails struct {
	Swap
	RequesterInfo    *UserPublic   `json:"requester"`
	ProviderInfo     *UserPublic   `json:"provider"`
	SkillOfferedInfo *SkillOffered `json:"skill_offered"`
	SkillWantedInfo  *SkillWanted  `json:"skill_wanted"`
}

// Details builds the detailed view from preloaded associations.
func (s *Swap) Details() SwapWithDetails {
	out := SwapWithDetails{
		Swap:             *s,
		SkillOfferedInfo: s.SkillOffered,
		SkillWantedInfo:  s.SkillWanted,
	}
	if s.Requester != nil {
		p := s.Requester.Public()
		out.RequesterInfo = &p
	}
	if s.Provider != nil {
		p := s.Provider.Public()
		out.ProviderInfo = &p
	}
	return out
}

// SwapDetails maps swaps to their detailed views.
func SwapDetails(swaps []Swap) []SwapWithDetails {
	out := make([]SwapWithDetails, 0, len(swaps))
	for i := range swaps {
		out = append(out, swaps[i].Details())
	}
	return out
}

package models

import "time"

// Rating bounds for feedback, inclusive.
const (
	MinRating = 1.0
	MaxRating = 5.0
)

// Feedback is a one-directional rating left by a swap participant after completion.
type Feedback struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SwapID     uint      `gorm:"not null;uniqueIndex:idx_feedback_swap_giver" json:"swap_id"`
	GiverID    uint      `gorm:"not null;uniqueIndex:idx_feedback_swap_giver;index" json:"giver_id"`
	ReceiverID uint      `gorm:"not null;index" json:"receiver_id"`
	Rating     float64   `gorm:"not null" json:"rating"`
	Comment    *string   `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Swap     *Swap `gorm:"foreignKey:SwapID;constraint:OnDelete:CASCADE" json:"-"`
	Giver    *User `gorm:"foreignKey:GiverID;constraint:OnDelete:CASCADE" json:"-"`
	Receiver *User `gorm:"foreignKey:ReceiverID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (Feedback) TableName() string {
	return "feedback"
}

// FeedbackWithDetails embeds the public profiles of giver and receiver.
type FeedbackWithDetails struct {
	Feedback
	GiverInfo    *UserPublic `json:"giver"`
	ReceiverInfo *UserPublic `json:"receiver"`
}

// Details builds the detailed view from preloaded associations.
func (f *Feedback) Details() FeedbackWithDetails {
	out := FeedbackWithDetails{Feedback: *f}
	if f.Giver != nil {
		p := f.Giver.Public()
		out.GiverInfo = &p
	}
	if f.Receiver != nil {
		p := f.Receiver.Public()
		out.ReceiverInfo = &p
	}
	return out
}

// FeedbackDetails maps feedback rows to their detailed views.
func FeedbackDetails(rows []Feedback) []FeedbackWithDetails {
	out := make([]FeedbackWithDetails, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].Details())
	}
	return out
}

// PlatformStats is the admin dashboard summary.
type PlatformStats struct {
	TotalUsers         int64                `json:"total_users"`
	ActiveUsers        int64                `json:"active_users"`
	TotalSkillsOffered int64                `json:"total_skills_offered"`
	TotalSkillsWanted  int64                `json:"total_skills_wanted"`
	SwapsByStatus      map[SwapStatus]int64 `json:"swaps_by_status"`
	TotalSwaps         int64                `json:"total_swaps"`
}

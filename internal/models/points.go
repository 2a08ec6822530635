package models

import "time"

// Ledger reasons.
const (
	ReasonRegister            = "Registration Bonus"
	ReasonDailyLogin          = "Daily Login"
	ReasonCreatePost          = "Created Post"
	ReasonCreateComment       = "Commented"
	ReasonReceiveLike         = "Received Like"
	ReasonProfileComplete     = "Profile Completion"
	ReasonAnimalWelfare       = "Animal Welfare Activity"
	ReasonDonation            = "Donation to Animal Shelter"
	ReasonPremiumBonus        = "Premium Subscription Bonus"
	ReasonMarketplacePurchase = "Marketplace Purchase Reward"
	ReasonCourseCompletion    = "Course Completion"
	ReasonVotingReward        = "Governance Participation"
)

// PointHistory is one signed ledger row. For each user the rows sum to the
// user's current balance.
type PointHistory struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Points    int       `json:"points"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

package models

import (
	"fmt"
	"strings"
	"time"

	"hemp-commons/internal/utils"
)

type WelfareType string

const (
	WelfareDonation  WelfareType = "Donation"
	WelfareVolunteer WelfareType = "Volunteer"
	WelfareRescue    WelfareType = "Rescue"
)

func (t WelfareType) Valid() bool {
	switch t {
	case WelfareDonation, WelfareVolunteer, WelfareRescue:
		return true
	}
	return false
}

type WelfareActivity struct {
	ID             string      `json:"id"`
	UserID         string      `json:"user_id"`
	Type           WelfareType `json:"type"`
	Description    string      `json:"description"`
	Hours          float64     `json:"hours"`
	DonationAmount int         `json:"donation_amount"`
	ProofURL       string      `json:"proof_url"`
	Verified       bool        `json:"verified"`
	CreatedAt      time.Time   `json:"created_at"`
}

type WelfareActivityInput struct {
	UserID         string      `json:"user_id"`
	Type           WelfareType `json:"type"`
	Description    string      `json:"description"`
	Hours          float64     `json:"hours"`
	DonationAmount int         `json:"donation_amount"`
	ProofURL       string      `json:"proof_url"`
}

func (in WelfareActivityInput) Validate() error {
	if strings.TrimSpace(in.UserID) == "" {
		return utils.NewInvalidInputError("user_id is required")
	}
	if in.Type != "" && !in.Type.Valid() {
		return utils.NewInvalidInputError(fmt.Sprintf("unknown welfare activity type: %q", in.Type))
	}
	if in.Hours < 0 || in.DonationAmount < 0 {
		return utils.NewInvalidInputError("hours and donation amount cannot be negative")
	}
	return nil
}

func NewWelfareActivity(id string, in WelfareActivityInput, verified bool, now time.Time) WelfareActivity {
	kind := in.Type
	if kind == "" {
		kind = WelfareVolunteer
	}
	return WelfareActivity{
		ID:             id,
		UserID:         in.UserID,
		Type:           kind,
		Description:    in.Description,
		Hours:          in.Hours,
		DonationAmount: in.DonationAmount,
		ProofURL:       in.ProofURL,
		Verified:       verified,
		CreatedAt:      now,
	}
}

type WelfareStats struct {
	TotalActivities     int     `json:"total_activities"`
	TotalVolunteerHours float64 `json:"total_volunteer_hours"`
	TotalDonations      int     `json:"total_donations"`
}

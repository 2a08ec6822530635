package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"hemp-commons/internal/utils"
)

const CurrencyNPR = "NPR"

type Product struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	ImageURL      string          `json:"image_url"`
	AffiliateLink string          `json:"affiliate_link"`
	Rating        float64         `json:"rating"`
	Category      string          `json:"category"`
	IsFeatured    bool            `json:"is_featured,omitempty"`
	Clicks        int             `json:"clicks"`
}

// AffiliateClick is an append-only click event. UserID is empty for anonymous clicks.
type AffiliateClick struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type RevenueSource string

const (
	RevenueAffiliate RevenueSource = "affiliate"
	RevenueSponsored RevenueSource = "sponsored_post"
	RevenuePremium   RevenueSource = "premium_subscription"
)

type RevenueRecord struct {
	ID          string          `json:"id"`
	Source      RevenueSource   `json:"source"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
}

type UserEngagement struct {
	TotalUsers       int `json:"total_users"`
	PostsToday       int `json:"posts_today"`
	ActiveUsersToday int `json:"active_users_today"`
}

type BusinessMetrics struct {
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	DailyRevenue       decimal.Decimal `json:"daily_revenue"`
	AffiliateClicks    int             `json:"affiliate_clicks"`
	PremiumSubscribers int             `json:"premium_subscribers"`
	ActiveCampaigns    int             `json:"active_campaigns"`
	UserEngagement     UserEngagement  `json:"user_engagement"`
}

type PremiumPlan string

const (
	PlanMonthly PremiumPlan = "monthly"
	PlanYearly  PremiumPlan = "yearly"
)

// Price returns the subscription charge in NPR.
func (p PremiumPlan) Price() (decimal.Decimal, error) {
	switch p {
	case PlanMonthly:
		return decimal.NewFromInt(500), nil
	case PlanYearly:
		return decimal.NewFromInt(5000), nil
	}
	return decimal.Zero, utils.NewInvalidInputError(fmt.Sprintf("unknown premium plan: %q", p))
}

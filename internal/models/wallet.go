package models

import (
	"fmt"
	"strings"
	"time"

	"hemp-commons/internal/utils"
)

type Chain string

const (
	ChainSolana   Chain = "Solana"
	ChainPolygon  Chain = "Polygon"
	ChainEthereum Chain = "Ethereum"
)

func (c Chain) Valid() bool {
	switch c {
	case ChainSolana, ChainPolygon, ChainEthereum:
		return true
	}
	return false
}

// WalletAddress is a display-only address; there is at most one per user.
type WalletAddress struct {
	UserID    string    `json:"user_id"`
	Address   string    `json:"address"`
	Chain     Chain     `json:"chain"`
	Verified  bool      `json:"verified"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ValidateWallet(address string, chain Chain) error {
	if strings.TrimSpace(address) == "" {
		return utils.NewInvalidInputError("wallet address is required")
	}
	if !chain.Valid() {
		return utils.NewInvalidInputError(fmt.Sprintf("unsupported chain: %q", chain))
	}
	return nil
}

// DefaultConversionRate is points per token.
const DefaultConversionRate = 100

type TokenConversion struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	HempPoints      int       `json:"hemp_points"`
	EstimatedTokens int       `json:"estimated_tokens"`
	ConversionRate  int       `json:"conversion_rate"`
	Timestamp       time.Time `json:"timestamp"`
}

// EstimateTokens floors points/rate. A non-positive rate uses DefaultConversionRate.
func EstimateTokens(points, rate int) (int, int) {
	if rate <= 0 {
		rate = DefaultConversionRate
	}
	if points <= 0 {
		return 0, rate
	}
	return points / rate, rate
}

package store

import (
	"context"
	"strings"

	"hemp-commons/internal/models"
	"hemp-commons/internal/utils"
)

// SaveWalletAddress upserts the user's display wallet. Addresses are marked
// verified without any signature check.
func (s *Store) SaveWalletAddress(ctx context.Context, userID, address string, chain models.Chain) (*models.WalletAddress, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, utils.NewInvalidInputError("user_id is required")
	}
	if err := models.ValidateWallet(address, chain); err != nil {
		return nil, err
	}
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}

	wallet := models.WalletAddress{
		UserID:    userID,
		Address:   strings.TrimSpace(address),
		Chain:     chain,
		Verified:  true,
		UpdatedAt: s.timestamp(),
	}

	wallets, err := loadCollection[models.WalletAddress](ctx, s, KeyWallets)
	if err != nil {
		return nil, err
	}
	replaced := false
	for i := range wallets {
		if wallets[i].UserID == userID {
			wallets[i] = wallet
			replaced = true
			break
		}
	}
	if !replaced {
		wallets = append(wallets, wallet)
	}
	if err := setCollection(ctx, s, KeyWallets, wallets); err != nil {
		return nil, err
	}
	return &wallet, nil
}

// GetWalletAddress returns nil, nil when the user has not saved a wallet.
func (s *Store) GetWalletAddress(ctx context.Context, userID string) (*models.WalletAddress, error) {
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	for _, w := range getCollection[models.WalletAddress](ctx, s, KeyWallets) {
		if w.UserID == userID {
			return &w, nil
		}
	}
	return nil, nil
}

// SaveTokenConversion records a points-to-token estimate. rate <= 0 uses the
// default rate.
func (s *Store) SaveTokenConversion(ctx context.Context, userID string, points, rate int) (*models.TokenConversion, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, utils.NewInvalidInputError("user_id is required")
	}
	if points < 0 {
		return nil, utils.NewInvalidInputError("points cannot be negative")
	}
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}

	tokens, rate := models.EstimateTokens(points, rate)
	conversion := models.TokenConversion{
		ID:              s.newID(),
		UserID:          userID,
		HempPoints:      points,
		EstimatedTokens: tokens,
		ConversionRate:  rate,
		Timestamp:       s.timestamp(),
	}

	conversions, err := loadCollection[models.TokenConversion](ctx, s, KeyTokenConversions)
	if err != nil {
		return nil, err
	}
	conversions = append(conversions, conversion)
	if err := setCollection(ctx, s, KeyTokenConversions, conversions); err != nil {
		return nil, err
	}
	return &conversion, nil
}

func (s *Store) GetTokenConversions(ctx context.Context, userID string) ([]models.TokenConversion, error) {
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	result := []models.TokenConversion{}
	for _, c := range getCollection[models.TokenConversion](ctx, s, KeyTokenConversions) {
		if c.UserID == userID {
			result = append(result, c)
		}
	}
	return result, nil
}

package store

import (
	"context"

	"github.com/shopspring/decimal"

	"hemp-commons/internal/models"
	"hemp-commons/internal/utils"
)

func (s *Store) GetProducts(ctx context.Context) ([]models.Product, error) {
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	return getCollection[models.Product](ctx, s, KeyProducts), nil
}

// TrackAffiliateClick logs a click, bumps the product's counter and lets the
// revenue policy decide on a commission. userID may be empty.
func (s *Store) TrackAffiliateClick(ctx context.Context, productID, userID string) error {
	ctx, err := s.begin(ctx)
	if err != nil {
		return err
	}

	products, err := loadCollection[models.Product](ctx, s, KeyProducts)
	if err != nil {
		return err
	}
	idx := -1
	for i := range products {
		if products[i].ID == productID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return utils.NewNotFoundError("product", productID)
	}

	clicks, err := loadCollection[models.AffiliateClick](ctx, s, KeyAffiliateClicks)
	if err != nil {
		return err
	}
	clicks = append(clicks, models.AffiliateClick{
		ID:        s.newID(),
		ProductID: productID,
		UserID:    userID,
		Timestamp: s.timestamp(),
	})
	if err := setCollection(ctx, s, KeyAffiliateClicks, clicks); err != nil {
		return err
	}

	products[idx].Clicks++
	if err := setCollection(ctx, s, KeyProducts, products); err != nil {
		return err
	}

	if amount, ok := s.revenue.Commission(productID); ok {
		return s.recordRevenue(ctx, models.RevenueAffiliate, amount, "Commission from product "+productID)
	}
	return nil
}

func (s *Store) recordRevenue(ctx context.Context, source models.RevenueSource, amount decimal.Decimal, description string) error {
	if description == "" {
		description = "Revenue"
	}
	revenue, err := loadCollection[models.RevenueRecord](ctx, s, KeyRevenue)
	if err != nil {
		return err
	}
	revenue = append(revenue, models.RevenueRecord{
		ID:          s.newID(),
		Source:      source,
		Amount:      amount,
		Currency:    models.CurrencyNPR,
		Description: description,
		Timestamp:   s.timestamp(),
	})
	return setCollection(ctx, s, KeyRevenue, revenue)
}

// GetRevenue returns the revenue log in insertion order.
func (s *Store) GetRevenue(ctx context.Context) ([]models.RevenueRecord, error) {
	ctx, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	return getCollection[models.RevenueRecord](ctx, s, KeyRevenue), nil
}

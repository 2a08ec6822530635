package store

import (
	"math/rand"
	"sync"

	"github.com/shopspring/decimal"
)

// RevenuePolicy decides whether an affiliate click earns a commission and
// how much. It stands in for a real affiliate-network callback.
type RevenuePolicy interface {
	Commission(productID string) (decimal.Decimal, bool)
}

// RandomRevenuePolicy pays a commission in [Min, Max] NPR with the given
// probability.
type RandomRevenuePolicy struct {
	Probability float64
	Min, Max    int64

	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomRevenuePolicy(probability float64, seed int64) *RandomRevenuePolicy {
	return &RandomRevenuePolicy{
		Probability: probability,
		Min:         10,
		Max:         59,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (p *RandomRevenuePolicy) Commission(productID string) (decimal.Decimal, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.rng.Float64() >= p.Probability {
		return decimal.Zero, false
	}
	span := p.Max - p.Min + 1
	if span <= 0 {
		return decimal.NewFromInt(p.Min), true
	}
	return decimal.NewFromInt(p.Min + p.rng.Int63n(span)), true
}

// NoRevenuePolicy never pays.
type NoRevenuePolicy struct{}

func (NoRevenuePolicy) Commission(string) (decimal.Decimal, bool) {
	return decimal.Zero, false
}

// FixedRevenuePolicy pays Amount on every click.
type FixedRevenuePolicy struct {
	Amount decimal.Decimal
}

func (p FixedRevenuePolicy) Commission(string) (decimal.Decimal, bool) {
	return p.Amount, true
}

package pricing

import (
	"fmt"
	"math"

	"offerings-backend/internal/domain"
)

// FeePercent is the platform commission applied on top of the owner price.
const FeePercent = 25

// MaxFinalCents is the largest amount the decimal(12,2) price columns hold.
const MaxFinalCents = 999_999_999_999

// Breakdown is the derived pricing triple. Amounts carry two decimal places.
// BaseCents + FeeCents == FinalCents holds exactly; the float fields are the
// same values divided by 100 and agree only to float64 precision.
type Breakdown struct {
	BasePrice   float64 `json:"base_price"`
	PlatformFee float64 `json:"platform_fee"`
	FinalPrice  float64 `json:"final_price"`

	BaseCents  int64 `json:"-"`
	FeeCents   int64 `json:"-"`
	FinalCents int64 `json:"-"`
}

var errTooLarge = fmt.Errorf("%w: final price would exceed %.2f", domain.ErrInvalidPrice, fromCents(MaxFinalCents))

// Compute derives the platform fee and final price from basePrice.
// The fee is basePrice*0.25 rounded half-up to cents; the final price is their sum.
// Arithmetic runs on integer cents so repeated calls never drift.
func Compute(basePrice float64) (Breakdown, error) {
	if math.IsNaN(basePrice) || math.IsInf(basePrice, 0) || basePrice < 0 {
		return Breakdown{}, fmt.Errorf("%w: base price must be a non-negative amount", domain.ErrInvalidPrice)
	}
	cents := math.Round(basePrice * 100)
	if cents > MaxFinalCents {
		return Breakdown{}, errTooLarge
	}
	base := int64(cents)
	fee := (base*FeePercent + 50) / 100
	if base+fee > MaxFinalCents {
		return Breakdown{}, errTooLarge
	}
	return Breakdown{
		BasePrice:   fromCents(base),
		PlatformFee: fromCents(fee),
		FinalPrice:  fromCents(base + fee),
		BaseCents:   base,
		FeeCents:    fee,
		FinalCents:  base + fee,
	}, nil
}

// Apply recomputes the pricing triple of l from its BasePrice.
func Apply(l *domain.Listing) error {
	b, err := Compute(l.BasePrice)
	if err != nil {
		return err
	}
	l.BasePrice = b.BasePrice
	l.PlatformFee = b.PlatformFee
	l.FinalPrice = b.FinalPrice
	return nil
}

// Consistent reports whether the stored fee and final price match BasePrice.
func Consistent(l *domain.Listing) bool {
	b, err := Compute(l.BasePrice)
	if err != nil {
		return false
	}
	return b.PlatformFee == l.PlatformFee && b.FinalPrice == l.FinalPrice
}

func fromCents(c int64) float64 {
	return float64(c) / 100
}

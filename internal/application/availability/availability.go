package availability

import (
	"fmt"

	"offerings-backend/internal/domain"
)

// Band is the display label for how much of a listing is still sellable.
type Band string

const (
	BandFull          Band = "Full"
	BandAlmostFull    Band = "Almost Full"
	BandAvailable     Band = "Available"
	BandNotConfigured Band = "Not Configured"
	BandOutOfStock    Band = "Out of Stock"
	BandLowStock      Band = "Low Stock"
	BandInStock       Band = "In Stock"
)

const (
	almostFullBelow = 3
	lowStockBelow   = 5
)

// Status is the derived availability view used by booking checks and dashboards.
type Status struct {
	Class      domain.Class `json:"class"`
	Total      int          `json:"total"`
	Used       int          `json:"used"`
	Remaining  int          `json:"remaining"`
	Configured bool         `json:"configured"`
	Band       Band         `json:"band"`
}

// Classify returns the availability class of a category.
func Classify(c domain.Category) domain.Class {
	return c.Class()
}

// StatusOf derives the availability view of l.
func StatusOf(l *domain.Listing) Status {
	return StockStatus(l.Stock())
}

// StockStatus derives the availability view of a stock variant.
func StockStatus(s domain.Stock) Status {
	switch v := s.(type) {
	case domain.Units:
		remaining := 0
		if v.Inventory != nil {
			remaining = *v.Inventory
		}
		st := Status{Class: domain.ClassInventory, Total: remaining, Remaining: remaining, Configured: v.Inventory != nil}
		switch {
		case remaining <= 0:
			st.Band = BandOutOfStock
		case remaining < lowStockBelow:
			st.Band = BandLowStock
		default:
			st.Band = BandInStock
		}
		return st
	case domain.Seats:
		total := 0
		if v.Capacity != nil {
			total = *v.Capacity
		}
		st := Status{
			Class:      domain.ClassCapacity,
			Total:      total,
			Used:       v.Booked,
			Remaining:  total - v.Booked,
			Configured: v.Capacity != nil,
		}
		switch {
		case v.Capacity == nil:
			st.Band = BandNotConfigured
		case st.Remaining <= 0:
			st.Band = BandFull
		case st.Remaining < almostFullBelow:
			st.Band = BandAlmostFull
		default:
			st.Band = BandAvailable
		}
		return st
	default:
		return Status{Band: BandNotConfigured}
	}
}

// ValidateStock checks the counters of a stock variant.
func ValidateStock(s domain.Stock) error {
	switch v := s.(type) {
	case domain.Seats:
		if v.Capacity != nil && *v.Capacity < 0 {
			return fmt.Errorf("%w: capacity cannot be negative", domain.ErrInvalidQuantity)
		}
		if v.Booked < 0 {
			return fmt.Errorf("%w: booked slots cannot be negative", domain.ErrInvalidQuantity)
		}
		capacity := 0
		if v.Capacity != nil {
			capacity = *v.Capacity
		}
		if v.Booked > capacity {
			return fmt.Errorf("%w: %d booked of %d", domain.ErrCapacityExceeded, v.Booked, capacity)
		}
	case domain.Units:
		if v.Inventory != nil && *v.Inventory < 0 {
			return fmt.Errorf("%w: inventory cannot be negative", domain.ErrInvalidQuantity)
		}
	default:
		return fmt.Errorf("%w: unknown stock", domain.ErrValidationFailed)
	}
	return nil
}

// Counters is an operator bookkeeping patch. Nil fields are left unchanged.
type Counters struct {
	Capacity    *int `json:"capacity"`
	BookedSlots *int `json:"booked_slots"`
	Inventory   *int `json:"inventory"`
}

// IsEmpty reports whether the patch changes nothing.
func (c Counters) IsEmpty() bool {
	return c.Capacity == nil && c.BookedSlots == nil && c.Inventory == nil
}

// ApplyCounters validates c against the class of l and stores the result.
// l is left untouched when an error is returned.
func ApplyCounters(l *domain.Listing, c Counters) error {
	if c.IsEmpty() {
		return fmt.Errorf("%w: no availability counters provided", domain.ErrValidationFailed)
	}
	var next domain.Stock
	switch cur := l.Stock().(type) {
	case domain.Seats:
		if c.Inventory != nil {
			return fmt.Errorf("%w: %s listings track capacity, not inventory", domain.ErrValidationFailed, l.Category)
		}
		if c.Capacity != nil {
			v := *c.Capacity
			cur.Capacity = &v
		}
		if c.BookedSlots != nil {
			cur.Booked = *c.BookedSlots
		}
		next = cur
	case domain.Units:
		if c.Capacity != nil || c.BookedSlots != nil {
			return fmt.Errorf("%w: %s listings track inventory, not capacity", domain.ErrValidationFailed, l.Category)
		}
		v := *c.Inventory
		cur.Inventory = &v
		next = cur
	}
	if err := ValidateStock(next); err != nil {
		return err
	}
	return l.SetStock(next)
}

package domain

import "strings"

// Category is the closed set of offering kinds a listing can be sold as.
type Category string

const (
	CategoryCeremony    Category = "ceremony"
	CategoryTherapy     Category = "therapy"
	CategoryMicrodosing Category = "microdosing"
	CategoryMedicine    Category = "medicine"
	CategoryEvent       Category = "event"
	CategoryProduct     Category = "product"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryCeremony,
	CategoryTherapy,
	CategoryMicrodosing,
	CategoryMedicine,
	CategoryEvent,
	CategoryProduct,
}

// Class selects which availability fields are meaningful for a category.
type Class string

const (
	ClassCapacity  Class = "capacity"
	ClassInventory Class = "inventory"
)

// IsKnown reports whether c is one of Categories.
func (c Category) IsKnown() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}
	return false
}

// Class returns the availability class. Unknown categories are seat based.
func (c Category) Class() Class {
	switch c {
	case CategoryProduct, CategoryMedicine, CategoryMicrodosing:
		return ClassInventory
	default:
		return ClassCapacity
	}
}

// UsesTimeSlots is true for categories that carry per-date time entries.
func (c Category) UsesTimeSlots() bool {
	return c == CategoryTherapy
}

// UsesFixedTime is true for categories with one time shared by every date.
func (c Category) UsesFixedTime() bool {
	return c == CategoryEvent
}

// NormalizeCategory lowercases s and falls back to ceremony when it is empty or unknown.
func NormalizeCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c.IsKnown() {
		return c
	}
	return CategoryCeremony
}

package domain

import "github.com/google/uuid"

// ListingFilter narrows a listing query. Zero values match everything.
type ListingFilter struct {
	Category      Category
	GuideID       uuid.UUID
	PublishedOnly bool
	Country       string
	Text          string
}

// Counter names an engagement column.
type Counter string

const (
	CounterViews          Counter = "views_count"
	CounterWhatsAppClicks Counter = "whatsapp_clicks"
)

package notifications

import (
	"context"

	"offerings-backend/internal/domain"
)

// Kind distinguishes a first submission from a resubmission.
type Kind string

const (
	NewListing     Kind = "NewListing"
	UpdatedListing Kind = "UpdatedListing"
)

// Event is the payload handed to gateways. Gateways decide language and transport.
type Event struct {
	Kind         Kind            `json:"kind"`
	ListingID    string          `json:"listing_id"`
	Category     domain.Category `json:"category"`
	Title        string          `json:"title"`
	Price        float64         `json:"price"`
	Currency     string          `json:"currency"`
	OwnerName    string          `json:"owner_name"`
	OwnerContact string          `json:"owner_contact"`
	ReviewURL    string          `json:"review_url"`
}

// Notifier delivers one event. Implementations may block on the network.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, e Event) error

func (f NotifierFunc) Notify(ctx context.Context, e Event) error {
	return f(ctx, e)
}

// EventFor builds the payload for l. reviewBase is the operator dashboard URL prefix.
func EventFor(kind Kind, l *domain.Listing, ownerContact, reviewBase string) Event {
	review := ""
	if reviewBase != "" {
		review = reviewBase + "/" + l.ListingID.String()
	}
	return Event{
		Kind:         kind,
		ListingID:    l.ListingID.String(),
		Category:     l.Category,
		Title:        l.Title,
		Price:        l.FinalPrice,
		Currency:     l.Currency,
		OwnerName:    l.GuideName,
		OwnerContact: ownerContact,
		ReviewURL:    review,
	}
}

package listingevents

import (
	"context"

	"offerings-backend/internal/application/policies/lifecycle"
	"offerings-backend/internal/domain"

	"github.com/google/uuid"
)

// Store reads the audit trail written next to each listing mutation.
type Store interface {
	GetListing(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
	ListEvents(ctx context.Context, listingID uuid.UUID) ([]domain.ListingEvent, error)
}

type Service struct {
	Store Store
}

// GetListingEvents returns the audit trail of a listing, oldest first. Operators only.
func (s *Service) GetListingEvents(ctx context.Context, actor domain.Actor, listingID uuid.UUID) ([]domain.ListingEvent, error) {
	if err := lifecycle.RequireOperator(actor); err != nil {
		return nil, err
	}
	if listingID == uuid.Nil {
		return nil, domain.ErrNotFound
	}
	if _, err := s.Store.GetListing(ctx, listingID); err != nil {
		return nil, err
	}
	events, err := s.Store.ListEvents(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []domain.ListingEvent{}
	}
	return events, nil
}

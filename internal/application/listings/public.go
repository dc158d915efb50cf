package listings

import (
	"context"

	"offerings-backend/internal/application/ranking"
	"offerings-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ListPublished returns the approved and published listings matching f.
func (s *Service) ListPublished(ctx context.Context, f domain.ListingFilter) ([]PublicView, error) {
	f.PublishedOnly = true
	ls, err := s.Store.QueryListings(ctx, f)
	if err != nil {
		return nil, s.storeErr(err)
	}
	ranking.Sort(ls)
	out := make([]PublicView, 0, len(ls))
	for _, l := range ls {
		out = append(out, publicViewOf(l))
	}
	return out, nil
}

// GetBySlug returns a public listing and counts the view. Hidden listings are NotFound.
func (s *Service) GetBySlug(ctx context.Context, slug string) (PublicView, error) {
	l, err := s.Store.GetListingBySlug(ctx, slug)
	if err != nil {
		return PublicView{}, s.storeErr(err)
	}
	if !isPublic(l) {
		return PublicView{}, domain.ErrNotFound
	}
	if err := s.Store.IncrementCounter(ctx, l.ListingID, domain.CounterViews); err != nil {
		log.Warn().Err(s.storeErr(err)).Str("listing_id", l.ListingID.String()).Msg("failed to record view")
	} else {
		l.ViewsCount++
	}
	return publicViewOf(l), nil
}

// RecordWhatsAppClick counts a contact click on a public listing.
func (s *Service) RecordWhatsAppClick(ctx context.Context, id uuid.UUID) error {
	l, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !isPublic(l) {
		return domain.ErrNotFound
	}
	return s.storeErr(s.Store.IncrementCounter(ctx, id, domain.CounterWhatsAppClicks))
}

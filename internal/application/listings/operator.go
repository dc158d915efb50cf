package listings

import (
	"context"

	"offerings-backend/internal/application/availability"
	"offerings-backend/internal/application/policies/lifecycle"
	"offerings-backend/internal/application/ranking"
	"offerings-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ListCatalog returns every active listing matching f in moderation order.
// The listings are read once and sorted in memory.
func (s *Service) ListCatalog(ctx context.Context, actor domain.Actor, f domain.ListingFilter) ([]View, error) {
	if err := lifecycle.RequireOperator(actor); err != nil {
		return nil, err
	}
	ls, err := s.catalog(ctx, f)
	if err != nil {
		return nil, err
	}
	return viewsOf(ls), nil
}

func (s *Service) catalog(ctx context.Context, f domain.ListingFilter) ([]*domain.Listing, error) {
	f.PublishedOnly = false
	ls, err := s.Store.QueryListings(ctx, f)
	if err != nil {
		return nil, s.storeErr(err)
	}
	ranking.Sort(ls)
	return ls, nil
}

// moderate loads id, applies fn to a copy and stores it with an audit row.
func (s *Service) moderate(ctx context.Context, actor domain.Actor, id uuid.UUID, name, eventType string, fn func(next *domain.Listing) error) (View, error) {
	if err := lifecycle.RequireOperator(actor); err != nil {
		return View{}, err
	}
	cur, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	next := cur.Clone()
	if err := fn(next); err != nil {
		return View{}, err
	}
	ev := domain.NewListingEvent(cur.ListingID, eventType, actor, transitionData(cur, next))
	if _, err := s.Store.PutListing(ctx, next, ev); err != nil {
		return View{}, s.storeErr(err)
	}
	s.transition(name, cur, next, actor)
	return viewOf(next), nil
}

// Approve approves and publishes a listing.
func (s *Service) Approve(ctx context.Context, actor domain.Actor, id uuid.UUID) (View, error) {
	now := s.now()
	return s.moderate(ctx, actor, id, lifecycle.TransitionApprove, domain.EventApproved, func(next *domain.Listing) error {
		return lifecycle.Approve(actor, next, now)
	})
}

// Reject rejects and hides a listing.
func (s *Service) Reject(ctx context.Context, actor domain.Actor, id uuid.UUID) (View, error) {
	return s.moderate(ctx, actor, id, lifecycle.TransitionReject, domain.EventRejected, func(next *domain.Listing) error {
		return lifecycle.Reject(actor, next)
	})
}

// SetStatus applies the dashboard tri-state: published, pending or paused.
func (s *Service) SetStatus(ctx context.Context, actor domain.Actor, id uuid.UUID, target string) (View, error) {
	if err := lifecycle.RequireOperator(actor); err != nil {
		return View{}, err
	}
	t, err := lifecycle.ParseTarget(target)
	if err != nil {
		return View{}, err
	}
	now := s.now()
	return s.moderate(ctx, actor, id, lifecycle.TransitionSetStatus, domain.EventStatusChanged, func(next *domain.Listing) error {
		return lifecycle.SetStatus(actor, next, t, now)
	})
}

// UpdateAvailability changes booking counters without touching moderation state.
func (s *Service) UpdateAvailability(ctx context.Context, actor domain.Actor, id uuid.UUID, c availability.Counters) (View, error) {
	if err := lifecycle.RequireOperator(actor); err != nil {
		return View{}, err
	}
	cur, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	next := cur.Clone()
	if err := availability.ApplyCounters(next, c); err != nil {
		return View{}, err
	}
	ev := domain.NewListingEvent(cur.ListingID, domain.EventAvailabilityUpdated, actor, map[string]interface{}{
		"before": availability.StatusOf(cur),
		"after":  availability.StatusOf(next),
	})
	if _, err := s.Store.PutListing(ctx, next, ev); err != nil {
		return View{}, s.storeErr(err)
	}
	log.Info().Str("listing_id", id.String()).Str("actor", actor.Label()).Msg("availability updated")
	if s.Metrics != nil {
		s.Metrics.Transition("update_availability")
	}
	return viewOf(next), nil
}

// Reorder nudges a listing one place up or down within the catalog rendered for f.
// Moving the first listing up or the last one down changes nothing.
func (s *Service) Reorder(ctx context.Context, actor domain.Actor, id uuid.UUID, direction string, f domain.ListingFilter) (View, error) {
	if err := lifecycle.RequireOperator(actor); err != nil {
		return View{}, err
	}
	dir, err := ranking.ParseDirection(direction)
	if err != nil {
		return View{}, err
	}
	ls, err := s.catalog(ctx, f)
	if err != nil {
		return View{}, err
	}
	i := ranking.IndexOf(ls, id)
	if i < 0 {
		return View{}, domain.ErrNotFound
	}
	cur := ls[i]
	order, moved := s.reorderer().Reorder(ls, i, dir)
	if !moved {
		return viewOf(cur), nil
	}
	next := cur.Clone()
	next.DisplayOrder = order
	ev := domain.NewListingEvent(cur.ListingID, domain.EventReordered, actor, map[string]interface{}{
		"direction": dir,
		"from":      cur.DisplayOrder,
		"to":        order,
	})
	if _, err := s.Store.PutListing(ctx, next, ev); err != nil {
		return View{}, s.storeErr(err)
	}
	if s.Metrics != nil {
		s.Metrics.Transition("reorder")
	}
	return viewOf(next), nil
}

// Purge removes a soft-deleted listing for good.
func (s *Service) Purge(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	if err := lifecycle.RequireOperator(actor); err != nil {
		return err
	}
	ev := domain.NewListingEvent(id, domain.EventPurged, actor, nil)
	if err := s.Store.DeleteListing(ctx, id, ev); err != nil {
		return s.storeErr(err)
	}
	log.Info().Str("listing_id", id.String()).Str("actor", actor.Label()).Msg("listing purged")
	return nil
}

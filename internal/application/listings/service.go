package listings

import (
	"context"
	"errors"
	"time"

	"offerings-backend/internal/application/notifications"
	"offerings-backend/internal/application/ranking"
	"offerings-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Store is the persistence the service needs. Listing writes are compare-and-swap
// on Revision and fail with domain.ErrConcurrencyConflict when the row moved.
type Store interface {
	GetListing(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
	GetListingBySlug(ctx context.Context, slug string) (*domain.Listing, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	PutListing(ctx context.Context, l *domain.Listing, ev *domain.ListingEvent) (*domain.Listing, error)
	QueryListings(ctx context.Context, f domain.ListingFilter) ([]*domain.Listing, error)
	SoftDeleteListing(ctx context.Context, id uuid.UUID, revision int64, ev *domain.ListingEvent) error
	DeleteListing(ctx context.Context, id uuid.UUID, ev *domain.ListingEvent) error
	IncrementCounter(ctx context.Context, id uuid.UUID, c domain.Counter) error
	GetGuide(ctx context.Context, id uuid.UUID) (*domain.Guide, error)
}

// Dispatcher sends notification events without blocking the caller.
type Dispatcher interface {
	Dispatch(ctx context.Context, e notifications.Event)
}

// Metrics receives transition and storage failure counts.
type Metrics interface {
	Transition(name string)
	StorageError()
}

// Service is the listing facade used by the HTTP layer. Every mutation is a single
// read-modify-write of one listing; nothing is cached between calls.
type Service struct {
	Store         Store
	Notifier      Dispatcher
	Metrics       Metrics
	Reorderer     ranking.Reorderer
	Clock         func() time.Time
	ReviewBaseURL string
}

const slugAttempts = 5

// now is the service clock in UTC. Date checks compare against the UTC calendar
// day, so "today" rolls over at 00:00 UTC for every guide.
func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) reorderer() ranking.Reorderer {
	if s.Reorderer != nil {
		return s.Reorderer
	}
	return ranking.Nudge{}
}

// storeErr counts storage failures and passes err through.
func (s *Service) storeErr(err error) error {
	if err != nil && errors.Is(err, domain.ErrStorageUnavailable) && s.Metrics != nil {
		s.Metrics.StorageError()
	}
	return err
}

func (s *Service) transition(name string, before, after *domain.Listing, actor domain.Actor) {
	if s.Metrics != nil {
		s.Metrics.Transition(name)
	}
	ev := log.Info().
		Str("transition", name).
		Str("listing_id", after.ListingID.String()).
		Str("to", string(after.ApprovalStatus)).
		Bool("published", after.Published).
		Str("actor", actor.Label())
	if before != nil {
		ev = ev.Str("from", string(before.ApprovalStatus))
	}
	ev.Msg("listing transition")
}

func (s *Service) notify(ctx context.Context, kind notifications.Kind, l *domain.Listing, contact string) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.Dispatch(ctx, notifications.EventFor(kind, l, contact, s.ReviewBaseURL))
}

func (s *Service) load(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	if id == uuid.Nil {
		return nil, domain.ErrNotFound
	}
	l, err := s.Store.GetListing(ctx, id)
	if err != nil {
		return nil, s.storeErr(err)
	}
	return l, nil
}

// owner returns the guide profile of id, or an empty profile when none is stored.
func (s *Service) owner(ctx context.Context, id uuid.UUID) (*domain.Guide, error) {
	g, err := s.Store.GetGuide(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.Guide{GuideID: id}, nil
	}
	if err != nil {
		return nil, s.storeErr(err)
	}
	return g, nil
}

func transitionData(before, after *domain.Listing) map[string]interface{} {
	data := map[string]interface{}{
		"to":        after.ApprovalStatus,
		"published": after.Published,
	}
	if before != nil {
		data["from"] = before.ApprovalStatus
		data["was_published"] = before.Published
	}
	return data
}

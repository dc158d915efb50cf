package listings

import (
	"context"
	"fmt"
	"strings"

	"offerings-backend/internal/application/availability"
	"offerings-backend/internal/application/notifications"
	"offerings-backend/internal/application/policies/lifecycle"
	"offerings-backend/internal/application/pricing"
	"offerings-backend/internal/domain"
	"offerings-backend/internal/pkg/slug"
	"offerings-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Draft is the owner input for a new listing. Fields of the other availability
// class than the category's are ignored.
type Draft struct {
	Category       string              `json:"category"`
	Type           string              `json:"type"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	MediaURL       string              `json:"media_url"`
	Country        string              `json:"country"`
	Location       string              `json:"location"`
	BasePrice      *float64            `json:"base_price"`
	Currency       string              `json:"currency"`
	Capacity       *int                `json:"capacity"`
	Inventory      *int                `json:"inventory"`
	AvailableDates []string            `json:"available_dates"`
	AvailableTimes map[string][]string `json:"available_times"`
	FixedTime      string              `json:"fixed_time"`
}

// Patch is an owner edit. Nil fields keep their current value.
type Patch struct {
	Category       *string              `json:"category"`
	Type           *string              `json:"type"`
	Title          *string              `json:"title"`
	Description    *string              `json:"description"`
	MediaURL       *string              `json:"media_url"`
	Country        *string              `json:"country"`
	Location       *string              `json:"location"`
	BasePrice      *float64             `json:"base_price"`
	Currency       *string              `json:"currency"`
	Capacity       *int                 `json:"capacity"`
	Inventory      *int                 `json:"inventory"`
	AvailableDates *[]string            `json:"available_dates"`
	AvailableTimes *map[string][]string `json:"available_times"`
	FixedTime      *string              `json:"fixed_time"`
}

func (p Patch) touchesSchedule() bool {
	return p.AvailableDates != nil || p.AvailableTimes != nil || p.FixedTime != nil
}

func normalizeCurrency(code string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return domain.DefaultCurrency, nil
	}
	c, ok := validation.NormalizeCurrency(code)
	if !ok {
		return "", fmt.Errorf("%w: invalid currency %q", domain.ErrValidationFailed, code)
	}
	return c, nil
}

func checkMediaURL(raw string) error {
	if strings.TrimSpace(raw) != "" && !validation.IsValidMediaURL(raw) {
		return fmt.Errorf("%w: media_url must be an http(s) URL", domain.ErrValidationFailed)
	}
	return nil
}

// stockFor builds the availability variant of l's category from owner input,
// keeping booked seats already recorded by operators.
func stockFor(l *domain.Listing, capacity, inventory *int) domain.Stock {
	switch cur := l.Stock().(type) {
	case domain.Units:
		if inventory != nil {
			cur.Inventory = inventory
		}
		return cur
	case domain.Seats:
		if capacity != nil {
			cur.Capacity = capacity
		}
		return cur
	default:
		return cur
	}
}

func setStock(l *domain.Listing, s domain.Stock) error {
	if err := availability.ValidateStock(s); err != nil {
		return err
	}
	return l.SetStock(s)
}

func (s *Service) uniqueSlug(ctx context.Context, title string) (string, error) {
	for i := 0; i < slugAttempts; i++ {
		candidate := slug.WithSuffix(title)
		taken, err := s.Store.SlugExists(ctx, candidate)
		if err != nil {
			return "", s.storeErr(err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: could not allocate a slug", domain.ErrConcurrencyConflict)
}

func applyOwner(l *domain.Listing, g *domain.Guide) {
	l.GuideName = g.DisplayName
	l.GuidePhotoURL = g.PhotoURL
}

// CreateListing prices a draft, validates it and stores it as pending review.
func (s *Service) CreateListing(ctx context.Context, actor domain.Actor, d Draft) (View, error) {
	if err := lifecycle.RequireGuide(actor); err != nil {
		return View{}, err
	}
	if d.BasePrice == nil {
		return View{}, fmt.Errorf("%w: base_price is required", domain.ErrValidationFailed)
	}
	currency, err := normalizeCurrency(d.Currency)
	if err != nil {
		return View{}, err
	}
	if err := checkMediaURL(d.MediaURL); err != nil {
		return View{}, err
	}

	l := &domain.Listing{
		GuideID:     actor.GuideID,
		Category:    domain.NormalizeCategory(d.Category),
		Type:        strings.TrimSpace(d.Type),
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		MediaURL:    strings.TrimSpace(d.MediaURL),
		Country:     strings.TrimSpace(d.Country),
		Location:    strings.TrimSpace(d.Location),
		BasePrice:   *d.BasePrice,
		Currency:    currency,
	}
	if err := pricing.Apply(l); err != nil {
		return View{}, err
	}
	if err := setStock(l, stockFor(l, d.Capacity, d.Inventory)); err != nil {
		return View{}, err
	}
	schedule := availability.Schedule{Dates: d.AvailableDates, Times: d.AvailableTimes, FixedTime: d.FixedTime}
	if err := availability.ApplySchedule(l, schedule, s.now()); err != nil {
		return View{}, err
	}
	if err := lifecycle.Submit(l); err != nil {
		return View{}, err
	}

	g, err := s.owner(ctx, actor.GuideID)
	if err != nil {
		return View{}, err
	}
	applyOwner(l, g)
	if l.Slug, err = s.uniqueSlug(ctx, l.Title); err != nil {
		return View{}, err
	}

	ev := domain.NewListingEvent(uuid.Nil, domain.EventCreated, actor, transitionData(nil, l))
	if _, err := s.Store.PutListing(ctx, l, ev); err != nil {
		return View{}, s.storeErr(err)
	}
	s.transition(lifecycle.TransitionSubmit, nil, l, actor)
	s.notify(ctx, notifications.NewListing, l, g.Contact)
	return viewOf(l), nil
}

// UpdateListing applies an edit. Owner edits always send the listing back to review.
func (s *Service) UpdateListing(ctx context.Context, actor domain.Actor, id uuid.UUID, p Patch) (View, error) {
	cur, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	if err := lifecycle.Authorize(actor, cur); err != nil {
		return View{}, err
	}
	next := cur.Clone()

	categoryChanged := false
	if p.Category != nil {
		c := domain.NormalizeCategory(*p.Category)
		if err := lifecycle.CheckCategoryChange(cur, c); err != nil {
			return View{}, err
		}
		if c != next.Category {
			categoryChanged = true
			next.Category = c
			next.Capacity, next.BookedSlots, next.Inventory = nil, 0, nil
		}
	}
	if p.Type != nil {
		next.Type = strings.TrimSpace(*p.Type)
	}
	if p.Title != nil {
		next.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		next.Description = strings.TrimSpace(*p.Description)
	}
	if p.MediaURL != nil {
		if err := checkMediaURL(*p.MediaURL); err != nil {
			return View{}, err
		}
		next.MediaURL = strings.TrimSpace(*p.MediaURL)
	}
	if p.Country != nil {
		next.Country = strings.TrimSpace(*p.Country)
	}
	if p.Location != nil {
		next.Location = strings.TrimSpace(*p.Location)
	}
	if p.Currency != nil {
		if next.Currency, err = normalizeCurrency(*p.Currency); err != nil {
			return View{}, err
		}
	}
	if p.BasePrice != nil {
		next.BasePrice = *p.BasePrice
	}
	if err := pricing.Apply(next); err != nil {
		return View{}, err
	}
	if err := setStock(next, stockFor(next, p.Capacity, p.Inventory)); err != nil {
		return View{}, err
	}
	if p.touchesSchedule() || categoryChanged {
		schedule := availability.ScheduleOf(next)
		if p.AvailableDates != nil {
			schedule.Dates = *p.AvailableDates
		}
		if p.AvailableTimes != nil {
			schedule.Times = *p.AvailableTimes
		} else if p.AvailableDates != nil {
			schedule = schedule.KeepTimesWithinDates()
		}
		if p.FixedTime != nil {
			schedule.FixedTime = *p.FixedTime
		}
		if err := availability.ApplySchedule(next, schedule, s.now()); err != nil {
			return View{}, err
		}
	}

	g, err := s.owner(ctx, cur.GuideID)
	if err != nil {
		return View{}, err
	}
	applyOwner(next, g)
	if err := lifecycle.Resubmit(actor, next); err != nil {
		return View{}, err
	}

	ev := domain.NewListingEvent(cur.ListingID, domain.EventUpdated, actor, transitionData(cur, next))
	if _, err := s.Store.PutListing(ctx, next, ev); err != nil {
		return View{}, s.storeErr(err)
	}
	s.transition(lifecycle.TransitionResubmit, cur, next, actor)
	if !actor.Operator {
		s.notify(ctx, notifications.UpdatedListing, next, g.Contact)
	}
	return viewOf(next), nil
}

// DeleteListing soft-deletes a listing. It disappears from every surface; an
// operator can purge it afterwards.
func (s *Service) DeleteListing(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	cur, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := lifecycle.Authorize(actor, cur); err != nil {
		return err
	}
	ev := domain.NewListingEvent(cur.ListingID, domain.EventDeleted, actor, map[string]interface{}{"slug": cur.Slug})
	if err := s.Store.SoftDeleteListing(ctx, cur.ListingID, cur.Revision, ev); err != nil {
		return s.storeErr(err)
	}
	log.Info().Str("listing_id", cur.ListingID.String()).Str("actor", actor.Label()).Msg("listing deleted")
	return nil
}

// ListMine returns the caller's listings, newest first.
func (s *Service) ListMine(ctx context.Context, actor domain.Actor) ([]View, error) {
	if err := lifecycle.RequireGuide(actor); err != nil {
		return nil, err
	}
	ls, err := s.Store.QueryListings(ctx, domain.ListingFilter{GuideID: actor.GuideID})
	if err != nil {
		return nil, s.storeErr(err)
	}
	return viewsOf(ls), nil
}

// GetMine returns one of the caller's listings, or any listing for an operator.
func (s *Service) GetMine(ctx context.Context, actor domain.Actor, id uuid.UUID) (View, error) {
	l, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	if err := lifecycle.Authorize(actor, l); err != nil {
		return View{}, err
	}
	return viewOf(l), nil
}

package guides

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"offerings-backend/internal/application/listings"
	"offerings-backend/internal/domain"
	"offerings-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Store persists guide profiles.
type Store interface {
	GetGuide(ctx context.Context, id uuid.UUID) (*domain.Guide, error)
	PutGuide(ctx context.Context, g *domain.Guide) error
}

// Syncer pushes profile changes onto the guide's listings.
type Syncer interface {
	SyncOwnerProfile(ctx context.Context, g *domain.Guide) (listings.SyncResult, error)
}

type Service struct {
	Store    Store
	Listings Syncer
}

// ProfileInput is a profile edit. Nil fields keep their current value.
type ProfileInput struct {
	DisplayName *string `json:"display_name"`
	PhotoURL    *string `json:"photo_url"`
	Contact     *string `json:"contact"`
	Email       *string `json:"email"`
	Country     *string `json:"country"`
}

// ProfileResult is the stored profile plus the outcome of the listing fan-out.
// SyncFailed is set when the profile was stored but its listings could not be read.
type ProfileResult struct {
	Guide      *domain.Guide       `json:"guide"`
	Sync       listings.SyncResult `json:"sync"`
	SyncFailed bool                `json:"sync_failed,omitempty"`
}

func canEdit(actor domain.Actor, id uuid.UUID) bool {
	return actor.Operator || (actor.IsGuide() && actor.GuideID == id)
}

// GetProfile returns the profile of id. Guides may only read their own.
func (s *Service) GetProfile(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Guide, error) {
	if !canEdit(actor, id) {
		return nil, domain.ErrAccessDenied
	}
	return s.Store.GetGuide(ctx, id)
}

// UpdateProfile stores the edit and, when the name or photo changed, copies them
// onto every listing of the guide. A first edit creates the profile. Once the
// profile is stored, a failed fan-out is reported in the result, not as an error.
func (s *Service) UpdateProfile(ctx context.Context, actor domain.Actor, id uuid.UUID, in ProfileInput) (ProfileResult, error) {
	if id == uuid.Nil || !canEdit(actor, id) {
		return ProfileResult{}, domain.ErrAccessDenied
	}
	g, err := s.Store.GetGuide(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		g, err = &domain.Guide{GuideID: id}, nil
	}
	if err != nil {
		return ProfileResult{}, err
	}
	before := *g

	if in.DisplayName != nil {
		g.DisplayName = strings.TrimSpace(*in.DisplayName)
	}
	if !validation.IsValidDisplayName(g.DisplayName) {
		return ProfileResult{}, fmt.Errorf("%w: display_name contains invalid characters or is empty", domain.ErrValidationFailed)
	}
	if in.PhotoURL != nil {
		photo := strings.TrimSpace(*in.PhotoURL)
		if photo != "" && !validation.IsValidMediaURL(photo) {
			return ProfileResult{}, fmt.Errorf("%w: photo_url must be an http(s) URL", domain.ErrValidationFailed)
		}
		g.PhotoURL = photo
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email != "" && !validation.IsValidEmail(email) {
			return ProfileResult{}, fmt.Errorf("%w: invalid email format", domain.ErrValidationFailed)
		}
		g.Email = email
	}
	if in.Contact != nil {
		g.Contact = strings.TrimSpace(*in.Contact)
	}
	if in.Country != nil {
		g.Country = strings.TrimSpace(*in.Country)
	}

	if err := s.Store.PutGuide(ctx, g); err != nil {
		return ProfileResult{}, err
	}
	res := ProfileResult{Guide: g}
	if before.DisplayName == g.DisplayName && before.PhotoURL == g.PhotoURL {
		return res, nil
	}
	if s.Listings != nil {
		sync, err := s.Listings.SyncOwnerProfile(ctx, g)
		if err != nil {
			log.Error().Err(err).Str("guide_id", id.String()).Msg("owner profile fan-out failed")
			res.SyncFailed = true
			return res, nil
		}
		res.Sync = sync
	}
	return res, nil
}

package listings

import (
	"context"

	"offerings-backend/internal/domain"

	"github.com/rs/zerolog/log"
)

// SyncResult counts the outcome of an owner profile fan-out.
type SyncResult struct {
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Failed    int `json:"failed"`
}

// SyncOwnerProfile copies the guide's name and photo onto each of their listings.
// A listing that fails is logged and skipped; the rest are still updated.
// Moderation state is left alone.
func (s *Service) SyncOwnerProfile(ctx context.Context, g *domain.Guide) (SyncResult, error) {
	var res SyncResult
	ls, err := s.Store.QueryListings(ctx, domain.ListingFilter{GuideID: g.GuideID})
	if err != nil {
		return res, s.storeErr(err)
	}
	system := domain.Actor{UserID: "profile-sync", GuideID: g.GuideID}
	for _, cur := range ls {
		if cur.GuideName == g.DisplayName && cur.GuidePhotoURL == g.PhotoURL {
			res.Unchanged++
			continue
		}
		next := cur.Clone()
		applyOwner(next, g)
		ev := domain.NewListingEvent(cur.ListingID, domain.EventOwnerSynced, system, map[string]interface{}{
			"guide_name": next.GuideName,
		})
		if _, err := s.Store.PutListing(ctx, next, ev); err != nil {
			res.Failed++
			log.Warn().Err(s.storeErr(err)).Str("listing_id", cur.ListingID.String()).Msg("owner profile sync failed")
			continue
		}
		res.Updated++
	}
	log.Info().Str("guide_id", g.GuideID.String()).Int("updated", res.Updated).Int("failed", res.Failed).Msg("owner profile synced")
	return res, nil
}

package listings

import (
	"time"

	"offerings-backend/internal/application/availability"
	"offerings-backend/internal/application/policies/lifecycle"
	"offerings-backend/internal/domain"

	"github.com/google/uuid"
)

// View is the owner and operator projection: the stored listing plus derived fields.
type View struct {
	*domain.Listing
	Status       lifecycle.Target    `json:"status"`
	Availability availability.Status `json:"availability"`
	TimeMode     availability.Mode   `json:"time_mode"`
}

func viewOf(l *domain.Listing) View {
	return View{
		Listing:      l,
		Status:       lifecycle.StatusOf(l),
		Availability: availability.StatusOf(l),
		TimeMode:     availability.TimeModeOf(l),
	}
}

func viewsOf(ls []*domain.Listing) []View {
	out := make([]View, 0, len(ls))
	for _, l := range ls {
		out = append(out, viewOf(l))
	}
	return out
}

// PublicView is what the storefront sees. Moderation and bookkeeping fields are left out.
type PublicView struct {
	ListingID      uuid.UUID           `json:"listing_id"`
	Slug           string              `json:"slug"`
	GuideID        uuid.UUID           `json:"guide_id"`
	GuideName      string              `json:"guide_name"`
	GuidePhotoURL  string              `json:"guide_photo_url"`
	Category       domain.Category     `json:"category"`
	Type           string              `json:"type"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	MediaURL       string              `json:"media_url"`
	Country        string              `json:"country"`
	Location       string              `json:"location"`
	FinalPrice     float64             `json:"final_price"`
	Currency       string              `json:"currency"`
	AvailableDates domain.DateSet      `json:"available_dates"`
	AvailableTimes domain.TimeSlots    `json:"available_times"`
	FixedTime      string              `json:"fixed_time,omitempty"`
	TimeMode       availability.Mode   `json:"time_mode"`
	Availability   availability.Status `json:"availability"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

func publicViewOf(l *domain.Listing) PublicView {
	times := l.Times()
	if times == nil {
		times = domain.TimeSlots{}
	}
	return PublicView{
		ListingID:      l.ListingID,
		Slug:           l.Slug,
		GuideID:        l.GuideID,
		GuideName:      l.GuideName,
		GuidePhotoURL:  l.GuidePhotoURL,
		Category:       l.Category,
		Type:           l.Type,
		Title:          l.Title,
		Description:    l.Description,
		MediaURL:       l.MediaURL,
		Country:        l.Country,
		Location:       l.Location,
		FinalPrice:     l.FinalPrice,
		Currency:       l.Currency,
		AvailableDates: l.AvailableDates,
		AvailableTimes: times,
		FixedTime:      l.FixedTime,
		TimeMode:       availability.TimeModeOf(l),
		Availability:   availability.StatusOf(l),
		UpdatedAt:      l.LastTouched(),
	}
}

func isPublic(l *domain.Listing) bool {
	return l.ApprovalStatus == domain.ApprovalApproved && l.Published
}

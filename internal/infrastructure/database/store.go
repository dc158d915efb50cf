package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"offerings-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store is the gorm-backed persistence for listings, guides and their audit trail.
// Listing writes are compare-and-swap on the revision column.
type Store struct {
	DB  *gorm.DB
	Now func() time.Time
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// wrap maps gorm and driver errors onto the domain taxonomy.
func wrap(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case domain.KindOf(err) != "":
		return err
	default:
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
}

func (s *Store) GetListing(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	var l domain.Listing
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", id).First(&l).Error; err != nil {
		return nil, wrap(err)
	}
	return &l, nil
}

func (s *Store) GetListingBySlug(ctx context.Context, slug string) (*domain.Listing, error) {
	var l domain.Listing
	if err := s.DB.WithContext(ctx).Where("slug = ?", slug).First(&l).Error; err != nil {
		return nil, wrap(err)
	}
	return &l, nil
}

// SlugExists also sees soft-deleted rows, since the unique index does.
func (s *Store) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Unscoped().Model(&domain.Listing{}).Where("slug = ?", slug).Count(&n).Error; err != nil {
		return false, wrap(err)
	}
	return n > 0, nil
}

// PutListing inserts l when its Revision is zero, otherwise updates it only if the
// stored revision still equals l.Revision. On success l carries the new revision
// and UpdatedAt. ev, when given, is written in the same transaction.
func (s *Store) PutListing(ctx context.Context, l *domain.Listing, ev *domain.ListingEvent) (*domain.Listing, error) {
	now := s.now()
	next := l.Clone()
	next.UpdatedAt = now
	next.Revision = l.Revision + 1

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if l.Revision == 0 {
			next.CreatedAt = now
			if err := tx.Create(next).Error; err != nil {
				return err
			}
		} else {
			res := tx.Model(&domain.Listing{}).
				Where("listing_id = ? AND revision = ?", l.ListingID, l.Revision).
				Updates(listingColumns(next))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return s.missOrConflict(tx, l.ListingID)
			}
		}
		return writeEvent(tx, next.ListingID, ev)
	})
	if err != nil {
		return nil, wrap(err)
	}
	*l = *next
	return l, nil
}

func listingColumns(l *domain.Listing) map[string]interface{} {
	return map[string]interface{}{
		"slug":            l.Slug,
		"guide_id":        l.GuideID,
		"guide_name":      l.GuideName,
		"guide_photo_url": l.GuidePhotoURL,
		"category":        l.Category,
		"type":            l.Type,
		"title":           l.Title,
		"description":     l.Description,
		"media_url":       l.MediaURL,
		"country":         l.Country,
		"location":        l.Location,
		"base_price":      l.BasePrice,
		"platform_fee":    l.PlatformFee,
		"final_price":     l.FinalPrice,
		"currency":        l.Currency,
		"approval_status": l.ApprovalStatus,
		"published":       l.Published,
		"display_order":   l.DisplayOrder,
		"approved_at":     l.ApprovedAt,
		"capacity":        l.Capacity,
		"booked_slots":    l.BookedSlots,
		"inventory":       l.Inventory,
		"available_dates": l.AvailableDates,
		"available_times": l.AvailableTimes,
		"fixed_time":      l.FixedTime,
		"revision":        l.Revision,
		"updated_at":      l.UpdatedAt,
	}
}

func (s *Store) missOrConflict(tx *gorm.DB, id uuid.UUID) error {
	var n int64
	if err := tx.Model(&domain.Listing{}).Where("listing_id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return domain.ErrConcurrencyConflict
}

func writeEvent(tx *gorm.DB, listingID uuid.UUID, ev *domain.ListingEvent) error {
	if ev == nil {
		return nil
	}
	ev.ListingID = listingID
	return tx.Create(ev).Error
}

// QueryListings returns active listings matching f, newest first.
func (s *Store) QueryListings(ctx context.Context, f domain.ListingFilter) ([]*domain.Listing, error) {
	q := s.DB.WithContext(ctx).Model(&domain.Listing{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.GuideID != uuid.Nil {
		q = q.Where("guide_id = ?", f.GuideID)
	}
	if f.PublishedOnly {
		q = q.Where("approval_status = ? AND published = ?", domain.ApprovalApproved, true)
	}
	if c := strings.TrimSpace(f.Country); c != "" {
		q = q.Where("LOWER(country) = ?", strings.ToLower(c))
	}
	if text := strings.TrimSpace(f.Text); text != "" {
		like := "%" + strings.ToLower(text) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(location) LIKE ?", like, like, like)
	}
	var out []*domain.Listing
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, wrap(err)
	}
	return out, nil
}

// SoftDeleteListing sets deleted_at if the stored revision still matches.
func (s *Store) SoftDeleteListing(ctx context.Context, id uuid.UUID, revision int64, ev *domain.ListingEvent) error {
	return wrap(s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("listing_id = ? AND revision = ?", id, revision).Delete(&domain.Listing{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return s.missOrConflict(tx, id)
		}
		return writeEvent(tx, id, ev)
	}))
}

// DeleteListing removes a soft-deleted listing for good. Audit rows are kept.
func (s *Store) DeleteListing(ctx context.Context, id uuid.UUID, ev *domain.ListingEvent) error {
	return wrap(s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Unscoped().Where("listing_id = ? AND deleted_at IS NOT NULL", id).Delete(&domain.Listing{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return writeEvent(tx, id, ev)
	}))
}

// IncrementCounter bumps an engagement column without touching revision or updated_at.
func (s *Store) IncrementCounter(ctx context.Context, id uuid.UUID, c domain.Counter) error {
	switch c {
	case domain.CounterViews, domain.CounterWhatsAppClicks:
	default:
		return fmt.Errorf("%w: unknown counter %q", domain.ErrValidationFailed, c)
	}
	col := string(c)
	res := s.DB.WithContext(ctx).Model(&domain.Listing{}).
		Where("listing_id = ?", id).
		UpdateColumn(col, gorm.Expr(col+" + ?", 1))
	if res.Error != nil {
		return wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) GetGuide(ctx context.Context, id uuid.UUID) (*domain.Guide, error) {
	var g domain.Guide
	if err := s.DB.WithContext(ctx).Where("guide_id = ?", id).First(&g).Error; err != nil {
		return nil, wrap(err)
	}
	return &g, nil
}

// PutGuide inserts or replaces a guide profile.
func (s *Store) PutGuide(ctx context.Context, g *domain.Guide) error {
	now := s.now()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = now
	return wrap(s.DB.WithContext(ctx).Save(g).Error)
}

// ListEvents returns the audit trail of a listing, oldest first.
func (s *Store) ListEvents(ctx context.Context, listingID uuid.UUID) ([]domain.ListingEvent, error) {
	var events []domain.ListingEvent
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).Order("created_at ASC").Find(&events).Error; err != nil {
		return nil, wrap(err)
	}
	return events, nil
}

// Ping reports whether the database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return wrap(err)
	}
	return wrap(sqlDB.PingContext(ctx))
}

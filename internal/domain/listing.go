package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ApprovalStatus is the moderation state of a listing.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// DefaultCurrency is used when a draft does not name one.
const DefaultCurrency = "USD"

// DateSet is an ordered set of calendar dates (YYYY-MM-DD) stored as a json column.
type DateSet []string

// Contains reports whether day is in the set.
func (d DateSet) Contains(day string) bool {
	i := sort.SearchStrings(d, day)
	return i < len(d) && d[i] == day
}

// Scan implements sql.Scanner for reading from DB (json column).
func (d *DateSet) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*d = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("unsupported type for DateSet")
	}
	if len(raw) == 0 {
		*d = nil
		return nil
	}
	var days []string
	if err := json.Unmarshal(raw, &days); err != nil {
		return err
	}
	*d = days
	return nil
}

// Value implements driver.Valuer for writing to DB.
func (d DateSet) Value() (driver.Value, error) {
	if len(d) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(d))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// GormDataType keeps the column type aligned with the JSON payload.
func (DateSet) GormDataType() string {
	return "json"
}

// MarshalJSON sends an empty array instead of null so clients can iterate.
func (d DateSet) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(d))
}

// TimeSlots maps a date (YYYY-MM-DD) to its sorted time-of-day values (HH:MM).
type TimeSlots map[string][]string

// Count sums time entries across all dates.
func (t TimeSlots) Count() int {
	n := 0
	for _, times := range t {
		n += len(times)
	}
	return n
}

// Clone returns a deep copy.
func (t TimeSlots) Clone() TimeSlots {
	if t == nil {
		return nil
	}
	out := make(TimeSlots, len(t))
	for day, times := range t {
		out[day] = append([]string(nil), times...)
	}
	return out
}

// Listing is a sellable offering. Pricing and moderation fields are derived by the
// application layer; owners only ever supply BasePrice.
type Listing struct {
	ListingID      uuid.UUID      `gorm:"column:listing_id;type:uuid;primaryKey" json:"listing_id"`
	Slug           string         `gorm:"column:slug;uniqueIndex;not null" json:"slug"`
	GuideID        uuid.UUID      `gorm:"column:guide_id;type:uuid;index;not null" json:"guide_id"`
	GuideName      string         `gorm:"column:guide_name" json:"guide_name"`
	GuidePhotoURL  string         `gorm:"column:guide_photo_url" json:"guide_photo_url"`
	Category       Category       `gorm:"column:category;type:varchar(20);index;not null" json:"category"`
	Type           string         `gorm:"column:type" json:"type"`
	Title          string         `gorm:"column:title;not null" json:"title"`
	Description    string         `gorm:"column:description;type:text" json:"description"`
	MediaURL       string         `gorm:"column:media_url" json:"media_url"`
	Country        string         `gorm:"column:country;index" json:"country"`
	Location       string         `gorm:"column:location" json:"location"`
	BasePrice      float64        `gorm:"column:base_price;type:decimal(12,2);not null" json:"base_price"`
	PlatformFee    float64        `gorm:"column:platform_fee;type:decimal(12,2);not null" json:"platform_fee"`
	FinalPrice     float64        `gorm:"column:final_price;type:decimal(12,2);not null" json:"final_price"`
	Currency       string         `gorm:"column:currency;type:varchar(3);default:'USD'" json:"currency"`
	ApprovalStatus ApprovalStatus `gorm:"column:approval_status;type:varchar(20);index;default:'pending'" json:"approval_status"`
	Published      bool           `gorm:"column:published;index" json:"published"`
	DisplayOrder   int            `gorm:"column:display_order;default:0" json:"display_order"`
	ApprovedAt     *time.Time     `gorm:"column:approved_at" json:"approved_at,omitempty"`

	Capacity    *int `gorm:"column:capacity" json:"capacity"`
	BookedSlots int  `gorm:"column:booked_slots;default:0" json:"booked_slots"`
	Inventory   *int `gorm:"column:inventory" json:"inventory"`

	AvailableDates DateSet                       `gorm:"column:available_dates" json:"available_dates"`
	AvailableTimes datatypes.JSONType[TimeSlots] `gorm:"column:available_times" json:"available_times"`
	FixedTime      string                        `gorm:"column:fixed_time;type:varchar(5)" json:"fixed_time,omitempty"`

	ViewsCount     int64 `gorm:"column:views_count;default:0" json:"views_count"`
	WhatsappClicks int64 `gorm:"column:whatsapp_clicks;default:0" json:"whatsapp_clicks"`

	Revision  int64          `gorm:"column:revision;not null;default:0" json:"revision"`
	CreatedAt time.Time      `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime:false" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (Listing) TableName() string {
	return "Listings"
}

// BeforeCreate sets listing_id if not already set (DBs without default uuid).
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ListingID == uuid.Nil {
		l.ListingID = uuid.New()
	}
	return nil
}

// Times returns the stored time-slot map. Clone it before mutating.
func (l *Listing) Times() TimeSlots {
	return l.AvailableTimes.Data()
}

// SetTimes replaces the time-slot map. A nil map is stored as {} so the column is never null.
func (l *Listing) SetTimes(t TimeSlots) {
	if len(t) == 0 {
		t = TimeSlots{}
	}
	l.AvailableTimes = datatypes.NewJSONType(t)
}

// LastTouched is UpdatedAt, or CreatedAt when the listing was never updated.
func (l *Listing) LastTouched() time.Time {
	if l.UpdatedAt.IsZero() {
		return l.CreatedAt
	}
	return l.UpdatedAt
}

// Stock is the category-dependent sellable capacity of a listing: either Seats or Units.
type Stock interface {
	Class() Class
	isStock()
}

// Seats is the capacity-class variant. A nil Capacity means "not configured".
type Seats struct {
	Capacity *int
	Booked   int
}

func (Seats) Class() Class { return ClassCapacity }
func (Seats) isStock()     {}

// Units is the inventory-class variant.
type Units struct {
	Inventory *int
}

func (Units) Class() Class { return ClassInventory }
func (Units) isStock()     {}

// Stock returns the variant selected by the listing category.
func (l *Listing) Stock() Stock {
	if l.Category.Class() == ClassInventory {
		return Units{Inventory: cloneInt(l.Inventory)}
	}
	return Seats{Capacity: cloneInt(l.Capacity), Booked: l.BookedSlots}
}

// SetStock stores s and clears the fields of the other class. The variant must
// match the listing category.
func (l *Listing) SetStock(s Stock) error {
	if s == nil {
		return fmt.Errorf("%w: stock is required", ErrValidationFailed)
	}
	if s.Class() != l.Category.Class() {
		return fmt.Errorf("%w: %s listings take %s fields", ErrValidationFailed, l.Category, l.Category.Class())
	}
	switch v := s.(type) {
	case Seats:
		l.Capacity = cloneInt(v.Capacity)
		l.BookedSlots = v.Booked
		l.Inventory = nil
	case Units:
		l.Inventory = cloneInt(v.Inventory)
		l.Capacity = nil
		l.BookedSlots = 0
	}
	return nil
}

// Clone returns a deep copy so callers can mutate without touching the original.
func (l *Listing) Clone() *Listing {
	c := *l
	c.Capacity = cloneInt(l.Capacity)
	c.Inventory = cloneInt(l.Inventory)
	c.AvailableDates = append(DateSet(nil), l.AvailableDates...)
	c.SetTimes(l.Times().Clone())
	if l.ApprovedAt != nil {
		t := *l.ApprovedAt
		c.ApprovedAt = &t
	}
	return &c
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

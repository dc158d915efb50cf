package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Event types written to the audit trail alongside the listing row.
const (
	EventCreated             = "CREATED"
	EventUpdated             = "UPDATED"
	EventApproved            = "APPROVED"
	EventRejected            = "REJECTED"
	EventStatusChanged       = "STATUS_CHANGED"
	EventAvailabilityUpdated = "AVAILABILITY_UPDATED"
	EventReordered           = "REORDERED"
	EventOwnerSynced         = "OWNER_SYNCED"
	EventDeleted             = "DELETED"
	EventPurged              = "PURGED"
)

type ListingEvent struct {
	EventID   uuid.UUID      `gorm:"column:event_id;type:uuid;primaryKey" json:"event_id"`
	ListingID uuid.UUID      `gorm:"column:listing_id;type:uuid;index;not null" json:"listing_id"`
	EventType string         `gorm:"column:event_type;type:varchar(30);not null" json:"event_type"`
	EventData datatypes.JSON `gorm:"column:event_data;type:json;not null" json:"event_data"`
	Actor     string         `gorm:"column:actor" json:"actor"`
	CreatedAt time.Time      `gorm:"column:created_at" json:"createdAt"`
}

func (ListingEvent) TableName() string {
	return "ListingEvents"
}

func (le *ListingEvent) BeforeCreate(tx *gorm.DB) error {
	if le.EventID == uuid.Nil {
		le.EventID = uuid.New()
	}
	return nil
}

// NewListingEvent builds an audit row. data is stored as JSON; nil becomes {}.
func NewListingEvent(listingID uuid.UUID, eventType string, actor Actor, data interface{}) *ListingEvent {
	raw := []byte("{}")
	if data != nil {
		if b, err := json.Marshal(data); err == nil {
			raw = b
		}
	}
	return &ListingEvent{
		ListingID: listingID,
		EventType: eventType,
		EventData: datatypes.JSON(raw),
		Actor:     actor.Label(),
	}
}

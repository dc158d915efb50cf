package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Guide is the owner profile. DisplayName and PhotoURL are copied onto every listing.
type Guide struct {
	GuideID     uuid.UUID `gorm:"column:guide_id;type:uuid;primaryKey" json:"guide_id"`
	DisplayName string    `gorm:"column:display_name;not null" json:"display_name"`
	PhotoURL    string    `gorm:"column:photo_url" json:"photo_url"`
	Contact     string    `gorm:"column:contact" json:"contact"`
	Email       string    `gorm:"column:email" json:"email"`
	Country     string    `gorm:"column:country" json:"country"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Guide) TableName() string {
	return "Guides"
}

func (g *Guide) BeforeCreate(tx *gorm.DB) error {
	if g.GuideID == uuid.Nil {
		g.GuideID = uuid.New()
	}
	return nil
}

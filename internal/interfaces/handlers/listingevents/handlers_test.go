package listingevents

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	lesvc "offerings-backend/internal/application/listingevents"
	listsvc "offerings-backend/internal/application/listings"
	"offerings-backend/internal/domain"
	"offerings-backend/internal/infrastructure/database"
	"offerings-backend/internal/middleware"
	"offerings-backend/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupLETest(t *testing.T, user *middleware.SessionUser) (*fiber.App, *listsvc.Service, uuid.UUID) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	store := &database.Store{DB: db, Now: func() time.Time { return now }}
	g := &domain.Guide{DisplayName: "Ana Quispe"}
	require.NoError(t, store.PutGuide(context.Background(), g))

	h := &Handlers{Service: &lesvc.Service{Store: store}}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if user != nil {
			c.Locals("user", user)
		}
		return c.Next()
	})
	app.Get("/admin/listings/:listing_id/events", h.GetListingEvents)
	return app, &listsvc.Service{Store: store, Clock: func() time.Time { return now }}, g.GuideID
}

func TestGetListingEvents_Operator(t *testing.T) {
	app, svc, guideID := setupLETest(t, &middleware.SessionUser{UserID: "op-1", Role: constants.Operator})
	ctx := context.Background()
	price, stock := 80.0, 12
	v, err := svc.CreateListing(ctx, domain.Actor{GuideID: guideID}, listsvc.Draft{
		Category:  "product",
		Title:     "Palo Santo Bundle",
		MediaURL:  "https://img.example/palo",
		BasePrice: &price,
		Inventory: &stock,
	})
	require.NoError(t, err)
	_, err = svc.Approve(ctx, domain.Actor{Operator: true}, v.ListingID)
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/admin/listings/"+v.ListingID.String()+"/events", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Data     []domain.ListingEvent `json:"data"`
		Metadata map[string]int        `json:"metadata"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Data, 2)
	assert.Equal(t, 2, out.Metadata["count"])
	types := []string{out.Data[0].EventType, out.Data[1].EventType}
	assert.ElementsMatch(t, []string{domain.EventCreated, domain.EventApproved}, types)
}

func TestGetListingEvents_Errors(t *testing.T) {
	app, _, _ := setupLETest(t, &middleware.SessionUser{UserID: "op-1", Role: constants.Operator})

	resp, err := app.Test(httptest.NewRequest("GET", "/admin/listings/nope/events", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/admin/listings/"+uuid.NewString()+"/events", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetListingEvents_GuideDenied(t *testing.T) {
	app, _, _ := setupLETest(t, nil)
	resp, err := app.Test(httptest.NewRequest("GET", "/admin/listings/"+uuid.NewString()+"/events", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

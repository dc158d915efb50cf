package listings

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

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

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Message    string `json:"message"`
		StatusCode int    `json:"statusCode"`
		Kind       string `json:"kind"`
	} `json:"error"`
}

type testApp struct {
	app     *fiber.App
	store   *database.Store
	guideID uuid.UUID
}

func setupListingsTest(t *testing.T) *testApp {
	t.Helper()
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

	h := &Handlers{Service: &listsvc.Service{Store: store, Clock: func() time.Time { return now }}}
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		switch c.Get("X-Test-Role") {
		case constants.Guide:
			c.Locals("user", &middleware.SessionUser{UserID: "u-guide", Role: constants.Guide, GuideID: c.Get("X-Test-Guide")})
		case constants.Operator:
			c.Locals("user", &middleware.SessionUser{UserID: "u-op", Role: constants.Operator})
		}
		return c.Next()
	})
	app.Post("/listings", h.CreateListing)
	app.Get("/listings/mine", h.ListMine)
	app.Get("/listings/:listing_id", h.GetListing)
	app.Patch("/listings/:listing_id", h.UpdateListing)
	app.Delete("/listings/:listing_id", h.DeleteListing)
	app.Get("/admin/listings", h.ListCatalog)
	app.Post("/admin/listings/:listing_id/approve", h.Approve)
	app.Post("/admin/listings/:listing_id/reject", h.Reject)
	app.Patch("/admin/listings/:listing_id/status", h.SetStatus)
	app.Patch("/admin/listings/:listing_id/availability", h.UpdateAvailability)
	app.Post("/admin/listings/:listing_id/reorder", h.Reorder)
	app.Delete("/admin/listings/:listing_id", h.Purge)
	app.Get("/public/listings", h.ListPublished)
	app.Get("/public/listings/:slug", h.GetBySlug)
	app.Post("/public/listings/:listing_id/whatsapp-click", h.RecordWhatsAppClick)
	return &testApp{app: app, store: store, guideID: g.GuideID}
}

func (ta *testApp) do(t *testing.T, method, path, role string, body interface{}) (int, envelope) {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if role != "" {
		req.Header.Set("X-Test-Role", role)
		req.Header.Set("X-Test-Guide", ta.guideID.String())
	}
	resp, err := ta.app.Test(req)
	require.NoError(t, err)
	var out envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func draft() map[string]interface{} {
	return map[string]interface{}{
		"category":        "ceremony",
		"title":           "Ceremonia de Ayahuasca",
		"description":     "Two nights in the Sacred Valley",
		"media_url":       "https://video.example/aya",
		"country":         "Peru",
		"base_price":      200,
		"capacity":        10,
		"available_dates": []string{"2026-10-20"},
	}
}

func TestCreateListing(t *testing.T) {
	ta := setupListingsTest(t)

	status, out := ta.do(t, "POST", "/listings", constants.Guide, draft())
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "success", out.Status)
	var v map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Data, &v))
	assert.Equal(t, 250.0, v["final_price"])
	assert.Equal(t, "pending", v["approval_status"])
	assert.Equal(t, "pending", v["status"])
	assert.Equal(t, "Ana Quispe", v["guide_name"])

	status, _ = ta.do(t, "POST", "/listings", "", draft())
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestCreateListing_ErrorKinds(t *testing.T) {
	ta := setupListingsTest(t)

	d := draft()
	d["base_price"] = -5
	status, out := ta.do(t, "POST", "/listings", constants.Guide, d)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "InvalidPrice", out.Error.Kind)

	d = draft()
	delete(d, "base_price")
	status, out = ta.do(t, "POST", "/listings", constants.Guide, d)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "ValidationFailed", out.Error.Kind)

	d = draft()
	d["available_dates"] = []string{"2026-10-20"}
	d["category"] = "therapy"
	d["available_times"] = map[string][]string{"2026-11-01": {"10:00"}}
	status, _ = ta.do(t, "POST", "/listings", constants.Guide, d)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	req := httptest.NewRequest("POST", "/listings", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-Role", constants.Guide)
	req.Header.Set("X-Test-Guide", ta.guideID.String())
	resp, err := ta.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func create(t *testing.T, ta *testApp) string {
	t.Helper()
	status, out := ta.do(t, "POST", "/listings", constants.Guide, draft())
	require.Equal(t, fiber.StatusCreated, status)
	var v struct {
		ListingID string `json:"listing_id"`
	}
	require.NoError(t, json.Unmarshal(out.Data, &v))
	return v.ListingID
}

func TestModerationFlow(t *testing.T) {
	ta := setupListingsTest(t)
	id := create(t, ta)

	status, out := ta.do(t, "POST", "/admin/listings/"+id+"/approve", constants.Guide, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "AccessDenied", out.Error.Kind)

	status, out = ta.do(t, "POST", "/admin/listings/"+id+"/approve", constants.Operator, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(out.Data), `"published":true`)

	status, out = ta.do(t, "PATCH", "/admin/listings/"+id+"/availability", constants.Operator, map[string]int{"booked_slots": 11})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "CapacityExceeded", out.Error.Kind)

	status, out = ta.do(t, "PATCH", "/admin/listings/"+id+"/status", constants.Operator, map[string]string{"status": "paused"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(out.Data), `"status":"paused"`)

	status, _ = ta.do(t, "PATCH", "/admin/listings/"+id+"/status", constants.Operator, map[string]string{})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, out = ta.do(t, "POST", "/admin/listings/"+id+"/reorder", constants.Operator, map[string]string{"direction": "sideways"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Equal(t, "ValidationFailed", out.Error.Kind)

	status, _ = ta.do(t, "POST", "/admin/listings/"+id+"/reorder", constants.Operator, map[string]string{"direction": "up"})
	assert.Equal(t, fiber.StatusOK, status)

	status, out = ta.do(t, "POST", "/admin/listings/"+id+"/reject", constants.Operator, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(out.Data), `"approval_status":"rejected"`)

	status, out = ta.do(t, "GET", "/admin/listings?category=ceremony", constants.Operator, nil)
	require.Equal(t, fiber.StatusOK, status)
	var catalog []map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Data, &catalog))
	assert.Len(t, catalog, 1)

	status, _ = ta.do(t, "GET", "/admin/listings?category=retreat", constants.Operator, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
}

func TestOwnerEditAndDelete(t *testing.T) {
	ta := setupListingsTest(t)
	id := create(t, ta)
	_, _ = ta.do(t, "POST", "/admin/listings/"+id+"/approve", constants.Operator, nil)

	status, out := ta.do(t, "PATCH", "/listings/"+id, constants.Guide, map[string]interface{}{"base_price": 59.99})
	require.Equal(t, fiber.StatusOK, status)
	var v map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Data, &v))
	assert.Equal(t, 74.99, v["final_price"])
	assert.Equal(t, false, v["published"])
	assert.Equal(t, "pending", v["approval_status"])

	status, _ = ta.do(t, "PATCH", "/listings/"+id, constants.Guide, map[string]interface{}{"category": "product", "inventory": 3})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, _ = ta.do(t, "GET", "/listings/not-a-uuid", constants.Guide, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, _ = ta.do(t, "GET", "/listings/"+uuid.NewString(), constants.Guide, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, out = ta.do(t, "GET", "/listings/mine", constants.Guide, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, string(out.Data), id)

	status, _ = ta.do(t, "DELETE", "/listings/"+id, constants.Guide, nil)
	require.Equal(t, fiber.StatusOK, status)
	status, _ = ta.do(t, "GET", "/listings/"+id, constants.Guide, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = ta.do(t, "DELETE", "/admin/listings/"+id, constants.Operator, nil)
	assert.Equal(t, fiber.StatusOK, status)
	status, _ = ta.do(t, "DELETE", "/admin/listings/"+id, constants.Operator, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestPublicSurface(t *testing.T) {
	ta := setupListingsTest(t)
	id := create(t, ta)

	l, err := ta.store.GetListing(context.Background(), uuid.MustParse(id))
	require.NoError(t, err)

	status, _ := ta.do(t, "GET", "/public/listings/"+l.Slug, "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	_, _ = ta.do(t, "POST", "/admin/listings/"+id+"/approve", constants.Operator, nil)

	status, out := ta.do(t, "GET", "/public/listings/"+l.Slug, "", nil)
	require.Equal(t, fiber.StatusOK, status)
	var v map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Data, &v))
	assert.Equal(t, 250.0, v["final_price"])
	assert.NotContains(t, v, "approval_status")
	assert.NotContains(t, v, "base_price")
	assert.Equal(t, "Available", v["availability"].(map[string]interface{})["band"])

	status, out = ta.do(t, "GET", "/public/listings?country=peru", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Data, &list))
	assert.Len(t, list, 1)

	status, _ = ta.do(t, "POST", "/public/listings/"+id+"/whatsapp-click", "", nil)
	assert.Equal(t, fiber.StatusOK, status)

	got, err := ta.store.GetListing(context.Background(), uuid.MustParse(id))
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ViewsCount)
	assert.Equal(t, int64(1), got.WhatsappClicks)
}

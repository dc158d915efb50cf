package listings

import (
	"offerings-backend/internal/application/availability"
	"offerings-backend/internal/middleware"
	"offerings-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// GET /api/v1/admin/listings
func (h *Handlers) ListCatalog(c *fiber.Ctx) error {
	f, err := filterFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}
	views, err := h.Service.ListCatalog(c.UserContext(), middleware.Actor(c), f)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Catalog fetched successfully", views, fiber.Map{"count": len(views)})
}

// POST /api/v1/admin/listings/:listing_id/approve
func (h *Handlers) Approve(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	view, err := h.Service.Approve(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listing approved", view, nil)
}

// POST /api/v1/admin/listings/:listing_id/reject
func (h *Handlers) Reject(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	view, err := h.Service.Reject(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listing rejected", view, nil)
}

// PATCH /api/v1/admin/listings/:listing_id/status  { "status": "published" | "pending" | "paused" }
func (h *Handlers) SetStatus(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil || body.Status == "" {
		return response.Error(c, "status is required", fiber.StatusBadRequest, nil)
	}
	view, err := h.Service.SetStatus(c.UserContext(), middleware.Actor(c), id, body.Status)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listing status updated", view, nil)
}

// PATCH /api/v1/admin/listings/:listing_id/availability
func (h *Handlers) UpdateAvailability(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	var body availability.Counters
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	view, err := h.Service.UpdateAvailability(c.UserContext(), middleware.Actor(c), id, body)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Availability updated", view, nil)
}

// POST /api/v1/admin/listings/:listing_id/reorder  { "direction": "up" | "down" }
// The catalog filters in the query string select the list the nudge applies to.
func (h *Handlers) Reorder(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	var body struct {
		Direction string `json:"direction"`
	}
	if err := c.BodyParser(&body); err != nil || body.Direction == "" {
		return response.Error(c, "direction is required", fiber.StatusBadRequest, nil)
	}
	f, err := filterFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}
	view, err := h.Service.Reorder(c.UserContext(), middleware.Actor(c), id, body.Direction, f)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listing reordered", view, nil)
}

// DELETE /api/v1/admin/listings/:listing_id
func (h *Handlers) Purge(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.Purge(c.UserContext(), middleware.Actor(c), id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listing purged", fiber.Map{"listing_id": id}, nil)
}

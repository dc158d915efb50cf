package listings

import (
	"offerings-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// GET /api/v1/public/listings
func (h *Handlers) ListPublished(c *fiber.Ctx) error {
	f, err := filterFrom(c)
	if err != nil {
		return response.FromError(c, err)
	}
	views, err := h.Service.ListPublished(c.UserContext(), f)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listings fetched successfully", views, fiber.Map{"count": len(views)})
}

// GET /api/v1/public/listings/:slug
func (h *Handlers) GetBySlug(c *fiber.Ctx) error {
	view, err := h.Service.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listing fetched successfully", view, nil)
}

// POST /api/v1/public/listings/:listing_id/whatsapp-click
func (h *Handlers) RecordWhatsAppClick(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.RecordWhatsAppClick(c.UserContext(), id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Click recorded", fiber.Map{"listing_id": id}, nil)
}

package listings

import (
	"fmt"
	"strings"

	listsvc "offerings-backend/internal/application/listings"
	"offerings-backend/internal/domain"
	"offerings-backend/internal/middleware"
	"offerings-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *listsvc.Service
}

// POST /api/v1/listings
func (h *Handlers) CreateListing(c *fiber.Ctx) error {
	var body listsvc.Draft
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	view, err := h.Service.CreateListing(c.UserContext(), middleware.Actor(c), body)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.SuccessCreated(c, "Listing submitted for review", view, nil)
}

// GET /api/v1/listings/mine
func (h *Handlers) ListMine(c *fiber.Ctx) error {
	views, err := h.Service.ListMine(c.UserContext(), middleware.Actor(c))
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listings fetched successfully", views, fiber.Map{"count": len(views)})
}

// GET /api/v1/listings/:listing_id
func (h *Handlers) GetListing(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	view, err := h.Service.GetMine(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listing fetched successfully", view, nil)
}

// PATCH /api/v1/listings/:listing_id
func (h *Handlers) UpdateListing(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	var body listsvc.Patch
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	view, err := h.Service.UpdateListing(c.UserContext(), middleware.Actor(c), id, body)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listing updated successfully", view, nil)
}

// DELETE /api/v1/listings/:listing_id
func (h *Handlers) DeleteListing(c *fiber.Ctx) error {
	id, err := listingID(c)
	if err != nil {
		return response.FromError(c, err)
	}
	if err := h.Service.DeleteListing(c.UserContext(), middleware.Actor(c), id); err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listing deleted successfully", fiber.Map{"listing_id": id}, nil)
}

// --- helpers ---

func listingID(c *fiber.Ctx) (uuid.UUID, error) {
	raw := c.Params("listing_id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid listing_id %q", domain.ErrValidationFailed, raw)
	}
	return id, nil
}

// filterFrom reads the catalog filters shared by the operator and public lists.
func filterFrom(c *fiber.Ctx) (domain.ListingFilter, error) {
	f := domain.ListingFilter{
		Country: strings.TrimSpace(c.Query("country")),
		Text:    strings.TrimSpace(c.Query("q")),
	}
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		cat := domain.Category(strings.ToLower(raw))
		if !cat.IsKnown() {
			return f, fmt.Errorf("%w: unknown category %q", domain.ErrValidationFailed, raw)
		}
		f.Category = cat
	}
	if raw := strings.TrimSpace(c.Query("guide_id")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return f, fmt.Errorf("%w: invalid guide_id %q", domain.ErrValidationFailed, raw)
		}
		f.GuideID = id
	}
	return f, nil
}

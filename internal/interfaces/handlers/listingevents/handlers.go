package listingevents

import (
	"fmt"

	lesvc "offerings-backend/internal/application/listingevents"
	"offerings-backend/internal/domain"
	"offerings-backend/internal/middleware"
	"offerings-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *lesvc.Service
}

// GET /api/v1/admin/listings/:listing_id/events
func (h *Handlers) GetListingEvents(c *fiber.Ctx) error {
	raw := c.Params("listing_id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return response.FromError(c, fmt.Errorf("%w: invalid listing_id %q", domain.ErrValidationFailed, raw))
	}
	events, err := h.Service.GetListingEvents(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Listing events fetched successfully", events, fiber.Map{"count": len(events)})
}

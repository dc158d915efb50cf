package guides

import (
	"fmt"

	guidesvc "offerings-backend/internal/application/guides"
	"offerings-backend/internal/domain"
	"offerings-backend/internal/middleware"
	"offerings-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handlers struct {
	Service *guidesvc.Service
}

// GET /api/v1/guides/me
func (h *Handlers) ViewProfile(c *fiber.Ctx) error {
	actor := middleware.Actor(c)
	g, err := h.Service.GetProfile(c.UserContext(), actor, actor.GuideID)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Profile fetched successfully", g, nil)
}

// PUT /api/v1/guides/me
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	actor := middleware.Actor(c)
	return h.update(c, actor, actor.GuideID)
}

// PUT /api/v1/admin/guides/:guide_id
func (h *Handlers) UpdateGuide(c *fiber.Ctx) error {
	raw := c.Params("guide_id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return response.FromError(c, fmt.Errorf("%w: invalid guide_id %q", domain.ErrValidationFailed, raw))
	}
	return h.update(c, middleware.Actor(c), id)
}

func (h *Handlers) update(c *fiber.Ctx, actor domain.Actor, id uuid.UUID) error {
	var body guidesvc.ProfileInput
	if err := c.BodyParser(&body); err != nil {
		return response.Error(c, "Invalid request body", fiber.StatusBadRequest, nil)
	}
	res, err := h.Service.UpdateProfile(c.UserContext(), actor, id, body)
	if err != nil {
		return response.FromError(c, err)
	}
	return response.Success(c, "Profile updated successfully", res.Guide, fiber.Map{"sync": res.Sync, "sync_failed": res.SyncFailed})
}

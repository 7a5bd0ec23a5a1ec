package handlers

import (
	"strconv"

	"finsentry/internal/repositories"
	"finsentry/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	investigators repositories.InvestigatorRepository
}

func NewAdminHandler(investigators repositories.InvestigatorRepository) *AdminHandler {
	return &AdminHandler{investigators: investigators}
}

// ListInvestigators returns investigator accounts with pagination.
func (h *AdminHandler) ListInvestigators(c *fiber.Ctx) error {
	p := utils.GetPagination(c, 1, 20)
	if p.Limit > 100 {
		p.Limit = 100
	}

	invs, total, err := h.investigators.List(p.Offset, p.Limit)
	if err != nil {
		return utils.InternalError(c, "Failed to list investigators")
	}
	p.SetTotal(total)

	// Never return password hashes.
	type entry struct {
		ID     uint   `json:"id"`
		Email  string `json:"email"`
		Name   string `json:"name"`
		Badge  string `json:"badge"`
		Role   string `json:"role"`
		Status string `json:"status"`
	}
	out := make([]entry, 0, len(invs))
	for _, inv := range invs {
		out = append(out, entry{
			ID:     inv.ID,
			Email:  inv.Email,
			Name:   inv.Name,
			Badge:  inv.BadgeNumber,
			Role:   inv.Role,
			Status: inv.Status,
		})
	}

	return utils.Success(c, utils.NewPaginatedResponse(out, p))
}

// DeleteInvestigator removes an investigator account.
func (h *AdminHandler) DeleteInvestigator(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return utils.BadRequest(c, "Invalid investigator ID")
	}

	if err := h.investigators.Delete(uint(id)); err != nil {
		if err == repositories.ErrInvestigatorNotFound {
			return utils.NotFound(c, "Investigator not found")
		}
		return utils.InternalError(c, "Failed to delete investigator")
	}

	return utils.Success(c, fiber.Map{"message": "Investigator deleted"})
}

// FlushCache clears the Redis cache.
func (h *AdminHandler) FlushCache(c *fiber.Ctx) error {
	if err := repositories.CacheService.FlushAll(c.Context()); err != nil {
		return utils.InternalError(c, "Failed to flush cache")
	}
	return utils.Success(c, fiber.Map{"message": "Cache flushed"})
}

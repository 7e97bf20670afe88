package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Ishimwediane/IremeCorner-Academy-sub000/internal/models"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 100
)

func buildPaginationMeta(page, limit, total int) models.PaginationMeta {
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return models.PaginationMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

// parseActorID reads the authenticated user id the auth middleware left
// in Locals.
func parseActorID(c *fiber.Ctx) (int64, error) {
	raw, _ := c.Locals("user_id").(string)
	return strconv.ParseInt(raw, 10, 64)
}

package handlers

import (
	"time"

	"github.com/SourceCoDeals/nexus-intelligence-api/internal/application/usecases"
	"github.com/gofiber/fiber/v2"
)

type SessionHandler struct {
	sessionUseCase *usecases.SessionUseCase
}

func NewSessionHandler(sessionUseCase *usecases.SessionUseCase) *SessionHandler {
	return &SessionHandler{
		sessionUseCase: sessionUseCase,
	}
}

// GetSessions returns one page of raw sessions for the admin drill-down.
func (h *SessionHandler) GetSessions(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid 'page' parameter"})
	}
	limit := c.QueryInt("limit", 50)
	if limit < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid 'limit' parameter"})
	}

	from := time.Time{}
	to := time.Now().UTC()
	if fromStr := c.Query("from", ""); fromStr != "" {
		parsed, err := parseDateParam(fromStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid 'from' date"})
		}
		from = parsed
	}
	if toStr := c.Query("to", ""); toStr != "" {
		parsed, err := parseDateParam(toStr)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid 'to' date"})
		}
		// Make the upper bound inclusive of the named day.
		to = parsed.AddDate(0, 0, 1)
	}

	sessions, total, err := h.sessionUseCase.GetSessions(c.Context(), page, limit, from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"sessions": sessions,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// GetSessionByID returns one session.
func (h *SessionHandler) GetSessionByID(c *fiber.Ctx) error {
	id := c.Params("id")
	session, err := h.sessionUseCase.FindSessionByID(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	return c.JSON(session)
}

// GetActiveSessions returns the sessions active within the idle threshold.
func (h *SessionHandler) GetActiveSessions(c *fiber.Ctx) error {
	cutoff := time.Now().UTC().Add(-activeIdleThreshold)
	sessions, total, err := h.sessionUseCase.FindActiveSessions(c.Context(), cutoff)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"sessions": sessions,
		"total":    total,
	})
}

func parseDateParam(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/SourceCoDeals/nexus-intelligence-api/internal/application/usecases"
	"github.com/SourceCoDeals/nexus-intelligence-api/internal/domain/entities"
	"github.com/SourceCoDeals/nexus-intelligence-api/internal/domain/repositories"
	"github.com/SourceCoDeals/nexus-intelligence-api/internal/utils"
	"github.com/gofiber/fiber/v2"
)

const (
	defaultWindowDays = 30
	maxWindowDays     = 365

	// A session is "active now" if it has had activity within this
	// threshold.
	activeIdleThreshold = 5 * time.Minute
)

// AnalyticsHandler serves the unified attribution report.
type AnalyticsHandler struct {
	analyticsUseCase usecases.AnalyticsUseCase
}

func NewAnalyticsHandler(analyticsUseCase usecases.AnalyticsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsUseCase: analyticsUseCase,
	}
}

// GetUnifiedReport returns the composite analytics report for the
// requested window. Query params: days (window length, default 30) and
// repeatable filter=<type>:<value> constraints.
func (h *AnalyticsHandler) GetUnifiedReport(c *fiber.Ctx) error {
	days := c.QueryInt("days", defaultWindowDays)
	if days < 1 {
		days = 1
	}
	if days > maxWindowDays {
		days = maxWindowDays
	}

	filters, err := ParseFilters(rawFilterParams(c))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	window := BuildReportWindow(time.Now().UTC(), days)
	report, err := h.analyticsUseCase.GetUnifiedReport(c.Context(), window, filters)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fmt.Sprintf("failed to build analytics report: %v", err),
		})
	}

	// Content-based ETag so the dashboard can revalidate instead of
	// re-downloading an unchanged report.
	etag := fmt.Sprintf(`W/"%s"`, report.CalculateETag())
	if c.Get(fiber.HeaderIfNoneMatch) == etag {
		return c.SendStatus(fiber.StatusNotModified)
	}
	c.Set(fiber.HeaderETag, etag)

	return c.JSON(report)
}

func rawFilterParams(c *fiber.Ctx) []string {
	values := c.Request().URI().QueryArgs().PeekMulti("filter")
	raw := make([]string, 0, len(values))
	for _, value := range values {
		raw = append(raw, string(value))
	}
	return raw
}

// ParseFilters parses repeated "type:value" filter params against the
// fixed filter vocabulary.
func ParseFilters(raw []string) ([]entities.Filter, error) {
	var filters []entities.Filter
	for _, item := range raw {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		parts := strings.SplitN(item, ":", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[1]) == "" {
			return nil, fmt.Errorf("invalid filter %q, expected type:value", item)
		}
		filterType := strings.ToLower(strings.TrimSpace(parts[0]))
		if !entities.ValidFilterType(filterType) {
			return nil, fmt.Errorf("unknown filter type %q", filterType)
		}
		filters = append(filters, entities.Filter{
			Type:  entities.FilterType(filterType),
			Value: strings.TrimSpace(parts[1]),
		})
	}
	return filters, nil
}

// BuildReportWindow derives the current period, the equal-length previous
// period and the active-session cutoff from the window length.
func BuildReportWindow(now time.Time, days int) repositories.ReportWindow {
	from := utils.StartOfDay(now.AddDate(0, 0, -(days - 1)))
	return repositories.ReportWindow{
		From:         from,
		To:           now,
		PreviousFrom: from.AddDate(0, 0, -days),
		ActiveCutoff: now.Add(-activeIdleThreshold),
		Days:         days,
	}
}

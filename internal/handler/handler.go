package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"searchconsole-go/internal/service"
	"searchconsole-go/pkg/analytics"
	"searchconsole-go/pkg/logger"
)

const defaultQueryLimit = 10

// Handler exposes the search-analytics client over HTTP for dashboard
// collaborators.
type Handler struct {
	svc service.SearchAnalytics
	log *logger.Logger
}

func New(svc service.SearchAnalytics) *Handler {
	return &Handler{
		svc: svc,
		log: logger.GetLogger().WithField("component", "http_handler"),
	}
}

// Register mounts all routes on the fiber app.
func (h *Handler) Register(app *fiber.App) {
	app.Get("/healthz", h.health)

	api := app.Group("/api/v1")
	api.Get("/sites/:site/queries", h.topQueries)
	api.Get("/sites/:site/pages", h.topPages)
	api.Get("/sites/:site/metrics", h.metrics)
	api.Get("/sites/:site/trend", h.trend)
	api.Get("/sites/:site/ranking", h.ranking)
	api.Get("/sites/:site/countries", h.countries)
	api.Post("/sync", h.sync)
	api.Delete("/cache", h.clearCache)
}

func (h *Handler) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
}

type dateRange struct {
	site  string
	start string
	end   string
}

func (h *Handler) parseRange(c *fiber.Ctx) (dateRange, error) {
	r := dateRange{
		site:  c.Params("site"),
		start: c.Query("start"),
		end:   c.Query("end"),
	}
	if r.site == "" || r.start == "" || r.end == "" {
		return r, fiber.NewError(fiber.StatusBadRequest, "site, start and end are required")
	}
	for _, d := range []string{r.start, r.end} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return r, fiber.NewError(fiber.StatusBadRequest, "dates must be YYYY-MM-DD")
		}
	}
	if r.start > r.end {
		return r, fiber.NewError(fiber.StatusBadRequest, "start must not be after end")
	}
	return r, nil
}

func (h *Handler) topQueries(c *fiber.Ctx) error {
	r, err := h.parseRange(c)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultQueryLimit)))

	points, err := h.svc.GetTopQueries(c.Context(), r.site, r.start, r.end, limit)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"data": points})
}

func (h *Handler) topPages(c *fiber.Ctx) error {
	r, err := h.parseRange(c)
	if err != nil {
		return err
	}
	limit, _ := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultQueryLimit)))

	points, err := h.svc.GetTopPages(c.Context(), r.site, r.start, r.end, limit)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"data": points})
}

func (h *Handler) metrics(c *fiber.Ctx) error {
	r, err := h.parseRange(c)
	if err != nil {
		return err
	}

	metrics, err := h.svc.GetAggregatedMetrics(c.Context(), r.site, r.start, r.end)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"data": metrics})
}

func (h *Handler) trend(c *fiber.Ctx) error {
	r, err := h.parseRange(c)
	if err != nil {
		return err
	}

	trend, err := h.svc.GetTrendData(c.Context(), r.site, r.start, r.end)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"data": trend})
}

func (h *Handler) ranking(c *fiber.Ctx) error {
	r, err := h.parseRange(c)
	if err != nil {
		return err
	}

	dist, err := h.svc.GetRankingDistribution(c.Context(), r.site, r.start, r.end)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"data": dist})
}

func (h *Handler) countries(c *fiber.Ctx) error {
	r, err := h.parseRange(c)
	if err != nil {
		return err
	}

	options, err := h.svc.GetAvailableCountries(c.Context(), r.site, r.start, r.end)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"data": options})
}

type syncRequest struct {
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	Sites     []string `json:"sites"`
}

func (h *Handler) sync(c *fiber.Ctx) error {
	var req syncRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid sync request body")
	}
	if req.StartDate == "" || req.EndDate == "" || len(req.Sites) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "startDate, endDate and sites are required")
	}

	if err := h.svc.SyncData(c.Context(), req.StartDate, req.EndDate, req.Sites...); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"status": "synced"})
}

func (h *Handler) clearCache(c *fiber.Ctx) error {
	prefix := c.Query("prefix")
	if err := h.svc.ClearCache(c.Context(), prefix); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(fiber.Map{"status": "cleared"})
}

// mapError translates the client's error taxonomy onto HTTP statuses:
// credential problems are the caller's to fix (401), provider failures
// surface as bad gateway (502), and validation failures are our bug
// (500).
func (h *Handler) mapError(c *fiber.Ctx, err error) error {
	var authErr *analytics.AuthenticationError
	if errors.As(err, &authErr) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": authErr.Error()})
	}

	var upErr *analytics.UpstreamAPIError
	if errors.As(err, &upErr) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": upErr.Error()})
	}

	var valErr *analytics.ValidationError
	if errors.As(err, &valErr) {
		h.log.WithError(valErr).Error("Aggregate validation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": valErr.Error()})
	}

	h.log.WithError(err).Error("Unhandled analytics error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}

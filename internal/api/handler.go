package api

import (
	"errors"
	"time"

	"cwaproxy/internal/cities"
	"cwaproxy/internal/health"
	"cwaproxy/internal/service"
	"cwaproxy/pkg/client"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Handler struct {
	forecasts *service.ForecastService
	probe     *health.Probe
	logger    *zap.Logger
}

func NewHandler(forecasts *service.ForecastService, probe *health.Probe, logger *zap.Logger) *Handler {
	return &Handler{
		forecasts: forecasts,
		probe:     probe,
		logger:    logger,
	}
}

// GetWeather handles GET /weather/:city
func (h *Handler) GetWeather(c *fiber.Ctx) error {
	city := c.Params("city")

	h.logger.Info("Fetching forecast", zap.String("city", city))

	result, err := h.forecasts.Forecast(c.Context(), city)
	if err != nil {
		h.logger.Error("Failed to get forecast",
			zap.String("city", city),
			zap.Error(err))
		return h.renderError(c, city, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}

// renderError maps the service error taxonomy onto HTTP statuses. Upstream
// statuses are forwarded verbatim; everything unclassified is a 500.
func (h *Handler) renderError(c *fiber.Ctx, city string, err error) error {
	var upstreamErr *client.UpstreamError
	var noDataErr *service.NoDataError

	switch {
	case errors.Is(err, service.ErrMissingCredential):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Configuration Error",
			"message": "Weather service is not configured",
		})
	case errors.Is(err, service.ErrUnsupportedCity):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Unsupported City",
			"message": "City '" + city + "' is not supported",
		})
	case errors.As(err, &noDataErr):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "No Data",
			"message": noDataErr.Error(),
		})
	case errors.As(err, &upstreamErr):
		return c.Status(upstreamErr.StatusCode).JSON(fiber.Map{
			"error":   "Upstream Error",
			"message": upstreamErr.Message,
			"details": upstreamErr.Body,
		})
	case errors.Is(err, client.ErrUpstreamUnreachable):
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Upstream Unavailable",
			"message": "Upstream weather service is unavailable, please try again later",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Internal Server Error",
			"message": "Failed to fetch weather data",
		})
	}
}

// GetCities handles GET /api/v1/cities
func (h *Handler) GetCities(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"cities": cities.Tokens(),
	})
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now(),
		"uptime":    time.Since(startTime).String(),
		"upstream":  h.probe.Status(),
	})
}

// GetMetrics handles GET /api/v1/metrics
func (h *Handler) GetMetrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"metrics":   h.forecasts.Stats(),
		"timestamp": time.Now(),
	})
}

var startTime = time.Now()

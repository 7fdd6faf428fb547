package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"cwaproxy/internal/cities"
	"cwaproxy/internal/models"
	"go.uber.org/zap"
)

var (
	// ErrMissingCredential means no upstream API key is configured.
	// Operator-correctable only, surfaced as HTTP 500.
	ErrMissingCredential = errors.New("upstream API credential is not configured")

	// ErrUnsupportedCity means the token is not in the alias table.
	ErrUnsupportedCity = errors.New("unsupported city")
)

// NoDataError means the upstream responded but its location list was empty
// for the resolved canonical name.
type NoDataError struct {
	Location string
}

func (e *NoDataError) Error() string {
	return fmt.Sprintf("no forecast data found for %s", e.Location)
}

// ForecastClient is the outbound dependency of the forecast service.
type ForecastClient interface {
	GetForecast36h(ctx context.Context, locationName string) (*models.CWAResponse, error)
}

// ForecastService resolves a city token, fetches the 36-hour forecast
// document, and flattens it into a ForecastResult. Stateless per request;
// the counters exist only for the metrics surface.
type ForecastService struct {
	client       ForecastClient
	apiKey       string
	logger       *zap.Logger
	mu           sync.RWMutex
	successCount int
	failureCount int
}

func NewForecastService(client ForecastClient, apiKey string, logger *zap.Logger) *ForecastService {
	return &ForecastService{
		client: client,
		apiKey: apiKey,
		logger: logger,
	}
}

// Forecast handles one city request end to end: credential check, alias
// resolution, one upstream call, normalization. Exactly one outbound call
// per invocation, no retries, no partial results.
func (s *ForecastService) Forecast(ctx context.Context, cityToken string) (*models.ForecastResult, error) {
	if s.apiKey == "" {
		s.recordFailure()
		return nil, ErrMissingCredential
	}

	locationName, ok := cities.Resolve(cityToken)
	if !ok {
		s.recordFailure()
		return nil, ErrUnsupportedCity
	}

	s.logger.Debug("Resolved city token",
		zap.String("token", cityToken),
		zap.String("location", locationName))

	response, err := s.client.GetForecast36h(ctx, locationName)
	if err != nil {
		s.recordFailure()
		return nil, err
	}

	if len(response.Records.Location) == 0 {
		s.recordFailure()
		return nil, &NoDataError{Location: locationName}
	}

	result := normalize(response.Records.Location[0], response.Records.DatasetDescription)

	s.recordSuccess()
	return result, nil
}

// normalize flattens the element-major upstream document into a
// time-major forecast list. The window count comes from the first weather
// element; shorter element lists just leave their fields empty.
func normalize(location models.CWALocation, updateTime string) *models.ForecastResult {
	result := &models.ForecastResult{
		City:       location.LocationName,
		UpdateTime: updateTime,
		Forecasts:  []models.ForecastEntry{},
	}

	if len(location.WeatherElement) == 0 {
		return result
	}

	timeCount := len(location.WeatherElement[0].Time)
	for i := 0; i < timeCount; i++ {
		entry := models.ForecastEntry{
			StartTime: location.WeatherElement[0].Time[i].StartTime,
			EndTime:   location.WeatherElement[0].Time[i].EndTime,
		}

		for _, element := range location.WeatherElement {
			if i >= len(element.Time) {
				continue
			}
			value := element.Time[i].Parameter.ParameterName

			switch element.ElementName {
			case "Wx":
				entry.Weather = value
			case "PoP":
				entry.Rain = value + "%"
			case "MinT":
				entry.MinTemp = value + "°C"
			case "MaxT":
				entry.MaxTemp = value + "°C"
			case "CI":
				entry.Comfort = value
			case "WS":
				entry.WindSpeed = value
			}
		}

		result.Forecasts = append(result.Forecasts, entry)
	}

	return result
}

func (s *ForecastService) recordSuccess() {
	s.mu.Lock()
	s.successCount++
	s.mu.Unlock()
}

func (s *ForecastService) recordFailure() {
	s.mu.Lock()
	s.failureCount++
	s.mu.Unlock()
}

// Stats reports request counters for the metrics endpoint.
func (s *ForecastService) Stats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"success_count":    s.successCount,
		"failure_count":    s.failureCount,
		"supported_cities": len(cities.Tokens()),
	}
}

package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"cwaproxy/internal/models"
	"go.uber.org/zap"
)

type stubClient struct {
	response *models.CWAResponse
	err      error
	calls    int
	lastName string
}

func (s *stubClient) GetForecast36h(ctx context.Context, locationName string) (*models.CWAResponse, error) {
	s.calls++
	s.lastName = locationName
	return s.response, s.err
}

func element(name string, values ...string) models.CWAWeatherElement {
	el := models.CWAWeatherElement{ElementName: name}
	starts := []string{"2024-05-01 12:00:00", "2024-05-02 00:00:00"}
	ends := []string{"2024-05-02 00:00:00", "2024-05-02 12:00:00"}
	for i, v := range values {
		el.Time = append(el.Time, models.CWATimeWindow{
			StartTime: starts[i],
			EndTime:   ends[i],
			Parameter: models.CWAParameter{ParameterName: v},
		})
	}
	return el
}

func fullDocument() *models.CWAResponse {
	doc := &models.CWAResponse{Success: "true"}
	doc.Records.DatasetDescription = "三十六小時天氣預報"
	doc.Records.Location = []models.CWALocation{
		{
			LocationName: "臺北市",
			WeatherElement: []models.CWAWeatherElement{
				element("Wx", "多雲時晴", "晴時多雲"),
				element("PoP", "30", "10"),
				element("MinT", "22", "21"),
				element("MaxT", "28", "29"),
				element("CI", "舒適", "舒適"),
				element("WS", "風速<= 3級", "風速<= 2級"),
			},
		},
	}
	return doc
}

func TestForecastNormalizesDocument(t *testing.T) {
	stub := &stubClient{response: fullDocument()}
	svc := NewForecastService(stub, "test-key", zap.NewNop())

	result, err := svc.Forecast(context.Background(), "taipei")
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}

	if result.City != "臺北市" {
		t.Errorf("City = %q, want 臺北市", result.City)
	}
	if result.UpdateTime != "三十六小時天氣預報" {
		t.Errorf("UpdateTime = %q", result.UpdateTime)
	}
	if len(result.Forecasts) != 2 {
		t.Fatalf("len(Forecasts) = %d, want 2", len(result.Forecasts))
	}

	first := result.Forecasts[0]
	if first.StartTime != "2024-05-01 12:00:00" || first.EndTime != "2024-05-02 00:00:00" {
		t.Errorf("window 0 times = %q..%q", first.StartTime, first.EndTime)
	}
	if first.Weather != "多雲時晴" {
		t.Errorf("Weather = %q", first.Weather)
	}
	if first.Rain != "30%" {
		t.Errorf("Rain = %q, want 30%%", first.Rain)
	}
	if first.MinTemp != "22°C" || first.MaxTemp != "28°C" {
		t.Errorf("temps = %q / %q, want °C suffix", first.MinTemp, first.MaxTemp)
	}
	if first.Comfort != "舒適" {
		t.Errorf("Comfort = %q", first.Comfort)
	}
	if first.WindSpeed != "風速<= 3級" {
		t.Errorf("WindSpeed = %q", first.WindSpeed)
	}

	for i, entry := range result.Forecasts {
		if !strings.HasSuffix(entry.Rain, "%") {
			t.Errorf("entry %d Rain = %q, want %% suffix", i, entry.Rain)
		}
		if !strings.HasSuffix(entry.MinTemp, "°C") || !strings.HasSuffix(entry.MaxTemp, "°C") {
			t.Errorf("entry %d temps = %q / %q, want °C suffix", i, entry.MinTemp, entry.MaxTemp)
		}
	}
}

func TestForecastMissingElementLeavesFieldEmpty(t *testing.T) {
	doc := fullDocument()
	elements := doc.Records.Location[0].WeatherElement
	trimmed := elements[:0]
	for _, el := range elements {
		if el.ElementName != "CI" {
			trimmed = append(trimmed, el)
		}
	}
	doc.Records.Location[0].WeatherElement = trimmed

	svc := NewForecastService(&stubClient{response: doc}, "test-key", zap.NewNop())

	result, err := svc.Forecast(context.Background(), "taipei")
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	for i, entry := range result.Forecasts {
		if entry.Comfort != "" {
			t.Errorf("entry %d Comfort = %q, want empty", i, entry.Comfort)
		}
	}
}

func TestForecastIgnoresUnknownElement(t *testing.T) {
	doc := fullDocument()
	doc.Records.Location[0].WeatherElement = append(
		doc.Records.Location[0].WeatherElement,
		element("UVI", "3", "5"),
	)

	svc := NewForecastService(&stubClient{response: doc}, "test-key", zap.NewNop())

	result, err := svc.Forecast(context.Background(), "taipei")
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if len(result.Forecasts) != 2 {
		t.Errorf("len(Forecasts) = %d, want 2", len(result.Forecasts))
	}
}

func TestForecastShortElementListDoesNotPanic(t *testing.T) {
	doc := fullDocument()
	// WS reports only one window while the others report two.
	doc.Records.Location[0].WeatherElement[5] = element("WS", "風速<= 3級")

	svc := NewForecastService(&stubClient{response: doc}, "test-key", zap.NewNop())

	result, err := svc.Forecast(context.Background(), "taipei")
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if result.Forecasts[1].WindSpeed != "" {
		t.Errorf("entry 1 WindSpeed = %q, want empty", result.Forecasts[1].WindSpeed)
	}
}

func TestForecastMissingCredential(t *testing.T) {
	stub := &stubClient{response: fullDocument()}
	svc := NewForecastService(stub, "", zap.NewNop())

	_, err := svc.Forecast(context.Background(), "taipei")
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("Forecast() error = %v, want ErrMissingCredential", err)
	}
	if stub.calls != 0 {
		t.Errorf("upstream called %d times, want 0", stub.calls)
	}
}

func TestForecastUnsupportedCity(t *testing.T) {
	stub := &stubClient{response: fullDocument()}
	svc := NewForecastService(stub, "test-key", zap.NewNop())

	_, err := svc.Forecast(context.Background(), "osaka")
	if !errors.Is(err, ErrUnsupportedCity) {
		t.Fatalf("Forecast() error = %v, want ErrUnsupportedCity", err)
	}
	if stub.calls != 0 {
		t.Errorf("upstream called %d times before validation, want 0", stub.calls)
	}
}

func TestForecastNoData(t *testing.T) {
	doc := &models.CWAResponse{Success: "true"}
	svc := NewForecastService(&stubClient{response: doc}, "test-key", zap.NewNop())

	_, err := svc.Forecast(context.Background(), "kaohsiung")

	var noData *NoDataError
	if !errors.As(err, &noData) {
		t.Fatalf("Forecast() error = %v, want *NoDataError", err)
	}
	if !strings.Contains(noData.Error(), "高雄市") {
		t.Errorf("error message %q does not include canonical name", noData.Error())
	}
}

func TestForecastPassesCanonicalName(t *testing.T) {
	stub := &stubClient{response: fullDocument()}
	svc := NewForecastService(stub, "test-key", zap.NewNop())

	if _, err := svc.Forecast(context.Background(), "Kaohsiung"); err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if stub.lastName != "高雄市" {
		t.Errorf("upstream queried with %q, want 高雄市", stub.lastName)
	}
}

func TestForecastIdempotent(t *testing.T) {
	stub := &stubClient{response: fullDocument()}
	svc := NewForecastService(stub, "test-key", zap.NewNop())

	first, err := svc.Forecast(context.Background(), "taipei")
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	second, err := svc.Forecast(context.Background(), "taipei")
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated invocations differ:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if stub.calls != 2 {
		t.Errorf("upstream called %d times, want one call per invocation", stub.calls)
	}
}

func TestStatsCounters(t *testing.T) {
	stub := &stubClient{response: fullDocument()}
	svc := NewForecastService(stub, "test-key", zap.NewNop())

	svc.Forecast(context.Background(), "taipei")
	svc.Forecast(context.Background(), "osaka")

	stats := svc.Stats()
	if stats["success_count"] != 1 {
		t.Errorf("success_count = %v, want 1", stats["success_count"])
	}
	if stats["failure_count"] != 1 {
		t.Errorf("failure_count = %v, want 1", stats["failure_count"])
	}
}

package models

// ForecastEntry is one normalized 12-hour window of the 36-hour forecast.
// Fields for elements the upstream document does not report stay empty.
type ForecastEntry struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Weather   string `json:"weather"`
	Rain      string `json:"rain"`
	MinTemp   string `json:"minTemp"`
	MaxTemp   string `json:"maxTemp"`
	Comfort   string `json:"comfort"`
	WindSpeed string `json:"windSpeed"`
}

// ForecastResult is the flattened forecast for one city. City carries the
// upstream location name, not the request token.
type ForecastResult struct {
	City       string          `json:"city"`
	UpdateTime string          `json:"updateTime"`
	Forecasts  []ForecastEntry `json:"forecasts"`
}

// CWAResponse mirrors the F-C0032-001 datastore response shape.
type CWAResponse struct {
	Success string `json:"success"`
	Records struct {
		DatasetDescription string        `json:"datasetDescription"`
		Location           []CWALocation `json:"location"`
	} `json:"records"`
}

type CWALocation struct {
	LocationName   string              `json:"locationName"`
	WeatherElement []CWAWeatherElement `json:"weatherElement"`
}

type CWAWeatherElement struct {
	ElementName string          `json:"elementName"`
	Time        []CWATimeWindow `json:"time"`
}

type CWATimeWindow struct {
	StartTime string       `json:"startTime"`
	EndTime   string       `json:"endTime"`
	Parameter CWAParameter `json:"parameter"`
}

type CWAParameter struct {
	ParameterName  string `json:"parameterName"`
	ParameterValue string `json:"parameterValue"`
}

// CWAErrorBody is the message envelope CWA returns on non-2xx responses.
type CWAErrorBody struct {
	Message string `json:"message"`
}

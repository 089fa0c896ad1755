package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultBaseURL        = "https://api.open-meteo.com/v1"
	defaultTimeoutSeconds = 10
)

// Categorical summaries produced from Open-Meteo weather codes. The agenda
// cards and the generation context embed these strings verbatim.
const (
	SummarySunny   = "Güneşli"
	SummaryCloudy  = "Bulutlu"
	SummaryRainy   = "Yağışlı/Soğuk"
	SummaryNormal  = "Normal"
	SummaryUnknown = "Bilinmiyor"
)

// Config captures the runtime settings for the forecast lookup.
type Config struct {
	BaseURL        string
	Latitude       float64
	Longitude      float64
	TimeoutSeconds int
}

// Client fetches a one-word daily weather summary from Open-Meteo.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs an Open-Meteo client for the supplied coordinates.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := time.Duration(defaultTimeoutSeconds) * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			Latitude:       cfg.Latitude,
			Longitude:      cfg.Longitude,
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: timeout}
	}
	return client
}

type forecastResponse struct {
	Daily struct {
		WeatherCode []int `json:"weather_code"`
	} `json:"daily"`
}

// Summary returns the categorical summary for today's forecast. Callers are
// expected to substitute SummaryUnknown when an error is returned so a
// weather outage never fails a run.
func (c *Client) Summary(ctx context.Context) (string, error) {
	query := url.Values{}
	query.Set("latitude", strconv.FormatFloat(c.cfg.Latitude, 'f', -1, 64))
	query.Set("longitude", strconv.FormatFloat(c.cfg.Longitude, 'f', -1, 64))
	query.Set("daily", "weather_code")
	query.Set("timezone", "auto")
	endpoint := c.cfg.BaseURL + "/forecast?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("build forecast request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch forecast: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("forecast returned %d", resp.StatusCode)
	}
	var forecast forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&forecast); err != nil {
		return "", fmt.Errorf("decode forecast: %w", err)
	}
	codes := forecast.Daily.WeatherCode
	if len(codes) == 0 {
		return "", errors.New("forecast has no daily weather codes")
	}
	return categorize(codes[0]), nil
}

func categorize(code int) string {
	switch {
	case code == 0:
		return SummarySunny
	case code >= 1 && code <= 3:
		return SummaryCloudy
	case code >= 51:
		return SummaryRainy
	default:
		return SummaryNormal
	}
}

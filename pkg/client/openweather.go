package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IamAndelib/Auto-blue-light-filter/internal/models"
	"go.uber.org/zap"
)

// OpenWeatherClient fetches current conditions for a coordinate pair from
// OpenWeatherMap.
type OpenWeatherClient struct {
	*BaseClient
	apiKey  string
	baseURL string
}

type openWeatherCurrentResponse struct {
	Weather []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Pressure  float64 `json:"pressure"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Dt   int64  `json:"dt"`
	Name string `json:"name"`
	Cod  int    `json:"cod"`
}

func NewOpenWeatherClient(apiKey string, config ClientConfig, logger *zap.Logger) *OpenWeatherClient {
	baseClient := NewBaseClient("openweather", config, logger)
	return &OpenWeatherClient{
		BaseClient: baseClient,
		apiKey:     apiKey,
		baseURL:    "https://api.openweathermap.org/data/2.5",
	}
}

// SetBaseURL points the client at a different endpoint host.
func (c *OpenWeatherClient) SetBaseURL(baseURL string) {
	if baseURL != "" {
		c.baseURL = baseURL
	}
}

func (c *OpenWeatherClient) CurrentByCoords(ctx context.Context, lat, lon float64) (*models.WeatherInfo, error) {
	url := fmt.Sprintf("%s/weather?lat=%f&lon=%f&appid=%s&units=metric",
		c.baseURL, lat, lon, c.apiKey)

	data, err := c.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch current weather: %w", err)
	}

	var response openWeatherCurrentResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse weather response: %w", err)
	}

	if response.Cod != 200 {
		return nil, fmt.Errorf("API error: %d", response.Cod)
	}

	weather := &models.WeatherInfo{
		Condition: models.ConditionUnknown,
		AmbientC:  response.Main.Temp,
		FetchedAt: time.Now(),
	}
	if len(response.Weather) > 0 {
		weather.Condition = models.ClassifyCondition(response.Weather[0].Main)
		weather.Description = response.Weather[0].Description
	}

	c.logger.Debug("Weather fetched",
		zap.String("condition", string(weather.Condition)),
		zap.String("description", weather.Description),
		zap.Float64("ambient_celsius", weather.AmbientC))

	return weather, nil
}

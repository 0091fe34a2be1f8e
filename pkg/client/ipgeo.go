package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/IamAndelib/Auto-blue-light-filter/internal/models"
	"go.uber.org/zap"
)

// IPGeoClient resolves the machine's approximate location from its public IP
// via ipgeolocation.io.
type IPGeoClient struct {
	*BaseClient
	apiKey  string
	baseURL string
}

// ipgeolocation.io returns coordinates as JSON strings, not numbers.
type ipGeoResponse struct {
	City        string `json:"city"`
	CountryName string `json:"country_name"`
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`
}

func NewIPGeoClient(apiKey string, config ClientConfig, logger *zap.Logger) *IPGeoClient {
	baseClient := NewBaseClient("ipgeo", config, logger)
	return &IPGeoClient{
		BaseClient: baseClient,
		apiKey:     apiKey,
		baseURL:    "https://api.ipgeolocation.io",
	}
}

// SetBaseURL points the client at a different endpoint host.
func (c *IPGeoClient) SetBaseURL(baseURL string) {
	if baseURL != "" {
		c.baseURL = baseURL
	}
}

func (c *IPGeoClient) Lookup(ctx context.Context) (*models.LocationInfo, error) {
	reqURL := fmt.Sprintf("%s/ipgeo?apiKey=%s&fields=latitude,longitude,city,country_name",
		c.baseURL, url.QueryEscape(c.apiKey))

	data, err := c.Get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch location: %w", err)
	}

	var response ipGeoResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse location response: %w", err)
	}

	lat, err := strconv.ParseFloat(response.Latitude, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", response.Latitude, err)
	}
	lon, err := strconv.ParseFloat(response.Longitude, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", response.Longitude, err)
	}

	location := &models.LocationInfo{
		City:       response.City,
		Country:    response.CountryName,
		Latitude:   lat,
		Longitude:  lon,
		ResolvedAt: time.Now(),
	}

	c.logger.Info("Location resolved",
		zap.String("city", location.City),
		zap.String("country", location.Country),
		zap.Float64("lat", lat),
		zap.Float64("lon", lon))

	return location, nil
}

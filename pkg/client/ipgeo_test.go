package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestIPGeoClient_Lookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("apiKey"); got != "geo-key" {
			t.Errorf("apiKey = %q, want geo-key", got)
		}
		// The service returns coordinates as strings.
		w.Write([]byte(`{
			"city": "Berlin",
			"country_name": "Germany",
			"latitude": "52.52000",
			"longitude": "13.40500"
		}`))
	}))
	defer server.Close()

	c := NewIPGeoClient("geo-key", testClientConfig(), zap.NewNop())
	c.SetBaseURL(server.URL)

	location, err := c.Lookup(context.Background())
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}

	if location.City != "Berlin" {
		t.Errorf("City = %q, want Berlin", location.City)
	}
	if location.Country != "Germany" {
		t.Errorf("Country = %q, want Germany", location.Country)
	}
	if location.Latitude != 52.52 {
		t.Errorf("Latitude = %v, want 52.52", location.Latitude)
	}
	if location.Longitude != 13.405 {
		t.Errorf("Longitude = %v, want 13.405", location.Longitude)
	}
	if location.ResolvedAt.IsZero() {
		t.Error("ResolvedAt not stamped")
	}
}

func TestIPGeoClient_InvalidCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"city": "Berlin", "country_name": "Germany", "latitude": "not-a-number", "longitude": "13.4"}`))
	}))
	defer server.Close()

	c := NewIPGeoClient("geo-key", testClientConfig(), zap.NewNop())
	c.SetBaseURL(server.URL)

	if _, err := c.Lookup(context.Background()); err == nil {
		t.Fatal("Lookup() error = nil, want coordinate parse error")
	}
}

func TestIPGeoClient_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := NewIPGeoClient("bad-key", testClientConfig(), zap.NewNop())
	c.SetBaseURL(server.URL)

	if _, err := c.Lookup(context.Background()); err == nil {
		t.Fatal("Lookup() error = nil, want HTTP error")
	}
}

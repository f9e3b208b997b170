package travel

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"mobispa/internal/availability"
)

// Beyond this distance the traffic-aware duration is used when present;
// short hops take the plain estimate.
const trafficThresholdKm = 40.0

// Client queries a Distance Matrix-style routing API for driving times.
// It implements availability.Oracle.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
}

func NewClient(apiKey string) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    "https://maps.googleapis.com/maps/api/distancematrix/json",
		APIKey:     apiKey,
	}
}

type matrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []matrixElement `json:"elements"`
	} `json:"rows"`
}

type matrixElement struct {
	Status   string `json:"status"`
	Distance struct {
		Value int `json:"value"` // meters
	} `json:"distance"`
	Duration struct {
		Value int `json:"value"` // seconds
	} `json:"duration"`
	DurationInTraffic struct {
		Value int `json:"value"`
	} `json:"duration_in_traffic"`
}

// TravelTime returns the driving time in whole minutes (rounded up) from
// origin to destination when departing at the given instant. Transport
// failures and non-OK element statuses surface as ErrOracleUnavailable.
func (c *Client) TravelTime(ctx context.Context, origin, destination availability.Location, departure time.Time) (int, error) {
	if origin.Lat == 0 && origin.Lng == 0 || destination.Lat == 0 && destination.Lng == 0 {
		return 0, fmt.Errorf("%w: missing coordinates", availability.ErrOracleUnavailable)
	}

	params := url.Values{}
	params.Set("origins", fmt.Sprintf("%f,%f", origin.Lat, origin.Lng))
	params.Set("destinations", fmt.Sprintf("%f,%f", destination.Lat, destination.Lng))
	params.Set("mode", "driving")
	params.Set("departure_time", strconv.FormatInt(departure.Unix(), 10))
	params.Set("key", c.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", availability.ErrOracleUnavailable, err)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", availability.ErrOracleUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: distance matrix returned HTTP %d", availability.ErrOracleUnavailable, resp.StatusCode)
	}

	var body matrixResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("%w: decoding response: %v", availability.ErrOracleUnavailable, err)
	}
	if body.Status != "OK" || len(body.Rows) == 0 || len(body.Rows[0].Elements) == 0 {
		return 0, fmt.Errorf("%w: API status %q", availability.ErrOracleUnavailable, body.Status)
	}
	element := body.Rows[0].Elements[0]
	if element.Status != "OK" {
		return 0, fmt.Errorf("%w: element status %q", availability.ErrOracleUnavailable, element.Status)
	}

	seconds := element.Duration.Value
	if km := float64(element.Distance.Value) / 1000; km > trafficThresholdKm && element.DurationInTraffic.Value > 0 {
		seconds = element.DurationInTraffic.Value
	}
	return int(math.Ceil(float64(seconds) / 60)), nil
}

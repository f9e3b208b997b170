package travel

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mobispa/internal/availability"
)

func matrixServer(t *testing.T, meters, seconds, trafficSeconds int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.URL.Query().Get("origins"))
		assert.NotEmpty(t, r.URL.Query().Get("destinations"))
		assert.NotEmpty(t, r.URL.Query().Get("departure_time"))

		fmt.Fprintf(w, `{
			"status": "OK",
			"rows": [{"elements": [{
				"status": "OK",
				"distance": {"value": %d},
				"duration": {"value": %d},
				"duration_in_traffic": {"value": %d}
			}]}]
		}`, meters, seconds, trafficSeconds)
	}))
}

func testClient(url string) *Client {
	c := NewClient("test-key")
	c.BaseURL = url
	return c
}

var (
	origin      = availability.Location{Lat: 34.0522, Lng: -118.2437}
	destination = availability.Location{Lat: 34.0195, Lng: -118.4912}
	departure   = time.Date(2025, 6, 15, 17, 0, 0, 0, time.UTC)
)

func TestTravelTime_RoundsUpToMinutes(t *testing.T) {
	srv := matrixServer(t, 10000, 601, 0) // 10 km, 10m01s
	defer srv.Close()

	minutes, err := testClient(srv.URL).TravelTime(context.Background(), origin, destination, departure)
	require.NoError(t, err)
	assert.Equal(t, 11, minutes)
}

func TestTravelTime_LongTripsUseTrafficDuration(t *testing.T) {
	// 60 km is past the traffic threshold, so the traffic-aware figure
	// wins over the plain estimate.
	srv := matrixServer(t, 60000, 1800, 2700)
	defer srv.Close()

	minutes, err := testClient(srv.URL).TravelTime(context.Background(), origin, destination, departure)
	require.NoError(t, err)
	assert.Equal(t, 45, minutes)
}

func TestTravelTime_ShortTripsIgnoreTraffic(t *testing.T) {
	srv := matrixServer(t, 10000, 600, 2700)
	defer srv.Close()

	minutes, err := testClient(srv.URL).TravelTime(context.Background(), origin, destination, departure)
	require.NoError(t, err)
	assert.Equal(t, 10, minutes)
}

func TestTravelTime_ElementNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "OK", "rows": [{"elements": [{"status": "NOT_FOUND"}]}]}`)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).TravelTime(context.Background(), origin, destination, departure)
	assert.ErrorIs(t, err, availability.ErrOracleUnavailable)
}

func TestTravelTime_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).TravelTime(context.Background(), origin, destination, departure)
	assert.ErrorIs(t, err, availability.ErrOracleUnavailable)
}

func TestTravelTime_MissingCoordinates(t *testing.T) {
	_, err := testClient("http://unreachable.invalid").TravelTime(context.Background(), availability.Location{}, destination, departure)
	assert.ErrorIs(t, err, availability.ErrOracleUnavailable)
}

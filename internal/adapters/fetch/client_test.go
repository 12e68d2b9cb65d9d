package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(baseURL string) *Client {
	return NewClient(baseURL, 5*time.Second)
}

func TestClientMetadata(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/flusight/metadata.json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"locations": [
				{"abbreviation": "US", "location_name": "United States"},
				{"abbreviation": "CA", "location_name": "California"}
			]
		}`))
	}))
	defer server.Close()

	meta, err := testClient(server.URL).Metadata(context.Background(), "flusight")
	require.NoError(t, err)
	require.Len(t, meta.Locations, 2)
	assert.Equal(t, "US", meta.Locations[0].Abbreviation)
	assert.Equal(t, "California", meta.Locations[1].LocationName)
}

func TestClientLocationDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/flusight/US_flusight.json", r.URL.Path)
		w.Write([]byte(`{
			"ground_truth": {
				"wk inc flu hosp": [{"date": "2025-11-01", "value": 1200}]
			},
			"forecasts": {
				"2025-11-01": {
					"wk inc flu hosp": {
						"FluSight-ensemble": {
							"type": "quantile",
							"predictions": {
								"0": {"date": "2025-11-08", "quantiles": [0.025, 0.5, 0.975], "values": [900, 1250, 1600]}
							}
						}
					}
				}
			}
		}`))
	}))
	defer server.Close()

	doc, err := testClient(server.URL).LocationDocument(context.Background(), "flusight", "US")
	require.NoError(t, err)
	require.Contains(t, doc.GroundTruth, "wk inc flu hosp")
	require.NotNil(t, doc.GroundTruth["wk inc flu hosp"][0].Value)
	assert.Equal(t, 1200.0, *doc.GroundTruth["wk inc flu hosp"][0].Value)
	require.Contains(t, doc.Forecasts, "2025-11-01")
	payload := doc.Forecasts["2025-11-01"]["wk inc flu hosp"]["FluSight-ensemble"]
	assert.Equal(t, "quantile", payload.Type)
	require.Contains(t, payload.Predictions, "0")
	assert.Equal(t, []float64{900, 1250, 1600}, payload.Predictions["0"].Values)
}

func TestClientNHSNSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/nhsn/CA_nhsn.json", r.URL.Path)
		w.Write([]byte(`{"dates": ["2025-11-01"], "series": {"totalconfflunewadm": [321]}}`))
	}))
	defer server.Close()

	snap, err := testClient(server.URL).NHSNSnapshot(context.Background(), "CA")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-11-01"}, snap.Dates)
	assert.Equal(t, []float64{321}, snap.Series["totalconfflunewadm"])
}

func TestClientNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such document", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := testClient(server.URL).Metadata(context.Background(), "flusight")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestClientMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"locations": [`))
	}))
	defer server.Close()

	_, err := testClient(server.URL).Metadata(context.Background(), "flusight")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}

func TestClientContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := testClient(server.URL).Metadata(ctx, "flusight")
	require.Error(t, err)
}

package yelp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFusionClientSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/businesses/search", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		q := r.URL.Query()
		assert.Equal(t, "pizza", q.Get("term"))
		assert.Equal(t, "Chicago", q.Get("location"))
		assert.Equal(t, "5", q.Get("limit"))
		assert.Equal(t, "2", q.Get("price"))
		assert.Empty(t, q.Get("categories"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"businesses": [{"id": "lou-malnatis", "name": "Lou Malnati's", "rating": 4.5, "review_count": 2310,
				"location": {"city": "Chicago", "display_address": ["439 N Wells St", "Chicago, IL 60654"]}}],
			"total": 1,
			"region": {"center": {"latitude": 41.89, "longitude": -87.63}}
		}`))
	}))
	defer srv.Close()

	c := NewFusionClient(srv.URL, "test-key", 5*time.Second)
	result, err := c.Search(context.Background(), SearchParams{Term: "pizza", Location: "Chicago", Price: "2"})

	require.NoError(t, err)
	require.Len(t, result.Businesses, 1)
	assert.Equal(t, "Lou Malnati's", result.Businesses[0].Name)
	assert.Equal(t, 2310, result.Businesses[0].ReviewCount)
	assert.Equal(t, 41.89, result.Region.Center.Latitude)
}

func TestFusionClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"code": "LOCATION_NOT_FOUND", "description": "Could not execute search"}}`))
	}))
	defer srv.Close()

	c := NewFusionClient(srv.URL, "test-key", 5*time.Second)
	_, err := c.Search(context.Background(), SearchParams{Location: "Atlantis"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOCATION_NOT_FOUND")
}

func TestFusionClientWithoutKey(t *testing.T) {
	c := NewFusionClient("", "", time.Second)
	_, err := c.Search(context.Background(), SearchParams{Location: "Chicago"})
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

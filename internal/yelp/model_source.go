package yelp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SatyaPujith/Spotlight/internal/llm"
	"github.com/SatyaPujith/Spotlight/internal/location"
	"github.com/SatyaPujith/Spotlight/internal/models"
)

const modelSourceTemperature = float32(0.7)

// ModelSource asks the generative model for Yelp-shaped listings
type ModelSource struct {
	generator llm.Generator
}

// NewModelSource creates a source backed by generator. A nil generator yields a source
// whose searches return ErrNotConfigured.
func NewModelSource(generator llm.Generator) *ModelSource {
	return &ModelSource{generator: generator}
}

func (s *ModelSource) Name() string { return "model" }

// Search prompts for JSON listings and decodes them
func (s *ModelSource) Search(ctx context.Context, params SearchParams) (*models.SearchResult, error) {
	if s.generator == nil {
		return nil, ErrNotConfigured
	}

	temp := modelSourceTemperature
	resp, err := s.generator.Generate(ctx, &llm.Request{
		Contents:    []llm.Content{llm.TextContent(llm.RoleUser, buildListingPrompt(params))},
		JSON:        true,
		Temperature: &temp,
	})
	if err != nil {
		return nil, err
	}

	var result models.SearchResult
	if err := json.Unmarshal([]byte(resp.Text), &result); err != nil {
		return nil, fmt.Errorf("decode model listings: %w", err)
	}
	if result.Businesses == nil {
		return nil, fmt.Errorf("decode model listings: no businesses field")
	}
	// unavailable/message are produced locally, never by the model
	result.Message = ""
	result.Unavailable = false
	return &result, nil
}

func buildListingPrompt(params SearchParams) string {
	loc := withDefault(params.Location, location.DefaultCity)
	details := location.Resolve(loc)
	city := strings.Split(loc, ",")[0]

	var b strings.Builder
	fmt.Fprintf(&b, "As Yelp's AI API, provide detailed business information for: %q in %s\n\n", BuildQuery(params), loc)
	fmt.Fprintf(&b, "IMPORTANT: Yelp is primarily available in the United States and Canada. The requested location is: %s, %s.\n\n", details.City, details.Country)
	b.WriteString("Return realistic business data in this exact JSON format:\n")
	fmt.Fprintf(&b, `{
  "businesses": [
    {
      "id": "unique_yelp_id",
      "name": "Business Name",
      "image_url": "https://picsum.photos/400/300",
      "is_closed": false,
      "url": "https://www.yelp.com/biz/business-name",
      "review_count": 150,
      "categories": [{"alias": "category", "title": "Category"}],
      "rating": 4.5,
      "coordinates": {"latitude": %.4f, "longitude": %.4f},
      "transactions": ["delivery", "pickup"],
      "price": "$$",
      "location": {
        "address1": "123 Main St",
        "city": %q,
        "zip_code": %q,
        "country": %q,
        "state": %q,
        "display_address": ["123 Main St", "%s, %s %s"]
      },
      "phone": "+14155551234",
      "display_phone": %q,
      "distance": 1234.5
    }
  ],
  "total": %d,
  "region": {"center": {"latitude": %.4f, "longitude": %.4f}}
}
`,
		details.Coordinates.Latitude, details.Coordinates.Longitude,
		city, details.ZipFormat, details.CountryCode, details.StateCode,
		details.City, details.StateCode, details.ZipFormat,
		details.PhoneFormat,
		searchLimit,
		details.Coordinates.Latitude, details.Coordinates.Longitude,
	)
	fmt.Fprintf(&b, "\nProvide %d real-looking businesses with accurate %s coordinates and addresses.", searchLimit, loc)
	if s := strings.TrimSpace(params.Categories); s != "" {
		fmt.Fprintf(&b, " Only include businesses in these categories: %s.", s)
	}
	return b.String()
}

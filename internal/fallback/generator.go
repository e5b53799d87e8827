// Package fallback builds canned business data for when the directory or the model
// cannot be reached.
package fallback

import (
	"fmt"
	"regexp"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/SatyaPujith/Spotlight/internal/location"
	"github.com/SatyaPujith/Spotlight/internal/models"
)

const defaultTerm = "restaurant"

var nonPhoneChars = regexp.MustCompile(`[^\d+]`)

// listingTemplate is one of the three fixed listings. %s is the capitalised term.
type listingTemplate struct {
	nameFormat   string
	slug         string
	reviewCount  int
	rating       float64
	price        string
	address      string
	transactions []string
	latOffset    float64
	lngOffset    float64
	distance     float64
}

// review counts strictly decrease and offsets are pairwise distinct
var listingTemplates = []listingTemplate{
	{
		nameFormat:   "Top Rated %s",
		slug:         "top-rated-spot",
		reviewCount:  342,
		rating:       4.8,
		price:        "$$",
		address:      "123 Main St",
		transactions: []string{"delivery", "pickup", "restaurant_reservation"},
		distance:     1234.5,
	},
	{
		nameFormat:   "Local Favorite %s",
		slug:         "local-favorite",
		reviewCount:  156,
		rating:       4.5,
		price:        "$",
		address:      "456 Oak Ave",
		transactions: []string{"delivery", "pickup"},
		latOffset:    0.01,
		lngOffset:    -0.01,
		distance:     2134.5,
	},
	{
		nameFormat:   "Premium %s Experience",
		slug:         "premium-experience",
		reviewCount:  89,
		rating:       4.6,
		price:        "$$$",
		address:      "789 Pine St",
		transactions: []string{"restaurant_reservation"},
		latOffset:    -0.01,
		lngOffset:    0.01,
		distance:     3234.5,
	},
}

// Generate synthesizes a directory result for term around locationText. For a
// location outside coverage it returns an empty, Unavailable result carrying the
// resolver's message.
func Generate(term, locationText string, now time.Time) *models.SearchResult {
	if locationText == "" {
		locationText = location.DefaultCity
	}
	if term == "" {
		term = defaultTerm
	}

	loc := location.Resolve(locationText)
	if !loc.Available {
		return &models.SearchResult{
			Businesses:  []models.DirectoryBusiness{},
			Total:       0,
			Region:      models.Region{Center: loc.Coordinates},
			Message:     loc.Message,
			Unavailable: true,
		}
	}

	title := capitalize(term)
	stamp := now.UnixMilli()
	phone := nonPhoneChars.ReplaceAllString(loc.PhoneFormat, "")

	businesses := make([]models.DirectoryBusiness, 0, len(listingTemplates))
	for i, tpl := range listingTemplates {
		businesses = append(businesses, models.DirectoryBusiness{
			ID:          fmt.Sprintf("yelp_%d_%d", stamp, i+1),
			Name:        fmt.Sprintf(tpl.nameFormat, title),
			ImageURL:    fmt.Sprintf("https://picsum.photos/400/300?random=%d", i+1),
			URL:         "https://www.yelp.com/biz/" + tpl.slug,
			ReviewCount: tpl.reviewCount,
			Categories:  []models.DirectoryCategory{{Alias: term, Title: title}},
			Rating:      tpl.rating,
			Coordinates: models.Coordinates{
				Latitude:  loc.Coordinates.Latitude + tpl.latOffset,
				Longitude: loc.Coordinates.Longitude + tpl.lngOffset,
			},
			Transactions: tpl.transactions,
			Price:        tpl.price,
			Location: models.DirectoryLocation{
				Address1: tpl.address,
				City:     loc.City,
				ZipCode:  loc.ZipFormat,
				Country:  loc.CountryCode,
				State:    loc.StateCode,
				DisplayAddress: []string{
					tpl.address,
					fmt.Sprintf("%s, %s %s", loc.City, loc.StateCode, loc.ZipFormat),
				},
			},
			Phone:        phone,
			DisplayPhone: loc.PhoneFormat,
			Distance:     tpl.distance,
		})
	}

	return &models.SearchResult{
		Businesses: businesses,
		Total:      len(businesses),
		Region:     models.Region{Center: loc.Coordinates},
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

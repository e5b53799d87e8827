// Package location maps free-text locations to the city records the business
// directory knows about.
package location

import (
	"regexp"
	"strings"

	"github.com/SatyaPujith/Spotlight/internal/models"
)

// Details is the canonical record for a resolved location.
// Available=false always comes with a non-empty Message.
type Details struct {
	Country     string             `json:"country"`
	CountryCode string             `json:"countryCode"`
	City        string             `json:"city"`
	Coordinates models.Coordinates `json:"coordinates"`
	PhonePrefix string             `json:"phonePrefix"`
	PhoneFormat string             `json:"phoneFormat"`
	ZipFormat   string             `json:"zipFormat"`
	StateCode   string             `json:"stateCode"`
	Available   bool               `json:"available"`
	Message     string             `json:"message,omitempty"`
}

// DefaultCity is used when nothing else can be derived from the input
const DefaultCity = "San Francisco"

// IndiaUnavailableMessage explains why Indian locations return no businesses
const IndiaUnavailableMessage = "Yelp services are primarily available in the United States, Canada, and select international markets. Unfortunately, comprehensive business data for India is not yet available through Yelp AI API."

var postalCodeIN = regexp.MustCompile(`^\d{6}$`)

var indianCities = []struct{ keyword, city string }{
	{"mumbai", "Mumbai"},
	{"delhi", "Delhi"},
	{"bangalore", "Bangalore"},
	{"hyderabad", "Hyderabad"},
	{"chennai", "Chennai"},
	{"kolkata", "Kolkata"},
	{"pune", "Pune"},
}

// rule is one entry of the ordered resolution table
type rule struct {
	name    string
	matches func(lower, raw string) bool
	build   func(lower, raw string) Details
}

// rules is scanned top to bottom and the first match wins. Unavailable regions are
// listed before the US cities, and the last rule always matches.
var rules = []rule{
	{
		name: "india",
		matches: func(lower, raw string) bool {
			if containsAny(lower, "india") || postalCodeIN.MatchString(raw) {
				return true
			}
			for _, c := range indianCities {
				if strings.Contains(lower, c.keyword) {
					return true
				}
			}
			return false
		},
		build: func(lower, _ string) Details {
			city := "Mumbai"
			for _, c := range indianCities {
				if strings.Contains(lower, c.keyword) {
					city = c.city
					break
				}
			}
			return Details{
				Country:     "India",
				CountryCode: "IN",
				City:        city,
				Coordinates: models.Coordinates{Latitude: 19.0760, Longitude: 72.8777},
				PhonePrefix: "+91",
				PhoneFormat: "+91 22 1234 5678",
				ZipFormat:   "400001",
				StateCode:   "MH",
				Available:   false,
				Message:     IndiaUnavailableMessage,
			}
		},
	},
	usCity("san francisco", []string{"san francisco", "sf"}, Details{
		City:        "San Francisco",
		Coordinates: models.Coordinates{Latitude: 37.7749, Longitude: -122.4194},
		PhoneFormat: "(415) 555-1234",
		ZipFormat:   "94102",
		StateCode:   "CA",
	}),
	usCity("new york", []string{"new york", "nyc"}, Details{
		City:        "New York",
		Coordinates: models.Coordinates{Latitude: 40.7128, Longitude: -74.0060},
		PhoneFormat: "(212) 555-1234",
		ZipFormat:   "10001",
		StateCode:   "NY",
	}),
	usCity("los angeles", []string{"los angeles", "la"}, Details{
		City:        "Los Angeles",
		Coordinates: models.Coordinates{Latitude: 34.0522, Longitude: -118.2437},
		PhoneFormat: "(213) 555-1234",
		ZipFormat:   "90001",
		StateCode:   "CA",
	}),
	usCity("chicago", []string{"chicago"}, Details{
		City:        "Chicago",
		Coordinates: models.Coordinates{Latitude: 41.8781, Longitude: -87.6298},
		PhoneFormat: "(312) 555-1234",
		ZipFormat:   "60601",
		StateCode:   "IL",
	}),
	{
		name:    "default",
		matches: func(string, string) bool { return true },
		build: func(_, raw string) Details {
			city := strings.Split(raw, ",")[0]
			if city == "" {
				city = DefaultCity
			}
			d := unitedStates(Details{
				Coordinates: models.Coordinates{Latitude: 37.7749, Longitude: -122.4194},
				PhoneFormat: "(415) 555-1234",
				ZipFormat:   "94102",
				StateCode:   "CA",
			})
			d.City = city
			return d
		},
	},
}

func usCity(name string, keywords []string, d Details) rule {
	d = unitedStates(d)
	return rule{
		name:    name,
		matches: func(lower, _ string) bool { return containsAny(lower, keywords...) },
		build:   func(string, string) Details { return d },
	}
}

func unitedStates(d Details) Details {
	d.Country = "United States"
	d.CountryCode = "US"
	d.PhonePrefix = "+1"
	d.Available = true
	return d
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// Resolve maps locationText to a city record. It never fails: unmatched input
// resolves to an available US record named after the text before the first comma.
func Resolve(locationText string) Details {
	lower := strings.ToLower(locationText)
	for _, r := range rules {
		if r.matches(lower, locationText) {
			return r.build(lower, locationText)
		}
	}
	// unreachable: the default rule always matches
	return rules[len(rules)-1].build(lower, locationText)
}

// RuleName reports which rule of the table resolves locationText
func RuleName(locationText string) string {
	lower := strings.ToLower(locationText)
	for _, r := range rules {
		if r.matches(lower, locationText) {
			return r.name
		}
	}
	return rules[len(rules)-1].name
}

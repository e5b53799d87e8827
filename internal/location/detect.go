package location

import "strings"

// messageHints is the coarse location table used when the model is unavailable and
// the only input is the raw chat message. Checked in order, independently of rules.
var messageHints = []struct {
	keywords []string
	location string
}{
	{[]string{"mumbai", "india"}, "Mumbai, India"},
	{[]string{"delhi"}, "Delhi, India"},
	{[]string{"bangalore"}, "Bangalore, India"},
	{[]string{"new york", "nyc"}, "New York"},
	{[]string{"los angeles", "la"}, "Los Angeles"},
}

// DetectInMessage guesses a location string from a free-form chat message.
// It falls back to DefaultCity.
func DetectInMessage(message string) string {
	lower := strings.ToLower(message)
	for _, h := range messageHints {
		if containsAny(lower, h.keywords...) {
			return h.location
		}
	}
	return DefaultCity
}

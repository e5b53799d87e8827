// Package classifier decides which upstream call pattern a chat message starts with.
package classifier

import "strings"

// Classification is the routing decision for one message
type Classification struct {
	// Simple messages try a single structured generation call first
	Simple bool `json:"simple"`
	// Keyword is the matched keyword for complex messages
	Keyword string `json:"keyword,omitempty"`
}

// complexKeywords need the comparison or reservation tools. Checked in order.
var complexKeywords = []string{"compare", "vs", "book", "reserve"}

// Classify marks a message complex when its lowercased text contains any of the
// comparison or reservation keywords.
func Classify(message string) Classification {
	lower := strings.ToLower(message)
	for _, kw := range complexKeywords {
		if strings.Contains(lower, kw) {
			return Classification{Simple: false, Keyword: kw}
		}
	}
	return Classification{Simple: true}
}

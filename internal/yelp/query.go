package yelp

import "fmt"

var priceTiers = map[string]string{
	"1": "budget-friendly",
	"2": "moderate",
	"3": "upscale",
	"4": "fine dining",
}

// BuildQuery renders the search as a natural-language request
func BuildQuery(params SearchParams) string {
	query := fmt.Sprintf("Find %s in %s", withDefault(params.Term, "restaurants"), withDefault(params.Location, "San Francisco"))

	if params.Price != "" {
		if tier, ok := priceTiers[params.Price]; ok {
			query += fmt.Sprintf(" with %s pricing", tier)
		}
	}
	if params.Categories != "" {
		query += fmt.Sprintf(" specializing in %s", params.Categories)
	}
	return query
}

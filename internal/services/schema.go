package services

import (
	"google.golang.org/genai"

	"github.com/SatyaPujith/Spotlight/internal/models"
)

// Tool names declared to the model
const (
	ToolQueryYelpAI      = "query_yelp_ai"
	ToolMakeReservation  = "make_reservation"
	reservationPhone     = "+1-555-YELP-RES"
	confirmationIDPrefix = "YELP_"
)

const systemInstruction = `
You are Spotlight, powered by Yelp's AI API for local business intelligence.
You have access to Yelp's comprehensive business database via the 'query_yelp_ai' tool.

**Yelp AI API Integration Workflow**:
1. Analyze the user's local business query and location.
2. ALWAYS use the 'query_yelp_ai' tool to get real-time Yelp business data.
3. Process Yelp AI API responses to provide intelligent insights.
4. For reservations, use the 'make_reservation' tool with Yelp's booking system.

**Location Availability Rules**:
- Yelp AI API is primarily available in the United States, Canada, and select international markets.
- If the query is for locations where Yelp is not available (like India, most of Asia, Africa), inform the user politely.
- For unavailable locations, explain Yelp's current market coverage and suggest they try locations in supported markets.

**Yelp AI Response Rules**:
- Return ONLY valid JSON matching the 'IntelligenceData' schema.
- Transform Yelp AI API business data into our response format.
- Generate personalized "whyThisPlace" insights based on Yelp reviews and ratings.
- Create intelligent comparisons using Yelp's business attributes.
- Include accurate business hours from Yelp's database.
- For unavailable locations, return type "idle" with an explanatory message.
`

const directGenerationHint = "\n\nGenerate business recommendations directly without using tools for this simple query."

func stringSchema() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }

func stringListSchema() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: stringSchema()}
}

func nullable() *bool {
	b := true
	return &b
}

// responseSchema mirrors models.IntelligenceResponse
var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"message": stringSchema(),
		"type": {
			Type: genai.TypeString,
			Enum: []string{
				string(models.IntelligenceOverview),
				string(models.IntelligenceRecommendation),
				string(models.IntelligenceComparison),
				string(models.IntelligenceReservation),
				string(models.IntelligenceIdle),
			},
		},
		"locationSummary": {
			Type:     genai.TypeObject,
			Nullable: nullable(),
			Properties: map[string]*genai.Schema{
				"areaName":           stringSchema(),
				"description":        stringSchema(),
				"dominantCategories": stringListSchema(),
				"vibe":               stringSchema(),
				"averagePrice":       stringSchema(),
			},
		},
		"businesses": {
			Type:     genai.TypeArray,
			Nullable: nullable(),
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id":           stringSchema(),
					"name":         stringSchema(),
					"category":     stringSchema(),
					"price":        stringSchema(),
					"rating":       {Type: genai.TypeNumber},
					"reviewCount":  {Type: genai.TypeNumber},
					"address":      stringSchema(),
					"hours":        stringSchema(),
					"tags":         stringListSchema(),
					"whyThisPlace": stringSchema(),
					"highlight":    stringSchema(),
					"imageUrl":     stringSchema(),
				},
			},
		},
		"comparisonPoints": {
			Type:     genai.TypeArray,
			Nullable: nullable(),
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"attribute": stringSchema(),
					"businessA": stringSchema(),
					"businessB": stringSchema(),
					"winnerId":  {Type: genai.TypeString, Nullable: nullable()},
				},
			},
		},
		"reservationDetails": {
			Type:     genai.TypeObject,
			Nullable: nullable(),
			Properties: map[string]*genai.Schema{
				"businessId":   stringSchema(),
				"businessName": stringSchema(),
				"partySize":    {Type: genai.TypeNumber},
				"time":         stringSchema(),
				"date":         stringSchema(),
				"status":       {Type: genai.TypeString, Enum: []string{models.ReservationPending, models.ReservationConfirmed}},
			},
		},
	},
	Required: []string{"message", "type"},
}

var toolDeclarations = []*genai.FunctionDeclaration{
	{
		Name:        ToolQueryYelpAI,
		Description: "Query Yelp's AI API for intelligent business discovery, recommendations, and local insights. Powered by Yelp's comprehensive business database.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"term":       {Type: genai.TypeString, Description: "Business type or search term (e.g., 'sushi', 'gym', 'coffee shops')"},
				"location":   {Type: genai.TypeString, Description: "City, neighborhood, or address for local search"},
				"price":      {Type: genai.TypeString, Description: "Price filter: 1 (budget), 2 (moderate), 3 (expensive), 4 (very expensive)"},
				"categories": {Type: genai.TypeString, Description: "Yelp business categories (comma-separated)"},
			},
			Required: []string{"location"},
		},
	},
	{
		Name:        ToolMakeReservation,
		Description: "Make restaurant reservations through Yelp's booking system. Supports thousands of locations across US & Canada.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"businessId": {Type: genai.TypeString, Description: "Yelp business ID"},
				"date":       {Type: genai.TypeString, Description: "Reservation date (YYYY-MM-DD)"},
				"time":       {Type: genai.TypeString, Description: "Reservation time (HH:MM)"},
				"partySize":  {Type: genai.TypeNumber, Description: "Number of guests"},
			},
			Required: []string{"businessId", "date", "time", "partySize"},
		},
	},
}

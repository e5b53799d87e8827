package models

// IntelligenceType tells the client which panel to render for a reply
type IntelligenceType string

const (
	IntelligenceOverview       IntelligenceType = "overview"
	IntelligenceRecommendation IntelligenceType = "recommendation"
	IntelligenceComparison     IntelligenceType = "comparison"
	IntelligenceReservation    IntelligenceType = "reservation"
	IntelligenceIdle           IntelligenceType = "idle"
)

// Valid reports whether t is one of the known reply types
func (t IntelligenceType) Valid() bool {
	switch t {
	case IntelligenceOverview, IntelligenceRecommendation, IntelligenceComparison,
		IntelligenceReservation, IntelligenceIdle:
		return true
	}
	return false
}

// IntelligenceResponse is the structured reply returned by the chat endpoint.
// Only Message and Type are always present; the remaining fields are independent
// of Type.
type IntelligenceResponse struct {
	Message            string              `json:"message"`
	Type               IntelligenceType    `json:"type"`
	LocationSummary    *LocationSummary    `json:"locationSummary,omitempty"`
	Businesses         []Business          `json:"businesses,omitempty"`
	ComparisonPoints   []ComparisonPoint   `json:"comparisonPoints,omitempty"`
	ReservationDetails *ReservationDetails `json:"reservationDetails,omitempty"`
}

// Business is a business card as rendered by the client
type Business struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Price        string   `json:"price"`
	Rating       float64  `json:"rating"`
	ReviewCount  int      `json:"reviewCount"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	Address      string   `json:"address"`
	Hours        string   `json:"hours,omitempty"`
	Tags         []string `json:"tags"`
	WhyThisPlace string   `json:"whyThisPlace,omitempty"`
	Highlight    string   `json:"highlight,omitempty"`
}

// LocationSummary describes the area a query is about
type LocationSummary struct {
	AreaName           string   `json:"areaName"`
	Description        string   `json:"description"`
	DominantCategories []string `json:"dominantCategories"`
	Vibe               string   `json:"vibe"`
	AveragePrice       string   `json:"averagePrice"`
}

// ComparisonPoint compares two businesses on one attribute.
// WinnerID is "A", "B" or empty.
type ComparisonPoint struct {
	Attribute string `json:"attribute"`
	BusinessA string `json:"businessA"`
	BusinessB string `json:"businessB"`
	WinnerID  string `json:"winnerId,omitempty"`
}

// Reservation statuses
const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
)

// ReservationDetails is the confirmation card for a booking
type ReservationDetails struct {
	BusinessID   string `json:"businessId"`
	BusinessName string `json:"businessName"`
	PartySize    int    `json:"partySize"`
	Time         string `json:"time"`
	Date         string `json:"date"`
	Status       string `json:"status"`
}

// Chat roles accepted in history
const (
	ChatRoleUser  = "user"
	ChatRoleModel = "model"
)

// ChatTurn is one message of the client-side conversation history
type ChatTurn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	History []ChatTurn `json:"history"`
	Message string     `json:"message"`
}

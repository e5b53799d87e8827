package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/SatyaPujith/Spotlight/internal/models"
)

// rawIntelligence is the model output before validation. Loose fields are typed
// as any or float64 so coercion can happen after decoding.
type rawIntelligence struct {
	Message            string                  `json:"message"`
	Type               string                  `json:"type"`
	LocationSummary    *models.LocationSummary `json:"locationSummary"`
	Businesses         []rawBusiness           `json:"businesses"`
	ComparisonPoints   []rawComparisonPoint    `json:"comparisonPoints"`
	ReservationDetails *rawReservation         `json:"reservationDetails"`
}

type rawBusiness struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Price        any      `json:"price"`
	Rating       float64  `json:"rating"`
	ReviewCount  float64  `json:"reviewCount"`
	ImageURL     string   `json:"imageUrl"`
	Address      string   `json:"address"`
	Hours        string   `json:"hours"`
	Tags         []string `json:"tags"`
	WhyThisPlace string   `json:"whyThisPlace"`
	Highlight    string   `json:"highlight"`
}

type rawComparisonPoint struct {
	Attribute string  `json:"attribute"`
	BusinessA string  `json:"businessA"`
	BusinessB string  `json:"businessB"`
	WinnerID  *string `json:"winnerId"`
}

type rawReservation struct {
	BusinessID   string  `json:"businessId"`
	BusinessName string  `json:"businessName"`
	PartySize    float64 `json:"partySize"`
	Time         string  `json:"time"`
	Date         string  `json:"date"`
	Status       string  `json:"status"`
}

// ParseIntelligence decodes model output into a reply. Structure is strict: the
// message, a known type, and an id and name on every business are required.
// Values are lenient: ratings, counts, prices, winners and statuses are coerced.
func ParseIntelligence(text string) (*models.IntelligenceResponse, error) {
	var raw rawIntelligence
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	message := strings.TrimSpace(raw.Message)
	if message == "" {
		return nil, fmt.Errorf("%w: missing message", ErrMalformedOutput)
	}
	typ := models.IntelligenceType(strings.ToLower(strings.TrimSpace(raw.Type)))
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrMalformedOutput, raw.Type)
	}

	out := &models.IntelligenceResponse{
		Message:         raw.Message,
		Type:            typ,
		LocationSummary: raw.LocationSummary,
	}

	for i, b := range raw.Businesses {
		if strings.TrimSpace(b.ID) == "" || strings.TrimSpace(b.Name) == "" {
			return nil, fmt.Errorf("%w: business %d is missing id or name", ErrMalformedOutput, i)
		}
		tags := b.Tags
		if tags == nil {
			tags = []string{}
		}
		out.Businesses = append(out.Businesses, models.Business{
			ID:           b.ID,
			Name:         b.Name,
			Category:     b.Category,
			Price:        normalizePrice(b.Price),
			Rating:       math.Min(math.Max(b.Rating, 0), 5),
			ReviewCount:  int(math.Max(math.Round(b.ReviewCount), 0)),
			ImageURL:     b.ImageURL,
			Address:      b.Address,
			Hours:        b.Hours,
			Tags:         tags,
			WhyThisPlace: b.WhyThisPlace,
			Highlight:    b.Highlight,
		})
	}

	for _, p := range raw.ComparisonPoints {
		out.ComparisonPoints = append(out.ComparisonPoints, models.ComparisonPoint{
			Attribute: p.Attribute,
			BusinessA: p.BusinessA,
			BusinessB: p.BusinessB,
			WinnerID:  normalizeWinner(p.WinnerID),
		})
	}

	if r := raw.ReservationDetails; r != nil {
		status := strings.ToLower(strings.TrimSpace(r.Status))
		if status != models.ReservationConfirmed {
			status = models.ReservationPending
		}
		out.ReservationDetails = &models.ReservationDetails{
			BusinessID:   r.BusinessID,
			BusinessName: r.BusinessName,
			PartySize:    int(math.Max(math.Round(r.PartySize), 0)),
			Time:         r.Time,
			Date:         r.Date,
			Status:       status,
		}
	}

	return out, nil
}

// normalizePrice keeps "$".."$$$$" and maps tiers 1..4 to dollar signs
func normalizePrice(v any) string {
	var s string
	switch p := v.(type) {
	case string:
		s = strings.TrimSpace(p)
	case float64:
		if p == math.Trunc(p) {
			s = fmt.Sprintf("%d", int(p))
		}
	default:
		return ""
	}

	if n := len(s); n >= 1 && n <= 4 && strings.Count(s, "$") == n {
		return s
	}
	switch s {
	case "1", "2", "3", "4":
		return strings.Repeat("$", int(s[0]-'0'))
	}
	return ""
}

func normalizeWinner(w *string) string {
	if w == nil {
		return ""
	}
	switch strings.ToUpper(strings.TrimSpace(*w)) {
	case "A":
		return "A"
	case "B":
		return "B"
	}
	return ""
}

package models

// Coordinates is a latitude/longitude pair in degrees
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Region carries the map center of a directory search
type Region struct {
	Center Coordinates `json:"center"`
}

// DirectoryCategory is a Yelp category alias/title pair
type DirectoryCategory struct {
	Alias string `json:"alias"`
	Title string `json:"title"`
}

// DirectoryLocation is the postal address of a directory listing
type DirectoryLocation struct {
	Address1       string   `json:"address1"`
	City           string   `json:"city"`
	ZipCode        string   `json:"zip_code"`
	Country        string   `json:"country"`
	State          string   `json:"state"`
	DisplayAddress []string `json:"display_address"`
}

// DirectoryBusiness is a listing in the Yelp business search format
type DirectoryBusiness struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	ImageURL     string              `json:"image_url"`
	IsClosed     bool                `json:"is_closed"`
	URL          string              `json:"url"`
	ReviewCount  int                 `json:"review_count"`
	Categories   []DirectoryCategory `json:"categories"`
	Rating       float64             `json:"rating"`
	Coordinates  Coordinates         `json:"coordinates"`
	Transactions []string            `json:"transactions"`
	Price        string              `json:"price,omitempty"`
	Location     DirectoryLocation   `json:"location"`
	Phone        string              `json:"phone"`
	DisplayPhone string              `json:"display_phone"`
	Distance     float64             `json:"distance"`
}

// SearchResult is the outcome of a business directory search.
// Unavailable marks a location outside coverage; it is not the same as zero results.
type SearchResult struct {
	Businesses  []DirectoryBusiness `json:"businesses"`
	Total       int                 `json:"total"`
	Region      Region              `json:"region"`
	Message     string              `json:"message,omitempty"`
	Unavailable bool                `json:"unavailable,omitempty"`
}

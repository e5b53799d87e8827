package yelp

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/SatyaPujith/Spotlight/internal/models"
)

const (
	DefaultFusionBaseURL = "https://api.yelp.com/v3"
	searchLimit          = 5
)

// fusionError is the error body of the Fusion API
type fusionError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// FusionClient queries the Yelp Fusion business search API
type FusionClient struct {
	client *resty.Client
	apiKey string
}

// NewFusionClient creates a client. An empty apiKey yields a client whose searches
// return ErrNotConfigured.
func NewFusionClient(baseURL, apiKey string, timeout time.Duration) *FusionClient {
	if baseURL == "" {
		baseURL = DefaultFusionBaseURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	return &FusionClient{client: client, apiKey: apiKey}
}

func (c *FusionClient) Name() string { return "fusion" }

// Search calls GET /businesses/search
func (c *FusionClient) Search(ctx context.Context, params SearchParams) (*models.SearchResult, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	query := map[string]string{
		"location": withDefault(params.Location, "San Francisco"),
		"limit":    strconv.Itoa(searchLimit),
	}
	if params.Term != "" {
		query["term"] = params.Term
	}
	if params.Price != "" {
		query["price"] = params.Price
	}
	if params.Categories != "" {
		query["categories"] = params.Categories
	}

	var result models.SearchResult
	var apiErr fusionError
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(&result).
		SetError(&apiErr).
		Get("/businesses/search")
	if err != nil {
		return nil, fmt.Errorf("fusion search: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fusion search: status %d: %s %s", resp.StatusCode(), apiErr.Error.Code, apiErr.Error.Description)
	}
	return &result, nil
}

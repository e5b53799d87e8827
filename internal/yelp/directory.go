// Package yelp sources business listings for the query_yelp_ai tool.
package yelp

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/SatyaPujith/Spotlight/internal/fallback"
	"github.com/SatyaPujith/Spotlight/internal/location"
	"github.com/SatyaPujith/Spotlight/internal/models"
)

// ErrNotConfigured is returned by a source that has no credentials
var ErrNotConfigured = errors.New("yelp: source not configured")

// SearchParams are the query_yelp_ai tool arguments
type SearchParams struct {
	Term       string `mapstructure:"term" json:"term,omitempty"`
	Location   string `mapstructure:"location" json:"location"`
	Price      string `mapstructure:"price" json:"price,omitempty"`
	Categories string `mapstructure:"categories" json:"categories,omitempty"`
}

// Source looks up businesses for a search
type Source interface {
	Name() string
	Search(ctx context.Context, params SearchParams) (*models.SearchResult, error)
}

// Outcome labels how a Directory search was answered
type Outcome string

const (
	OutcomeSource      Outcome = "source"
	OutcomeUnavailable Outcome = "unavailable"
	OutcomeFallback    Outcome = "fallback"
)

// Directory answers searches from a Source and falls back to generated listings.
// Search never fails.
type Directory struct {
	source   Source
	now      func() time.Time
	log      *zap.SugaredLogger
	observer func(Outcome)
}

// DirectoryOption configures a Directory
type DirectoryOption func(*Directory)

// WithClock overrides the clock used for generated listing ids
func WithClock(now func() time.Time) DirectoryOption {
	return func(d *Directory) { d.now = now }
}

// WithObserver is called once per search with how it was answered
func WithObserver(fn func(Outcome)) DirectoryOption {
	return func(d *Directory) { d.observer = fn }
}

// NewDirectory creates a Directory. source may be nil, in which case every search is
// answered by the fallback generator.
func NewDirectory(source Source, log *zap.SugaredLogger, opts ...DirectoryOption) *Directory {
	d := &Directory{source: source, now: time.Now, log: log}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Search resolves the location first: uncovered locations get an unavailable
// result without any upstream call.
func (d *Directory) Search(ctx context.Context, params SearchParams) *models.SearchResult {
	details := location.Resolve(withDefault(params.Location, location.DefaultCity))
	if !details.Available {
		d.observe(OutcomeUnavailable)
		return fallback.Generate(params.Term, params.Location, d.now())
	}

	if d.source == nil {
		d.log.Warnw("No directory source configured, using fallback data", "term", params.Term, "location", params.Location)
		d.observe(OutcomeFallback)
		return fallback.Generate(params.Term, params.Location, d.now())
	}

	result, err := d.source.Search(ctx, params)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			d.log.Warnw("Directory source not configured, using fallback data", "source", d.source.Name())
		} else {
			d.log.Errorw("Directory source failed, using fallback data", "source", d.source.Name(), "error", err)
		}
		d.observe(OutcomeFallback)
		return fallback.Generate(params.Term, params.Location, d.now())
	}

	if result.Businesses == nil {
		result.Businesses = []models.DirectoryBusiness{}
	}
	d.observe(OutcomeSource)
	return result
}

func (d *Directory) observe(o Outcome) {
	if d.observer != nil {
		d.observer(o)
	}
}

func withDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

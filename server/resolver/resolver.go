package resolver

import (
	"context"
	"errors"

	"github.com/KerianM/music-search-api/server"
	"github.com/KerianM/music-search-api/server/provider"
)

var (
	// ErrAllDisabled means every search stage is switched off in config.
	ErrAllDisabled = errors.New("resolver: no search stage enabled")

	// ErrNoMatch means every enabled stage was tried and none produced a
	// result.
	ErrNoMatch = errors.New("resolver: no stage produced a result")
)

// SearchFunc resolves a keyword to a track through one source.
type SearchFunc func(ctx context.Context, keyword string) (*provider.TrackRef, error)

// Stage is one entry in the resolution chain. Order in the slice is priority
// order.
type Stage struct {
	Name    string
	Enabled bool
	Search  SearchFunc
}

// Resolver walks its stages in order and returns the first hit. A stage
// failure of any kind just moves resolution to the next stage.
type Resolver struct {
	stages []Stage
	logger server.Logger
}

// New creates a resolver over the given stages.
func New(stages []Stage, logger server.Logger) *Resolver {
	return &Resolver{stages: stages, logger: logger}
}

// EnabledStages returns the names of enabled stages in priority order.
func (r *Resolver) EnabledStages() []string {
	var names []string
	for _, stage := range r.stages {
		if stage.Enabled {
			names = append(names, stage.Name)
		}
	}
	return names
}

// Resolve tries each enabled stage in priority order.
func (r *Resolver) Resolve(ctx context.Context, keyword string) (*provider.TrackRef, error) {
	attempted := false
	for _, stage := range r.stages {
		if !stage.Enabled {
			continue
		}
		attempted = true

		ref, err := stage.Search(ctx, keyword)
		if err == nil && ref != nil {
			if r.logger != nil {
				r.logger.Info("keyword resolved", "stage", stage.Name, "keyword", keyword, "title", ref.Title)
			}
			return ref, nil
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if r.logger != nil {
				r.logger.Warn("search stage failed", "stage", stage.Name, "keyword", keyword, "error", err)
			}
		}
	}

	if !attempted {
		return nil, ErrAllDisabled
	}
	return nil, ErrNoMatch
}

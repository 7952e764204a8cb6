// Package pipeline implements the versioned snapshot pipeline: extraction,
// per-dimension enforcement, cross-version drift classification, review
// aggregation, and the final status decision.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/driftlab/driftwatch/internal/apperr"
	"github.com/driftlab/driftwatch/internal/models"
	"github.com/driftlab/driftwatch/internal/oracle"
	"github.com/driftlab/driftwatch/internal/store"
)

// Pipeline orchestrates one analysis run per request. Requests for
// different startups run independently; requests for the same startup are
// serialized by a per-startup mutex so version numbers never collide under
// concurrency. The store's version primary key backstops the lock.
type Pipeline struct {
	store  store.Store
	oracle oracle.Oracle
	now    func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock overrides the timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New creates a Pipeline over the given store and oracle.
func New(st store.Store, o oracle.Oracle, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:  st,
		oracle: o,
		now:    time.Now,
		locks:  map[string]*sync.Mutex{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// startupLock returns the mutex for one startup, creating it on first use.
// Entries are never evicted: the map grows with the number of distinct
// startup IDs seen by this process, one mutex each, which stays small for
// the expected per-founder usage and keeps lock handover race-free.
func (p *Pipeline) startupLock(id string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.locks[id]
	if !ok {
		l = &sync.Mutex{}
		p.locks[id] = l
	}
	return l
}

// Analyze runs the full pipeline for one founder submission and persists
// the resulting snapshot. Stages run strictly in sequence; any oracle
// failure aborts before the write, so the store only ever holds
// fully-completed runs.
func (p *Pipeline) Analyze(ctx context.Context, startupID, inputText string) (*models.AnalysisResponse, error) {
	lock := p.startupLock(startupID)
	lock.Lock()
	defer lock.Unlock()

	// Unseen startups are created lazily with an implicit version cursor
	// of 0.
	if err := p.store.EnsureStartup(ctx, startupID); err != nil {
		return nil, err
	}

	prev, err := p.store.Latest(ctx, startupID)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
		prev = nil
	}
	currentVersion := 0
	if prev != nil {
		currentVersion = prev.Version
	}

	draft, err := ExtractSnapshot(ctx, p.oracle, startupID, inputText, currentVersion, p.now())
	if err != nil {
		return nil, err
	}

	userVerdict, err := ValidateTargetUser(ctx, p.oracle, draft)
	if err != nil {
		return nil, err
	}
	draft, channelVerdict, err := EnforceChannel(ctx, p.oracle, draft, inputText)
	if err != nil {
		return nil, err
	}
	draft, hypoVerdict, err := EnforceHypothesis(ctx, p.oracle, draft)
	if err != nil {
		return nil, err
	}

	drift, err := AnalyzeDrift(ctx, p.oracle, prev, draft)
	if err != nil {
		return nil, err
	}

	reviews, status := BuildReviews(userVerdict, channelVerdict, hypoVerdict)

	// Proposing experiments for an idea that fails basic rigor checks is
	// wasted oracle budget; skip the call entirely when blocked.
	experiments := []models.Experiment{}
	if status == models.StatusOK {
		experiments, err = GenerateExperiments(ctx, p.oracle, draft)
		if err != nil {
			return nil, err
		}
	}

	if err := p.store.Append(ctx, draft); err != nil {
		return nil, fmt.Errorf("persist snapshot v%d: %w", draft.Version, err)
	}

	return &models.AnalysisResponse{
		Snapshot:         draft,
		DimensionReviews: reviews,
		Experiments:      experiments,
		Drift:            drift,
		Status:           status,
	}, nil
}

// History returns the committed snapshot sequence for a startup.
func (p *Pipeline) History(ctx context.Context, startupID string) ([]models.Snapshot, error) {
	return p.store.History(ctx, startupID)
}

// Latest returns the most recent committed snapshot for a startup.
func (p *Pipeline) Latest(ctx context.Context, startupID string) (*models.Snapshot, error) {
	return p.store.Latest(ctx, startupID)
}

// ListStartups returns every tracked startup.
func (p *Pipeline) ListStartups(ctx context.Context) ([]models.StartupInfo, error) {
	return p.store.ListStartups(ctx)
}

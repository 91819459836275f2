package petrag

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
)

type RunID struct{ uuid.UUID }

func NewRunID() RunID {
	return RunID{uuid.Must(uuid.NewV4())}
}

// Run is the persisted record of one answered question.
type Run struct {
	ID             RunID
	Question       string
	Location       string
	Intent         Intent
	IntentTier     Tier
	Provenance     Provenance
	UsedFallback   bool
	FallbackCount  int
	EvidenceCount  int
	QualityAverage float64
	Verdict        Verdict
	RewriteState   RewriteState
	Rewrites       int
	BestEffort     bool
	FacilityCount  int
	FinalText      string
	Trace          []Stage
	Created        time.Time
}

type RunFilter struct {
	Intent     Intent
	BestEffort *bool
}

func (f RunFilter) Valid() bool {
	return f.Intent == "" || f.Intent.Valid()
}

func (s *Service) ListRuns(ctx context.Context, filter RunFilter, params SortParams) ([]*Run, error) {
	if !filter.Valid() {
		return nil, fmt.Errorf("%w: unknown intent %q", ErrInvalidQuery, filter.Intent)
	}
	params = params.OrDefault()
	if !params.Valid(RunSortableFields) {
		return nil, fmt.Errorf("%w: invalid sort params", ErrInvalidQuery)
	}
	if s.store == nil {
		return nil, nil
	}

	runs, err := s.store.ListRuns(ctx, filter, params)
	if err != nil {
		return nil, fmt.Errorf("error listing runs: %w", err)
	}
	return runs, nil
}

func (s *Service) FindRun(ctx context.Context, id RunID) (*Run, error) {
	if s.store == nil {
		return nil, ErrNotFound
	}

	run, err := s.store.FindRun(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error finding run: %w", err)
	}
	return run, nil
}

func (s *Service) saveRun(ctx context.Context, query Query, resp *Response) {
	if s.store == nil {
		return
	}

	run := &Run{
		ID:            resp.RunID,
		Question:      query.Text,
		Location:      query.Location,
		Intent:        resp.Intent.Intent,
		IntentTier:    resp.Intent.Tier,
		Provenance:    resp.Provenance,
		UsedFallback:  resp.UsedFallback,
		FallbackCount: resp.FallbackCount,
		EvidenceCount: resp.EvidenceCount,
		RewriteState:  resp.RewriteState,
		Rewrites:      resp.Rewrites,
		BestEffort:    resp.BestEffort,
		FacilityCount: len(resp.Facilities),
		FinalText:     resp.FinalText,
		Trace:         resp.Trace,
		Created:       s.now(),
	}
	if resp.Quality != nil {
		run.QualityAverage = resp.Quality.Average
		run.Verdict = resp.Quality.Verdict
	}

	if err := s.store.SaveRun(context.WithoutCancel(ctx), run); err != nil {
		s.logger.Sugar().With("error", err, "run", run.ID).Error("save run failed")
	}
}

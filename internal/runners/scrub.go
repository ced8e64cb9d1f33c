package runners

import (
	"context"
	"fmt"
	"time"

	"github.com/bizlink/leadgen-backend/internal/users"
	"github.com/bizlink/leadgen-backend/pkg/logger"
	"github.com/bizlink/leadgen-backend/pkg/metrics"
)

const scrubRunnerName = "scrub-users"

type scrubUserRepository interface {
	ScrubAll(ctx context.Context) (users.ScrubResult, error)
}

// ScrubRunnerParams configures the cleanup pass.
type ScrubRunnerParams struct {
	Logger  *logger.Logger
	Users   scrubUserRepository
	Metrics *metrics.RunnerMetrics
}

// ScrubRunner bulk-removes the pre-split business columns from every user row
// still carrying one. A second run matches zero rows.
type ScrubRunner struct {
	logg    *logger.Logger
	users   scrubUserRepository
	metrics *metrics.RunnerMetrics
	now     func() time.Time
}

// NewScrubRunner constructs the cleanup pass.
func NewScrubRunner(params ScrubRunnerParams) (*ScrubRunner, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &ScrubRunner{
		logg:    params.Logger,
		users:   params.Users,
		metrics: params.Metrics,
		now:     time.Now,
	}, nil
}

// Run executes the bulk scrub and reports matched and modified counts.
func (r *ScrubRunner) Run(ctx context.Context) (users.ScrubResult, error) {
	start := r.now()
	ctx = r.logg.WithField(ctx, "runner", scrubRunnerName)
	r.logg.Info(ctx, "scrub pass started")

	result, err := r.users.ScrubAll(ctx)
	if err != nil {
		r.metrics.IncFailure(scrubRunnerName)
		return result, fmt.Errorf("scrub users: %w", err)
	}

	r.metrics.AddRecords(scrubRunnerName, "matched", int(result.Matched))
	r.metrics.AddRecords(scrubRunnerName, "modified", int(result.Modified))
	r.metrics.ObserveDuration(scrubRunnerName, r.now().Sub(start))
	r.metrics.IncSuccess(scrubRunnerName)

	r.logg.Info(r.logg.WithFields(ctx, map[string]any{
		"matched":  result.Matched,
		"modified": result.Modified,
	}), "scrub pass finished")

	return result, nil
}

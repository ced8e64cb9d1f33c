// Package runners contains the offline maintenance passes. They are expected
// to run single-instance, not concurrently with themselves.
package runners

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/bizlink/leadgen-backend/internal/linkage"
	"github.com/bizlink/leadgen-backend/pkg/db/models"
	"github.com/bizlink/leadgen-backend/pkg/logger"
	"github.com/bizlink/leadgen-backend/pkg/metrics"
)

const backfillRunnerName = "backfill-businesses"

type backfillUserRepository interface {
	FindBusinessUsersWithoutBusiness(ctx context.Context, limit int) ([]models.User, error)
}

type businessLinker interface {
	AdoptOrCreateBusiness(ctx context.Context, user *models.User, fields linkage.BusinessFields) (*models.Business, int, error)
}

// BackfillRunnerParams configures the repair pass.
type BackfillRunnerParams struct {
	Logger  *logger.Logger
	Users   backfillUserRepository
	Linker  businessLinker
	Metrics *metrics.RunnerMetrics
}

// BackfillRunner restores the missing User/Business linkage for business
// users left without a storefront: legacy imports, manual inserts, or
// registrations that failed between the two writes.
type BackfillRunner struct {
	logg    *logger.Logger
	users   backfillUserRepository
	linker  businessLinker
	metrics *metrics.RunnerMetrics
	now     func() time.Time
}

// NewBackfillRunner constructs the repair pass.
func NewBackfillRunner(params BackfillRunnerParams) (*BackfillRunner, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if params.Linker == nil {
		return nil, fmt.Errorf("linker required")
	}
	return &BackfillRunner{
		logg:    params.Logger,
		users:   params.Users,
		linker:  params.Linker,
		metrics: params.Metrics,
		now:     time.Now,
	}, nil
}

// BackfillResult summarizes one repair pass. Adopted counts the users whose
// existing orphan business was relinked instead of a new one being created.
type BackfillResult struct {
	Candidates int
	Linked     int
	Adopted    int
	Failed     int
}

// Run finds every business user without a storefront and links one. A user
// who already owns business rows has the oldest adopted; duplicate-owner rows
// are logged and left in place. A failing user is logged and skipped; the
// pass is idempotent at the batch level because each run re-queries current
// state.
func (r *BackfillRunner) Run(ctx context.Context) (BackfillResult, error) {
	start := r.now()
	var result BackfillResult

	candidates, err := r.users.FindBusinessUsersWithoutBusiness(ctx, 0)
	if err != nil {
		r.metrics.IncFailure(backfillRunnerName)
		return result, fmt.Errorf("query users without business: %w", err)
	}

	result.Candidates = len(candidates)
	ctx = r.logg.WithFields(ctx, map[string]any{"runner": backfillRunnerName, "candidates": result.Candidates})
	r.logg.Info(ctx, "backfill pass started")

	var errs error
	for i := range candidates {
		user := &candidates[i]
		userCtx := r.logg.WithField(ctx, "user_id", user.ID.String())

		business, owned, err := r.linker.AdoptOrCreateBusiness(userCtx, user, linkage.BusinessFields{})
		if err != nil {
			result.Failed++
			errs = multierr.Append(errs, fmt.Errorf("user %s: %w", user.ID, err))
			r.logg.Error(userCtx, "backfill user failed", err)
			continue
		}

		result.Linked++
		if owned > 0 {
			result.Adopted++
		}
		if owned > 1 {
			r.logg.Warn(r.logg.WithField(userCtx, "owned_businesses", owned), "duplicate businesses for owner, oldest adopted")
		}
		r.logg.Info(r.logg.WithField(userCtx, "business_id", business.ID.String()), "business backfilled")
	}

	r.metrics.AddRecords(backfillRunnerName, "linked", result.Linked)
	r.metrics.AddRecords(backfillRunnerName, "adopted", result.Adopted)
	r.metrics.AddRecords(backfillRunnerName, "failed", result.Failed)
	r.metrics.ObserveDuration(backfillRunnerName, r.now().Sub(start))
	if result.Failed > 0 {
		r.metrics.IncFailure(backfillRunnerName)
	} else {
		r.metrics.IncSuccess(backfillRunnerName)
	}

	r.logg.Info(r.logg.WithFields(ctx, map[string]any{
		"linked": result.Linked,
		"failed": result.Failed,
	}), "backfill pass finished")

	return result, errs
}

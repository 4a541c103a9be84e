package cron

import (
	"context"
	"fmt"

	"github.com/wafarle/wafarle-backend/pkg/logger"
)

type statsRecomputer interface {
	RecomputeAllProductStats(ctx context.Context) (int, error)
}

// ReviewStatsJobParams configure the scheduled review reconciliation.
type ReviewStatsJobParams struct {
	Logger  *logger.Logger
	Reviews statsRecomputer
}

// NewReviewStatsJob constructs the job that recomputes cached product
// rating aggregates from the approved review rows.
func NewReviewStatsJob(params ReviewStatsJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Reviews == nil {
		return nil, fmt.Errorf("reviews service required")
	}
	return &reviewStatsJob{
		logg:    params.Logger,
		reviews: params.Reviews,
	}, nil
}

type reviewStatsJob struct {
	logg    *logger.Logger
	reviews statsRecomputer
}

func (j *reviewStatsJob) Name() string { return "review-stats" }

func (j *reviewStatsJob) Run(ctx context.Context) error {
	count, err := j.reviews.RecomputeAllProductStats(ctx)
	if err != nil {
		return fmt.Errorf("recompute product stats: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"products": count})
	j.logg.Info(logCtx, "review stats reconcile complete")
	return nil
}

package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/wafarle/wafarle-backend/pkg/logger"
)

type expiredMarker interface {
	MarkExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// LicenseExpiryJobParams configure the scheduled license sweep.
type LicenseExpiryJobParams struct {
	Logger   *logger.Logger
	Licenses expiredMarker
}

// NewLicenseExpiryJob constructs the job that persists the expired status
// for non-permanent licenses whose expiry date has lapsed. Verification is
// driven by date math either way; the sweep keeps stored rows and admin
// listings honest.
func NewLicenseExpiryJob(params LicenseExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Licenses == nil {
		return nil, fmt.Errorf("license repository required")
	}
	return &licenseExpiryJob{
		logg:     params.Logger,
		licenses: params.Licenses,
		now:      time.Now,
	}, nil
}

type licenseExpiryJob struct {
	logg     *logger.Logger
	licenses expiredMarker
	now      func() time.Time
}

func (j *licenseExpiryJob) Name() string { return "license-expiry" }

func (j *licenseExpiryJob) Run(ctx context.Context) error {
	count, err := j.licenses.MarkExpiredBefore(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("mark expired licenses: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{"count": count})
	j.logg.Info(logCtx, "license expiry sweep complete")
	return nil
}

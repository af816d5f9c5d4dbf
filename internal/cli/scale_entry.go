package corebench

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwiater/corebench/internal/appconfig"
	"github.com/mwiater/corebench/internal/logging"
	"github.com/mwiater/corebench/internal/metrics"
	"github.com/mwiater/corebench/internal/report"
	"github.com/mwiater/corebench/internal/scalability"
)

// runScale runs the suite with one worker and with the configured worker
// count, reports both runs and their comparison, and fails when either run
// recorded failures. A cancelled run reports what completed first.
func runScale(cmd *cobra.Command, cfg *appconfig.Config) error {
	if cfg == nil {
		return errors.New("configuration not loaded")
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	s, err := newSession(cfg, 2)
	if err != nil {
		return err
	}
	stop := s.start()
	baseline, scaled, runErr := runConfiguredScalability(ctx, cfg, cfg.Workers, s.observer())
	stop()
	if baseline == nil {
		return runErr
	}

	opts := reportOptions(cfg, out)
	for _, r := range []*metrics.Result{baseline, scaled} {
		if r == nil {
			continue
		}
		if err := report.Write(out, r, opts); err != nil {
			return err
		}
		if !opts.Quiet && opts.Format == report.FormatText {
			fmt.Fprintln(out)
		}
	}

	if scaled != nil {
		res, err := scalability.Compare(baseline, scaled, scalability.Options{KeepOutliers: cfg.KeepOutliers, Stdev: cfg.Stdev})
		switch {
		case err != nil && runErr == nil:
			return err
		case err != nil:
			logging.LogEvent("Scalability: %v", err)
		default:
			if !res.Meaningful {
				logging.LogEvent("Scalability: %v", res.Err())
			} else {
				logging.LogEvent("Scalability: total %.2f with %d workers", res.Total.Mean(), res.ScaledWorkers)
			}
			if err := report.WriteScalability(out, res, opts); err != nil {
				return err
			}
			if cfg.Output != "" {
				if err := report.Export(cfg.Output, res); err != nil {
					return err
				}
			}
		}
	}

	if err := s.finish(ctx, baseline, scaled); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	failed, errored := baseline.Failures()
	if scaled != nil {
		f, e := scaled.Failures()
		failed, errored = failed+f, errored+e
	}
	if failed > 0 || errored > 0 {
		return fmt.Errorf("%d verification failures, %d errors", failed, errored)
	}
	return nil
}

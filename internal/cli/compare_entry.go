package corebench

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mwiater/corebench/internal/appconfig"
	"github.com/mwiater/corebench/internal/metrics"
	"github.com/mwiater/corebench/internal/report"
	"github.com/mwiater/corebench/internal/scalability"
	"github.com/mwiater/corebench/internal/store"
)

func runCompare(cmd *cobra.Command, cfg *appconfig.Config, baselineRef, scaledRef string) error {
	if cfg == nil {
		return errors.New("configuration not loaded")
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	resolver := &runResolver{path: cfg.StorePath()}
	defer resolver.close()
	baseline, err := resolver.resolve(ctx, baselineRef)
	if err != nil {
		return err
	}
	scaled, err := resolver.resolve(ctx, scaledRef)
	if err != nil {
		return err
	}

	res, err := scalability.Compare(baseline, scaled, scalability.Options{KeepOutliers: cfg.KeepOutliers, Stdev: cfg.Stdev})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if err := report.WriteScalability(out, res, reportOptions(cfg, out)); err != nil {
		return err
	}
	if cfg.Output != "" {
		return report.Export(cfg.Output, res)
	}
	return nil
}

// runResolver loads runs from files, opening the history store only when a
// reference is not a file.
type runResolver struct {
	path string
	st   store.Store
}

func (r *runResolver) resolve(ctx context.Context, ref string) (*metrics.Result, error) {
	if info, err := os.Stat(ref); err == nil && !info.IsDir() {
		return report.LoadResult(ref)
	}
	if r.st == nil {
		st, err := openStore(r.path)
		if err != nil {
			return nil, err
		}
		r.st = st
	}
	res, err := r.st.GetRun(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("run %q: %w", ref, err)
	}
	return res, nil
}

func (r *runResolver) close() {
	if r.st != nil {
		r.st.Close()
	}
}

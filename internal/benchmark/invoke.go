package benchmark

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"reflect"
	"time"

	"github.com/mwiater/corebench/internal/metrics"
	"github.com/mwiater/corebench/internal/pool"
	"github.com/mwiater/corebench/internal/workloads"
)

// ErrPanic wraps a value recovered from a panicking workload.
var ErrPanic = errors.New("workload panicked")

// argument picks the workload argument and the number of calls per timed
// region. Quick mode prefers the quick argument; normal mode scales the
// normal argument. Without any argument the workload is called scale times.
func argument(def Definition, quick bool, scale int) (arg, calls int) {
	if quick {
		switch {
		case def.QuickArg != nil:
			return *def.QuickArg, 1
		case def.NormalArg != nil:
			return *def.NormalArg, 1
		default:
			return 0, 1
		}
	}
	if def.NormalArg != nil {
		return *def.NormalArg * scale, 1
	}
	return 0, scale
}

// newRand returns a fresh source. A nonzero seed makes every call with the
// same seed draw the same sequence.
func newRand(seed int64) *rand.Rand {
	if seed != 0 {
		return rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// invocation wraps a definition into a pool call that reseeds, times and
// captures a single worker's run.
func invocation(def Definition, arg, calls int, seed int64) pool.Call {
	return func(ctx context.Context, worker int) (res pool.Result) {
		in := workloads.Input{Arg: arg, Worker: worker, Rand: newRand(seed)}

		var start time.Time
		defer func() {
			if p := recover(); p != nil {
				res = pool.Result{Worker: worker, Elapsed: time.Since(start), Err: fmt.Errorf("%w: %v", ErrPanic, p)}
			}
		}()

		var value any
		var err error
		start = time.Now()
		for i := 0; i < calls; i++ {
			value, err = def.Func(ctx, in)
			if err != nil {
				break
			}
		}
		elapsed := time.Since(start)
		return pool.Result{Worker: worker, Elapsed: elapsed, Value: value, Err: err}
	}
}

// verdict compares a returned value against the expected value.
func verdict(def Definition, r pool.Result, noPass bool) metrics.Verdict {
	if noPass || def.Expected == nil || r.Err != nil {
		return metrics.VerdictUnchecked
	}
	if Equal(r.Value, def.Expected) {
		return metrics.VerdictPass
	}
	return metrics.VerdictFail
}

// Equal reports whether got matches want. Numbers compare by value across Go
// numeric types so expected values decoded from config files match.
func Equal(got, want any) bool {
	if reflect.DeepEqual(got, want) {
		return true
	}
	g, gok := toFloat(got)
	w, wok := toFloat(want)
	return gok && wok && g == w
}

func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

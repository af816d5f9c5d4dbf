package workloads

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"reflect"
	"slices"
	"time"
)

const (
	fibDepth     = 25
	sievePrimes  = 200000
	sortLength   = 20000
	hashBlock    = 32 * 1024
	gzipBlock    = 64 * 1024
	matrixOrder  = 48
	piSamples    = 100000
	jsonPayloads = 64
)

func init() {
	Register(Workload{
		Name:      "fib",
		Summary:   "naive recursive fibonacci of 25",
		Func:      Fib,
		Reference: 150 * time.Millisecond,
		Expected:  75025,
		QuickArg:  intPtr(2),
		NormalArg: intPtr(50),
	})
	Register(Workload{
		Name:      "sieve",
		Summary:   "sieve of Eratosthenes below 200000",
		Func:      Sieve,
		Reference: 100 * time.Millisecond,
		Expected:  17984,
		QuickArg:  intPtr(5),
		NormalArg: intPtr(100),
	})
	Register(Workload{
		Name:      "sort",
		Summary:   "sort 20000 random integers",
		Func:      Sort,
		Reference: 120 * time.Millisecond,
		Expected:  true,
		QuickArg:  intPtr(2),
		NormalArg: intPtr(80),
	})
	Register(Workload{
		Name:      "sha256",
		Summary:   "chained sha256 over a 32 KiB random block",
		Func:      SHA256,
		Reference: 100 * time.Millisecond,
		QuickArg:  intPtr(20),
		NormalArg: intPtr(1000),
	})
	Register(Workload{
		Name:      "json",
		Summary:   "encode and decode a batch of records",
		Func:      JSON,
		Reference: 150 * time.Millisecond,
		Expected:  true,
		QuickArg:  intPtr(5),
		NormalArg: intPtr(200),
	})
	Register(Workload{
		Name:      "gzip",
		Summary:   "compress and decompress a 64 KiB block",
		Func:      Gzip,
		Reference: 200 * time.Millisecond,
		Expected:  true,
		QuickArg:  intPtr(2),
		NormalArg: intPtr(60),
	})
	Register(Workload{
		Name:      "matmul",
		Summary:   "48x48 float64 matrix multiply",
		Func:      MatMul,
		Reference: 100 * time.Millisecond,
		QuickArg:  intPtr(10),
		NormalArg: intPtr(400),
	})
	Register(Workload{
		Name:      "montecarlo",
		Summary:   "monte carlo estimate of pi",
		Func:      MonteCarlo,
		Reference: 100 * time.Millisecond,
		QuickArg:  intPtr(2),
		NormalArg: intPtr(100),
	})
}

// Fib computes fib(25) recursively Arg times.
func Fib(ctx context.Context, in Input) (any, error) {
	var v int
	for i := 0; i < repetitions(in.Arg); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v = fib(fibDepth)
	}
	return v, nil
}

func fib(n int) int {
	if n < 2 {
		return n
	}
	return fib(n-1) + fib(n-2)
}

// Sieve counts the primes below 200000 Arg times.
func Sieve(ctx context.Context, in Input) (any, error) {
	var count int
	composite := make([]bool, sievePrimes)
	for i := 0; i < repetitions(in.Arg); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		clear(composite)
		count = 0
		for n := 2; n < sievePrimes; n++ {
			if composite[n] {
				continue
			}
			count++
			for m := n * n; m < sievePrimes; m += n {
				composite[m] = true
			}
		}
	}
	return count, nil
}

// Sort sorts a freshly drawn slice of random integers Arg times and reports
// whether every pass produced an ordered slice.
func Sort(ctx context.Context, in Input) (any, error) {
	values := make([]int, sortLength)
	ok := true
	for i := 0; i < repetitions(in.Arg); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := range values {
			values[j] = in.Rand.IntN(1 << 30)
		}
		slices.Sort(values)
		ok = ok && slices.IsSorted(values)
	}
	return ok, nil
}

// SHA256 chains sha256 digests over a random block Arg times and returns the
// final digest in hex.
func SHA256(ctx context.Context, in Input) (any, error) {
	block := make([]byte, hashBlock)
	fillRandom(in, block)
	var sum [sha256.Size]byte
	for i := 0; i < repetitions(in.Arg); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		h := sha256.New()
		h.Write(sum[:])
		h.Write(block)
		copy(sum[:], h.Sum(nil))
	}
	return hex.EncodeToString(sum[:]), nil
}

type record struct {
	ID      int               `json:"id"`
	Name    string            `json:"name"`
	Score   float64           `json:"score"`
	Tags    []string          `json:"tags"`
	Attrs   map[string]string `json:"attrs"`
	Enabled bool              `json:"enabled"`
}

// JSON encodes and decodes a batch of records Arg times and reports whether
// every round trip returned the original batch.
func JSON(ctx context.Context, in Input) (any, error) {
	batch := make([]record, jsonPayloads)
	for i := range batch {
		batch[i] = record{
			ID:      i,
			Name:    "record",
			Score:   float64(in.Rand.IntN(10000)) / 100,
			Tags:    []string{"a", "b", "c"},
			Attrs:   map[string]string{"worker": "w", "slot": "s"},
			Enabled: i%2 == 0,
		}
	}
	ok := true
	for i := 0; i < repetitions(in.Arg); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := json.Marshal(batch)
		if err != nil {
			return nil, err
		}
		var decoded []record
		if err := json.Unmarshal(data, &decoded); err != nil {
			return nil, err
		}
		ok = ok && reflect.DeepEqual(batch, decoded)
	}
	return ok, nil
}

// Gzip compresses and decompresses a semi-random block Arg times and reports
// whether every round trip preserved the block.
func Gzip(ctx context.Context, in Input) (any, error) {
	block := make([]byte, gzipBlock)
	for i := range block {
		// Narrow alphabet so the block is compressible.
		block[i] = 'a' + byte(in.Rand.IntN(8))
	}
	var buf bytes.Buffer
	ok := true
	for i := 0; i < repetitions(in.Arg); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		buf.Reset()
		zw := gzip.NewWriter(&buf)
		if _, err := zw.Write(block); err != nil {
			return nil, err
		}
		if err := zw.Close(); err != nil {
			return nil, err
		}
		zr, err := gzip.NewReader(&buf)
		if err != nil {
			return nil, err
		}
		out, err := io.ReadAll(zr)
		if err != nil {
			return nil, err
		}
		ok = ok && bytes.Equal(out, block)
	}
	return ok, nil
}

// MatMul multiplies two random 48x48 matrices Arg times and returns the trace
// of the last product.
func MatMul(ctx context.Context, in Input) (any, error) {
	const n = matrixOrder
	a := make([]float64, n*n)
	b := make([]float64, n*n)
	c := make([]float64, n*n)
	for i := range a {
		a[i] = in.Rand.Float64()
		b[i] = in.Rand.Float64()
	}
	for r := 0; r < repetitions(in.Arg); r++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		clear(c)
		for i := 0; i < n; i++ {
			for k := 0; k < n; k++ {
				aik := a[i*n+k]
				for j := 0; j < n; j++ {
					c[i*n+j] += aik * b[k*n+j]
				}
			}
		}
	}
	var trace float64
	for i := 0; i < n; i++ {
		trace += c[i*n+i]
	}
	return trace, nil
}

// MonteCarlo estimates pi from Arg batches of random points.
func MonteCarlo(ctx context.Context, in Input) (any, error) {
	var inside, total int
	for r := 0; r < repetitions(in.Arg); r++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for i := 0; i < piSamples; i++ {
			x, y := in.Rand.Float64(), in.Rand.Float64()
			if x*x+y*y <= 1 {
				inside++
			}
		}
		total += piSamples
	}
	return 4 * float64(inside) / float64(total), nil
}

func fillRandom(in Input, buf []byte) {
	for i := 0; i < len(buf); i += 8 {
		v := in.Rand.Uint64()
		for j := 0; j < 8 && i+j < len(buf); j++ {
			buf[i+j] = byte(v >> (8 * j))
		}
	}
}

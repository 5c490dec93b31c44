// Package bench replays one request descriptor repeatedly and reports latency figures.
package bench

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/blackcoderx/ferrapi/pkg/logging"
	"github.com/blackcoderx/ferrapi/pkg/storage"
	"github.com/blackcoderx/ferrapi/pkg/transport"
	"golang.org/x/time/rate"
)

// Transport executes one request.
type Transport interface {
	Do(ctx context.Context, d *storage.RequestDescriptor) (*transport.Response, error)
}

// Options bound a run. The run ends when Duration elapses or Requests have been sent,
// whichever comes first.
type Options struct {
	Duration    time.Duration
	Rate        int
	Concurrency int
	// Requests caps the total number of requests. Zero means no cap.
	Requests    int64
	RampUp      time.Duration
}

// Validate rejects options that would never send a request.
func (o Options) Validate() error {
	switch {
	case o.Duration <= 0:
		return fmt.Errorf("duration must be greater than 0")
	case o.Rate <= 0:
		return fmt.Errorf("rate must be greater than 0")
	case o.Concurrency <= 0:
		return fmt.Errorf("concurrency must be greater than 0")
	case o.Requests < 0:
		return fmt.Errorf("requests cannot be negative")
	case o.RampUp < 0:
		return fmt.Errorf("ramp-up cannot be negative")
	}
	return nil
}

// Result holds the figures of a finished run.
type Result struct {
	Total       int64
	Succeeded   int64
	Failed      int64
	Duration    time.Duration
	Throughput  float64 // requests per second
	ErrorRate   float64 // percent
	Min         time.Duration
	Max         time.Duration
	Avg         time.Duration
	P50         time.Duration
	P95         time.Duration
	P99         time.Duration
	StatusCodes map[int]int64
}

// Run sends d through t with Concurrency workers sharing a Rate limiter.
func Run(ctx context.Context, t Transport, d *storage.RequestDescriptor, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Duration)
	defer cancel()

	limiter := rate.NewLimiter(rate.Limit(opts.Rate), opts.Rate)

	var (
		issued    atomic.Int64
		succeeded atomic.Int64
		failed    atomic.Int64
		mu        sync.Mutex
		latencies []time.Duration
		codes     = make(map[int]int64)
		wg        sync.WaitGroup
	)

	start := time.Now()
	for i := 0; i < opts.Concurrency; i++ {
		var delay time.Duration
		if opts.RampUp > 0 {
			delay = opts.RampUp * time.Duration(i) / time.Duration(opts.Concurrency)
		}

		wg.Add(1)
		go func(delay time.Duration) {
			defer wg.Done()

			if delay > 0 {
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return
				}
			}

			for {
				if err := limiter.Wait(ctx); err != nil {
					return
				}
				if opts.Requests > 0 && issued.Add(1) > opts.Requests {
					return
				}

				reqStart := time.Now()
				resp, err := t.Do(ctx, d)
				elapsed := time.Since(reqStart)

				if err != nil {
					// Requests cut short by the end of the run are not failures.
					if ctx.Err() != nil {
						return
					}
					failed.Add(1)
					logging.Debug("Bench", "request failed: %v", err)
					continue
				}

				succeeded.Add(1)
				mu.Lock()
				latencies = append(latencies, elapsed)
				codes[resp.StatusCode]++
				mu.Unlock()
			}
		}(delay)
	}
	wg.Wait()

	result := &Result{
		Succeeded:   succeeded.Load(),
		Failed:      failed.Load(),
		Duration:    time.Since(start),
		StatusCodes: codes,
	}
	result.Total = result.Succeeded + result.Failed
	if result.Total > 0 {
		result.Throughput = float64(result.Total) / result.Duration.Seconds()
		result.ErrorRate = float64(result.Failed) / float64(result.Total) * 100
	}

	if len(latencies) > 0 {
		sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
		result.Min = latencies[0]
		result.Max = latencies[len(latencies)-1]
		result.P50 = latencies[percentileIndex(len(latencies), 50)]
		result.P95 = latencies[percentileIndex(len(latencies), 95)]
		result.P99 = latencies[percentileIndex(len(latencies), 99)]

		var sum time.Duration
		for _, l := range latencies {
			sum += l
		}
		result.Avg = sum / time.Duration(len(latencies))
	}

	return result, nil
}

// percentileIndex uses the nearest-rank method.
func percentileIndex(n int, percentile int) int {
	if n == 0 {
		return 0
	}
	index := int(math.Ceil(float64(n)*float64(percentile)/100.0)) - 1
	if index < 0 {
		index = 0
	}
	if index >= n {
		index = n - 1
	}
	return index
}

// Format renders r as a plain-text report.
func (r *Result) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Duration:   %.2fs\n", r.Duration.Seconds())
	fmt.Fprintf(&sb, "Requests:   %d (%d ok, %d failed, %.2f%% errors)\n", r.Total, r.Succeeded, r.Failed, r.ErrorRate)
	fmt.Fprintf(&sb, "Throughput: %.2f req/sec\n", r.Throughput)
	fmt.Fprintf(&sb, "Latency:    min %v  avg %v  p50 %v  p95 %v  p99 %v  max %v\n",
		r.Min, r.Avg, r.P50, r.P95, r.P99, r.Max)

	codes := make([]int, 0, len(r.StatusCodes))
	for code := range r.StatusCodes {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	if len(codes) > 0 {
		sb.WriteString("Status codes:\n")
	}
	for _, code := range codes {
		count := r.StatusCodes[code]
		fmt.Fprintf(&sb, "  %d: %d (%.1f%%)\n", code, count, float64(count)/float64(r.Succeeded)*100)
	}
	return sb.String()
}

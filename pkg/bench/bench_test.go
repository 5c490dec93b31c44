package bench

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/blackcoderx/ferrapi/pkg/storage"
	"github.com/blackcoderx/ferrapi/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_Validate(t *testing.T) {
	valid := Options{Duration: time.Second, Rate: 1, Concurrency: 1}
	assert.NoError(t, valid.Validate())

	for name, opts := range map[string]Options{
		"duration":    {Rate: 1, Concurrency: 1},
		"rate":        {Duration: time.Second, Concurrency: 1},
		"concurrency": {Duration: time.Second, Rate: 1},
		"requests":    {Duration: time.Second, Rate: 1, Concurrency: 1, Requests: -1},
		"ramp-up":     {Duration: time.Second, Rate: 1, Concurrency: 1, RampUp: -time.Second},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, opts.Validate())
		})
	}
}

func TestRun_AgainstServer(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1)%5 == 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d := &storage.RequestDescriptor{Method: storage.MethodGet, URL: server.URL}
	result, err := Run(context.Background(), transport.NewHTTPClient(time.Second), d, Options{
		Duration:    10 * time.Second,
		Rate:        1000,
		Concurrency: 4,
		Requests:    20,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(20), result.Total)
	assert.Equal(t, int64(20), result.Succeeded)
	assert.Zero(t, result.Failed)
	assert.Equal(t, int64(16), result.StatusCodes[http.StatusOK])
	assert.Equal(t, int64(4), result.StatusCodes[http.StatusServiceUnavailable])
	assert.LessOrEqual(t, result.Min, result.P50)
	assert.LessOrEqual(t, result.P50, result.P99)
	assert.LessOrEqual(t, result.P99, result.Max)
	assert.Contains(t, result.Format(), "503: 4 (20.0%)")
}

type failingTransport struct{}

func (failingTransport) Do(context.Context, *storage.RequestDescriptor) (*transport.Response, error) {
	return nil, errors.New("connection refused")
}

func TestRun_CountsFailures(t *testing.T) {
	result, err := Run(context.Background(), failingTransport{}, &storage.RequestDescriptor{}, Options{
		Duration:    10 * time.Second,
		Rate:        1000,
		Concurrency: 2,
		Requests:    10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), result.Failed)
	assert.Equal(t, float64(100), result.ErrorRate)
	assert.Zero(t, result.P99)
}

func TestPercentileIndex(t *testing.T) {
	assert.Equal(t, 0, percentileIndex(0, 50))
	assert.Equal(t, 0, percentileIndex(1, 99))
	assert.Equal(t, 49, percentileIndex(100, 50))
	assert.Equal(t, 94, percentileIndex(100, 95))
	assert.Equal(t, 9, percentileIndex(10, 99))
}

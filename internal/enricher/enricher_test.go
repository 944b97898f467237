package enricher

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yongpei/internal/failure"
	"yongpei/internal/models"
)

type fakeFetcher struct {
	fail     map[string]error
	inFlight atomic.Int32
	peak     atomic.Int32
	mu       sync.Mutex
	starts   []time.Time
}

func (f *fakeFetcher) FetchDetail(ctx context.Context, vendorID string) (*models.Detail, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)

	for {
		peak := f.peak.Load()
		if n <= peak || f.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	f.mu.Lock()
	f.starts = append(f.starts, time.Now())
	f.mu.Unlock()

	time.Sleep(5 * time.Millisecond)

	if err, ok := f.fail[vendorID]; ok {
		return nil, err
	}

	return &models.Detail{AName: "detail " + vendorID}, nil
}

type emptyFetcher struct{}

func (emptyFetcher) FetchDetail(_ context.Context, vendorID string) (*models.Detail, error) {
	if vendorID == "2" {
		return nil, nil
	}

	return &models.Detail{}, nil
}

func products(n int) []models.Product {
	out := make([]models.Product, n)
	for i := range out {
		out[i] = models.Product{ID: i + 1, VendorID: strconv.Itoa(i + 1)}
	}

	return out
}

func TestEnrich_FailureIsIsolated(t *testing.T) {
	f := &fakeFetcher{fail: map[string]error{
		"7": fmt.Errorf("%w: boom", failure.ErrFetch),
	}}

	results, report := New(f, 4, 0).Enrich(context.Background(), products(10))

	require.Len(t, results, 10)
	assert.Equal(t, 10, report.Total)
	assert.Equal(t, 9, report.Succeeded)
	assert.Equal(t, 1, report.Failed)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, 7, report.Failures[0].ProductID)
	assert.Equal(t, failure.KindFetch, report.Failures[0].Kind)
	assert.Equal(t, Stage, report.Failures[0].Stage)

	details := Details(results)
	assert.Len(t, details, 9)
	assert.NotContains(t, details, 7)

	for id, d := range details {
		assert.Equal(t, id, d.ID)
		assert.Equal(t, strconv.Itoa(id), d.VendorID)
	}
}

func TestEnrich_ResultsInProductOrder(t *testing.T) {
	results, _ := New(&fakeFetcher{}, 0, 0).Enrich(context.Background(), products(6))

	for i, res := range results {
		assert.Equal(t, i+1, res.ProductID)
		require.NoError(t, res.Err)
		assert.Equal(t, "detail "+strconv.Itoa(i+1), res.Detail.AName)
	}
}

func TestEnrich_ConcurrencyLimit(t *testing.T) {
	f := &fakeFetcher{}

	New(f, 2, 0).Enrich(context.Background(), products(8))

	assert.LessOrEqual(t, f.peak.Load(), int32(2))
}

func TestEnrich_Delay(t *testing.T) {
	f := &fakeFetcher{}

	New(f, 0, 20*time.Millisecond).Enrich(context.Background(), products(3))

	require.Len(t, f.starts, 3)

	first, last := f.starts[0], f.starts[0]
	for _, s := range f.starts {
		if s.Before(first) {
			first = s
		}

		if s.After(last) {
			last = s
		}
	}

	// three starts paced 20ms apart span at least ~40ms
	assert.GreaterOrEqual(t, last.Sub(first), 35*time.Millisecond)
}

func TestEnrich_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, report := New(&fakeFetcher{}, 1, time.Hour).Enrich(ctx, products(3))

	assert.Len(t, results, 3)
	assert.Equal(t, 3, report.Failed)

	for _, res := range results {
		assert.True(t, errors.Is(res.Err, context.Canceled), "got %v", res.Err)
	}
}

func TestEnrich_Empty(t *testing.T) {
	results, report := New(&fakeFetcher{}, 1, 0).Enrich(context.Background(), nil)

	assert.Empty(t, results)
	assert.Equal(t, models.EnrichSummary{}, report.Summary())
}

func TestEnrich_NilDetailIsItemFailure(t *testing.T) {
	results, report := New(emptyFetcher{}, 2, 0).Enrich(context.Background(), products(3))

	require.Len(t, results, 3)
	assert.Equal(t, 2, report.Succeeded)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, 2, report.Failures[0].ProductID)
	assert.Equal(t, failure.KindDecode, report.Failures[0].Kind)
	assert.ErrorIs(t, results[1].Err, ErrEmptyDetail)
	assert.Nil(t, results[1].Detail)
}

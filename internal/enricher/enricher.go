// Package enricher fetches per-product detail payloads. Each product gets its
// own Result; one product's failure never affects the others.
package enricher

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"yongpei/internal/failure"
	"yongpei/internal/logger"
	"yongpei/internal/models"
)

// Stage is the report label for enrichment failures.
const Stage = "enrich"

// ErrEmptyDetail is returned for a fetch that reported neither a detail nor an error.
var ErrEmptyDetail = fmt.Errorf("%w: empty detail", failure.ErrDecode)

// DetailFetcher fetches one product's detail by vendor id.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, vendorID string) (*models.Detail, error)
}

// Result is the outcome of one product's enrichment. Exactly one of Detail
// and Err is set.
type Result struct {
	Detail    *models.Detail
	Err       error
	ProductID int
}

// Report aggregates the results of one Enrich call.
type Report struct {
	Failures  []models.ItemFailure
	Total     int
	Succeeded int
	Failed    int
}

// Summary returns the counts for the build report.
func (r Report) Summary() models.EnrichSummary {
	return models.EnrichSummary{
		Total:     r.Total,
		Succeeded: r.Succeeded,
		Failed:    r.Failed,
	}
}

// Enricher fans detail requests out over a bounded worker group.
type Enricher struct {
	fetcher     DetailFetcher
	limiter     *rate.Limiter
	log         *logger.Logger
	concurrency int
}

// Option customizes an Enricher.
type Option func(*Enricher)

// WithLogger sets the logger used for per-item failures.
func WithLogger(log *logger.Logger) Option {
	return func(e *Enricher) {
		e.log = log
	}
}

// New creates an enricher. concurrency bounds in-flight requests (0 means
// unbounded); delay is the minimum spacing between request starts.
func New(fetcher DetailFetcher, concurrency int, delay time.Duration, opts ...Option) *Enricher {
	e := &Enricher{
		fetcher:     fetcher,
		concurrency: concurrency,
		log:         logger.Discard(),
	}

	if delay > 0 {
		e.limiter = rate.NewLimiter(rate.Every(delay), 1)
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Enrich fetches details for all products and waits for every outcome.
// Results are in product order.
func (e *Enricher) Enrich(ctx context.Context, products []models.Product) ([]Result, Report) {
	results := make([]Result, len(products))

	// plain Group: a failed item must not cancel its siblings
	var g errgroup.Group
	if e.concurrency > 0 {
		g.SetLimit(e.concurrency)
	}

	for i, product := range products {
		g.Go(func() error {
			results[i] = e.enrichOne(ctx, product)

			return nil
		})
	}

	_ = g.Wait()

	report := Report{Total: len(results)}

	for _, res := range results {
		if res.Err != nil {
			report.Failed++
			report.Failures = append(report.Failures, models.ItemFailure{
				Stage:     Stage,
				Kind:      failure.Kind(res.Err),
				Error:     res.Err.Error(),
				ProductID: res.ProductID,
			})

			continue
		}

		report.Succeeded++
	}

	return results, report
}

func (e *Enricher) enrichOne(ctx context.Context, product models.Product) Result {
	res := Result{ProductID: product.ID}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			res.Err = fmt.Errorf("%w: waiting for request slot: %w", failure.ErrFetch, err)
			e.logFailure(product, res.Err)

			return res
		}
	}

	detail, err := e.fetcher.FetchDetail(ctx, product.VendorID)
	if err == nil && detail == nil {
		err = fmt.Errorf("%w: vendor id %s", ErrEmptyDetail, product.VendorID)
	}

	if err != nil {
		res.Err = err
		e.logFailure(product, err)

		return res
	}

	detail.ID = product.ID
	if detail.VendorID == "" {
		detail.VendorID = product.VendorID
	}

	res.Detail = detail

	e.log.Debug("Detail fetched", "product_id", product.ID, "vendor_id", product.VendorID)

	return res
}

func (e *Enricher) logFailure(product models.Product, err error) {
	e.log.Warn("Skipping product detail",
		"product_id", product.ID,
		"vendor_id", product.VendorID,
		"kind", failure.Kind(err),
		"error", err,
	)
}

// Details indexes the successful results by product id.
func Details(results []Result) map[int]*models.Detail {
	out := make(map[int]*models.Detail, len(results))

	for _, res := range results {
		if res.Err == nil && res.Detail != nil {
			out[res.ProductID] = res.Detail
		}
	}

	return out
}

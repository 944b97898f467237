// Package build runs the site build: stage, fetch, normalize, enrich, emit.
package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"yongpei/internal/config"
	"yongpei/internal/emitter"
	"yongpei/internal/enricher"
	"yongpei/internal/formatter"
	"yongpei/internal/logger"
	"yongpei/internal/metrics"
	"yongpei/internal/models"
	"yongpei/internal/normalizer"
	"yongpei/internal/staging"
)

// CatalogSource provides the raw vendor catalog.
type CatalogSource interface {
	FetchCatalog(ctx context.Context) ([]byte, error)
}

// Data is everything fetched for one run.
type Data struct {
	Catalog *models.Catalog
	Details map[int]*models.Detail
	Raw     []byte
	Enrich  enricher.Report
}

// DetailList returns the details ordered by product id.
func (d *Data) DetailList() []*models.Detail {
	out := make([]*models.Detail, 0, len(d.Details))
	for _, detail := range d.Details {
		out = append(out, detail)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// Pipeline wires the build stages together.
type Pipeline struct {
	cfg      *config.Config
	source   CatalogSource
	details  enricher.DetailFetcher
	log      *logger.Logger
	metrics  *metrics.Recorder
	newRunID func() string
	noPacing bool
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the run logger.
func WithLogger(log *logger.Logger) Option {
	return func(p *Pipeline) {
		p.log = log
	}
}

// WithMetrics records page and duration metrics on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(p *Pipeline) {
		p.metrics = r
	}
}

// WithRunID replaces the run id generator.
func WithRunID(fn func() string) Option {
	return func(p *Pipeline) {
		p.newRunID = fn
	}
}

// WithoutPacing drops the delay between detail requests. Use it when the
// detail fetcher is local, e.g. a snapshot.
func WithoutPacing() Option {
	return func(p *Pipeline) {
		p.noPacing = true
	}
}

// New creates a pipeline. details may be nil to build from listing data only.
func New(cfg *config.Config, source CatalogSource, details enricher.DetailFetcher, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:      cfg,
		source:   source,
		details:  details,
		log:      logger.Discard(),
		newRunID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Collect fetches and normalizes the catalog, then enriches it when a
// detail fetcher is set and enrichment is enabled.
func (p *Pipeline) Collect(ctx context.Context) (*Data, error) {
	return p.collect(ctx, p.log)
}

func (p *Pipeline) collect(ctx context.Context, log *logger.Logger) (*Data, error) {
	log.Info("Fetching catalog")

	raw, err := p.source.FetchCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("catalog fetch failed: %w", err)
	}

	catalog, err := normalizer.NewProcessor(p.cfg.Catalog.IDStrategy).Process(raw)
	if err != nil {
		return nil, fmt.Errorf("catalog normalization failed: %w", err)
	}

	log.Info("Catalog normalized", "categories", len(catalog.Categories), "products", len(catalog.Products))

	for _, skipped := range catalog.Skipped {
		log.Warn("Catalog record skipped", "kind", skipped.Kind, "error", skipped.Error)
	}

	data := &Data{Raw: raw, Catalog: catalog, Details: map[int]*models.Detail{}}

	if p.details == nil || !p.cfg.Enrich.Enabled {
		log.Info("Skipping detail enrichment")

		return data, nil
	}

	delay := p.cfg.Enrich.Delay()
	if p.noPacing {
		delay = 0
	}

	e := enricher.New(p.details, p.cfg.Enrich.Concurrency, delay, enricher.WithLogger(log))

	results, report := e.Enrich(ctx, catalog.Products)
	data.Details = enricher.Details(results)
	data.Enrich = report

	log.Info("Details fetched", "succeeded", report.Succeeded, "failed", report.Failed)

	return data, nil
}

// Run performs a full build. Staging, catalog and template failures abort
// the run; item failures are listed in the returned report.
func (p *Pipeline) Run(ctx context.Context) (*models.BuildReport, error) {
	start := time.Now()
	report := &models.BuildReport{
		RunID:     p.newRunID(),
		StartedAt: start,
		Pages:     map[string]int{},
	}

	log := p.log.With("run_id", report.RunID)

	if _, err := staging.New(p.cfg.Site, log).Stage(); err != nil {
		return report, fmt.Errorf("staging failed: %w", err)
	}

	site, err := emitter.LoadSite(p.cfg.Site)
	if err != nil {
		return report, fmt.Errorf("template load failed: %w", err)
	}

	data, err := p.collect(ctx, log)
	if err != nil {
		return report, err
	}

	report.Products = len(data.Catalog.Products)
	report.Enrich = data.Enrich.Summary()
	report.Failures = append(report.Failures, data.Catalog.Skipped...)
	report.Failures = append(report.Failures, data.Enrich.Failures...)

	log.Info("Generating pages", "dir", p.cfg.Site.BuildDir)

	em := emitter.New(site, p.cfg.Site, emitter.WithLogger(log), emitter.WithMetrics(p.metrics))

	emitted, err := em.Emit(ctx, data.Catalog, data.Details)
	if emitted != nil {
		report.Pages = emitted.Pages
		report.Failures = append(report.Failures, emitted.Failures...)
	}

	if err != nil {
		return report, fmt.Errorf("page generation failed: %w", err)
	}

	report.Categories = summarize(data.Catalog, data.Details)
	report.Duration = time.Since(start)

	p.metrics.Finish(report.Duration, len(data.Details))
	p.writeOutputs(log, report)

	log.Info("Build finished",
		"pages", emitted.Written(),
		"failures", len(report.Failures),
		"duration", report.Duration.Round(time.Millisecond),
	)

	return report, nil
}

// writeOutputs writes the optional report and metrics files. Failures here
// do not fail the build.
func (p *Pipeline) writeOutputs(log *logger.Logger, report *models.BuildReport) {
	if path := p.cfg.Report.Path; path != "" {
		if err := writeReport(path, report); err != nil {
			log.Warn("Failed to write build report", "path", path, "error", err)
		}
	}

	if err := p.metrics.WriteTextfile(p.cfg.Metrics.Textfile); err != nil {
		log.Warn("Failed to write metrics", "path", p.cfg.Metrics.Textfile, "error", err)
	}
}

func writeReport(path string, report *models.BuildReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(formatter.FormatReport(report)), 0644)
}

func summarize(catalog *models.Catalog, details map[int]*models.Detail) []models.CategorySummary {
	out := make([]models.CategorySummary, 0, len(catalog.Categories))

	for _, category := range catalog.Categories {
		summary := models.CategorySummary{ID: category.ID, Name: category.Name}

		for _, p := range catalog.ProductsIn(category.ID) {
			summary.Products++

			if details[p.ID] != nil {
				summary.Enriched++
			}
		}

		out = append(out, summary)
	}

	return out
}
